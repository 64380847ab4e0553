package provider

import (
	"context"

	apperrors "go-produce-analyzer/internal/errors"
)

// Offline is the placeholder engine for deployments without network
// access to a provider. Every analysis kind degrades to its default
// record and the report carries analysis_mode "offline".
//
// TODO: replace with on-device TFLite/ONNX classifiers once the mobile
// models are exported.
type Offline struct{}

func NewOffline() *Offline { return &Offline{} }

func (e *Offline) Name() string { return "offline" }

func (e *Offline) Analyze(ctx context.Context, instruction string, image []byte, contentType string) (string, error) {
	return "", apperrors.NewConfigurationError("offline analysis not yet implemented", nil)
}
