// Package validation checks request inputs at the transport boundary
// before they reach the analysis core.
package validation

import (
	"fmt"
	"net/http"
	"strings"

	apperrors "go-produce-analyzer/internal/errors"
	"go-produce-analyzer/internal/locale"
)

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// Language validates a raw language code, applying the configured
// default when the field is absent. Unrecognized codes fail fast;
// they must not reach the core.
func Language(raw, fallback string) (locale.Language, error) {
	code := strings.TrimSpace(raw)
	if code == "" {
		code = fallback
	}
	lang, err := locale.Parse(code)
	if err != nil {
		return "", apperrors.NewValidationError(err.Error(), nil)
	}
	return lang, nil
}

// Image validates uploaded image bytes and resolves their content
// type. The declared type is trusted only when it agrees with the
// sniffed bytes; otherwise sniffing wins.
func Image(data []byte, declared string) (string, error) {
	if len(data) == 0 {
		return "", apperrors.NewValidationError("empty image upload", nil)
	}

	sniffed := http.DetectContentType(data)
	contentType := sniffed
	if declared != "" && declared == sniffed {
		contentType = declared
	}

	if _, ok := allowedImageTypes[contentType]; !ok {
		return "", apperrors.NewValidationError(
			fmt.Sprintf("unsupported image type %q (use JPEG, PNG or WebP)", contentType), nil)
	}
	return contentType, nil
}
