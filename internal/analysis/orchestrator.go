package analysis

import (
	"context"
	"sync"
	"time"

	apperrors "go-produce-analyzer/internal/errors"
	"go-produce-analyzer/internal/logger"

	"github.com/sirupsen/logrus"
)

// Provider is the boundary to the external vision-language inference
// service. It accepts an instruction plus image bytes and returns the
// model's free-text reply, which may or may not be valid JSON.
type Provider interface {
	Name() string
	Analyze(ctx context.Context, instruction string, image []byte, contentType string) (string, error)
}

// Analysis modes reported in the aggregate report
const (
	ModeOnline  = "online"
	ModeOffline = "offline"
)

// Orchestrator sequences the three analysis kinds against the provider
// and aggregates their results. Classification runs first; when it does
// not recognize produce the remaining kinds are skipped. Ripeness and
// disease are independent of each other and run concurrently.
type Orchestrator struct {
	provider    Provider
	mode        string
	callTimeout time.Duration
}

func NewOrchestrator(provider Provider, offline bool, callTimeout time.Duration) *Orchestrator {
	mode := ModeOnline
	if offline {
		mode = ModeOffline
	}
	return &Orchestrator{
		provider:    provider,
		mode:        mode,
		callTimeout: callTimeout,
	}
}

// Mode returns the analysis mode label (online or offline)
func (o *Orchestrator) Mode() string {
	return o.mode
}

// FullAnalysis runs the complete pipeline and always returns a fully
// shaped report. Failures in one analysis kind degrade that kind's
// contribution but never abort the others.
func (o *Orchestrator) FullAnalysis(ctx context.Context, req Request) Report {
	report := Report{
		Language:     req.Language,
		AnalysisMode: o.mode,
	}

	classification, err := o.Classify(ctx, req)
	if err != nil {
		o.logDegraded(KindClassification, err)
		classification = degradedClassification()
	}
	report.Classification = classification

	if !classification.IsProduce() {
		// Not recognizable produce (or no classification at all):
		// skip the remaining kinds
		if err != nil && o.mode == ModeOffline {
			report.Recommendation = Unavailable(req.Language)
		} else {
			report.Recommendation = NotProduce(req.Language)
		}
		return report
	}

	var (
		wg       sync.WaitGroup
		ripeness RipenessResult
		disease  DiseaseResult
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		r, err := o.AssessRipeness(ctx, req)
		if err != nil {
			o.logDegraded(KindRipeness, err)
			r = degradedRipeness()
		}
		ripeness = r
	}()
	go func() {
		defer wg.Done()
		d, err := o.DetectDisease(ctx, req)
		if err != nil {
			o.logDegraded(KindDisease, err)
			d = degradedDisease()
		}
		disease = d
	}()
	wg.Wait()

	report.Ripeness = &ripeness
	report.Disease = &disease
	report.Recommendation = Compose(ripeness, disease, req.Language)
	return report
}

// Classify runs the classification kind only
func (o *Orchestrator) Classify(ctx context.Context, req Request) (ClassificationResult, error) {
	reply, err := o.callProvider(ctx, KindClassification, req)
	if err != nil {
		return degradedClassification(), err
	}
	return NormalizeClassification(reply)
}

// AssessRipeness runs the ripeness kind only
func (o *Orchestrator) AssessRipeness(ctx context.Context, req Request) (RipenessResult, error) {
	reply, err := o.callProvider(ctx, KindRipeness, req)
	if err != nil {
		return degradedRipeness(), err
	}
	return NormalizeRipeness(reply)
}

// DetectDisease runs the disease kind only
func (o *Orchestrator) DetectDisease(ctx context.Context, req Request) (DiseaseResult, error) {
	reply, err := o.callProvider(ctx, KindDisease, req)
	if err != nil {
		return degradedDisease(), err
	}
	return NormalizeDisease(reply)
}

// callProvider performs one provider call with a bounded timeout and a
// single retry on transient failures. Malformed-response and policy
// failures are never retried.
func (o *Orchestrator) callProvider(ctx context.Context, kind Kind, req Request) (string, error) {
	instruction := PromptFor(kind)

	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	reply, err := o.provider.Analyze(callCtx, instruction, req.Image, req.ContentType)
	cancel()
	if err == nil || !apperrors.IsRetryable(err) || ctx.Err() != nil {
		return reply, err
	}

	logger.WithError(err).WithFields(logrus.Fields{
		"kind":     string(kind),
		"provider": o.provider.Name(),
	}).Warn("Transient provider failure, retrying once")

	callCtx, cancel = context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	return o.provider.Analyze(callCtx, instruction, req.Image, req.ContentType)
}

func (o *Orchestrator) logDegraded(kind Kind, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"kind":     string(kind),
		"provider": o.provider.Name(),
	}).Warn("Analysis kind degraded to default record")
}
