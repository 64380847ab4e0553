package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-produce-analyzer/internal/analysis"
	apperrors "go-produce-analyzer/internal/errors"
	"go-produce-analyzer/internal/observer"
	"go-produce-analyzer/internal/repository"
)

// jpegImage carries a real JPEG signature so upload validation passes
var jpegImage = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 32)...)

type cannedProvider struct {
	mu      sync.Mutex
	replies map[string]string
}

func newCannedProvider() *cannedProvider {
	return &cannedProvider{replies: map[string]string{
		"identification": `{"fruit_type":"tomato","variety":"Roma","confidence":92,"notes":"red, firm"}`,
		"ripeness":       `{"ripeness_stage":"ripe","confidence":88,"color_description":"deep red","recommendation":"eat soon"}`,
		"pathologist":    `{"is_diseased":false,"diseases_detected":[],"confidence":80,"severity":null}`,
	}}
}

func (p *cannedProvider) Name() string { return "canned" }

func (p *cannedProvider) Analyze(ctx context.Context, instruction string, image []byte, contentType string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for marker, reply := range p.replies {
		if strings.Contains(instruction, marker) {
			return reply, nil
		}
	}
	return "", apperrors.NewInternalError("unrecognized instruction", nil)
}

type fakeImageRepo struct {
	data        []byte
	contentType string
	err         error
}

func (r *fakeImageRepo) FetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	if r.err != nil {
		return nil, "", r.err
	}
	return r.data, r.contentType, nil
}

func (r *fakeImageRepo) ValidateImageURL(imageURL string) error { return r.err }

type recordingObserver struct {
	mu     sync.Mutex
	events []observer.AnalysisEvent
}

func (o *recordingObserver) OnEvent(ctx context.Context, event observer.AnalysisEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) GetObserverName() string { return "recording_observer" }

func (o *recordingObserver) typesSeen() []observer.EventType {
	o.mu.Lock()
	defer o.mu.Unlock()
	types := make([]observer.EventType, 0, len(o.events))
	for _, e := range o.events {
		types = append(types, e.EventType)
	}
	return types
}

type fixture struct {
	svc      ProduceAnalysisService
	provider *cannedProvider
	repo     *fakeImageRepo
	recorder *recordingObserver
	metrics  *observer.MetricsObserver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	provider := newCannedProvider()
	repo := &fakeImageRepo{data: jpegImage, contentType: "image/jpeg"}
	recorder := &recordingObserver{}
	metrics := observer.NewMetricsObserver()

	bus := observer.NewEventBus()
	bus.Subscribe(recorder)
	bus.Subscribe(metrics)

	orch := analysis.NewOrchestrator(provider, false, time.Second)
	return &fixture{
		svc:      NewProduceAnalysisService(orch, repo, bus, "en"),
		provider: provider,
		repo:     repo,
		recorder: recorder,
		metrics:  metrics,
	}
}

func TestAnalyzeUpload_FullReport(t *testing.T) {
	f := newFixture(t)

	report, err := f.svc.AnalyzeUpload(context.Background(), jpegImage, "image/jpeg", "en")
	require.NoError(t, err)
	require.Equal(t, "tomato", report.Classification.FruitType)
	require.NotNil(t, report.Ripeness)
	require.Equal(t, analysis.ActionBuy, report.Recommendation.Action)

	types := f.recorder.typesSeen()
	require.Contains(t, types, observer.AnalysisStarted)
	require.Contains(t, types, observer.ReportComposed)
	require.NotContains(t, types, observer.AnalysisDegraded)

	m := f.metrics.GetMetrics()
	require.EqualValues(t, 1, m["total_analyses"])
	require.EqualValues(t, 1, m["composed_reports"])
}

func TestAnalyzeUpload_RejectsUnknownLanguage(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AnalyzeUpload(context.Background(), jpegImage, "image/jpeg", "de")
	require.Error(t, err)
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	require.Empty(t, f.recorder.typesSeen())
}

func TestAnalyzeUpload_RejectsNonImagePayload(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AnalyzeUpload(context.Background(), []byte("definitely not an image"), "image/jpeg", "en")
	require.Error(t, err)
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestAnalyzeUpload_DegradedKindEmitsEvent(t *testing.T) {
	f := newFixture(t)
	f.provider.replies["ripeness"] = "sorry, I cannot tell"

	report, err := f.svc.AnalyzeUpload(context.Background(), jpegImage, "image/jpeg", "en")
	require.NoError(t, err)
	require.Equal(t, analysis.StageUnknown, report.Ripeness.Stage)

	require.Contains(t, f.recorder.typesSeen(), observer.AnalysisDegraded)
	m := f.metrics.GetMetrics()
	require.EqualValues(t, 1, m["degraded_kinds"])
}

func TestAnalyzeURL_FullReport(t *testing.T) {
	f := newFixture(t)

	report, err := f.svc.AnalyzeURL(context.Background(), "https://cdn.example.com/tomato.jpg", "yo")
	require.NoError(t, err)
	require.Equal(t, "tomato", report.Classification.FruitType)
	require.Equal(t, "yo", string(report.Language))

	require.Contains(t, f.recorder.typesSeen(), observer.ImageFetched)
}

func TestAnalyzeURL_InvalidURL(t *testing.T) {
	f := newFixture(t)
	f.repo.err = repository.ErrInvalidImageURL

	_, err := f.svc.AnalyzeURL(context.Background(), "not-a-url", "en")
	require.Error(t, err)
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	require.Contains(t, f.recorder.typesSeen(), observer.ImageFetchFailed)
}

func TestAnalyzeURL_FetchFailureIsTransient(t *testing.T) {
	f := newFixture(t)
	f.repo.err = errors.New("connection reset")

	_, err := f.svc.AnalyzeURL(context.Background(), "https://cdn.example.com/tomato.jpg", "en")
	require.Error(t, err)
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypeProviderTransient))
}

func TestClassify_SingleKindPassthrough(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.Classify(context.Background(), jpegImage, "image/jpeg", "")
	require.NoError(t, err)
	require.Equal(t, "tomato", result.FruitType)
	require.NotNil(t, result.Variety)
	require.Equal(t, "Roma", *result.Variety)
}

func TestDetectDisease_SingleKindPassthrough(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.DetectDisease(context.Background(), jpegImage, "image/jpeg", "ha")
	require.NoError(t, err)
	require.False(t, result.IsDiseased)
	require.NotNil(t, result.DiseasesDetected)
	require.Empty(t, result.DiseasesDetected)
}

func TestMode_ReflectsOrchestrator(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, analysis.ModeOnline, f.svc.Mode())
}
