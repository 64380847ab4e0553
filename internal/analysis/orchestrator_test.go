package analysis

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "go-produce-analyzer/internal/errors"
	"go-produce-analyzer/internal/locale"
	"go-produce-analyzer/internal/provider"
)

// fakeProvider returns canned replies per analysis kind, optionally
// failing a number of times first
type fakeProvider struct {
	mu      sync.Mutex
	calls   map[Kind]int
	replies map[Kind]string
	errs    map[Kind][]error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		calls: map[Kind]int{},
		replies: map[Kind]string{
			KindClassification: `{"fruit_type":"mango","variety":"Kent","confidence":95,"notes":"smooth skin"}`,
			KindRipeness:       `{"ripeness_stage":"ripe","confidence":90,"color_description":"yellow","recommendation":"eat today","days_to_optimal":null}`,
			KindDisease:        `{"is_diseased":false,"diseases_detected":[],"confidence":85,"severity":null}`,
		},
		errs: map[Kind][]error{},
	}
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Analyze(ctx context.Context, instruction string, image []byte, contentType string) (string, error) {
	kind := kindForInstruction(instruction)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[kind]++
	if pending := f.errs[kind]; len(pending) > 0 {
		err := pending[0]
		f.errs[kind] = pending[1:]
		return "", err
	}
	return f.replies[kind], nil
}

func kindForInstruction(instruction string) Kind {
	switch {
	case strings.Contains(instruction, "identification"):
		return KindClassification
	case strings.Contains(instruction, "ripeness"):
		return KindRipeness
	case strings.Contains(instruction, "pathologist"):
		return KindDisease
	}
	return Kind("unknown")
}

func testRequest() Request {
	return Request{
		Image:       []byte("not-a-real-jpeg"),
		ContentType: "image/jpeg",
		Language:    locale.English,
	}
}

func newTestOrchestrator(p Provider) *Orchestrator {
	return NewOrchestrator(p, false, time.Second)
}

func TestFullAnalysis_HappyPath(t *testing.T) {
	fake := newFakeProvider()
	o := newTestOrchestrator(fake)

	report := o.FullAnalysis(context.Background(), testRequest())

	require.Equal(t, locale.English, report.Language)
	require.Equal(t, ModeOnline, report.AnalysisMode)
	require.Equal(t, "mango", report.Classification.FruitType)
	require.NotNil(t, report.Ripeness)
	require.Equal(t, StageRipe, report.Ripeness.Stage)
	require.NotNil(t, report.Disease)
	require.False(t, report.Disease.IsDiseased)
	require.Equal(t, ActionBuy, report.Recommendation.Action)

	require.Equal(t, 1, fake.calls[KindClassification])
	require.Equal(t, 1, fake.calls[KindRipeness])
	require.Equal(t, 1, fake.calls[KindDisease])
}

func TestFullAnalysis_ShortCircuitsWhenNotProduce(t *testing.T) {
	fake := newFakeProvider()
	fake.replies[KindClassification] = `{"fruit_type": "", "confidence": 10}`
	o := newTestOrchestrator(fake)

	report := o.FullAnalysis(context.Background(), testRequest())

	require.Nil(t, report.Ripeness)
	require.Nil(t, report.Disease)
	require.Equal(t, ActionAvoid, report.Recommendation.Action)
	require.Zero(t, fake.calls[KindRipeness])
	require.Zero(t, fake.calls[KindDisease])
}

func TestFullAnalysis_UnknownSentinelShortCircuits(t *testing.T) {
	fake := newFakeProvider()
	fake.replies[KindClassification] = `{"fruit_type":"unknown","confidence":40}`
	o := newTestOrchestrator(fake)

	report := o.FullAnalysis(context.Background(), testRequest())

	require.Nil(t, report.Ripeness)
	require.Equal(t, ActionAvoid, report.Recommendation.Action)
}

func TestFullAnalysis_TransientFailureRetriedOnce(t *testing.T) {
	fake := newFakeProvider()
	fake.errs[KindClassification] = []error{
		apperrors.NewProviderTransientError("timeout", nil),
	}
	o := newTestOrchestrator(fake)

	report := o.FullAnalysis(context.Background(), testRequest())

	// First call fails transiently, retry succeeds
	require.Equal(t, 2, fake.calls[KindClassification])
	require.Equal(t, "mango", report.Classification.FruitType)
}

func TestFullAnalysis_TransientFailureTwiceDegrades(t *testing.T) {
	fake := newFakeProvider()
	fake.errs[KindRipeness] = []error{
		apperrors.NewProviderTransientError("timeout", nil),
		apperrors.NewProviderTransientError("timeout", nil),
	}
	o := newTestOrchestrator(fake)

	report := o.FullAnalysis(context.Background(), testRequest())

	require.Equal(t, 2, fake.calls[KindRipeness])
	require.NotNil(t, report.Ripeness)
	require.Equal(t, StageUnknown, report.Ripeness.Stage)
	require.Zero(t, report.Ripeness.Confidence)
	// Disease ran independently and still contributed
	require.NotNil(t, report.Disease)
	require.Equal(t, 85, report.Disease.Confidence)
}

func TestFullAnalysis_MalformedReplyNotRetried(t *testing.T) {
	fake := newFakeProvider()
	fake.replies[KindRipeness] = "the fruit looks quite ripe to me"
	o := newTestOrchestrator(fake)

	report := o.FullAnalysis(context.Background(), testRequest())

	// No retry for malformed responses
	require.Equal(t, 1, fake.calls[KindRipeness])
	require.Equal(t, StageUnknown, report.Ripeness.Stage)
	require.Zero(t, report.Ripeness.Confidence)
	// The degraded kind must not abort the request
	require.Equal(t, "mango", report.Classification.FruitType)
	require.Equal(t, ActionInspect, report.Recommendation.Action)
}

func TestFullAnalysis_SpoiledDominates(t *testing.T) {
	fake := newFakeProvider()
	fake.replies[KindRipeness] = `{"ripeness_stage":"spoiled","confidence":92}`
	o := newTestOrchestrator(fake)

	report := o.FullAnalysis(context.Background(), testRequest())

	require.Equal(t, ActionAvoid, report.Recommendation.Action)
}

func TestFullAnalysis_SevereDiseaseBeatsRipe(t *testing.T) {
	fake := newFakeProvider()
	fake.replies[KindDisease] = `{"is_diseased":true,"diseases_detected":["Anthracnose"],"confidence":88,"severity":"high"}`
	o := newTestOrchestrator(fake)

	report := o.FullAnalysis(context.Background(), testRequest())

	require.Equal(t, StageRipe, report.Ripeness.Stage)
	require.Equal(t, ActionAvoid, report.Recommendation.Action)
}

func TestFullAnalysis_OfflineMode(t *testing.T) {
	o := NewOrchestrator(provider.NewOffline(), true, time.Second)

	report := o.FullAnalysis(context.Background(), testRequest())

	require.Equal(t, ModeOffline, report.AnalysisMode)
	require.Nil(t, report.Ripeness)
	require.Nil(t, report.Disease)
	require.Zero(t, report.Classification.Confidence)
	require.Equal(t, ActionInspect, report.Recommendation.Action)
	require.Equal(t, locale.Localize(locale.KeyOffline, locale.English), report.Recommendation.Message)
}

func TestClassify_SingleKind(t *testing.T) {
	fake := newFakeProvider()
	o := newTestOrchestrator(fake)

	result, err := o.Classify(context.Background(), testRequest())
	require.NoError(t, err)
	require.Equal(t, "mango", result.FruitType)
	require.NotNil(t, result.Variety)
	require.Equal(t, "Kent", *result.Variety)
	require.Zero(t, fake.calls[KindRipeness])
}
