package analysis

import (
	"reflect"
	"testing"

	"go-produce-analyzer/internal/locale"
)

func severity(s Severity) *Severity { return &s }

func TestCompose_DecisionTable(t *testing.T) {
	tests := []struct {
		name       string
		stage      Stage
		diseased   bool
		severity   *Severity
		wantAction Action
	}{
		{"spoiled dominates healthy", StageSpoiled, false, nil, ActionAvoid},
		{"spoiled dominates severe disease", StageSpoiled, true, severity(SeverityHigh), ActionAvoid},
		{"severe disease on ripe fruit", StageRipe, true, severity(SeverityHigh), ActionAvoid},
		{"medium disease", StageRipe, true, severity(SeverityMedium), ActionInspect},
		{"low disease", StageUnderripe, true, severity(SeverityLow), ActionInspect},
		{"diseased without severity", StageRipe, true, nil, ActionInspect},
		{"overripe healthy", StageOverripe, false, nil, ActionInspect},
		{"ripe healthy", StageRipe, false, nil, ActionBuy},
		{"underripe healthy", StageUnderripe, false, nil, ActionInspect},
		{"unknown stage", StageUnknown, false, nil, ActionInspect},
		{"unknown stage with low disease", StageUnknown, true, severity(SeverityLow), ActionInspect},
		{"unknown stage with severe disease", StageUnknown, true, severity(SeverityHigh), ActionAvoid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ripeness := RipenessResult{Stage: tt.stage, Confidence: 80}
			disease := DiseaseResult{
				IsDiseased:       tt.diseased,
				Severity:         tt.severity,
				DiseasesDetected: []string{},
				Confidence:       80,
			}

			rec := Compose(ripeness, disease, locale.English)
			if rec.Action != tt.wantAction {
				t.Errorf("action = %q, want %q", rec.Action, tt.wantAction)
			}
			if rec.Message == "" {
				t.Error("message must not be empty")
			}
			if rec.Reason == "" {
				t.Error("reason must not be empty")
			}
		})
	}
}

func TestCompose_Idempotent(t *testing.T) {
	ripeness := RipenessResult{Stage: StageOverripe, Confidence: 77}
	disease := DiseaseResult{IsDiseased: true, Severity: severity(SeverityLow), DiseasesDetected: []string{"bruising"}}

	first := Compose(ripeness, disease, locale.Hausa)
	second := Compose(ripeness, disease, locale.Hausa)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Compose is not idempotent: %+v vs %+v", first, second)
	}
}

func TestCompose_DiseaseReasonListsDetections(t *testing.T) {
	disease := DiseaseResult{
		IsDiseased:       true,
		Severity:         severity(SeverityHigh),
		DiseasesDetected: []string{"Anthracnose", "Bacterial spots"},
	}
	rec := Compose(RipenessResult{Stage: StageRipe}, disease, locale.English)
	if rec.Reason != "Severe disease detected: Anthracnose, Bacterial spots" {
		t.Errorf("reason = %q", rec.Reason)
	}
}

func TestCompose_LocalizedMessages(t *testing.T) {
	ripeness := RipenessResult{Stage: StageRipe}
	disease := DiseaseResult{}

	en := Compose(ripeness, disease, locale.English)
	yo := Compose(ripeness, disease, locale.Yoruba)
	if en.Message == yo.Message {
		t.Errorf("expected different localized messages, both %q", en.Message)
	}
	if en.Action != yo.Action {
		t.Error("action must not depend on language")
	}
}

func TestCompose_UnderripeWithDays(t *testing.T) {
	days := 4
	rec := Compose(RipenessResult{Stage: StageUnderripe, DaysToOptimal: &days}, DiseaseResult{}, locale.English)
	if rec.Action != ActionInspect {
		t.Errorf("action = %q, want inspect", rec.Action)
	}
	if rec.Reason != "Wait approximately 4 days before eating" {
		t.Errorf("reason = %q", rec.Reason)
	}
}

func TestNotProduce(t *testing.T) {
	rec := NotProduce(locale.Igbo)
	if rec.Action != ActionAvoid {
		t.Errorf("action = %q, want avoid", rec.Action)
	}
	if rec.Message != locale.Localize(locale.KeyNotProduce, locale.Igbo) {
		t.Errorf("message = %q", rec.Message)
	}
}
