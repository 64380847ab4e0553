package analysis

import "go-produce-analyzer/internal/locale"

// Kind identifies one of the three analysis passes run against an image
type Kind string

const (
	KindClassification Kind = "fruit_classification"
	KindRipeness       Kind = "ripeness"
	KindDisease        Kind = "disease"
)

// Stage is the ripeness stage reported by the provider
type Stage string

const (
	StageUnderripe Stage = "underripe"
	StageRipe      Stage = "ripe"
	StageOverripe  Stage = "overripe"
	StageSpoiled   Stage = "spoiled"
	StageUnknown   Stage = "unknown"
)

// Severity grades a detected disease
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Action is the recommendation outcome
type Action string

const (
	ActionBuy     Action = "buy"
	ActionAvoid   Action = "avoid"
	ActionInspect Action = "inspect"
)

// Request is the in-memory payload for one analysis call. It lives for
// the duration of the request and is never persisted.
type Request struct {
	Image       []byte
	ContentType string
	Language    locale.Language
}

// ClassificationResult identifies the produce in the image
type ClassificationResult struct {
	FruitType  string  `json:"fruit_type"`
	Variety    *string `json:"variety"`
	Confidence int     `json:"confidence"`
	Notes      string  `json:"notes"`
}

// IsProduce reports whether classification recognized the subject.
// An empty fruit_type or the provider's "unknown" sentinel means the
// image is not recognizable produce.
func (c ClassificationResult) IsProduce() bool {
	return c.FruitType != "" && c.FruitType != "unknown"
}

// RipenessResult describes the ripeness stage of the produce
type RipenessResult struct {
	Stage            Stage  `json:"ripeness_stage"`
	Confidence       int    `json:"confidence"`
	ColorDescription string `json:"color_description"`
	Recommendation   string `json:"recommendation"`
	DaysToOptimal    *int   `json:"days_to_optimal"`
}

// DiseaseResult describes diseases or defects found on the produce
type DiseaseResult struct {
	IsDiseased         bool      `json:"is_diseased"`
	DiseasesDetected   []string  `json:"diseases_detected"`
	Confidence         int       `json:"confidence"`
	Severity           *Severity `json:"severity"`
	Treatment          string    `json:"treatment,omitempty"`
	PreventiveMeasures string    `json:"preventive_measures,omitempty"`
}

// Recommendation is derived from ripeness and disease results, never
// constructed independently
type Recommendation struct {
	Action  Action `json:"action"`
	Message string `json:"message"`
	Reason  string `json:"reason"`
}

// Report aggregates the full analysis for one image. Ripeness and
// disease are nil when classification short-circuits.
type Report struct {
	Language       locale.Language       `json:"language"`
	AnalysisMode   string                `json:"analysis_mode"`
	Classification ClassificationResult  `json:"fruit_classification"`
	Ripeness       *RipenessResult       `json:"ripeness"`
	Disease        *DiseaseResult        `json:"disease"`
	Recommendation Recommendation        `json:"recommendation"`
}

// Degraded records carry documented defaults so the caller always sees
// a fully shaped report: confidence 0 and stage unknown are the signal
// that an analysis kind could not be completed.

func degradedClassification() ClassificationResult {
	return ClassificationResult{FruitType: "", Variety: nil, Confidence: 0, Notes: ""}
}

func degradedRipeness() RipenessResult {
	return RipenessResult{Stage: StageUnknown, Confidence: 0}
}

func degradedDisease() DiseaseResult {
	return DiseaseResult{IsDiseased: false, DiseasesDetected: []string{}, Confidence: 0, Severity: nil}
}
