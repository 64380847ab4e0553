package service

import (
	"context"
	"time"

	"go-produce-analyzer/internal/analysis"
	apperrors "go-produce-analyzer/internal/errors"
	"go-produce-analyzer/internal/observer"
	"go-produce-analyzer/internal/repository"
	"go-produce-analyzer/pkg/validation"
)

// ProduceAnalysisService is the application-level entry point: it
// validates inputs, acquires image bytes where needed, runs the
// analysis pipeline and publishes lifecycle events.
type ProduceAnalysisService interface {
	AnalyzeUpload(ctx context.Context, image []byte, declaredType, language string) (*analysis.Report, error)
	AnalyzeURL(ctx context.Context, imageURL, language string) (*analysis.Report, error)

	Classify(ctx context.Context, image []byte, declaredType, language string) (*analysis.ClassificationResult, error)
	AssessRipeness(ctx context.Context, image []byte, declaredType, language string) (*analysis.RipenessResult, error)
	DetectDisease(ctx context.Context, image []byte, declaredType, language string) (*analysis.DiseaseResult, error)

	Mode() string
}

type produceAnalysisService struct {
	orchestrator    *analysis.Orchestrator
	imageRepo       repository.ImageRepository
	events          observer.Subject
	defaultLanguage string
}

func NewProduceAnalysisService(
	orchestrator *analysis.Orchestrator,
	imageRepo repository.ImageRepository,
	events observer.Subject,
	defaultLanguage string,
) ProduceAnalysisService {
	return &produceAnalysisService{
		orchestrator:    orchestrator,
		imageRepo:       imageRepo,
		events:          events,
		defaultLanguage: defaultLanguage,
	}
}

func (s *produceAnalysisService) Mode() string {
	return s.orchestrator.Mode()
}

// AnalyzeUpload runs the full pipeline against uploaded image bytes
func (s *produceAnalysisService) AnalyzeUpload(ctx context.Context, image []byte, declaredType, language string) (*analysis.Report, error) {
	req, err := s.buildRequest(image, declaredType, language)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, req), nil
}

// AnalyzeURL fetches the image from an HTTP or blob URL, then runs the
// full pipeline
func (s *produceAnalysisService) AnalyzeURL(ctx context.Context, imageURL, language string) (*analysis.Report, error) {
	lang, err := validation.Language(language, s.defaultLanguage)
	if err != nil {
		return nil, err
	}

	data, contentType, err := s.imageRepo.FetchImage(ctx, imageURL)
	if err != nil {
		s.notify(ctx, observer.AnalysisEvent{
			EventType:    observer.ImageFetchFailed,
			Language:     string(lang),
			ErrorMessage: err.Error(),
			Metadata:     map[string]interface{}{"image_url": imageURL},
		})
		if err == repository.ErrInvalidImageURL {
			return nil, apperrors.NewValidationError("invalid image URL", err)
		}
		return nil, apperrors.NewProviderTransientError("failed to fetch image", err)
	}
	s.notify(ctx, observer.AnalysisEvent{
		EventType: observer.ImageFetched,
		Language:  string(lang),
		Success:   true,
		Metadata:  map[string]interface{}{"image_url": imageURL, "content_type": contentType},
	})

	req, err := s.buildRequest(data, contentType, language)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, req), nil
}

func (s *produceAnalysisService) Classify(ctx context.Context, image []byte, declaredType, language string) (*analysis.ClassificationResult, error) {
	req, err := s.buildRequest(image, declaredType, language)
	if err != nil {
		return nil, err
	}
	result, err := s.orchestrator.Classify(ctx, req)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *produceAnalysisService) AssessRipeness(ctx context.Context, image []byte, declaredType, language string) (*analysis.RipenessResult, error) {
	req, err := s.buildRequest(image, declaredType, language)
	if err != nil {
		return nil, err
	}
	result, err := s.orchestrator.AssessRipeness(ctx, req)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *produceAnalysisService) DetectDisease(ctx context.Context, image []byte, declaredType, language string) (*analysis.DiseaseResult, error) {
	req, err := s.buildRequest(image, declaredType, language)
	if err != nil {
		return nil, err
	}
	result, err := s.orchestrator.DetectDisease(ctx, req)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *produceAnalysisService) buildRequest(image []byte, declaredType, language string) (analysis.Request, error) {
	lang, err := validation.Language(language, s.defaultLanguage)
	if err != nil {
		return analysis.Request{}, err
	}
	contentType, err := validation.Image(image, declaredType)
	if err != nil {
		return analysis.Request{}, err
	}
	return analysis.Request{
		Image:       image,
		ContentType: contentType,
		Language:    lang,
	}, nil
}

func (s *produceAnalysisService) run(ctx context.Context, req analysis.Request) *analysis.Report {
	start := time.Now()
	s.notify(ctx, observer.AnalysisEvent{
		EventType: observer.AnalysisStarted,
		Language:  string(req.Language),
		Success:   true,
	})

	report := s.orchestrator.FullAnalysis(ctx, req)

	for _, kind := range degradedKinds(&report) {
		s.notify(ctx, observer.AnalysisEvent{
			EventType: observer.AnalysisDegraded,
			Language:  string(req.Language),
			Metadata:  map[string]interface{}{"kind": kind},
		})
	}

	s.notify(ctx, observer.AnalysisEvent{
		EventType:      observer.ReportComposed,
		Language:       string(req.Language),
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata: map[string]interface{}{
			"action":     string(report.Recommendation.Action),
			"fruit_type": report.Classification.FruitType,
			"mode":       report.AnalysisMode,
		},
	})
	return &report
}

// degradedKinds lists analysis kinds that fell back to their default
// records; confidence 0 with the unknown/empty marker is the signal.
func degradedKinds(report *analysis.Report) []string {
	var kinds []string
	if report.Classification.Confidence == 0 && report.Classification.FruitType == "" {
		kinds = append(kinds, string(analysis.KindClassification))
	}
	if report.Ripeness != nil && report.Ripeness.Confidence == 0 && report.Ripeness.Stage == analysis.StageUnknown {
		kinds = append(kinds, string(analysis.KindRipeness))
	}
	if report.Disease != nil && report.Disease.Confidence == 0 && !report.Disease.IsDiseased && report.Disease.Severity == nil && len(report.Disease.DiseasesDetected) == 0 {
		kinds = append(kinds, string(analysis.KindDisease))
	}
	return kinds
}

func (s *produceAnalysisService) notify(ctx context.Context, event observer.AnalysisEvent) {
	if s.events != nil {
		s.events.NotifyObservers(ctx, event)
	}
}
