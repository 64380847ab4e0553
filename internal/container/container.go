package container

import (
	"fmt"
	"net/http"

	"go-produce-analyzer/internal/analysis"
	"go-produce-analyzer/internal/config"
	"go-produce-analyzer/internal/logger"
	"go-produce-analyzer/internal/observer"
	"go-produce-analyzer/internal/provider"
	"go-produce-analyzer/internal/repository"
	"go-produce-analyzer/internal/service"
	"go-produce-analyzer/internal/storage"
	"go-produce-analyzer/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config       *config.Config
	engine       analysis.Provider
	orchestrator *analysis.Orchestrator
	imageRepo    repository.ImageRepository
	events       *observer.EventBus
	metrics      *observer.MetricsObserver
	service      service.ProduceAnalysisService
	handler      http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	engine, err := buildEngine(cfg)
	if err != nil {
		return nil, err
	}

	orchestrator := analysis.NewOrchestrator(engine, cfg.OfflineMode(), cfg.ProviderTimeout)

	// Image sources for URL-based analysis
	fetcher := storage.NewHTTPImageFetcher(cfg.MaxUploadSize, cfg.ImageFetchTimeout)
	var blobs storage.BlobStorage
	if cfg.AzureConfigured() {
		blobs, err = storage.NewAzureStorage(cfg.AzureStorageAccount, cfg.AzureStorageKey)
		if err != nil {
			return nil, fmt.Errorf("failed to build blob storage: %w", err)
		}
	}
	imageRepo := repository.NewImageRepository(fetcher, blobs)

	events := observer.NewEventBus()
	metrics := observer.NewMetricsObserver()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	svc := service.NewProduceAnalysisService(orchestrator, imageRepo, events, cfg.DefaultLanguage)
	handler := transport.NewHandler(svc, metrics, cfg)

	return &Container{
		config:       cfg,
		engine:       engine,
		orchestrator: orchestrator,
		imageRepo:    imageRepo,
		events:       events,
		metrics:      metrics,
		service:      svc,
		handler:      handler,
	}, nil
}

func buildEngine(cfg *config.Config) (analysis.Provider, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return provider.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.ProviderTimeout), nil
	case config.ProviderGemini:
		return provider.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.ProviderTimeout), nil
	case config.ProviderOffline:
		return provider.NewOffline(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Service returns the analysis service
func (c *Container) Service() service.ProduceAnalysisService {
	return c.service
}
