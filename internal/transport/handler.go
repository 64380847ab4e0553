package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go-produce-analyzer/internal/config"
	apperrors "go-produce-analyzer/internal/errors"
	"go-produce-analyzer/internal/locale"
	"go-produce-analyzer/internal/logger"
	"go-produce-analyzer/internal/observer"
	"go-produce-analyzer/internal/service"
	"go-produce-analyzer/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const version = "1.0.0"

func NewHandler(svc service.ProduceAnalysisService, metrics *observer.MetricsObserver, cfg *config.Config) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	// Add middleware
	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/", root(svc))
	r.GET("/health", healthCheck(svc, cfg))
	r.GET("/metrics", metricsHandler(metrics))

	r.POST("/analyze", analyzeURL(svc, cfg))
	r.POST("/analyze/full", analyzeFull(svc, cfg))
	r.POST("/analyze/classify", analyzeKind(svc, cfg, "classify"))
	r.POST("/analyze/ripeness", analyzeKind(svc, cfg, "ripeness"))
	r.POST("/analyze/disease", analyzeKind(svc, cfg, "disease"))

	return r
}

func root(svc service.ProduceAnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Produce Quality Analysis API",
			"version": version,
			"status":  "operational",
			"health":  "/health",
			"mode":    svc.Mode(),
		})
	}
}

func healthCheck(svc service.ProduceAnalysisService, cfg *config.Config) gin.HandlerFunc {
	languages := make([]string, 0, len(locale.Supported()))
	for _, lang := range locale.Supported() {
		languages = append(languages, string(lang))
	}
	return func(c *gin.Context) {
		configured := false
		switch cfg.Provider {
		case config.ProviderOpenAI:
			configured = cfg.OpenAIAPIKey != ""
		case config.ProviderGemini:
			configured = cfg.GeminiAPIKey != ""
		}
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:             "healthy",
			Version:            version,
			Mode:               svc.Mode(),
			ProviderConfigured: configured,
			SupportedLanguages: languages,
		})
	}
}

func metricsHandler(metrics *observer.MetricsObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, metrics.GetMetrics())
	}
}

// analyzeFull handles multipart uploads for the complete pipeline:
// classification, ripeness, disease and a localized recommendation
func analyzeFull(svc service.ProduceAnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"ip":     c.ClientIP(),
		}).Info("Processing produce analysis request")

		image, declaredType, err := readUpload(c, cfg.MaxUploadSize)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "invalid upload", err)
			return
		}

		report, err := svc.AnalyzeUpload(ctx, image, declaredType, c.PostForm("language"))
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "analysis failed", err)
			return
		}

		logger.WithFields(logrus.Fields{
			"processing_time_ms": time.Since(startTime).Milliseconds(),
			"language":           string(report.Language),
			"action":             string(report.Recommendation.Action),
		}).Info("Produce analysis completed")

		c.JSON(http.StatusOK, report)
	}
}

// analyzeURL handles JSON requests referencing an image by URL
func analyzeURL(svc service.ProduceAnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.URLAnalysisRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		report, err := svc.AnalyzeURL(ctx, req.URL, req.Language)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "analysis failed", err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// analyzeKind handles the single-kind endpoints
func analyzeKind(svc service.ProduceAnalysisService, cfg *config.Config, kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		image, declaredType, err := readUpload(c, cfg.MaxUploadSize)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "invalid upload", err)
			return
		}
		language := c.PostForm("language")

		var result interface{}
		switch kind {
		case "classify":
			result, err = svc.Classify(ctx, image, declaredType, language)
		case "ripeness":
			result, err = svc.AssessRipeness(ctx, image, declaredType, language)
		case "disease":
			result, err = svc.DetectDisease(ctx, image, declaredType, language)
		}
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), kind+" analysis failed", err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// readUpload extracts the image file from a multipart form
func readUpload(c *gin.Context, maxBytes int64) ([]byte, string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, "", apperrors.NewValidationError("missing file field", err)
	}
	if fileHeader.Size > maxBytes {
		return nil, "", apperrors.NewValidationError(
			fmt.Sprintf("file exceeds %d byte limit", maxBytes), nil)
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, "", apperrors.NewInternalError("opening upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes))
	if err != nil {
		return nil, "", apperrors.NewInternalError("reading upload", err)
	}
	return data, fileHeader.Header.Get("Content-Type"), nil
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
