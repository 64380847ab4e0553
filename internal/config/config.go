package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provider names accepted in AI_PROVIDER
const (
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
	ProviderOffline = "offline"
)

type Config struct {
	Host               string
	Port               string
	LogLevel           string
	RequestTimeout     time.Duration
	ProviderTimeout    time.Duration
	ImageFetchTimeout  time.Duration
	MaxUploadSize      int64
	MaxRequestBodySize int64

	Provider        string
	OpenAIAPIKey    string
	OpenAIModel     string
	GeminiAPIKey    string
	GeminiModel     string
	DefaultLanguage string

	// Optional Azure Blob source for URL-based analysis
	AzureStorageAccount string
	AzureStorageKey     string
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// OfflineMode reports whether analysis should run without the remote provider
func (c *Config) OfflineMode() bool {
	return c.Provider == ProviderOffline
}

// AzureConfigured reports whether the optional blob source can be built
func (c *Config) AzureConfigured() bool {
	return c.AzureStorageAccount != "" && c.AzureStorageKey != ""
}

func LoadFromEnv() (*Config, error) {
	// Load .env if present; missing file is fine
	_ = godotenv.Load()

	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		LogLevel:           strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 120*time.Second),
		ProviderTimeout:    parseDurationOrDefault("PROVIDER_TIMEOUT", 60*time.Second),
		ImageFetchTimeout:  parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		MaxUploadSize:      parseIntOrDefault("MAX_UPLOAD_SIZE", 10*1024*1024), // 10MB
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 12*1024*1024),

		Provider:        strings.ToLower(getEnvOrDefault("AI_PROVIDER", ProviderOpenAI)),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     getEnvOrDefault("OPENAI_MODEL", "gpt-4o"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		DefaultLanguage: getEnvOrDefault("DEFAULT_LANGUAGE", "en"),

		AzureStorageAccount: os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureStorageKey:     os.Getenv("AZURE_STORAGE_KEY"),
	}

	// Legacy flag from the first deployment; maps onto the offline provider
	if strings.EqualFold(os.Getenv("USE_OFFLINE_MODE"), "true") {
		cfg.Provider = ProviderOffline
	}

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	switch cfg.Provider {
	case ProviderOpenAI, ProviderGemini, ProviderOffline:
	default:
		return nil, fmt.Errorf("invalid AI_PROVIDER: %q (use openai, gemini or offline)", cfg.Provider)
	}
	if cfg.MaxUploadSize <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_SIZE must be > 0 (got %d)", cfg.MaxUploadSize)
	}
	if cfg.RequestTimeout <= 0 || cfg.ProviderTimeout <= 0 || cfg.ImageFetchTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, provider=%s, fetch=%s)",
			cfg.RequestTimeout, cfg.ProviderTimeout, cfg.ImageFetchTimeout)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
