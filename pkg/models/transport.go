package models

// URLAnalysisRequest asks for analysis of an image hosted at a URL
// (plain HTTP or Azure blob)
type URLAnalysisRequest struct {
	URL      string `json:"url" binding:"required,url"`
	Language string `json:"language,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse reports service health and configuration status
type HealthResponse struct {
	Status             string   `json:"status"`
	Version            string   `json:"version"`
	Mode               string   `json:"mode"`
	ProviderConfigured bool     `json:"provider_configured"`
	SupportedLanguages []string `json:"supported_languages"`
}
