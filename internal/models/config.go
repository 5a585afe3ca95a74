package models

// Config holds the application configuration
type Config struct {
	Server    ServerConfig    `json:"server"`
	Webhook   WebhookConfig   `json:"webhook"`
	External  ExternalConfig  `json:"external"`
	Internal  InternalConfig  `json:"internal"`
	Carga     CargaConfig     `json:"carga"`
	Database  DatabaseConfig  `json:"database"`
	Retention RetentionConfig `json:"retention"`
	Tracing   TracingConfig   `json:"tracing"`
	LogLevel  string          `json:"log_level"`
}

// ServerConfig holds HTTP server related configurations
type ServerConfig struct {
	Port                 int      `json:"port"`
	ReadTimeoutSec       int      `json:"readTimeoutSec"`
	WriteTimeoutSec      int      `json:"writeTimeoutSec"`
	IdleTimeoutSec       int      `json:"idleTimeoutSec"`
	CleanupIntervalHours int      `json:"cleanupIntervalHours"`
	AllowedOrigins       []string `json:"allowedOrigins"`
}

// WebhookConfig holds the URL tokens guarding the provider-facing endpoints.
// Both are overridable via environment variables and env-only in production.
type WebhookConfig struct {
	InboundToken  string `json:"inbound_token"`
	DeliveryToken string `json:"delivery_token"`
}

// ExternalConfig describes the external system that receives forwarded
// message events. URL may be a comma-separated list of fallback endpoints.
type ExternalConfig struct {
	URL        string `json:"url"`
	TimeoutSec int    `json:"timeoutSec"`
}

// InternalConfig describes the internal system that receives per-item
// delivery status updates.
type InternalConfig struct {
	BaseURL    string `json:"base_url"`
	TimeoutSec int    `json:"timeoutSec"`
}

// CargaConfig describes the carga status source queried by the API.
type CargaConfig struct {
	BaseURL    string `json:"base_url"`
	TimeoutSec int    `json:"timeoutSec"`
}

// DatabaseConfig holds database related configurations
type DatabaseConfig struct {
	Path string `json:"path"`
}

// RetentionConfig holds the age thresholds, in days, for the three
// cleanup-managed stores.
type RetentionConfig struct {
	MessageDays     int `json:"messageDays"`
	DeliveryLogDays int `json:"deliveryLogDays"`
	APILogDays      int `json:"apiLogDays"`
}

// TracingConfig holds OpenTelemetry tracing configurations
type TracingConfig struct {
	Enabled        bool    `json:"enabled"`
	ServiceName    string  `json:"service_name"`
	ServiceVersion string  `json:"service_version"`
	Environment    string  `json:"environment"`
	OTLPEndpoint   string  `json:"otlp_endpoint"`
	SampleRate     float64 `json:"sample_rate"`
	UseStdout      bool    `json:"use_stdout"`
}

type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return e.Message
}
