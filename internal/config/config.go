package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"zapirelay/internal/constants"
	"zapirelay/internal/models"
)

var (
	ErrMissingExternalURL = models.ConfigError{Message: "missing external system URL"}
	ErrMissingInternalURL = models.ConfigError{Message: "missing internal system base URL"}
	ErrMissingCargaURL    = models.ConfigError{Message: "missing carga status base URL"}
	ErrMissingDBPath      = models.ConfigError{Message: "missing database path"}
)

func LoadConfig(path string) (*models.Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config models.Config
	if err := json.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	applyEnvironmentOverrides(&config)

	if err := validate(&config); err != nil {
		return nil, err
	}

	if err := validateSecurity(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validate(c *models.Config) error {
	if c.External.URL == "" {
		return ErrMissingExternalURL
	}
	if c.Internal.BaseURL == "" {
		return ErrMissingInternalURL
	}
	if c.Carga.BaseURL == "" {
		return ErrMissingCargaURL
	}
	if c.Database.Path == "" {
		return ErrMissingDBPath
	}

	if c.Server.Port <= 0 {
		c.Server.Port = constants.DefaultServerPort
	}
	if c.Server.ReadTimeoutSec <= 0 {
		c.Server.ReadTimeoutSec = constants.DefaultServerReadTimeoutSec
	}
	if c.Server.WriteTimeoutSec <= 0 {
		c.Server.WriteTimeoutSec = constants.DefaultServerWriteTimeoutSec
	}
	if c.Server.IdleTimeoutSec <= 0 {
		c.Server.IdleTimeoutSec = constants.DefaultServerIdleTimeoutSec
	}
	if c.Server.CleanupIntervalHours <= 0 {
		c.Server.CleanupIntervalHours = constants.DefaultCleanupIntervalHours
	}

	if c.External.TimeoutSec <= 0 {
		c.External.TimeoutSec = constants.DefaultExternalTimeoutSec
	}
	if c.Internal.TimeoutSec <= 0 {
		c.Internal.TimeoutSec = constants.DefaultInternalTimeoutSec
	}
	if c.Carga.TimeoutSec <= 0 {
		c.Carga.TimeoutSec = constants.DefaultCargaTimeoutSec
	}

	if c.Retention.MessageDays <= 0 {
		c.Retention.MessageDays = constants.DefaultMessageRetentionDays
	}
	if c.Retention.DeliveryLogDays <= 0 {
		c.Retention.DeliveryLogDays = constants.DefaultDeliveryLogRetentionDays
	}
	if c.Retention.APILogDays <= 0 {
		c.Retention.APILogDays = constants.DefaultAPILogRetentionDays
	}

	return nil
}

func applyEnvironmentOverrides(c *models.Config) {
	// Webhook URL tokens are secrets and should come from the environment.
	if token := os.Getenv("ZAPIRELAY_INBOUND_TOKEN"); token != "" {
		c.Webhook.InboundToken = token
	}
	if token := os.Getenv("ZAPIRELAY_DELIVERY_TOKEN"); token != "" {
		c.Webhook.DeliveryToken = token
	}

	if url := os.Getenv("EXTERNAL_SYSTEM_URL"); url != "" {
		c.External.URL = url
	}
	if url := os.Getenv("INTERNAL_SYSTEM_URL"); url != "" {
		c.Internal.BaseURL = url
	}
	if url := os.Getenv("CARGA_STATUS_URL"); url != "" {
		c.Carga.BaseURL = url
	}
	if path := os.Getenv("DB_PATH"); path != "" {
		c.Database.Path = path
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 {
			c.Server.Port = p
		}
	}
}

// validateSecurity performs security-specific validation
func validateSecurity(c *models.Config) error {
	isProduction := os.Getenv("ZAPIRELAY_ENV") == "production"

	if isProduction {
		if c.Webhook.InboundToken == "" {
			return models.ConfigError{Message: "inbound webhook token is required in production (set ZAPIRELAY_INBOUND_TOKEN environment variable)"}
		}
		if c.Webhook.DeliveryToken == "" {
			return models.ConfigError{Message: "delivery webhook token is required in production (set ZAPIRELAY_DELIVERY_TOKEN environment variable)"}
		}
		if len(c.Webhook.InboundToken) < 16 || len(c.Webhook.DeliveryToken) < 16 {
			return models.ConfigError{Message: "webhook tokens must be at least 16 characters long"}
		}
		if c.LogLevel == "debug" {
			return models.ConfigError{Message: "debug logging should not be used in production (security risk)"}
		}
	} else {
		if c.Webhook.InboundToken == "" || c.Webhook.DeliveryToken == "" {
			fmt.Fprintf(os.Stderr, "WARNING: webhook tokens not fully configured. Set ZAPIRELAY_INBOUND_TOKEN and ZAPIRELAY_DELIVERY_TOKEN environment variables.\n")
		}
	}

	return nil
}
