package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapirelay/internal/constants"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validConfig = `{
	"webhook": {"inbound_token": "inbound-secret", "delivery_token": "delivery-secret"},
	"external": {"url": "http://external.example:8003"},
	"internal": {"base_url": "http://internal.example:8004"},
	"carga": {"base_url": "http://carga.example:8005"},
	"database": {"path": "relay.db"}
}`

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "inbound-secret", cfg.Webhook.InboundToken)
	assert.Equal(t, "http://external.example:8003", cfg.External.URL)
	assert.Equal(t, constants.DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, constants.DefaultExternalTimeoutSec, cfg.External.TimeoutSec)
	assert.Equal(t, constants.DefaultMessageRetentionDays, cfg.Retention.MessageDays)
	assert.Equal(t, constants.DefaultCleanupIntervalHours, cfg.Server.CleanupIntervalHours)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "{not json"))
	assert.Error(t, err)
}

func TestLoadConfig_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing external URL", `{"internal":{"base_url":"x"},"carga":{"base_url":"x"},"database":{"path":"x"}}`},
		{"missing internal URL", `{"external":{"url":"x"},"carga":{"base_url":"x"},"database":{"path":"x"}}`},
		{"missing carga URL", `{"external":{"url":"x"},"internal":{"base_url":"x"},"database":{"path":"x"}}`},
		{"missing db path", `{"external":{"url":"x"},"internal":{"base_url":"x"},"carga":{"base_url":"x"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ZAPIRELAY_INBOUND_TOKEN", "env-inbound")
	t.Setenv("ZAPIRELAY_DELIVERY_TOKEN", "env-delivery")
	t.Setenv("EXTERNAL_SYSTEM_URL", "http://env-external:9000")
	t.Setenv("PORT", "9999")

	cfg, err := LoadConfig(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "env-inbound", cfg.Webhook.InboundToken)
	assert.Equal(t, "env-delivery", cfg.Webhook.DeliveryToken)
	assert.Equal(t, "http://env-external:9000", cfg.External.URL)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestLoadConfig_ProductionRequiresTokens(t *testing.T) {
	t.Setenv("ZAPIRELAY_ENV", "production")
	t.Setenv("ZAPIRELAY_INBOUND_TOKEN", "")
	t.Setenv("ZAPIRELAY_DELIVERY_TOKEN", "")

	content := `{
		"external": {"url": "x"}, "internal": {"base_url": "x"},
		"carga": {"base_url": "x"}, "database": {"path": "x"}
	}`
	_, err := LoadConfig(writeConfig(t, content))
	assert.Error(t, err)
}

func TestLoadConfig_ProductionRejectsShortTokens(t *testing.T) {
	t.Setenv("ZAPIRELAY_ENV", "production")
	t.Setenv("ZAPIRELAY_INBOUND_TOKEN", "short")
	t.Setenv("ZAPIRELAY_DELIVERY_TOKEN", "also-short")

	_, err := LoadConfig(writeConfig(t, validConfig))
	assert.Error(t, err)
}

func TestLoadConfig_ProductionRejectsDebugLogging(t *testing.T) {
	t.Setenv("ZAPIRELAY_ENV", "production")
	t.Setenv("ZAPIRELAY_INBOUND_TOKEN", "inbound-secret-long-enough")
	t.Setenv("ZAPIRELAY_DELIVERY_TOKEN", "delivery-secret-long-enough")

	content := `{
		"log_level": "debug",
		"external": {"url": "x"}, "internal": {"base_url": "x"},
		"carga": {"base_url": "x"}, "database": {"path": "x"}
	}`
	_, err := LoadConfig(writeConfig(t, content))
	assert.Error(t, err)
}
