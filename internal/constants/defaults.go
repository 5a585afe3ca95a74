package constants

// Default retention and cleanup configuration values
const (
	DefaultMessageRetentionDays     = 30
	DefaultDeliveryLogRetentionDays = 30
	DefaultAPILogRetentionDays      = 30
	DefaultCleanupIntervalHours     = 24
)

// Default timeout values
const (
	DefaultExternalTimeoutSec    = 10
	DefaultInternalTimeoutSec    = 10
	DefaultCargaTimeoutSec       = 10
	DefaultServerReadTimeoutSec  = 15
	DefaultServerWriteTimeoutSec = 15
	DefaultServerIdleTimeoutSec  = 60
	DefaultGracefulShutdownSec   = 30
	DefaultDatabaseRetryAttempts = 3
	DefaultRetryBackoffMs        = 1000
	DefaultMaxBackoffMs          = 60000
	DefaultDatabaseInitBackoffMs = 500
)

// Request handling limits
const (
	// MaxResponseSnippet bounds stored upstream response bodies.
	MaxResponseSnippet = 500
	// MaxCargaNumberDigits bounds sanitized carga identifiers.
	MaxCargaNumberDigits = 20
	// MaxWebhookBodyBytes bounds inbound webhook payload reads.
	MaxWebhookBodyBytes = 1 << 20

	DefaultServerPort = 8080
)

// Query API rate limiting (per token)
const (
	APIRateLimitPerMinute = 60
)

// Encryption settings for field-level encryption at rest
const (
	EncryptionSalt       = "zapirelay-field-salt-v1"
	EncryptionIterations = 100000
	EncryptionKeySize    = 32
	EncryptionNonceSize  = 12
)

// CargaNotFoundMarker is the phrase the carga status source returns in its
// body when the queried number does not exist.
const CargaNotFoundMarker = "Carga não encontrada"
