// Package sanitize holds the pure validation helpers applied to untrusted
// request input before any side effect runs.
package sanitize

import (
	"crypto/subtle"
	"fmt"
	"mime"
	"strings"

	"zapirelay/internal/constants"
	"zapirelay/internal/models"
)

// ValidateToken compares a candidate URL token against the configured
// secret in constant time. An empty configured secret never authenticates.
func ValidateToken(candidate, expected string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(expected)) == 1
}

// SanitizeCargaNumber strips every non-digit character from raw and enforces
// the identifier length bound. An empty result is invalid input.
func SanitizeCargaNumber(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return "", fmt.Errorf("%w: no digits in %q", models.ErrInvalidCargaNumber, raw)
	}
	if len(digits) > constants.MaxCargaNumberDigits {
		return "", fmt.Errorf("%w: %d digits exceeds limit of %d", models.ErrInvalidCargaNumber, len(digits), constants.MaxCargaNumberDigits)
	}
	return digits, nil
}

// IsJSONContentType reports whether the Content-Type header declares a JSON
// body. Parameters such as charset are allowed; anything else is rejected
// before the body is parsed.
func IsJSONContentType(header string) bool {
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}
