// Package carga queries the carga status source consumed by the query API.
package carga

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"zapirelay/internal/constants"

	"github.com/sirupsen/logrus"
)

// StatusResult is the interpreted upstream answer. Found is false when the
// source answered with its not-found marker (or a 404).
type StatusResult struct {
	Found   bool
	Message string
}

type Client interface {
	Lookup(ctx context.Context, cargaNumber string) (*StatusResult, error)
}

type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *logrus.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *HTTPClient {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Lookup fetches the status of a sanitized carga number. Transport failures
// return an error; a well-formed "not found" answer does not.
func (c *HTTPClient) Lookup(ctx context.Context, cargaNumber string) (*StatusResult, error) {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, cargaNumber)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query carga status: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxWebhookBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read carga response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound || strings.Contains(string(body), constants.CargaNotFoundMarker) {
		return &StatusResult{Found: false}, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("carga status source returned HTTP %d", resp.StatusCode)
	}

	return &StatusResult{Found: true, Message: extractMessage(body)}, nil
}

// extractMessage pulls the human-readable message out of the upstream JSON.
// Both "message" and "mensagem" field names occur in the wild; a body that
// is not JSON at all is passed through as-is.
func extractMessage(body []byte) string {
	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return strings.TrimSpace(string(body))
	}

	for _, field := range []string{"message", "mensagem"} {
		if v, ok := parsed[field].(string); ok {
			return v
		}
	}
	return strings.TrimSpace(string(body))
}
