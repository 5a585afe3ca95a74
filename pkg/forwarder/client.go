// Package forwarder is the outbound HTTP client used to push inbound events
// to the internal and external systems. Failures never escape this boundary:
// every call resolves to an Outcome the pipelines persist.
package forwarder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"zapirelay/internal/constants"
	"zapirelay/internal/httputil"

	"github.com/sirupsen/logrus"
)

type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeFailed  OutcomeStatus = "failed"
)

// Outcome is the classified result of a single forward attempt. The response
// snippet is truncated to the storage bound at capture time.
type Outcome struct {
	Status          OutcomeStatus
	ResponseSnippet string
	HTTPStatus      int
}

func (o Outcome) Success() bool {
	return o.Status == OutcomeSuccess
}

type Forwarder interface {
	Forward(ctx context.Context, url string, payload interface{}) Outcome
	ForwardAny(ctx context.Context, urls []string, payload interface{}) Outcome
}

type Client struct {
	client *http.Client
	logger *logrus.Logger

	mu          sync.Mutex
	lastWorking string
}

func NewClient(timeout time.Duration, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Client{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Forward performs one POST with the client's timeout. Non-2xx responses and
// network faults both classify as failed; there is no internal retry.
func (c *Client) Forward(ctx context.Context, url string, payload interface{}) Outcome {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return Outcome{Status: OutcomeFailed, ResponseSnippet: truncate(fmt.Sprintf("marshal error: %v", err))}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return Outcome{Status: OutcomeFailed, ResponseSnippet: truncate(fmt.Sprintf("request error: %v", err))}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("url", url).Warn("Forward request failed")
		return Outcome{Status: OutcomeFailed, ResponseSnippet: truncate(fmt.Sprintf("network error: %v", err))}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*constants.MaxResponseSnippet))
	if err != nil {
		return Outcome{
			Status:          OutcomeFailed,
			ResponseSnippet: truncate(fmt.Sprintf("read error: %v", err)),
			HTTPStatus:      resp.StatusCode,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Outcome{
			Status:          OutcomeFailed,
			ResponseSnippet: truncate(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body))),
			HTTPStatus:      resp.StatusCode,
		}
	}

	return Outcome{
		Status:          OutcomeSuccess,
		ResponseSnippet: truncate(string(body)),
		HTTPStatus:      resp.StatusCode,
	}
}

// ForwardAny tries each candidate URL in order until one succeeds. The last
// working URL is remembered and tried first on subsequent calls, so a healthy
// endpoint keeps absorbing traffic after a fallback.
func (c *Client) ForwardAny(ctx context.Context, urls []string, payload interface{}) Outcome {
	candidates := c.orderCandidates(urls)
	if len(candidates) == 0 {
		return Outcome{Status: OutcomeFailed, ResponseSnippet: "no forward URLs configured"}
	}

	var last Outcome
	for i, url := range candidates {
		last = c.Forward(ctx, url, payload)
		if last.Success() {
			c.rememberWorking(url)
			if i > 0 {
				c.logger.WithField("url", url).Info("Forward fallback succeeded")
			}
			return last
		}
		c.logger.WithFields(logrus.Fields{
			"url":     url,
			"attempt": i + 1,
			"of":      len(candidates),
		}).Warn("Forward attempt failed, trying next URL")
	}
	return last
}

// SplitURLs parses a comma-separated URL list from configuration. Entries
// without a scheme default to http.
func SplitURLs(raw string) []string {
	parts := strings.Split(raw, ",")
	urls := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "http://") && !strings.HasPrefix(p, "https://") {
			p = "http://" + p
		}
		urls = append(urls, p)
	}
	return urls
}

func (c *Client) orderCandidates(urls []string) []string {
	c.mu.Lock()
	cached := c.lastWorking
	c.mu.Unlock()

	if cached == "" {
		return urls
	}

	ordered := make([]string, 0, len(urls))
	found := false
	for _, u := range urls {
		if u == cached {
			found = true
			continue
		}
		ordered = append(ordered, u)
	}
	if !found {
		return urls
	}
	return append([]string{cached}, ordered...)
}

func (c *Client) rememberWorking(url string) {
	c.mu.Lock()
	c.lastWorking = url
	c.mu.Unlock()
}

func truncate(s string) string {
	return httputil.Truncate(s, constants.MaxResponseSnippet)
}
