package forwarder

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewClient(2*time.Second, logger)
}

func TestForwardSuccess(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	outcome := newTestClient().Forward(context.Background(), server.URL, map[string]string{"id_mensagem": "k1"})

	assert.True(t, outcome.Success())
	assert.Equal(t, http.StatusOK, outcome.HTTPStatus)
	assert.Equal(t, `{"ok":true}`, outcome.ResponseSnippet)
	assert.Equal(t, "k1", gotBody["id_mensagem"])
}

func TestForwardNon2xxIsFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream broken"))
	}))
	defer server.Close()

	outcome := newTestClient().Forward(context.Background(), server.URL, nil)

	assert.False(t, outcome.Success())
	assert.Equal(t, http.StatusBadGateway, outcome.HTTPStatus)
	assert.Contains(t, outcome.ResponseSnippet, "HTTP 502")
	assert.Contains(t, outcome.ResponseSnippet, "upstream broken")
}

func TestForwardNetworkErrorIsFailed(t *testing.T) {
	outcome := newTestClient().Forward(context.Background(), "http://192.0.2.1:9/unreachable", nil)

	assert.False(t, outcome.Success())
	assert.Contains(t, outcome.ResponseSnippet, "network error")
	assert.Zero(t, outcome.HTTPStatus)
}

func TestForwardTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	client := NewClient(20*time.Millisecond, logger)

	outcome := client.Forward(context.Background(), server.URL, nil)
	assert.False(t, outcome.Success())
}

func TestForwardTruncatesLongResponses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 2000)))
	}))
	defer server.Close()

	outcome := newTestClient().Forward(context.Background(), server.URL, nil)

	assert.True(t, outcome.Success())
	assert.Len(t, outcome.ResponseSnippet, 500)
}

func TestForwardAnyFallsBack(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer healthy.Close()

	urls := []string{"http://192.0.2.1:9/dead", healthy.URL}

	outcome := newTestClient().ForwardAny(context.Background(), urls, map[string]string{"k": "v"})
	assert.True(t, outcome.Success())
}

func TestForwardAnyPrefersCachedWorkingURL(t *testing.T) {
	var firstCalls, secondCalls int
	first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		firstCalls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer first.Close()
	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondCalls++
		_, _ = w.Write([]byte("ok"))
	}))
	defer second.Close()

	client := newTestClient()
	urls := []string{first.URL, second.URL}

	outcome := client.ForwardAny(context.Background(), urls, nil)
	require.True(t, outcome.Success())
	assert.Equal(t, 1, firstCalls)
	assert.Equal(t, 1, secondCalls)

	// The working URL is tried first now; the broken one is skipped.
	outcome = client.ForwardAny(context.Background(), urls, nil)
	require.True(t, outcome.Success())
	assert.Equal(t, 1, firstCalls)
	assert.Equal(t, 2, secondCalls)
}

func TestForwardAnyAllFail(t *testing.T) {
	outcome := newTestClient().ForwardAny(context.Background(),
		[]string{"http://192.0.2.1:9", "http://192.0.2.2:9"}, nil)
	assert.False(t, outcome.Success())
}

func TestForwardAnyNoURLs(t *testing.T) {
	outcome := newTestClient().ForwardAny(context.Background(), nil, nil)
	assert.False(t, outcome.Success())
	assert.Contains(t, outcome.ResponseSnippet, "no forward URLs")
}

func TestSplitURLs(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"http://a:8003", []string{"http://a:8003"}},
		{"a:8003, b:8004", []string{"http://a:8003", "http://b:8004"}},
		{"https://a, ,b", []string{"https://a", "http://b"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := SplitURLs(tt.raw)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
