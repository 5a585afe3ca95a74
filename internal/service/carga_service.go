package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"zapirelay/internal/constants"
	"zapirelay/internal/httputil"
	"zapirelay/internal/metrics"
	"zapirelay/internal/models"
	"zapirelay/internal/sanitize"
	"zapirelay/pkg/carga"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// CargaService answers authenticated carga status queries. Every call is
// audited to the request log, whichever branch it takes.
type CargaService struct {
	tokens TokenStore
	client carga.Client
	logger *logrus.Logger

	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
}

func NewCargaService(tokens TokenStore, client carga.Client, logger *logrus.Logger) *CargaService {
	return &CargaService{
		tokens:   tokens,
		client:   client,
		logger:   logger,
		limiters: make(map[int64]*rate.Limiter),
	}
}

// limiterFor returns the per-token bucket: refill one permit per second with
// a burst of the full per-minute allowance, so a quiet token can spend its
// minute's quota at once.
func (s *CargaService) limiterFor(tokenID int64) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.limiters[tokenID]
	if !ok {
		l = rate.NewLimiter(rate.Limit(float64(constants.APIRateLimitPerMinute)/60.0), constants.APIRateLimitPerMinute)
		s.limiters[tokenID] = l
	}
	return l
}

// Query authenticates the bearer token, rate-limits per token, sanitizes the
// carga number and asks the status source. Errors map to the API taxonomy:
// ErrInvalidToken, ErrRateLimited, ErrInvalidCargaNumber, ErrUpstream.
func (s *CargaService) Query(ctx context.Context, bearer, rawNumber, sourceIP string) (*models.CargaResult, error) {
	start := time.Now()

	reqLog := &models.APIRequestLog{
		SourceIP:    sourceIP,
		CargaNumber: httputil.Truncate(rawNumber, constants.MaxCargaNumberDigits),
	}
	defer func() {
		reqLog.DurationMs = time.Since(start).Milliseconds()
		if err := s.tokens.SaveAPIRequestLog(ctx, reqLog); err != nil {
			s.logger.WithError(err).Warn("Failed to save API request log")
		}
	}()

	token, err := s.authenticate(ctx, bearer)
	if err != nil {
		reqLog.ResponseStatus = 401
		return nil, err
	}
	reqLog.TokenID = &token.ID

	if !s.limiterFor(token.ID).Allow() {
		reqLog.ResponseStatus = 429
		metrics.IncrementCounter("carga_queries_total",
			map[string]string{"result": "rate_limited"}, "Carga queries by result")
		return nil, models.ErrRateLimited
	}

	number, err := sanitize.SanitizeCargaNumber(rawNumber)
	if err != nil {
		reqLog.ResponseStatus = 400
		return nil, err
	}
	reqLog.CargaNumber = number

	status, err := s.client.Lookup(ctx, number)
	if err != nil {
		reqLog.ResponseStatus = 502
		s.logger.WithError(err).WithField("carga", number).Error("Carga status lookup failed")
		return nil, fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}

	reqLog.ResponseStatus = 200
	metrics.IncrementCounter("carga_queries_total",
		map[string]string{"result": "ok"}, "Carga queries by result")

	if !status.Found {
		return &models.CargaResult{Status: "0", Message: ""}, nil
	}
	return &models.CargaResult{Status: "1", Message: status.Message}, nil
}

func (s *CargaService) authenticate(ctx context.Context, bearer string) (*models.APIToken, error) {
	if bearer == "" {
		return nil, models.ErrInvalidToken
	}

	token, err := s.tokens.GetActiveAPIToken(ctx, bearer)
	if err != nil {
		s.logger.WithError(err).Error("Token lookup failed")
		return nil, models.ErrInvalidToken
	}
	if token == nil {
		return nil, models.ErrInvalidToken
	}

	if err := s.tokens.TouchAPIToken(ctx, token.ID); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.WithError(err).WithField("tokenId", token.ID).Warn("Failed to update token last_used")
	}
	return token, nil
}
