package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"zapirelay/internal/constants"
	"zapirelay/internal/httputil"
	"zapirelay/internal/middleware"
	"zapirelay/internal/models"
	"zapirelay/internal/sanitize"
	"zapirelay/internal/service"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// deliveryProcessor and the sibling interfaces keep the handlers testable
// without a real database behind them.
type deliveryProcessor interface {
	ProcessBatch(ctx context.Context, body []byte, sourceIP string) (*models.DeliveryBatchResult, error)
}

type inboundProcessor interface {
	ProcessInbound(ctx context.Context, body []byte, sourceIP string) (*models.InboundResult, error)
}

type cargaQuerier interface {
	Query(ctx context.Context, bearer, rawNumber, sourceIP string) (*models.CargaResult, error)
}

type Server struct {
	router   *mux.Router
	logger   *logrus.Logger
	cfg      *models.Config
	delivery deliveryProcessor
	inbound  inboundProcessor
	carga    cargaQuerier
	server   *http.Server
}

func NewServer(cfg *models.Config, inbound *service.MessageService, delivery *service.DeliveryService, carga *service.CargaService, logger *logrus.Logger) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		logger:   logger,
		cfg:      cfg,
		delivery: delivery,
		inbound:  inbound,
		carga:    carga,
	}

	s.router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	s.router.Use(middleware.Observability(logger))
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth()).Methods(http.MethodGet)
	s.router.HandleFunc("/metrics", s.handleMetrics()).Methods(http.MethodGet)

	webhooks := s.router.PathPrefix("/webhooks").Subrouter()
	webhooks.HandleFunc("/zapi/on-message-received/{token}/", s.handleInboundMessage()).Methods(http.MethodPost)
	webhooks.HandleFunc("/delivery-callback/{token}/", s.handleDeliveryCallback()).Methods(http.MethodPost)

	s.router.HandleFunc("/api/consulta-carga/{carga}/", s.handleCargaQuery()).Methods(http.MethodGet)
}

func (s *Server) Start() error {
	port := s.cfg.Server.Port
	if port == 0 {
		port = constants.DefaultServerPort
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Server.IdleTimeoutSec) * time.Second,
	}

	s.logger.Infof("Starting server on port %d", port)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// readWebhookBody enforces the URL token and content type shared by both
// webhook endpoints. A nil return means the response is already written.
func (s *Server) readWebhookBody(w http.ResponseWriter, r *http.Request, expectedToken string) []byte {
	if !sanitize.ValidateToken(mux.Vars(r)["token"], expectedToken) {
		httputil.WriteDetail(w, http.StatusUnauthorized, "invalid token")
		return nil
	}

	if !sanitize.IsJSONContentType(r.Header.Get("Content-Type")) {
		httputil.WriteDetail(w, http.StatusBadRequest, "content type must be application/json")
		return nil
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, constants.MaxWebhookBodyBytes))
	if err != nil {
		httputil.WriteDetail(w, http.StatusBadRequest, "failed to read request body")
		return nil
	}
	return body
}

func (s *Server) handleInboundMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := s.readWebhookBody(w, r, s.cfg.Webhook.InboundToken)
		if body == nil {
			return
		}

		result, err := s.inbound.ProcessInbound(r.Context(), body, httputil.ClientIP(r))
		if err != nil {
			s.writeError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, result)
	}
}

func (s *Server) handleDeliveryCallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := s.readWebhookBody(w, r, s.cfg.Webhook.DeliveryToken)
		if body == nil {
			return
		}

		result, err := s.delivery.ProcessBatch(r.Context(), body, httputil.ClientIP(r))
		if err != nil {
			s.writeError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, result)
	}
}

func (s *Server) handleCargaQuery() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bearer := bearerToken(r.Header.Get("Authorization"))

		result, err := s.carga.Query(r.Context(), bearer, mux.Vars(r)["carga"], httputil.ClientIP(r))
		if err != nil {
			s.writeError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, result)
	}
}

// writeError maps service errors onto the HTTP error taxonomy. Anything
// unrecognized is a 500 with a generic body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidToken):
		httputil.WriteDetail(w, http.StatusUnauthorized, "invalid token")
	case errors.Is(err, models.ErrInvalidJSON):
		httputil.WriteDetail(w, http.StatusBadRequest, "invalid JSON payload")
	case errors.Is(err, models.ErrMissingStatuses):
		httputil.WriteDetail(w, http.StatusBadRequest, "missing or invalid statuses array")
	case errors.Is(err, models.ErrInvalidCargaNumber):
		httputil.WriteDetail(w, http.StatusBadRequest, "invalid carga number")
	case errors.Is(err, models.ErrRateLimited):
		httputil.WriteDetail(w, http.StatusTooManyRequests, "rate limit exceeded")
	case errors.Is(err, models.ErrUpstream):
		httputil.WriteDetail(w, http.StatusBadGateway, "upstream service unavailable")
	default:
		s.logger.WithError(err).Error("Request failed")
		httputil.WriteDetail(w, http.StatusInternalServerError, "internal server error")
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
