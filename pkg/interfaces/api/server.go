package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/vsinha/firemarshal/pkg/application/services"
	"github.com/vsinha/firemarshal/pkg/domain/entities"
	"github.com/vsinha/firemarshal/pkg/infrastructure/events"
	"github.com/vsinha/firemarshal/pkg/infrastructure/logging"
)

const maxBodyBytes = 1 << 20

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	service    *services.BurnService
	journal    events.EventStore
	metrics    *Metrics
	logger     *logging.Logger
}

// NewServer creates a configured HTTP server. journal may be nil.
func NewServer(addr string, service *services.BurnService, journal events.EventStore, logger *logging.Logger) *Server {
	s := &Server{
		service: service,
		journal: journal,
		metrics: NewMetrics(),
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.healthz)
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.HandleFunc("POST /v1/burns", s.evaluateBurn)
	mux.HandleFunc("GET /v1/burns", s.listBurns)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.metrics.Middleware(loggingMiddleware(logger)(mux)),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Handler returns the root handler, including metrics middleware
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// loggingMiddleware logs each request at debug level.
func loggingMiddleware(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debugf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
		})
	}
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) evaluateBurn(w http.ResponseWriter, r *http.Request) {
	var body entities.BurnRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("malformed request body: %w", err))
		return
	}

	// The service validates and journals rejections.
	report, err := s.service.Evaluate(r.Context(), body)
	if err != nil {
		s.metrics.observeEvaluation(outcomeRejected, 0)
		s.logger.Debugf("rejected burn request: %v", err)
		writeError(w, statusFor(err), err)
		return
	}

	outcome := outcomeOK
	if report.InsufficientFuel() {
		outcome = outcomeInsufficientFuel
	}
	s.metrics.observeEvaluation(outcome, report.Result.BurnTime)

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) listBurns(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeJSON(w, http.StatusOK, []events.Event{})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	writeJSON(w, http.StatusOK, s.journal.Recent(limit))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entities.ErrInvalidInput),
		errors.Is(err, entities.ErrNoEngines),
		errors.Is(err, entities.ErrDegenerateEngine):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
