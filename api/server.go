// Package api - Thin HTTP layer over the quote engine
// The API is ONLY responsible for: input ingestion, calculator orchestration, output serialization.
// The API NEVER performs pricing logic.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quote-engine/adapters/contact"
	"quote-engine/adapters/storage"
	"quote-engine/core/quote"
	"quote-engine/internal/errors"
	"quote-engine/internal/logging"
)

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-ID"

// Options configures a Server. Only Version and Calculator are required.
type Options struct {
	Version    string
	Calculator *quote.Calculator

	// Contact adds contact links to quote responses
	Contact *contact.Builder

	// Store enables the /quotes endpoints
	Store storage.Store

	// Metrics enables request metrics and serves them on MetricsPath
	Metrics     *Metrics
	MetricsPath string
}

// Server is the API server
type Server struct {
	mux        *http.ServeMux
	version    string
	calculator *quote.Calculator
	contact    *contact.Builder
	store      storage.Store
	metrics    *Metrics
	logger     *zap.Logger
}

// NewServer creates a new API server
func NewServer(opts Options) *Server {
	if opts.Calculator == nil {
		opts.Calculator = quote.Default
	}
	s := &Server{
		mux:        http.NewServeMux(),
		version:    opts.Version,
		calculator: opts.Calculator,
		contact:    opts.Contact,
		store:      opts.Store,
		metrics:    opts.Metrics,
		logger:     logging.Named("api"),
	}

	s.registerRoutes()
	if s.metrics != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.mux.Handle("GET "+path, s.metrics.Handler())
	}
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Supporting endpoints
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)

	// Catalog
	s.mux.HandleFunc("GET /plans", s.handleListPlans)
	s.mux.HandleFunc("GET /plans/match", s.handleMatchPlan)
	s.mux.HandleFunc("GET /plans/{id}", s.handleGetPlan)
	s.mux.HandleFunc("GET /factors", s.handleFactors)

	// Pricing
	s.mux.HandleFunc("POST /validate", s.handleValidate)
	s.mux.HandleFunc("POST /breakdown", s.handleBreakdown)
	s.mux.HandleFunc("GET /billing/compare", s.handleCompare)
	s.mux.HandleFunc("GET /quote", s.handleQuoteFromQuery)
	s.mux.HandleFunc("POST /quote", s.handleQuote)

	// Saved quotes
	if s.store != nil {
		s.mux.HandleFunc("GET /quotes", s.handleListQuotes)
		s.mux.HandleFunc("POST /quotes", s.handleCreateQuote)
		s.mux.HandleFunc("GET /quotes/{id}", s.handleGetQuote)
		s.mux.HandleFunc("PATCH /quotes/{id}", s.handleUpdateQuote)
		s.mux.HandleFunc("DELETE /quotes/{id}", s.handleDeleteQuote)
		s.mux.HandleFunc("POST /quotes/{id}/items", s.handleAddLineItem)
		s.mux.HandleFunc("PATCH /quotes/{id}/items/{item}", s.handleUpdateLineItem)
		s.mux.HandleFunc("DELETE /quotes/{id}/items/{item}", s.handleDeleteLineItem)
	}
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"storage": s.store != nil,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "quote-engine",
		"api_version": "v1",
	}, http.StatusOK)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id := r.Header.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(RequestIDHeader, id)

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)

	pattern := r.Pattern
	if pattern == "" {
		pattern = "unmatched"
	}
	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordRequest(r.Method, pattern, rec.status, elapsed)
	}
	s.logger.Debug("request",
		zap.String("request_id", id),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", rec.status),
		zap.Duration("duration", elapsed),
	)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	}, status)
}

// fail writes err with the status of its type
func (s *Server) fail(w http.ResponseWriter, err error) {
	t := errors.TypeOf(err)
	status := statusFor(t)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.writeError(w, string(t), err.Error(), status)
}

func statusFor(t errors.Type) int {
	switch t {
	case errors.TypeInput, errors.TypeParsing:
		return http.StatusBadRequest
	case errors.TypeNotFound:
		return http.StatusNotFound
	case errors.TypeNotSupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Parsing("invalid JSON body", err)
	}
	return nil
}
