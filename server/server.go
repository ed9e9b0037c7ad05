// Package server exposes the ingestion engine over HTTP for the scheduling
// dashboard: a roster snapshot endpoint, a single-cell lookup, health and
// Prometheus metrics.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	apperrors "github.com/atravisjones/Arizona-Roofers-Scheduler/errors"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/metrics"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/roster"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Server handles the HTTP API over one roster service.
type Server struct {
	svc    *roster.Service
	logger zerolog.Logger
}

// New creates a Server.
func New(svc *roster.Service, logger zerolog.Logger) *Server {
	return &Server{
		svc:    svc,
		logger: logger.With().Str("component", "api").Logger(),
	}
}

// Routes builds the router with request-ID, logging and CORS middleware.
func (s *Server) Routes(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler)

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	r.Get("/api/roster", s.handleRoster)
	r.Get("/api/cell", s.handleCell)

	return r
}

// handleRoster handles GET /api/roster?date=YYYY-MM-DD (default: today).
func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	snapshot, err := s.svc.FetchSheetData(r.Context(), date)
	if err != nil {
		s.logger.Error().Err(err).Msg("roster query failed")
		writeError(w, upstreamStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// handleCell handles GET /api/cell?ref=B2&sheet=<title>.
func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("ref")
	if ref == "" {
		writeError(w, http.StatusBadRequest, "ref parameter is required")
		return
	}
	sheet := r.URL.Query().Get("sheet")

	value, err := s.svc.FetchSheetCell(r.Context(), ref, sheet)
	if err != nil {
		if errors.Is(err, apperrors.ErrMissingSheetName) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error().Err(err).Str("ref", ref).Msg("cell lookup failed")
		writeError(w, upstreamStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"value": value})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// upstreamStatus maps engine failures onto gateway-style statuses so the
// dashboard can distinguish "our input was bad" from "the source is down".
func upstreamStatus(err error) int {
	var refusal *apperrors.RemoteRefusal
	var unreachable *apperrors.Unreachable
	var layout *apperrors.LayoutError
	switch {
	case errors.As(err, &refusal):
		return http.StatusBadGateway
	case errors.As(err, &unreachable):
		return http.StatusGatewayTimeout
	case errors.As(err, &layout):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
