// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	service "github.com/okian/kpidonut/internal/app"
	"github.com/okian/kpidonut/internal/visual"
)

// maxBodyBytes bounds update and render payloads.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Create(ctx context.Context) (string, error)
	Update(ctx context.Context, id string, opts visual.UpdateOptions) (service.Frame, error)
	Enumerate(ctx context.Context, id, group string) ([]visual.ObjectInstance, error)
	Frame(ctx context.Context, id string) (service.Frame, error)
	Encode(frame service.Frame, format string) ([]byte, string, error)
	Render(ctx context.Context, opts visual.UpdateOptions, format string) ([]byte, string, error)
	Delete(ctx context.Context, id string) error
}

// Server wires HTTP routes for the harness API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	visualsHandler *VisualsHandler
	renderHandler  *RenderHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		visualsHandler: NewVisualsHandler(deps),
		renderHandler:  NewRenderHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("POST /render", MetricsMiddleware(s.renderHandler.HandleRender, "render"))

	mux.HandleFunc("POST /visuals", MetricsMiddleware(s.visualsHandler.HandleCreate, "visuals"))
	mux.HandleFunc("POST /visuals/{id}/update", MetricsMiddleware(s.visualsHandler.HandleUpdate, "visual_update"))
	mux.HandleFunc("GET /visuals/{id}/frame", MetricsMiddleware(s.visualsHandler.HandleFrame, "visual_frame"))
	mux.HandleFunc("GET /visuals/{id}/objects/{group}", MetricsMiddleware(s.visualsHandler.HandleObjects, "visual_objects"))
	mux.HandleFunc("DELETE /visuals/{id}", MetricsMiddleware(s.visualsHandler.HandleDelete, "visual_delete"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBytes(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrCapacity):
		writeError(w, http.StatusTooManyRequests, "capacity", err)
	case errors.Is(err, service.ErrInvalidViewport), errors.Is(err, service.ErrUnsupportedFormat):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrNoCanvas):
		writeError(w, http.StatusConflict, "no_canvas", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// decodeUpdate reads an UpdateOptions payload.
func decodeUpdate(w http.ResponseWriter, r *http.Request) (visual.UpdateOptions, bool) {
	var opts visual.UpdateOptions
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&opts); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", ErrBodyTooBig)
			return opts, false
		}
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return opts, false
	}
	return opts, true
}
