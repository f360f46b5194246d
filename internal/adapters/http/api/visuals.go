package api

import (
	"net/http"
)

// VisualsHandler serves the hosted visual instances.
type VisualsHandler struct {
	deps Dependencies
}

// NewVisualsHandler creates a new visuals handler.
func NewVisualsHandler(deps Dependencies) *VisualsHandler {
	return &VisualsHandler{deps: deps}
}

type createResponse struct {
	ID string `json:"id"`
}

// HandleCreate handles POST /visuals.
func (h *VisualsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, err := h.deps.Create(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Location", "/visuals/"+id)
	writeJSON(w, http.StatusCreated, createResponse{ID: id})
}

// HandleUpdate handles POST /visuals/{id}/update and returns the frame
// summary.
func (h *VisualsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	opts, ok := decodeUpdate(w, r)
	if !ok {
		return
	}
	frame, err := h.deps.Update(r.Context(), r.PathValue("id"), opts)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, frame.Summary())
}

// HandleFrame handles GET /visuals/{id}/frame?format=png|jpeg|svg|json.
func (h *VisualsHandler) HandleFrame(w http.ResponseWriter, r *http.Request) {
	frame, err := h.deps.Frame(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	body, contentType, err := h.deps.Encode(frame, r.URL.Query().Get("format"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeBytes(w, contentType, body)
}

// HandleObjects handles GET /visuals/{id}/objects/{group}.
func (h *VisualsHandler) HandleObjects(w http.ResponseWriter, r *http.Request) {
	instances, err := h.deps.Enumerate(r.Context(), r.PathValue("id"), r.PathValue("group"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, instances)
}

// HandleDelete handles DELETE /visuals/{id}.
func (h *VisualsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
