package api

import (
	"net/http"
)

// RenderHandler draws a payload without hosting a visual.
type RenderHandler struct {
	deps Dependencies
}

// NewRenderHandler creates a new render handler.
func NewRenderHandler(deps Dependencies) *RenderHandler {
	return &RenderHandler{deps: deps}
}

// HandleRender handles POST /render?format=.
func (h *RenderHandler) HandleRender(w http.ResponseWriter, r *http.Request) {
	opts, ok := decodeUpdate(w, r)
	if !ok {
		return
	}
	body, contentType, err := h.deps.Render(r.Context(), opts, r.URL.Query().Get("format"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeBytes(w, contentType, body)
}
