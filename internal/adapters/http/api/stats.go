package api

import (
	"net/http"
	"time"
)

// StatsProvider reports harness counters for GET /stats.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the provider's counters as JSON.
type StatsHandler struct {
	provider StatsProvider
	now      func() time.Time
}

func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider, now: time.Now}
}

// HandleStats writes the counters with a generatedAt timestamp added.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	stats := h.provider.GetStats()
	out := make(map[string]interface{}, len(stats)+1)
	for k, v := range stats {
		out[k] = v
	}
	out["generatedAt"] = h.now().UTC().Format(time.RFC3339)
	writeJSON(w, http.StatusOK, out)
}
