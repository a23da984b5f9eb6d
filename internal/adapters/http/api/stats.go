package api

import (
	"maps"
	"net/http"
	"time"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the service stats plus the HTTP layer's own settings.
type StatsHandler struct {
	statsProvider StatsProvider
	started       time.Time
	chartWidth    int
	chartHeight   int
}

// NewStatsHandler creates a new stats handler. Uptime is measured from here.
func NewStatsHandler(statsProvider StatsProvider, chartWidth, chartHeight int) *StatsHandler {
	return &StatsHandler{
		statsProvider: statsProvider,
		started:       time.Now(),
		chartWidth:    chartWidth,
		chartHeight:   chartHeight,
	}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats := map[string]interface{}{}
	if h.statsProvider != nil {
		maps.Copy(stats, h.statsProvider.GetStats())
	}
	stats["uptimeSeconds"] = int64(time.Since(h.started).Seconds())
	stats["chartWidth"] = h.chartWidth
	stats["chartHeight"] = h.chartHeight
	writeJSON(w, http.StatusOK, stats)
}
