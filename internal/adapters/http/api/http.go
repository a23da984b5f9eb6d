// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/eventdash/internal/adapters/render"
	service "github.com/okian/eventdash/internal/app"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Sections computes every dashboard section in page order.
	Sections(ctx context.Context) ([]Section, error)
	// Section computes one section; unknown IDs wrap service.ErrSectionNotFound.
	Section(ctx context.Context, id string) (Section, error)
	Summary(ctx context.Context) Summary
}

// Section and Summary mirror the read shapes of the dashboard service.
type (
	Section = service.Section
	Summary = service.Summary
)

// Server wires HTTP routes for the dashboard.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	sectionsHandler  *SectionsHandler
	chartsHandler    *ChartsHandler
	dashboardHandler *dashboardHandler
}

// ServerOption tunes NewServer.
type ServerOption func(*serverOptions)

type serverOptions struct {
	chartWidth  int
	chartHeight int
	title       string
}

// WithChartSize sets the size of charts served under /charts/. Non-positive
// values keep the renderer defaults.
func WithChartSize(width, height int) ServerOption {
	return func(o *serverOptions) {
		if width > 0 {
			o.chartWidth = width
		}
		if height > 0 {
			o.chartHeight = height
		}
	}
}

// WithTitle sets the dashboard page heading.
func WithTitle(title string) ServerOption {
	return func(o *serverOptions) {
		if title != "" {
			o.title = title
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	o := serverOptions{
		chartWidth:  render.DefaultWidth,
		chartHeight: render.DefaultHeight,
		title:       "Event participation dashboard",
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider, o.chartWidth, o.chartHeight),
		sectionsHandler:  NewSectionsHandler(deps),
		chartsHandler:    NewChartsHandler(deps, o.chartWidth, o.chartHeight),
		dashboardHandler: newDashboardHandler(deps, o.title),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/sections", MetricsMiddleware(s.sectionsHandler.HandleList, "sections"))
	mux.HandleFunc("/api/sections/", MetricsMiddleware(s.sectionsHandler.HandleGet, "section"))
	mux.HandleFunc("/charts/", MetricsMiddleware(s.chartsHandler.HandleChart, "charts"))
	mux.HandleFunc("/dashboard", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("/", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
}
