package api

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/okian/eventdash/internal/adapters/render"
)

// dashboardHandler renders the dashboard page.
type dashboardHandler struct {
	deps  Dependencies
	title string
	tmpl  *template.Template
}

type sectionView struct {
	ID       string
	Title    string
	Error    string
	HasChart bool
}

type dashboardView struct {
	Title    string
	Summary  Summary
	Sections []sectionView
}

// newDashboardHandler creates a new dashboard handler
func newDashboardHandler(deps Dependencies, title string) *dashboardHandler {
	return &dashboardHandler{
		deps:  deps,
		title: title,
		tmpl:  template.Must(template.ParseFS(dashboardFS, "dashboard.html.tmpl")),
	}
}

// HandleDashboard handles GET / and GET /dashboard requests.
// Charts are referenced by URL; the browser fetches them from /charts/.
func (h *dashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet || (r.URL.Path != "/" && r.URL.Path != "/dashboard") {
		http.NotFound(w, r)
		return
	}
	ctx := r.Context()
	sections, err := h.deps.Sections(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	view := dashboardView{Title: h.title, Summary: h.deps.Summary(ctx)}
	for _, sec := range sections {
		view.Sections = append(view.Sections, sectionView{
			ID:       sec.ID,
			Title:    sec.Title,
			Error:    sec.Error,
			HasChart: render.Renderable(sec),
		})
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, view); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
