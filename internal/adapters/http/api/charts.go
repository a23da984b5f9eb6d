package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/eventdash/internal/adapters/render"
)

// ChartDependencies defines the interface for chart rendering.
type ChartDependencies interface {
	Section(ctx context.Context, id string) (Section, error)
}

// ChartsHandler renders sections as SVG.
type ChartsHandler struct {
	deps ChartDependencies
	opts []render.Option
}

// NewChartsHandler creates a new charts handler. Non-positive sizes fall back
// to the renderer defaults.
func NewChartsHandler(deps ChartDependencies, width, height int) *ChartsHandler {
	return &ChartsHandler{deps: deps, opts: []render.Option{render.WithSize(width, height)}}
}

// HandleChart handles GET /charts/{id}.svg requests.
func (h *ChartsHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id, ok := pathParam(r.URL.Path, "/charts/", ".svg")
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("%w: %s", ErrNotFound, r.URL.Path))
		return
	}
	sec, err := h.deps.Section(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	// Render into a buffer so failures can still be reported as JSON.
	var buf bytes.Buffer
	if err := render.SVG(&buf, sec, h.opts...); err != nil {
		if errors.Is(err, render.ErrNothingToRender) {
			msg := err
			if sec.Failed() {
				msg = fmt.Errorf("%w: %s", err, sec.Error)
			}
			writeError(w, http.StatusUnprocessableEntity, "nothing_to_render", msg)
			return
		}
		writeError(w, http.StatusInternalServerError, "render_error", fmt.Errorf("%w: %w", ErrRender, err))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
