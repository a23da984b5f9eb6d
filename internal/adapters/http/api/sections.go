package api

import (
	"context"
	"fmt"
	"net/http"
)

// SectionsDependencies defines the interface for section reads.
type SectionsDependencies interface {
	Sections(ctx context.Context) ([]Section, error)
	Section(ctx context.Context, id string) (Section, error)
}

// SectionsHandler serves computed sections as JSON.
type SectionsHandler struct {
	deps SectionsDependencies
}

// NewSectionsHandler creates a new sections handler.
func NewSectionsHandler(deps SectionsDependencies) *SectionsHandler {
	return &SectionsHandler{deps: deps}
}

// HandleList handles GET /api/sections requests.
func (h *SectionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sections, err := h.deps.Sections(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, sections)
}

// HandleGet handles GET /api/sections/{id} requests.
func (h *SectionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id, ok := pathParam(r.URL.Path, "/api/sections/", "")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing section id", ErrBadRequest))
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
	writeJSON(w, http.StatusOK, sec)
}
