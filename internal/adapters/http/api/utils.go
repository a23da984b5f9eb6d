package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/eventdash/internal/app"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// pathParam returns the single path segment after prefix, optionally with
// suffix removed. ok is false for empty or nested segments.
func pathParam(path, prefix, suffix string) (string, bool) {
	p := strings.TrimPrefix(path, prefix)
	if suffix != "" {
		if !strings.HasSuffix(p, suffix) {
			return "", false
		}
		p = strings.TrimSuffix(p, suffix)
	}
	if p == "" || strings.Contains(p, "/") {
		return "", false
	}
	return p, true
}

func isNotFound(err error) bool {
	return errors.Is(err, service.ErrSectionNotFound)
}
