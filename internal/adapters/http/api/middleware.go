package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/eventdash/pkg/logger"
	"github.com/okian/eventdash/pkg/metrics"
)

const microsPerMilli = 1000

// MetricsMiddleware wraps a dashboard handler to record request metrics.
// Failed requests are also counted per error class and logged under "http".
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	log := logger.Named("http")
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		durationMs := float64(time.Since(start).Microseconds()) / microsPerMilli
		status := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, durationMs)

		if rec.status < http.StatusBadRequest {
			return
		}
		class := errorClass(rec.status)
		metrics.RecordErrorByEndpoint(endpoint, r.Method, class)
		metrics.RecordErrorByType(class, severity(rec.status))
		metrics.RecordErrorByComponent(endpoint, class)
		metrics.RecordErrorLatency("http", class, durationMs)

		fields := []logger.Field{
			logger.String("endpoint", endpoint),
			logger.String("path", r.URL.Path),
			logger.Int("status", rec.status),
			logger.Float64("durationMs", durationMs),
		}
		if rec.status >= http.StatusInternalServerError {
			log.Error(r.Context(), "request failed", fields...)
			return
		}
		log.Debug(r.Context(), "request rejected", fields...)
	}
}

// errorClass buckets an error status for metric labels. Charts that have
// nothing to draw answer 422 and get their own class.
func errorClass(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error"
	case status == http.StatusUnprocessableEntity:
		return "unprocessable"
	case status == http.StatusNotFound:
		return "not_found"
	default:
		return "client_error"
	}
}

func severity(status int) string {
	if status >= http.StatusInternalServerError {
		return "high"
	}
	return "medium"
}

// statusRecorder remembers the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}
