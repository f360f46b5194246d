package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/kpidonut/pkg/metrics"
)

// errorClass is the metrics label pair for a failing status code.
type errorClass struct {
	kind     string
	severity string
}

var errorClasses = map[int]errorClass{
	http.StatusBadRequest:            {"client_error", "medium"},
	http.StatusNotFound:              {"not_found", "medium"},
	http.StatusConflict:              {"conflict", "medium"},
	http.StatusRequestEntityTooLarge: {"too_large", "medium"},
	http.StatusTooManyRequests:       {"rate_limit", "medium"},
	http.StatusServiceUnavailable:    {"unavailable", "high"},
}

// MetricsMiddleware records request count and latency for endpoint, plus
// error series for any status >= 400.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		durationMs := float64(time.Since(start).Microseconds()) / 1000
		code := strconv.Itoa(wrapped.statusCode)
		metrics.RecordHTTPRequest(endpoint, r.Method, code)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, code, durationMs)

		if wrapped.statusCode < http.StatusBadRequest {
			return
		}
		class := classifyStatus(wrapped.statusCode)
		metrics.RecordErrorByEndpoint(endpoint, r.Method, class.kind)
		metrics.RecordErrorByType(class.kind, class.severity)
		metrics.RecordErrorLatency("http", class.kind, durationMs)
	}
}

func classifyStatus(code int) errorClass {
	if c, ok := errorClasses[code]; ok {
		return c
	}
	switch {
	case code >= http.StatusInternalServerError:
		return errorClass{"server_error", "high"}
	case code >= http.StatusBadRequest:
		return errorClass{"client_error", "medium"}
	default:
		return errorClass{"unknown", "low"}
	}
}

// responseWriter captures the status code written by the wrapped handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}
	return n, nil
}
