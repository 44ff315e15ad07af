package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/chatdeck/chatdeck/internal/metrics"
)

// slowRequestThreshold is the duration above which requests are logged at
// WARN level.
const slowRequestThreshold = 100 * time.Millisecond

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// classifyOp maps a request to a collector operation name.
func classifyOp(r *http.Request) string {
	write := r.Method != http.MethodGet
	switch {
	case strings.HasPrefix(r.URL.Path, "/api/chats"):
		if write {
			return metrics.OpChatWrite
		}
		return metrics.OpChatRead
	case strings.HasPrefix(r.URL.Path, "/api/folders"):
		if write {
			return metrics.OpFolderWrite
		}
		return metrics.OpFolderRead
	default:
		return metrics.OpOther
	}
}

// MetricsMiddleware records per-operation request timings. Websocket
// upgrades are skipped, their lifetime is the connection's, not a
// request's.
func MetricsMiddleware(c *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/ws" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			next.ServeHTTP(w, r)
			c.RecordTiming(classifyOp(r), time.Since(start))
		})
	}
}

// LoggingMiddleware logs every request with timing. Slow requests are
// logged at WARN, server errors at ERROR, the rest at DEBUG. Websocket
// upgrades are passed through untouched since wrapping the writer would
// break hijacking.
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/ws" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", duration.Milliseconds(),
			}

			switch {
			case rec.status >= http.StatusInternalServerError:
				logger.Error("request failed", attrs...)
			case duration > slowRequestThreshold:
				logger.Warn("slow request", attrs...)
			default:
				logger.Debug("request completed", attrs...)
			}
		})
	}
}
