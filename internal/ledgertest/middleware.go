package ledgertest

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/walletflow/internal/infrastructure/metrics"
)

// IdempotencyKeyHeader is the header mutating requests are deduplicated
// on, scoped per method and path.
const IdempotencyKeyHeader = "Idempotency-Key"

// idempotencyMiddleware replays the recorded response for a repeated key
// instead of executing the handler again, so resubmitting a mutating call
// produces exactly one ledger effect.
func (s *Server) idempotencyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		scope := r.Method + " " + r.URL.Path + " " + key

		s.mu.Lock()
		cached, ok := s.idem[scope]
		s.mu.Unlock()

		if ok {
			if s.cfg.Metrics != nil {
				s.cfg.Metrics.IdempotentReplays.Inc()
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Idempotency-Replay", "true")
			w.Write(cached)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		// Only successful effects are replayable; a failed call may be
		// retried for real with the same key.
		if recorder.statusCode >= 200 && recorder.statusCode < 300 {
			s.mu.Lock()
			s.idem[scope] = recorder.body.Bytes()
			s.mu.Unlock()
		}
	})
}

// metricsMiddleware records request counts and durations per route.
func metricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &responseRecorder{
				ResponseWriter: w,
				body:           &bytes.Buffer{},
				statusCode:     http.StatusOK,
			}
			next.ServeHTTP(recorder, r)

			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = r.URL.Path
			}
			m.HTTPRequests.WithLabelValues(r.Method, pattern, strconv.Itoa(recorder.statusCode)).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
		})
	}
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
