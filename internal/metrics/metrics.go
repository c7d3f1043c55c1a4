package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prepwise",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"method", "path", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "prepwise",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "prepwise",
		Name:      "http_in_flight_requests",
		Help:      "Current number of in-flight HTTP requests",
	})

	sessionsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prepwise",
		Name:      "sessions_started_total",
		Help:      "Voice sessions started, by mode",
	}, []string{"mode"})

	sessionsReaped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "prepwise",
		Name:      "sessions_reaped_total",
		Help:      "Sessions force-disconnected by the reaper",
	})

	feedbackWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prepwise",
		Name:      "feedback_results_total",
		Help:      "Feedback generation outcomes",
	}, []string{"result"})
)

// SessionStarted records a session start for the given mode.
func SessionStarted(mode string) {
	sessionsStarted.WithLabelValues(mode).Inc()
}

// SessionReaped records a reaper force-disconnect.
func SessionReaped() {
	sessionsReaped.Inc()
}

// FeedbackResult records a feedback generation outcome ("success"/"failure").
func FeedbackResult(result string) {
	feedbackWrites.WithLabelValues(result).Inc()
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records request metrics with Prometheus labels.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			httpInFlight.Inc()
			defer httpInFlight.Dec()

			next.ServeHTTP(rec, r)

			labels := prometheus.Labels{
				"method": r.Method,
				"path":   r.URL.Path,
				"status": strconv.Itoa(rec.status),
			}
			httpRequests.With(labels).Inc()
			httpLatency.With(labels).Observe(time.Since(start).Seconds())
		})
	}
}

// Handler exposes the default Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
