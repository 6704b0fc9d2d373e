package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lifecommander",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lifecommander",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~2.5s
		},
		[]string{"method", "path"},
	)

	timersCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lifecommander",
			Subsystem: "timers",
			Name:      "completed_total",
			Help:      "Timers moved to COMPLETED by the timer checker.",
		},
	)

	timerCheckRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lifecommander",
			Subsystem: "timers",
			Name:      "check_runs_total",
			Help:      "Timer checker runs by outcome.",
		},
		[]string{"success"},
	)

	completionJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lifecommander",
			Subsystem: "habits",
			Name:      "completion_jobs_total",
			Help:      "Completion recompute jobs by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		timersCompleted,
		timerCheckRuns,
		completionJobs,
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request count and latency by route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func RecordTimersCompleted(n int) {
	if n > 0 {
		timersCompleted.Add(float64(n))
	}
}

func RecordTimerCheck(success bool) {
	timerCheckRuns.WithLabelValues(strconv.FormatBool(success)).Inc()
}

// RecordCompletionJob outcome is one of processed, failed, dropped.
func RecordCompletionJob(outcome string) {
	completionJobs.WithLabelValues(outcome).Inc()
}
