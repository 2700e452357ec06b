package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels.
const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultNotFound = "not_found"
)

// Registry holds every collector exposed by Handler.
var Registry = prometheus.NewRegistry()

var (
	factory = promauto.With(Registry)

	documentSaves = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "resume_document_saves_total",
		Help: "Document saves by kind and result",
	}, []string{"kind", "result"})

	documentLoads = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "resume_document_loads_total",
		Help: "Document loads by kind and result",
	}, []string{"kind", "result"})

	saveDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "resume_document_save_duration_seconds",
		Help:    "Document save latency in seconds",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"kind"})

	sessionsActive = factory.NewGauge(prometheus.GaugeOpts{
		Name: "resume_sessions_active",
		Help: "Editing sessions currently held in memory",
	})

	requestDuration = factory.NewSummaryVec(prometheus.SummaryOpts{
		Name:       "http_request_duration_seconds",
		Help:       "HTTP request duration in seconds",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	}, []string{"method", "path", "status_code"})

	requestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status_code"})
)

func init() {
	Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// ObserveSave records one document save.
func ObserveSave(kind, result string, d time.Duration) {
	documentSaves.WithLabelValues(kind, result).Inc()
	saveDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// IncLoad records one document load.
func IncLoad(kind, result string) {
	documentLoads.WithLabelValues(kind, result).Inc()
}

// SetActiveSessions sets the number of live editing sessions.
func SetActiveSessions(n int) {
	sessionsActive.Set(float64(n))
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry}))
}

// Middleware records request counts and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		requestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
