package monitoring

import (
	"coder_edu_catalog/internal/catalog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	CatalogEntities = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_entities",
			Help: "Number of entities in the serving catalog",
		},
		[]string{"kind"},
	)

	CatalogViolations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_violations_total",
			Help: "Consistency violations reported by catalog loads",
		},
		[]string{"kind", "severity"},
	)

	CatalogReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_reloads_total",
			Help: "Catalog reload attempts by result",
		},
		[]string{"result"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(CatalogEntities)
	prometheus.MustRegister(CatalogViolations)
	prometheus.MustRegister(CatalogReloads)
}

// RecordCatalog 更新当前目录的实体数量
func RecordCatalog(s catalog.Stats) {
	CatalogEntities.WithLabelValues("course").Set(float64(s.Courses))
	CatalogEntities.WithLabelValues("module").Set(float64(s.Modules))
	CatalogEntities.WithLabelValues("lesson").Set(float64(s.Lessons))
	CatalogEntities.WithLabelValues("quiz_question").Set(float64(s.QuizQuestions))
	CatalogEntities.WithLabelValues("assignment").Set(float64(s.Assignments))
}

func RecordReport(r *catalog.Report) {
	if r == nil {
		return
	}
	for _, v := range r.Violations {
		CatalogViolations.WithLabelValues(string(v.Kind), string(v.Severity)).Inc()
	}
}

func RecordReload(ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	CatalogReloads.WithLabelValues(result).Inc()
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
