// Package metrics exposes Prometheus instrumentation for the HTTP
// surface and the marketplace domain (orders, OTPs, queue jobs).
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lawlaw"

// DefaultRegistry holds every collector this process registers.
var DefaultRegistry = prometheus.NewRegistry()

var (
	// RequestDuration observes handler latency by method, path and status.
	RequestDuration = NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	// RequestTotal counts completed requests.
	RequestTotal = NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Completed HTTP requests.",
	}, []string{"method", "path", "status"})

	// RequestsInFlight gauges concurrent requests.
	RequestsInFlight = NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "Requests currently being served.",
	}, nil)

	// DBQueryDuration observes repository query latency.
	DBQueryDuration = NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "db_query_duration_seconds",
		Help:      "Database query latency by operation.",
		Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
	}, []string{"operation"})

	// QueueJobDuration observes background job runtime.
	QueueJobDuration = NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "queue_job_duration_seconds",
		Help:      "Background job runtime by job name.",
		Buckets:   []float64{.01, .1, .5, 1, 5, 30, 60},
	}, []string{"job"})

	// QueueJobTotal counts job outcomes.
	QueueJobTotal = NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queue_jobs_total",
		Help:      "Background jobs by name and outcome.",
	}, []string{"job", "outcome"})

	// OtpIssuedTotal counts delivered verification codes by channel.
	OtpIssuedTotal = NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_issued_total",
		Help:      "Verification codes issued by channel.",
	}, []string{"channel"})

	// OtpVerifiedTotal counts verification attempts by channel and outcome.
	OtpVerifiedTotal = NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_verified_total",
		Help:      "Verification attempts by channel and outcome.",
	}, []string{"channel", "outcome"})

	// OrdersPlacedTotal counts checkouts that produced an order.
	OrdersPlacedTotal = NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Orders successfully placed.",
	}, nil)

	// OrderStatusTotal counts status assignments by new status.
	OrderStatusTotal = NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_assignments_total",
		Help:      "Order status assignments by status.",
	}, []string{"status"})
)

func init() {
	DefaultRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// NewCounter registers a counter vec on the default registry.
func NewCounter(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	DefaultRegistry.MustRegister(c)
	return c
}

// NewHistogram registers a histogram vec on the default registry.
func NewHistogram(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labels)
	DefaultRegistry.MustRegister(h)
	return h
}

// NewGauge registers a gauge vec on the default registry.
func NewGauge(opts prometheus.GaugeOpts, labels []string) *prometheus.GaugeVec {
	g := prometheus.NewGaugeVec(opts, labels)
	DefaultRegistry.MustRegister(g)
	return g
}

// Handler serves the scrape endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware instruments every request. routePattern extracts the
// templated path so label cardinality stays bounded.
func Middleware(routePattern func(r *http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			RequestsInFlight.WithLabelValues().Inc()
			defer RequestsInFlight.WithLabelValues().Dec()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)

			path := routePattern(r)
			if path == "" {
				path = "unmatched"
			}
			status := strconv.Itoa(rec.status)
			RequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, path, status).Inc()
		})
	}
}

// ObserveDBQuery records one repository query.
func ObserveDBQuery(operation string, d time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordQueueJob records one background job run.
func RecordQueueJob(name string, ok bool, d time.Duration) {
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	QueueJobDuration.WithLabelValues(name).Observe(d.Seconds())
	QueueJobTotal.WithLabelValues(name, outcome).Inc()
}
