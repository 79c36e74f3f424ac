package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/warp/pos-engine/pos"
)

// Metrics owns its registry so several routers can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	httpReqTotal *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	salesTotal   prometheus.Counter
	salesAmount  prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpReqTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "endpoint", "status"}),
		httpLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pos_http_request_duration_seconds",
			Help:    "Request latency",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"method", "endpoint"}),
		salesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "pos_transactions_total",
			Help: "Recorded sales",
		}),
		salesAmount: factory.NewCounter(prometheus.CounterOpts{
			Name: "pos_sales_amount_total",
			Help: "Sum of recorded sale totals",
		}),
	}
}

// RecordSale counts one recorded transaction.
func (m *Metrics) RecordSale(total pos.Money) {
	m.salesTotal.Inc()
	m.salesAmount.Add(total.InexactFloat64())
}

// Middleware records request count and latency per route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			endpoint = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpReqTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(status)).Inc()
		m.httpLatency.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
