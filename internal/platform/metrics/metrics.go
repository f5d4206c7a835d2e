package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/pos_app/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry with the HTTP and sales instruments.
// It implements services.SalesRecorder.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	sales           *prometheus.CounterVec
	revenue         *prometheus.CounterVec
	itemsSold       prometheus.Counter
	stockRejections prometheus.Counter
}

// New creates the instruments under namespace (e.g. "pos") and registers
// them, together with the Go and process collectors, on a fresh registry.
func New(namespace string) *Metrics {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = "pos"
	}
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		sales: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_total",
			Help:      "Completed sales by payment method.",
		}, []string{"payment_method"}),
		revenue: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_revenue_total",
			Help:      "Sum of completed sale totals by payment method.",
		}, []string{"payment_method"}),
		itemsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_sold_total",
			Help:      "Units sold across all completed sales.",
		}),
		stockRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sale_stock_rejections_total",
			Help:      "Sales rejected because stock could not cover the requested quantity.",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.sales,
		m.revenue,
		m.itemsSold,
		m.stockRejections,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// paymentLabels is the closed set of payment_method label values. Anything
// else a client sends is counted as otherPaymentLabel.
var paymentLabels = map[string]struct{}{
	"cash":    {},
	"card":    {},
	"digital": {},
}

const otherPaymentLabel = "other"

func paymentLabel(method string) string {
	method = strings.ToLower(strings.TrimSpace(method))
	if method == "" {
		return domain.DefaultPaymentMethod
	}
	if _, ok := paymentLabels[method]; ok {
		return method
	}
	return otherPaymentLabel
}

// RecordSale counts a committed sale.
func (m *Metrics) RecordSale(txn domain.Transaction) {
	method := paymentLabel(txn.PaymentMethod)
	m.sales.WithLabelValues(method).Inc()
	m.revenue.WithLabelValues(method).Add(txn.Total.InexactFloat64())

	units := 0
	for _, item := range txn.Items {
		units += item.Quantity
	}
	m.itemsSold.Add(float64(units))
}

// RecordStockRejection counts a sale refused for insufficient stock.
func (m *Metrics) RecordStockRejection() {
	m.stockRejections.Inc()
}

// GinMiddleware records request counts and latency. The route label is the
// matched route template, so ids do not explode label cardinality.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
