// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector registers and records application metrics
type Collector struct {
	signups      prometheus.Counter
	logins       *prometheus.CounterVec
	orders       prometheus.Counter
	settlements  prometheus.Counter
	httpDuration *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vpay_signups_total",
			Help: "Total number of successful signups",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vpay_logins_total",
			Help: "Total number of login attempts by result",
		}, []string{"result"}),
		orders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vpay_orders_created_total",
			Help: "Total number of payment orders created",
		}),
		settlements: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vpay_payments_settled_total",
			Help: "Total number of payments settled",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vpay_http_request_duration_seconds",
			Help:    "HTTP request duration by route and status code",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status_code"}),
	}

	reg.MustRegister(
		c.signups,
		c.logins,
		c.orders,
		c.settlements,
		c.httpDuration,
	)

	return c
}

// RecordSignup counts a successful signup
func (c *Collector) RecordSignup() {
	c.signups.Inc()
}

// RecordLogin counts a login attempt
func (c *Collector) RecordLogin(ok bool) {
	result := "failed"
	if ok {
		result = "ok"
	}
	c.logins.WithLabelValues(result).Inc()
}

// RecordOrderCreated counts a created payment order
func (c *Collector) RecordOrderCreated() {
	c.orders.Inc()
}

// RecordPaymentSettled counts a settled payment
func (c *Collector) RecordPaymentSettled() {
	c.settlements.Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request duration per route template and status code
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		c.httpDuration.WithLabelValues(route, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	})
}
