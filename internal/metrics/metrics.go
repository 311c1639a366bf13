// Package metrics exposes Prometheus instruments for backend calls, scenario
// hydrations and served requests.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"publisher-planner/internal/api"
	"publisher-planner/internal/handler"
)

const namespace = "planner"

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	apiDuration  *prometheus.HistogramVec
	hydrations   *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New builds metrics on a private registry that also carries the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		apiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Duration of requests to the cost-modeling backend.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
		hydrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "hydrations_total",
			Help:      "Scenario hydrations by outcome.",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Served requests by view and status.",
		}, []string{"view", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of served requests by view.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"view"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiDuration,
		m.hydrations,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Hydration counts one finished scenario hydration.
func (m *Metrics) Hydration(_ string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.hydrations.WithLabelValues(outcome).Inc()
}

type instrumentedDoer struct {
	next api.Doer
	m    *Metrics
}

// Doer times every backend request made through next.
func (m *Metrics) Doer(next api.Doer) api.Doer {
	return &instrumentedDoer{next: next, m: m}
}

func (d *instrumentedDoer) DoTimeout(req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error {
	start := time.Now()
	err := d.next.DoTimeout(req, resp, timeout)
	status := OutcomeError
	if err == nil {
		status = strconv.Itoa(resp.StatusCode())
	}
	d.m.apiDuration.WithLabelValues(string(req.Header.Method()), status).Observe(time.Since(start).Seconds())
	return err
}

// Middleware counts and times requests served by next, labelled with the
// view the handler resolved.
func (m *Metrics) Middleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(rc *fasthttp.RequestCtx) {
		start := time.Now()
		next(rc)
		view := handler.ViewOf(rc)
		m.httpRequests.WithLabelValues(view, strconv.Itoa(rc.Response.StatusCode())).Inc()
		m.httpDuration.WithLabelValues(view).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
