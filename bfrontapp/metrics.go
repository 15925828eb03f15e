package bfrontapp

import (
	"net/http"
	"strconv"

	"github.com/advdv/bfront"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of the front stage. It uses its own registry so tests can create as many as
// they need.
type Metrics struct {
	registry    *prometheus.Registry
	forwards    *prometheus.CounterVec
	recoveries  *prometheus.CounterVec
	unhandleds  prometheus.Counter
	trailLength prometheus.Histogram
}

// NewMetrics creates the collectors and registers them, together with the Go runtime and process collectors.
// The trail length buckets cover every length a dispatch bounded by maxLoop can reach, a maxLoop of zero or less
// selects [bfront.DefaultMaxLoop].
func NewMetrics(maxLoop int) *Metrics {
	if maxLoop <= 0 {
		maxLoop = bfront.DefaultMaxLoop
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		forwards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bfront",
			Name:      "forwards_total",
			Help:      "Number of forwards followed by the dispatcher, by target handler.",
		}, []string{"handler"}),
		recoveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bfront",
			Name:      "recoveries_total",
			Help:      "Number of failed dispatches handed to the error handler, by response status.",
		}, []string{"status"}),
		unhandleds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bfront",
			Name:      "unhandled_errors_total",
			Help:      "Number of errors that reached the pipeline and were rendered as a plain 500.",
		}),
		trailLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bfront",
			Name:      "dispatch_trail_length",
			Help:      "Number of requests processed per successful dispatch.",
			Buckets:   prometheus.LinearBuckets(1, 1, maxLoop+1),
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.forwards, m.recoveries, m.unhandleds, m.trailLength,
	)

	return m
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveTrail returns the stage that runs after the front and records the length of the dispatch trail.
func (m *Metrics) ObserveTrail() bfront.BareHandler {
	return bfront.BareHandlerFunc(func(_ bfront.ResponseWriter, r *http.Request) error {
		if d := bfront.DispatcherFrom(r.Context()); d != nil {
			m.trailLength.Observe(float64(len(d.Trail())))
		}

		return nil
	})
}

func (m *Metrics) forwarded(to *bfront.Request) {
	if m == nil || to == nil {
		return
	}
	m.forwards.WithLabelValues(to.Handler()).Inc()
}

func (m *Metrics) recovering(status int) {
	if m == nil {
		return
	}
	m.recoveries.WithLabelValues(strconv.Itoa(status)).Inc()
}

func (m *Metrics) unhandled() {
	if m == nil {
		return
	}
	m.unhandleds.Inc()
}
