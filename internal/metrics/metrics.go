// Package metrics exposes Prometheus instruments for the authentication flow.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "trigate"

// Recorder owns a private registry so tests and multiple servers in one
// process do not collide.
type Recorder struct {
	registry     *prometheus.Registry
	transitions  *prometheus.CounterVec
	faceDistance prometheus.Histogram
	httpDuration *prometheus.HistogramVec
}

// New builds a Recorder with Go runtime and process collectors attached.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mfa",
			Name:      "transitions_total",
			Help:      "Authentication state transitions by outcome.",
		}, []string{"transition", "outcome"}),
		faceDistance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "biometric",
			Name:      "face_distance",
			Help:      "Distance between submitted and enrolled face templates.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 1.0, 1.5},
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	r.registry.MustRegister(
		r.transitions,
		r.faceDistance,
		r.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Transition counts one state machine step.
func (r *Recorder) Transition(transition, outcome string) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(transition, outcome).Inc()
}

// FaceDistance records a biometric comparison distance.
func (r *Recorder) FaceDistance(d float64) {
	if r == nil {
		return
	}
	r.faceDistance.Observe(d)
}

// HTTPRequest records a served request.
func (r *Recorder) HTTPRequest(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
