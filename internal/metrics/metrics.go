package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Simplici0/roasplan/internal/roas"
)

// Recorder counts and times engine calls.
type Recorder struct {
	registry     *prometheus.Registry
	calculations *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// New returns a recorder registered on a fresh registry with the Go and process collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		calculations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roas_calculations_total",
				Help: "Total number of engine calculations",
			},
			[]string{"operation", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "roas_calculation_duration_seconds",
				Help:    "Time spent in engine calculations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// Observe records one call of operation that started at start and finished with err.
func (r *Recorder) Observe(operation string, start time.Time, err error) {
	r.calculations.WithLabelValues(operation, Outcome(err)).Inc()
	r.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Outcome labels err as "ok", the engine error code, or "error".
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if code := roas.Code(err); code != "" {
		return code
	}
	return "error"
}
