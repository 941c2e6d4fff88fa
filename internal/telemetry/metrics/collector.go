package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "warden"
	subsystem = "logging"
)

// Collector owns the Prometheus registry and the logging pipeline counters.
// It satisfies logging.Recorder; all methods are safe for concurrent use.
type Collector struct {
	registry *prometheus.Registry

	recordsTotal     prometheus.Counter
	bytesTotal       prometheus.Counter
	rotationsTotal   prometheus.Counter
	writeErrorsTotal prometheus.Counter
	droppedTotal     prometheus.Counter
}

// NewCollector builds a collector backed by the given registry. A nil
// registry gets a fresh one with the standard Go and process collectors.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	c := &Collector{
		registry: registry,
		recordsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "records_written_total",
			Help: "Log records appended to the active log file.",
		}),
		bytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "bytes_written_total",
			Help: "Bytes appended to the active log file.",
		}),
		rotationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "rotations_total",
			Help: "Completed log file rotations.",
		}),
		writeErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "write_errors_total",
			Help: "Failed appends or rotations of the active log file.",
		}),
		droppedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "records_dropped_total",
			Help: "Log records discarded because the writer queue was full or shutting down.",
		}),
	}

	registry.MustRegister(
		c.recordsTotal,
		c.bytesTotal,
		c.rotationsTotal,
		c.writeErrorsTotal,
		c.droppedTotal,
	)
	return c
}

// RecordWrite implements logging.Recorder.
func (c *Collector) RecordWrite(n int) {
	c.recordsTotal.Inc()
	c.bytesTotal.Add(float64(n))
}

// RecordRotation implements logging.Recorder.
func (c *Collector) RecordRotation() { c.rotationsTotal.Inc() }

// RecordWriteError implements logging.Recorder.
func (c *Collector) RecordWriteError() { c.writeErrorsTotal.Inc() }

// RecordDrop implements logging.Recorder.
func (c *Collector) RecordDrop() { c.droppedTotal.Inc() }

// Handler returns the scrape handler for the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
