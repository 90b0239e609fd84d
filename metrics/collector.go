// Package metrics exposes rotlog handler statistics to Prometheus
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/philipp01105/rotlog/handler"
)

const namespace = "rotlog"

// Collector reports the statistics of every handler in a handler.Registry.
// Values are read at scrape time, so handlers created after registration
// show up without further wiring.
type Collector struct {
	handlers *handler.Registry

	handlerCount *prometheus.Desc
	written      *prometheus.Desc
	filtered     *prometheus.Desc
	rotations    *prometheus.Desc
	writeErrors  *prometheus.Desc
	nextRollover *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector for the handlers in reg
func NewCollector(reg *handler.Registry) *Collector {
	fileLabel := []string{"file"}
	return &Collector{
		handlers: reg,
		handlerCount: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "handlers"),
			"Number of registered rotating file handlers",
			nil, nil,
		),
		written: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "records_written_total"),
			"Total number of records written to the log file",
			fileLabel, nil,
		),
		filtered: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "records_filtered_total"),
			"Total number of records dropped by the handler's level",
			fileLabel, nil,
		),
		rotations: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "rotations_total"),
			"Total number of completed rollovers",
			fileLabel, nil,
		),
		writeErrors: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "write_errors_total"),
			"Total number of failed writes and rollovers",
			fileLabel, nil,
		),
		nextRollover: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "next_rollover_timestamp_seconds"),
			"Unix time of the next scheduled rollover",
			fileLabel, nil,
		),
	}
}

// Register creates a collector for reg and registers it with r
func Register(r prometheus.Registerer, reg *handler.Registry) (*Collector, error) {
	c := NewCollector(reg)
	if err := r.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Describe implements the Collector interface
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.handlerCount
	ch <- c.written
	ch <- c.filtered
	ch <- c.rotations
	ch <- c.writeErrors
	ch <- c.nextRollover
}

// Collect implements the Collector interface
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	handlers := c.handlers.Handlers()
	ch <- prometheus.MustNewConstMetric(c.handlerCount, prometheus.GaugeValue, float64(len(handlers)))

	for _, h := range handlers {
		file := h.Path()
		s := h.Stats()
		ch <- prometheus.MustNewConstMetric(c.written, prometheus.CounterValue, float64(s.Processed), file)
		ch <- prometheus.MustNewConstMetric(c.filtered, prometheus.CounterValue, float64(s.Filtered), file)
		ch <- prometheus.MustNewConstMetric(c.rotations, prometheus.CounterValue, float64(s.Rotations), file)
		ch <- prometheus.MustNewConstMetric(c.writeErrors, prometheus.CounterValue, float64(s.Errors), file)

		next := h.RolloverAt()
		ch <- prometheus.MustNewConstMetric(c.nextRollover, prometheus.GaugeValue, float64(next.UnixNano())/1e9, file)
	}
}
