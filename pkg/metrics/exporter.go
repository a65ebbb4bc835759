// Package metrics exposes disk capacity as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/danpilch/diskmon/pkg/collectors/disk"
	"github.com/danpilch/diskmon/pkg/resource"
)

const namespace = "diskmon"

// capacity is implemented by resources that report byte counts.
type capacity interface {
	Free() (uint64, bool)
	Total() (uint64, bool)
}

// Exporter is a prometheus.Collector reading the last samples held by a
// resource registry. It never triggers sampling itself.
type Exporter struct {
	reg *resource.Registry

	free     *prometheus.Desc
	total    *prometheus.Desc
	ratio    *prometheus.Desc
	minRatio *prometheus.Desc
	known    *prometheus.Desc
}

// NewExporter creates an exporter over the disks in reg.
func NewExporter(reg *resource.Registry) *Exporter {
	labels := []string{"device"}
	return &Exporter{
		reg: reg,

		free: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "disk", "free_bytes"),
			"Available bytes on the device at the last sample.",
			labels, nil,
		),
		total: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "disk", "total_bytes"),
			"Total bytes on the device at the last sample.",
			labels, nil,
		),
		ratio: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "disk", "free_ratio"),
			"Available bytes divided by total bytes.",
			labels, nil,
		),
		minRatio: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "disk", "min_free_ratio"),
			"Lowest free ratio across all sampled disks, +Inf when none are sampled.",
			nil, nil,
		),
		known: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "disks", "known"),
			"Number of disks currently known to discovery.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- e.free
	ch <- e.total
	ch <- e.ratio
	ch <- e.minRatio
	ch <- e.known
}

// Collect implements prometheus.Collector. Disks without a sample are
// omitted from the per-device series.
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	instances := e.reg.Instances(disk.TypeName)
	for _, inst := range instances {
		dev := inst.ID()
		if c, ok := inst.(capacity); ok {
			if free, ok := c.Free(); ok {
				ch <- prometheus.MustNewConstMetric(e.free, prometheus.GaugeValue, float64(free), dev)
			}
			if total, ok := c.Total(); ok {
				ch <- prometheus.MustNewConstMetric(e.total, prometheus.GaugeValue, float64(total), dev)
			}
		}
		if r, ok := inst.Ratio(); ok {
			ch <- prometheus.MustNewConstMetric(e.ratio, prometheus.GaugeValue, r, dev)
		}
	}

	if lowest, err := e.reg.Value(disk.AggregateName); err == nil {
		ch <- prometheus.MustNewConstMetric(e.minRatio, prometheus.GaugeValue, lowest)
	}
	ch <- prometheus.MustNewConstMetric(e.known, prometheus.GaugeValue, float64(len(instances)))
}
