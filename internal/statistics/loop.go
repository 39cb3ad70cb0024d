package statistics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/swinglab/pendctl/internal/loop"
)

const loopSubsystem = "loop"

type LoopCollector struct {
	schedulers []*loop.Scheduler

	maxDuration *prometheus.Desc
	avgDuration *prometheus.Desc
}

func NewLoopCollector(schedulers []*loop.Scheduler) *LoopCollector {
	return &LoopCollector{
		schedulers: schedulers,
		maxDuration: prometheus.NewDesc(prometheus.BuildFQName(namespace, loopSubsystem, "tick_duration_max_seconds"),
			"Maximum tick execution time over the recent window",
			[]string{"loop"}, nil,
		),
		avgDuration: prometheus.NewDesc(prometheus.BuildFQName(namespace, loopSubsystem, "tick_duration_avg_seconds"),
			"Average tick execution time over the recent window",
			[]string{"loop"}, nil,
		),
	}
}

func (collector *LoopCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.maxDuration
	ch <- collector.avgDuration
}

// Collect implements required collect function for all prometheus collectors
func (collector *LoopCollector) Collect(ch chan<- prometheus.Metric) {
	for _, scheduler := range collector.schedulers {
		name := scheduler.Name()
		ch <- prometheus.MustNewConstMetric(collector.maxDuration, prometheus.GaugeValue, scheduler.MaxDuration(), name)
		ch <- prometheus.MustNewConstMetric(collector.avgDuration, prometheus.GaugeValue, scheduler.AvgDuration(), name)
	}
}
