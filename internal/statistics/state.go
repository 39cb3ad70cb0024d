package statistics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/swinglab/pendctl/internal/state"
)

const stateSubsystem = "state"

type StateCollector struct {
	shared *state.SharedState

	position      *prometheus.Desc
	angle         *prometheus.Desc
	controlSignal *prometheus.Desc
	desiredAngle  *prometheus.Desc
	loopDuration  *prometheus.Desc
	running       *prometheus.Desc
}

func NewStateCollector(shared *state.SharedState) *StateCollector {
	return &StateCollector{
		shared: shared,
		position: prometheus.NewDesc(prometheus.BuildFQName(namespace, stateSubsystem, "position"),
			"Current cart position",
			nil, nil,
		),
		angle: prometheus.NewDesc(prometheus.BuildFQName(namespace, stateSubsystem, "angle_radians"),
			"Current pendulum angle in radians, 0 is hanging down",
			nil, nil,
		),
		controlSignal: prometheus.NewDesc(prometheus.BuildFQName(namespace, stateSubsystem, "control_signal"),
			"Current controller output before motor scaling",
			nil, nil,
		),
		desiredAngle: prometheus.NewDesc(prometheus.BuildFQName(namespace, stateSubsystem, "desired_angle_radians"),
			"Current angle setpoint in radians",
			nil, nil,
		),
		loopDuration: prometheus.NewDesc(prometheus.BuildFQName(namespace, stateSubsystem, "loop_duration_seconds"),
			"Execution time of the most recent control tick",
			nil, nil,
		),
		running: prometheus.NewDesc(prometheus.BuildFQName(namespace, stateSubsystem, "running"),
			"Whether the session run flag is set",
			nil, nil,
		),
	}
}

func (collector *StateCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.position
	ch <- collector.angle
	ch <- collector.controlSignal
	ch <- collector.desiredAngle
	ch <- collector.loopDuration
	ch <- collector.running
}

// Collect implements required collect function for all prometheus collectors
func (collector *StateCollector) Collect(ch chan<- prometheus.Metric) {
	shared := collector.shared
	ch <- prometheus.MustNewConstMetric(collector.position, prometheus.GaugeValue, shared.Position())
	ch <- prometheus.MustNewConstMetric(collector.angle, prometheus.GaugeValue, shared.Angle())
	ch <- prometheus.MustNewConstMetric(collector.controlSignal, prometheus.GaugeValue, shared.ControlSignal())
	ch <- prometheus.MustNewConstMetric(collector.desiredAngle, prometheus.GaugeValue, shared.DesiredAngle())
	ch <- prometheus.MustNewConstMetric(collector.loopDuration, prometheus.GaugeValue, shared.LoopDuration())

	running := 0.0
	if shared.Running() {
		running = 1.0
	}
	ch <- prometheus.MustNewConstMetric(collector.running, prometheus.GaugeValue, running)
}
