package syncserver

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const metricsNamespace = "wavesync"

type metrics struct {
	registrations prometheus.Counter
	deltas        prometheus.Counter
	broadcasts    prometheus.Counter
	dropped       prometheus.Counter
	connections   prometheus.Gauge
	registered    prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		registrations: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "registrations_total",
			Help:      "Accepted registrations, rebinds included.",
		})),
		deltas: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "deltas_total",
			Help:      "Deltas applied to shared state.",
		})),
		broadcasts: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "broadcasts_total",
			Help:      "Messages fanned out to a session group.",
		})),
		dropped: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "dropped_messages_total",
			Help:      "Inbound messages dropped without effect.",
		})),
		connections: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "connections",
			Help:      "Live connections.",
		})),
		registered: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "registered_connections",
			Help:      "Live connections bound to a session group.",
		})),
	}
}

// register adds c to reg, reusing a collector that is already registered
// under the same descriptor.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// Stats is a point-in-time view of server activity.
type Stats struct {
	Connections   int
	Registered    int
	Registrations uint64
	Deltas        uint64
	Broadcasts    uint64
	Dropped       uint64
}

// Stats reads the current values of the server's collectors.
func (s *Server) Stats() Stats {
	m := s.metrics
	return Stats{
		Connections:   int(gaugeValue(m.connections)),
		Registered:    int(gaugeValue(m.registered)),
		Registrations: uint64(counterValue(m.registrations)),
		Deltas:        uint64(counterValue(m.deltas)),
		Broadcasts:    uint64(counterValue(m.broadcasts)),
		Dropped:       uint64(counterValue(m.dropped)),
	}
}

func counterValue(c prometheus.Counter) float64 {
	var out dto.Metric
	if err := c.Write(&out); err != nil {
		return 0
	}
	return out.GetCounter().GetValue()
}

func gaugeValue(g prometheus.Gauge) float64 {
	var out dto.Metric
	if err := g.Write(&out); err != nil {
		return 0
	}
	return out.GetGauge().GetValue()
}
