package observability

import (
	"context"
	"strconv"

	"github.com/aretw0/missionkit/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for editor activity.
type Metrics struct {
	Commands        *prometheus.CounterVec
	Changes         *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg uses the default Prometheus registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "missionkit_commands_total",
				Help: "Total number of editor commands, by op and whether they applied",
			},
			[]string{"op", "applied"},
		),
		Changes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "missionkit_changes_total",
				Help: "Total number of graph, selection and drag changes",
			},
			[]string{"type"},
		),
		CommandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "missionkit_command_duration_seconds",
				Help:    "Duration of editor commands including load and save",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"op"},
		),
	}
	for _, c := range []prometheus.Collector{m.Commands, m.Changes, m.CommandDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into the collectors.
// Failed commands count with applied="error".
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCommand: func(_ context.Context, e *domain.CommandEvent) {
			applied := strconv.FormatBool(e.Applied)
			if e.Err != nil {
				applied = "error"
			}
			m.Commands.WithLabelValues(e.Op, applied).Inc()
			m.CommandDuration.WithLabelValues(e.Op).Observe(e.Duration.Seconds())
		},
		OnChange: func(_ context.Context, e *domain.ChangeEvent) {
			m.Changes.WithLabelValues(string(e.Type)).Inc()
		},
	}
}
