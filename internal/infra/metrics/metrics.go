package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"voice-assistant/internal/domain"
)

// Metrics instruments the turn pipeline. It implements
// application.EventSink so it can be fanned in next to the UI sink.
type Metrics struct {
	TurnsCompleted   prometheus.Counter
	TurnsFailed      *prometheus.CounterVec
	TurnDuration     prometheus.Histogram
	StateTransitions *prometheus.CounterVec
}

// New creates and registers all metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TurnsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "assistant_turns_completed_total",
			Help: "Total number of turns that produced an assistant reply",
		}),
		TurnsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "assistant_turns_failed_total",
			Help: "Total number of pipeline failures by stage",
		}, []string{"stage"}),
		TurnDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "assistant_turn_duration_seconds",
			Help:    "Wall time from turn trigger to appended reply",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10), // 250ms to ~2 minutes
		}),
		StateTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "assistant_state_transitions_total",
			Help: "Session state transitions by target state",
		}, []string{"state"}),
	}
}

func (m *Metrics) StateChanged(state domain.SessionState) {
	m.StateTransitions.WithLabelValues(string(state)).Inc()
}

func (m *Metrics) TurnCompleted(_ domain.TurnResult, elapsed time.Duration) {
	m.TurnsCompleted.Inc()
	m.TurnDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) TurnFailed(stage domain.Stage, _ error) {
	m.TurnsFailed.WithLabelValues(string(stage)).Inc()
}
