package application

import (
	"time"

	"voice-assistant/internal/domain"
)

// EventSink receives session lifecycle events so the UI (and any other
// observer) can re-render without polling.
type EventSink interface {
	StateChanged(state domain.SessionState)
	TurnCompleted(result domain.TurnResult, elapsed time.Duration)
	TurnFailed(stage domain.Stage, err error)
}

type NoopSink struct{}

func (n *NoopSink) StateChanged(_ domain.SessionState)                 {}
func (n *NoopSink) TurnCompleted(_ domain.TurnResult, _ time.Duration) {}
func (n *NoopSink) TurnFailed(_ domain.Stage, _ error)                 {}

// MultiSink fans events out to several sinks in order.
type MultiSink []EventSink

func (m MultiSink) StateChanged(state domain.SessionState) {
	for _, s := range m {
		s.StateChanged(state)
	}
}

func (m MultiSink) TurnCompleted(result domain.TurnResult, elapsed time.Duration) {
	for _, s := range m {
		s.TurnCompleted(result, elapsed)
	}
}

func (m MultiSink) TurnFailed(stage domain.Stage, err error) {
	for _, s := range m {
		s.TurnFailed(stage, err)
	}
}
