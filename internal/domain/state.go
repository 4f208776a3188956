package domain

// SessionState models the turn lifecycle. Exactly one turn is in flight at a
// time; every non-idle state rejects new triggers.
type SessionState string

const (
	StateIdle         SessionState = "idle"
	StateRecording    SessionState = "recording"
	StateTranscribing SessionState = "transcribing"
	StateGenerating   SessionState = "generating"
	StateSpeaking     SessionState = "speaking"
	StateError        SessionState = "error"
)

// Busy reports whether a turn is currently in flight.
func (s SessionState) Busy() bool {
	return s != StateIdle && s != StateError
}
