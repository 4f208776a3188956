package domain

import (
	"errors"
	"fmt"
)

// Stage identifies one step of the turn pipeline.
type Stage string

const (
	StageCapture       Stage = "capture"
	StageTranscription Stage = "transcription"
	StageGeneration    Stage = "generation"
	StageSynthesis     Stage = "synthesis"
)

var (
	// ErrDeviceUnavailable means no audio input device could be opened.
	ErrDeviceUnavailable = errors.New("audio input device unavailable")
	// ErrEmptyCapture means recording produced zero samples.
	ErrEmptyCapture = errors.New("no audio captured")
	// ErrSessionBusy means a turn is already in flight.
	ErrSessionBusy = errors.New("a turn is already in progress")
	// ErrNotRecording means stop or cancel arrived with no capture running.
	ErrNotRecording = errors.New("no recording in progress")
)

// StageError wraps a failure with the pipeline stage it occurred in. The
// stage determines how the failure is handled: capture/transcription/
// generation failures abort the turn before history is touched, synthesis
// failures are presentation-only.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func NewStageError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

// StageOf returns the pipeline stage an error occurred in, if known.
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}
