package application

import "context"

// Transcriber converts a recorded WAV buffer into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Speaker synthesizes text and blocks until playback through the default
// output device has finished.
type Speaker interface {
	Speak(ctx context.Context, text string) error
	Name() string
}

// NoopSpeaker is used when spoken replies are disabled in config.
type NoopSpeaker struct{}

func (n *NoopSpeaker) Speak(_ context.Context, _ string) error { return nil }

func (n *NoopSpeaker) Name() string { return "noop" }
