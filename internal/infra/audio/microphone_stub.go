//go:build !portaudio
// +build !portaudio

package audio

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"voice-assistant/internal/domain"
)

// MicrophoneRecorder stub when portaudio is not available.
type MicrophoneRecorder struct {
	logger *slog.Logger
}

func NewMicrophoneRecorder(sampleRate int, maxDuration time.Duration, logger *slog.Logger) *MicrophoneRecorder {
	return &MicrophoneRecorder{logger: logger}
}

func (m *MicrophoneRecorder) Name() string {
	return "microphone"
}

func (m *MicrophoneRecorder) Start(_ context.Context) error {
	return fmt.Errorf("%w: rebuild with -tags portaudio", domain.ErrDeviceUnavailable)
}

func (m *MicrophoneRecorder) Stop() ([]byte, error) {
	return nil, fmt.Errorf("%w: rebuild with -tags portaudio", domain.ErrDeviceUnavailable)
}
