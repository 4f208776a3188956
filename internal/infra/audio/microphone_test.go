//go:build portaudio
// +build portaudio

package audio

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

type fakeStream struct {
	err   error
	delay time.Duration
}

func (f *fakeStream) Read() error {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.err
}

func newCaptureRecorder(maxDuration time.Duration) *MicrophoneRecorder {
	m := NewMicrophoneRecorder(16000, maxDuration, slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	return m
}

// The capture loop must read only the stream it was handed; m.stream stays
// nil here, so any access to the field would panic the goroutine.
func TestMicrophoneCapture_UsesHandedStreamOnly(t *testing.T) {
	m := newCaptureRecorder(time.Hour)
	buffer := make([]int16, framesPerBuffer)

	go m.capture(context.Background(), &fakeStream{delay: time.Millisecond}, buffer)

	time.Sleep(20 * time.Millisecond)
	close(m.stop)

	select {
	case <-m.done:
	case <-time.After(time.Second):
		t.Fatal("capture did not exit after stop")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.samples) == 0 {
		t.Error("expected buffered samples from capture loop")
	}
}

func TestMicrophoneCapture_StopsAtMaxDuration(t *testing.T) {
	// One buffer of samples exceeds the limit, so the loop self-terminates
	// without the stop channel being closed.
	m := newCaptureRecorder(time.Duration(framesPerBuffer) * time.Second / 16000)
	buffer := make([]int16, framesPerBuffer)

	go m.capture(context.Background(), &fakeStream{}, buffer)

	select {
	case <-m.done:
	case <-time.After(time.Second):
		t.Fatal("capture did not stop at the maximum duration")
	}
}

func TestMicrophoneCapture_ExitsOnReadError(t *testing.T) {
	m := newCaptureRecorder(time.Hour)
	buffer := make([]int16, framesPerBuffer)

	go m.capture(context.Background(), &fakeStream{err: io.ErrUnexpectedEOF}, buffer)

	select {
	case <-m.done:
	case <-time.After(time.Second):
		t.Fatal("capture did not exit on read error")
	}
}

func TestMicrophoneRecorder_StopWithoutStart(t *testing.T) {
	m := NewMicrophoneRecorder(16000, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if _, err := m.Stop(); err == nil {
		t.Error("expected error when stopping without a running capture")
	}
}
