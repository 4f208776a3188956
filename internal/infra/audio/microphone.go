//go:build portaudio
// +build portaudio

package audio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"voice-assistant/internal/domain"
)

const framesPerBuffer = 1024

// MicrophoneRecorder captures mono PCM-16 from the default input device.
// The device is held only between Start and Stop; capture self-terminates
// once the configured maximum duration of samples has been buffered.
type MicrophoneRecorder struct {
	sampleRate  int
	maxDuration time.Duration
	logger      *slog.Logger

	mu      sync.Mutex
	stream  *portaudio.Stream
	samples []int16
	stop    chan struct{}
	done    chan struct{}
}

func NewMicrophoneRecorder(sampleRate int, maxDuration time.Duration, logger *slog.Logger) *MicrophoneRecorder {
	return &MicrophoneRecorder{
		sampleRate:  sampleRate,
		maxDuration: maxDuration,
		logger:      logger,
	}
}

func (m *MicrophoneRecorder) Name() string {
	return "microphone"
}

func (m *MicrophoneRecorder) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stream != nil {
		return fmt.Errorf("capture already running")
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("%w: initializing portaudio: %v", domain.ErrDeviceUnavailable, err)
	}

	buffer := make([]int16, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(m.sampleRate), framesPerBuffer, buffer)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("%w: opening input stream: %v", domain.ErrDeviceUnavailable, err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("%w: starting input stream: %v", domain.ErrDeviceUnavailable, err)
	}

	m.stream = stream
	m.samples = m.samples[:0]
	m.stop = make(chan struct{})
	m.done = make(chan struct{})

	m.logger.Info("microphone capture started", "sample_rate", m.sampleRate, "max_duration", m.maxDuration)

	go m.capture(ctx, stream, buffer)
	return nil
}

// streamReader is the part of the portaudio stream the capture loop uses.
// The loop gets the stream as a parameter and never touches m.stream, so
// Stop can tear the field down without racing the goroutine.
type streamReader interface {
	Read() error
}

func (m *MicrophoneRecorder) capture(ctx context.Context, stream streamReader, buffer []int16) {
	defer close(m.done)

	maxSamples := int(m.maxDuration.Seconds() * float64(m.sampleRate))

	for {
		select {
		case <-m.stop:
			return
		case <-ctx.Done():
			return
		default:
		}

		if err := stream.Read(); err != nil {
			m.logger.Warn("reading from input stream", "error", err)
			return
		}

		m.mu.Lock()
		m.samples = append(m.samples, buffer...)
		full := maxSamples > 0 && len(m.samples) >= maxSamples
		m.mu.Unlock()

		if full {
			m.logger.Info("maximum recording duration reached")
			return
		}
	}
}

// Stop ends capture, releases the device and returns the recording as WAV
// bytes. The device is released even when the capture is empty.
func (m *MicrophoneRecorder) Stop() ([]byte, error) {
	m.mu.Lock()
	stream := m.stream
	stop := m.stop
	done := m.done
	m.stop = nil
	m.mu.Unlock()

	if stream == nil || stop == nil {
		return nil, fmt.Errorf("capture not running")
	}

	close(stop)
	<-done

	stream.Stop()
	stream.Close()
	portaudio.Terminate()

	m.mu.Lock()
	m.stream = nil
	samples := m.samples
	m.samples = nil
	m.mu.Unlock()

	if len(samples) == 0 {
		return nil, domain.ErrEmptyCapture
	}

	return EncodeWAV(samples, m.sampleRate)
}
