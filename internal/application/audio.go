package application

import "context"

// Recorder captures microphone input for one turn. Start acquires the input
// device and begins buffering; Stop ends capture, releases the device and
// returns the recording as a WAV byte sequence. Implementations must release
// the device on every exit path, including failed starts.
type Recorder interface {
	Start(ctx context.Context) error
	Stop() ([]byte, error)
	Name() string
}

type AudioFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

func DefaultAudioFormat() AudioFormat {
	return AudioFormat{
		SampleRate: 16000,
		Channels:   1,
		BitDepth:   16,
	}
}
