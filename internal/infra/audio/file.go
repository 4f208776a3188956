package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"voice-assistant/internal/domain"
)

// FileRecorder is a microphone stand-in for machines without an input
// device: each Stop consumes the oldest unprocessed audio file from a
// directory as if it had just been recorded.
type FileRecorder struct {
	dir string

	mu        sync.Mutex
	recording bool
	processed map[string]bool
}

func NewFileRecorder(dir string) *FileRecorder {
	return &FileRecorder{
		dir:       dir,
		processed: make(map[string]bool),
	}
}

func (f *FileRecorder) Name() string {
	return "file"
}

func (f *FileRecorder) Start(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("%w: creating audio dir: %v", domain.ErrDeviceUnavailable, err)
	}
	f.recording = true
	return nil
}

func (f *FileRecorder) Stop() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.recording {
		return nil, fmt.Errorf("capture not running")
	}
	f.recording = false

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("reading dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := filepath.Ext(entry.Name())
		if ext != ".wav" && ext != ".mp3" && ext != ".m4a" && ext != ".webm" {
			continue
		}

		path := filepath.Join(f.dir, entry.Name())
		if f.processed[path] {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading file %s: %w", path, err)
		}

		f.processed[path] = true
		return data, nil
	}

	return nil, domain.ErrEmptyCapture
}
