package audio_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"voice-assistant/internal/domain"
	"voice-assistant/internal/infra/audio"
)

func TestFileRecorder_ConsumesFilesInOrder(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"a.wav", "b.wav"} {
		path := filepath.Join(tmpDir, name)
		if err := os.WriteFile(path, []byte("RIFF....WAVEfmt "+name), 0644); err != nil {
			t.Fatalf("writing test file: %v", err)
		}
	}

	recorder := audio.NewFileRecorder(tmpDir)

	for i := 0; i < 2; i++ {
		if err := recorder.Start(context.Background()); err != nil {
			t.Fatalf("Start %d: %v", i, err)
		}
		data, err := recorder.Stop()
		if err != nil {
			t.Fatalf("Stop %d: %v", i, err)
		}
		if len(data) == 0 {
			t.Errorf("capture %d is empty", i)
		}
	}
}

func TestFileRecorder_EmptyDir(t *testing.T) {
	recorder := audio.NewFileRecorder(t.TempDir())

	if err := recorder.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := recorder.Stop(); !errors.Is(err, domain.ErrEmptyCapture) {
		t.Errorf("expected ErrEmptyCapture, got %v", err)
	}
}

func TestFileRecorder_StopWithoutStart(t *testing.T) {
	recorder := audio.NewFileRecorder(t.TempDir())

	if _, err := recorder.Stop(); err == nil {
		t.Error("expected error for stop without start")
	}
}
