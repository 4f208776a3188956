package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"voice-assistant/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "openai:\n  api_key: sk-test\n")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr, got %q", cfg.Server.Addr)
	}
	if cfg.Audio.Source != "microphone" {
		t.Errorf("expected microphone source, got %q", cfg.Audio.Source)
	}
	if cfg.Audio.SampleRate != 16000 {
		t.Errorf("expected 16000 sample rate, got %d", cfg.Audio.SampleRate)
	}
	if cfg.OpenAI.ChatModel != "gpt-4o-mini" {
		t.Errorf("expected default chat model, got %q", cfg.OpenAI.ChatModel)
	}
	if cfg.OpenAI.TranscribeModel != "whisper-1" {
		t.Errorf("expected default transcribe model, got %q", cfg.OpenAI.TranscribeModel)
	}
	if cfg.Chat.Provider != "openai" {
		t.Errorf("expected default chat provider, got %q", cfg.Chat.Provider)
	}
	if cfg.ChatTemperature() != 0.6 {
		t.Errorf("expected default temperature, got %v", cfg.ChatTemperature())
	}
	if cfg.Speech.Rate != 160 {
		t.Errorf("expected default speech rate, got %d", cfg.Speech.Rate)
	}
	if !cfg.SpeechEnabled() {
		t.Error("expected speech enabled by default")
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("expected default log config, got %+v", cfg.Log)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "sk-from-env")
	path := writeConfig(t, "openai:\n  api_key: ${TEST_OPENAI_KEY}\n")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OpenAI.APIKey != "sk-from-env" {
		t.Errorf("expected expanded key, got %q", cfg.OpenAI.APIKey)
	}
}

func TestLoad_APIKeyFromEnvFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-ambient")
	path := writeConfig(t, "log:\n  level: debug\n")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OpenAI.APIKey != "sk-ambient" {
		t.Errorf("expected key from environment, got %q", cfg.OpenAI.APIKey)
	}
}

func TestLoad_ExplicitZeroTemperature(t *testing.T) {
	path := writeConfig(t, "chat:\n  temperature: 0\n")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ChatTemperature() != 0 {
		t.Errorf("expected temperature 0 to be kept, got %v", cfg.ChatTemperature())
	}
}

func TestLoad_SpeechDisabled(t *testing.T) {
	path := writeConfig(t, "speech:\n  enabled: false\n")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SpeechEnabled() {
		t.Error("expected speech disabled")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "audio: [not a map")

	if _, err := config.Load(path); err == nil {
		t.Error("expected error for invalid yaml")
	}
}
