package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Audio     AudioConfig     `yaml:"audio"`
	Chat      ChatConfig      `yaml:"chat"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Speech    SpeechConfig    `yaml:"speech"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type AudioConfig struct {
	Source           string `yaml:"source"`
	FileDir          string `yaml:"file_dir"`
	SampleRate       int    `yaml:"sample_rate"`
	MaxRecordSeconds int    `yaml:"max_record_seconds"`
}

// ChatConfig selects which backend generates assistant replies and how.
// Transcription always goes through OpenAI.
type ChatConfig struct {
	Provider     string   `yaml:"provider"`
	SystemPrompt string   `yaml:"system_prompt"`
	Temperature  *float32 `yaml:"temperature"`
}

type OpenAIConfig struct {
	APIKey          string `yaml:"api_key"`
	ChatModel       string `yaml:"chat_model"`
	TranscribeModel string `yaml:"transcribe_model"`
	Language        string `yaml:"language"`
}

type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type SpeechConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Engine  string `yaml:"engine"`
	Rate    int    `yaml:"rate"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

// SpeechEnabled reports whether replies should be spoken aloud. On by
// default.
func (c *Config) SpeechEnabled() bool {
	return c.Speech.Enabled == nil || *c.Speech.Enabled
}

// ChatTemperature returns the sampling temperature, defaulting to 0.6 when
// unset. An explicit 0 is respected.
func (c *Config) ChatTemperature() float32 {
	if c.Chat.Temperature == nil {
		return 0.6
	}
	return *c.Chat.Temperature
}

func (c *Config) setDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Audio.Source == "" {
		c.Audio.Source = "microphone"
	}
	if c.Audio.FileDir == "" {
		c.Audio.FileDir = "./audio"
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 16000
	}
	if c.Audio.MaxRecordSeconds == 0 {
		c.Audio.MaxRecordSeconds = 30
	}
	if c.Chat.Provider == "" {
		c.Chat.Provider = "openai"
	}
	if c.OpenAI.APIKey == "" {
		c.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.Anthropic.APIKey == "" {
		c.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if c.Gemini.APIKey == "" {
		c.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.OpenAI.ChatModel == "" {
		c.OpenAI.ChatModel = "gpt-4o-mini"
	}
	if c.OpenAI.TranscribeModel == "" {
		c.OpenAI.TranscribeModel = "whisper-1"
	}
	if c.Speech.Rate == 0 {
		c.Speech.Rate = 160
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}
