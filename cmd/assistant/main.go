package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"voice-assistant/config"
	"voice-assistant/internal/application"
	"voice-assistant/internal/infra/anthropic"
	"voice-assistant/internal/infra/audio"
	"voice-assistant/internal/infra/gemini"
	"voice-assistant/internal/infra/metrics"
	"voice-assistant/internal/infra/openai"
	"voice-assistant/internal/infra/speech"
	"voice-assistant/internal/server"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// A .env next to the binary is optional; the config file and real
	// environment take precedence over nothing being there.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Log)

	if cfg.OpenAI.APIKey == "" {
		logger.Error("openai api key is not set, configure openai.api_key or OPENAI_API_KEY")
		os.Exit(1)
	}

	recorder := createRecorder(cfg.Audio, logger)

	transcriber := openai.NewTranscriberClient(cfg.OpenAI.APIKey, cfg.OpenAI.TranscribeModel, cfg.OpenAI.Language)
	responder := createResponder(cfg, logger)

	var speaker application.Speaker
	if cfg.SpeechEnabled() {
		speaker = speech.NewEngine(cfg.Speech.Engine, cfg.Speech.Rate, logger)
	} else {
		speaker = &application.NoopSpeaker{}
	}

	hub := server.NewHub(logger)
	instruments := metrics.New(prometheus.DefaultRegisterer)
	events := application.MultiSink{hub, instruments}

	session := application.NewSession(recorder, transcriber, responder, speaker, events, logger)
	srv := server.New(session, hub, prometheus.DefaultGatherer, logger)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	logger.Info("starting voice assistant",
		"addr", cfg.Server.Addr,
		"audio_source", cfg.Audio.Source,
		"chat_model", cfg.OpenAI.ChatModel,
		"speech", speaker.Name(),
	)

	if err := srv.Listen(cfg.Server.Addr); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func createResponder(cfg *config.Config, logger *slog.Logger) application.Responder {
	switch cfg.Chat.Provider {
	case "anthropic":
		if cfg.Anthropic.APIKey == "" {
			logger.Error("anthropic api key is not set, configure anthropic.api_key or ANTHROPIC_API_KEY")
			os.Exit(1)
		}
		return anthropic.NewClaudeClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.Chat.SystemPrompt)
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			logger.Error("gemini api key is not set, configure gemini.api_key or GEMINI_API_KEY")
			os.Exit(1)
		}
		return gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Chat.SystemPrompt, float64(cfg.ChatTemperature()))
	case "openai":
		return openai.NewChatClient(cfg.OpenAI.APIKey, cfg.OpenAI.ChatModel, cfg.Chat.SystemPrompt, cfg.ChatTemperature())
	default:
		logger.Warn("unknown chat provider, using openai", "provider", cfg.Chat.Provider)
		return openai.NewChatClient(cfg.OpenAI.APIKey, cfg.OpenAI.ChatModel, cfg.Chat.SystemPrompt, cfg.ChatTemperature())
	}
}

func createRecorder(cfg config.AudioConfig, logger *slog.Logger) application.Recorder {
	maxDuration := time.Duration(cfg.MaxRecordSeconds) * time.Second
	switch cfg.Source {
	case "file":
		return audio.NewFileRecorder(cfg.FileDir)
	case "microphone":
		return audio.NewMicrophoneRecorder(cfg.SampleRate, maxDuration, logger)
	default:
		logger.Warn("unknown audio source, using microphone", "source", cfg.Source)
		return audio.NewMicrophoneRecorder(cfg.SampleRate, maxDuration, logger)
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
