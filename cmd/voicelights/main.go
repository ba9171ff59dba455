package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voice-lights/config"
	"voice-lights/internal/application"
	"voice-lights/internal/infra/anthropic"
	"voice-lights/internal/infra/audio"
	"voice-lights/internal/infra/gemini"
	"voice-lights/internal/infra/googletranslate"
	"voice-lights/internal/infra/history"
	"voice-lights/internal/infra/httpapi"
	"voice-lights/internal/infra/openai"
	"voice-lights/internal/infra/pushover"
	"voice-lights/internal/infra/relay"
	"voice-lights/internal/interpreter"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	translateTimeout := config.Duration(cfg.Translator.Timeout, interpreter.DefaultTranslateTimeout, logger)
	interp := interpreter.New(createTranslator(cfg.Translator, translateTimeout, logger), translateTimeout, logger)

	relayClient := relay.NewClient(cfg.Relay.BaseURL, config.Duration(cfg.Relay.Timeout, 5*time.Second, logger))
	if err := relayClient.Ping(ctx); err != nil {
		logger.Warn("relay board not reachable, continuing", "base_url", cfg.Relay.BaseURL, "error", err)
	} else {
		logger.Info("relay board connected", "base_url", cfg.Relay.BaseURL)
	}

	var store application.HistoryStore = application.NoopHistory{}
	if cfg.History.Enabled {
		db, err := history.Open(cfg.History.Path)
		if err != nil {
			logger.Error("opening history", "error", err, "path", cfg.History.Path)
			os.Exit(1)
		}
		defer db.Close()
		store = db
	}

	var notifier application.Notifier
	if cfg.Pushover.Enabled {
		notifier = pushover.NewClient(cfg.Pushover.Token, cfg.Pushover.UserKey)
	} else {
		notifier = &application.NoopNotifier{}
	}

	var stt application.SpeechToText = &application.NoopSTT{}
	if cfg.OpenAI.APIKey != "" {
		stt = openai.NewWhisperClient(cfg.OpenAI.APIKey, cfg.OpenAI.Language)
	}

	lights := application.NewLightService(interp, relayClient, store, notifier, logger)
	if err := lights.Refresh(ctx); err != nil {
		logger.Warn("initial status refresh failed", "error", err)
	}
	lights.StartPolling(ctx, config.Duration(cfg.Relay.PollInterval, 2*time.Second, logger))

	server := httpapi.NewServer(cfg.Server.HTTPAddr, lights, stt, httpapi.Options{
		AuthToken:          cfg.Server.AuthToken,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		TrustedProxies:     cfg.Server.TrustedProxies,
		AccessLog:          os.Stdout,
	}, logger)
	if err := server.Start(ctx); err != nil {
		logger.Error("starting HTTP server", "error", err)
		os.Exit(1)
	}
	defer server.Stop()

	logger.Info("starting voice lights",
		"http_addr", cfg.Server.HTTPAddr,
		"translator", cfg.Translator.Provider,
		"audio_source", cfg.Audio.Source,
		"history", cfg.History.Enabled,
	)

	source := createAudioSource(cfg.Audio, logger)
	if source == nil {
		<-ctx.Done()
		return
	}

	assistant := application.NewAssistant(source, stt, lights, logger)
	if err := assistant.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("assistant error", "error", err)
		server.Stop()
		os.Exit(1)
	}
}

func createTranslator(cfg config.TranslatorConfig, timeout time.Duration, logger *slog.Logger) interpreter.Translator {
	switch cfg.Provider {
	case "google":
		if cfg.BaseURL != "" {
			return googletranslate.NewClientWithURL(cfg.BaseURL, timeout)
		}
		return googletranslate.NewClient(timeout)
	case "anthropic":
		if cfg.BaseURL != "" {
			return anthropic.NewClaudeClientWithURL(cfg.APIKey, cfg.Model, cfg.BaseURL, timeout)
		}
		return anthropic.NewClaudeClient(cfg.APIKey, cfg.Model, timeout)
	case "gemini":
		if cfg.BaseURL != "" {
			return gemini.NewClientWithURL(cfg.APIKey, cfg.Model, cfg.BaseURL, timeout)
		}
		return gemini.NewClient(cfg.APIKey, cfg.Model, timeout)
	default:
		logger.Info("translation disabled, using local keyword matching only")
		return interpreter.NoopTranslator{}
	}
}

func createAudioSource(cfg config.AudioConfig, logger *slog.Logger) application.AudioSource {
	switch cfg.Source {
	case "file":
		return audio.NewFileSource(cfg.FileDir)
	case "microphone":
		return audio.NewMicrophoneSource(cfg.SampleRate, logger)
	default:
		return nil
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
