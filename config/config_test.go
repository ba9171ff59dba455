package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "relay:\n  base_url: http://10.0.0.7\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.HTTPAddr != ":5001" {
		t.Errorf("http_addr: got %q", cfg.Server.HTTPAddr)
	}
	if cfg.Relay.BaseURL != "http://10.0.0.7" {
		t.Errorf("relay base_url: got %q", cfg.Relay.BaseURL)
	}
	if cfg.Relay.Timeout != "5s" || cfg.Relay.PollInterval != "2s" {
		t.Errorf("relay durations: got %q / %q", cfg.Relay.Timeout, cfg.Relay.PollInterval)
	}
	if cfg.Translator.Provider != "google" || cfg.Translator.Timeout != "10s" {
		t.Errorf("translator: got %+v", cfg.Translator)
	}
	if cfg.Audio.Source != "none" {
		t.Errorf("audio source: got %q", cfg.Audio.Source)
	}
	if cfg.History.Path != "history.db" {
		t.Errorf("history path: got %q", cfg.History.Path)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("log: got %+v", cfg.Log)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("VL_TEST_KEY", "sk-test")

	cfg, err := Load(writeConfig(t, `
translator:
  provider: anthropic
  api_key: ${VL_TEST_KEY}
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Translator.APIKey != "sk-test" {
		t.Errorf("api_key: got %q", cfg.Translator.APIKey)
	}
	if cfg.Translator.Model == "" {
		t.Error("expected default anthropic model")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown provider", "translator:\n  provider: babel\n", "unknown translator provider"},
		{"llm without key", "translator:\n  provider: gemini\n", "requires translator.api_key"},
		{"unknown source", "audio:\n  source: radio\n", "unknown audio source"},
		{"unsupported whisper language", "openai:\n  language: sw\n", "not a supported command language"},
		{"pushover without keys", "pushover:\n  enabled: true\n", "pushover enabled"},
		{"bad yaml", "server: [", "parsing config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDuration(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if got := Duration("3s", time.Second, logger); got != 3*time.Second {
		t.Errorf("got %v, want 3s", got)
	}
	if got := Duration("soon", time.Second, logger); got != time.Second {
		t.Errorf("invalid value: got %v, want default", got)
	}
	if got := Duration("", 2*time.Second, logger); got != 2*time.Second {
		t.Errorf("empty value: got %v, want default", got)
	}
}

func TestLoad_ServerOptions(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  trusted_proxies: ["127.0.0.1", "10.0.0.1"]
openai:
  language: hi
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Server.TrustedProxies) != 2 || cfg.Server.TrustedProxies[1] != "10.0.0.1" {
		t.Errorf("trusted_proxies: got %v", cfg.Server.TrustedProxies)
	}
	if cfg.OpenAI.Language != "hi" {
		t.Errorf("openai language: got %q", cfg.OpenAI.Language)
	}
}
