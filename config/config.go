package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"voice-lights/internal/interpreter"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Relay      RelayConfig      `yaml:"relay"`
	Translator TranslatorConfig `yaml:"translator"`
	Audio      AudioConfig      `yaml:"audio"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Pushover   PushoverConfig   `yaml:"pushover"`
	History    HistoryConfig    `yaml:"history"`
	Log        LogConfig        `yaml:"log"`
}

type ServerConfig struct {
	HTTPAddr           string   `yaml:"http_addr"`
	AuthToken          string   `yaml:"auth_token"`
	RateLimitPerMinute int      `yaml:"rate_limit_per_minute"`
	TrustedProxies     []string `yaml:"trusted_proxies"`
}

type RelayConfig struct {
	BaseURL      string `yaml:"base_url"`
	Timeout      string `yaml:"timeout"`
	PollInterval string `yaml:"poll_interval"`
}

// TranslatorConfig selects the service used when local keyword matching
// fails. Provider is one of google, anthropic, gemini or none.
type TranslatorConfig struct {
	Provider string `yaml:"provider"`
	Timeout  string `yaml:"timeout"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
}

type AudioConfig struct {
	Source     string `yaml:"source"`
	FileDir    string `yaml:"file_dir"`
	SampleRate int    `yaml:"sample_rate"`
}

type OpenAIConfig struct {
	APIKey   string `yaml:"api_key"`
	Language string `yaml:"language"`
}

type PushoverConfig struct {
	Token   string `yaml:"token"`
	UserKey string `yaml:"user_key"`
	Enabled bool   `yaml:"enabled"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
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

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = ":5001"
	}
	if c.Server.RateLimitPerMinute == 0 {
		c.Server.RateLimitPerMinute = 60
	}
	if c.Relay.BaseURL == "" {
		c.Relay.BaseURL = "http://192.168.1.100"
	}
	if c.Relay.Timeout == "" {
		c.Relay.Timeout = "5s"
	}
	if c.Relay.PollInterval == "" {
		c.Relay.PollInterval = "2s"
	}
	if c.Translator.Provider == "" {
		c.Translator.Provider = "google"
	}
	if c.Translator.Timeout == "" {
		c.Translator.Timeout = "10s"
	}
	if c.Translator.Model == "" {
		switch c.Translator.Provider {
		case "anthropic":
			c.Translator.Model = "claude-sonnet-4-20250514"
		case "gemini":
			c.Translator.Model = "gemini-2.0-flash"
		}
	}
	if c.Audio.Source == "" {
		c.Audio.Source = "none"
	}
	if c.Audio.FileDir == "" {
		c.Audio.FileDir = "./audio"
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 16000
	}
	if c.History.Path == "" {
		c.History.Path = "history.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) validate() error {
	switch c.Translator.Provider {
	case "google", "none":
	case "anthropic", "gemini":
		if c.Translator.APIKey == "" {
			return fmt.Errorf("translator provider %q requires translator.api_key", c.Translator.Provider)
		}
	default:
		return fmt.Errorf("unknown translator provider %q", c.Translator.Provider)
	}

	switch c.Audio.Source {
	case "none", "file", "microphone":
	default:
		return fmt.Errorf("unknown audio source %q", c.Audio.Source)
	}

	// An empty language lets Whisper auto-detect.
	if lang := c.OpenAI.Language; lang != "" && !interpreter.IsSupported(lang) {
		return fmt.Errorf("openai.language %q is not a supported command language", lang)
	}

	if c.Pushover.Enabled && (c.Pushover.Token == "" || c.Pushover.UserKey == "") {
		return fmt.Errorf("pushover enabled without token and user_key")
	}
	return nil
}

// Duration parses value, falling back to def when it is empty or invalid.
func Duration(value string, def time.Duration, logger *slog.Logger) time.Duration {
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		logger.Warn("invalid duration, using default", "value", value, "default", def)
		return def
	}
	return d
}
