package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
// It is read-only after Load() returns and thread-safe for concurrent reads.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Data       DataConfig       `yaml:"data"`
	Model      ModelConfig      `yaml:"model"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Transcript TranscriptConfig `yaml:"transcript"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
}

// DataConfig locates the knowledge files (animals.json, bot-config.json).
type DataConfig struct {
	Dir string `yaml:"dir"`
}

// ModelConfig contains hosted model settings. When Enabled is false the
// service answers from the local dataset only.
type ModelConfig struct {
	Enabled     bool              `yaml:"enabled"`
	Provider    string            `yaml:"provider"`
	HuggingFace HuggingFaceConfig `yaml:"huggingface"`
	Ollama      OllamaConfig      `yaml:"ollama"`
}

// HuggingFaceConfig contains Hugging Face router settings.
type HuggingFaceConfig struct {
	Token   string `yaml:"-"` // env-only, never in YAML
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// OllamaConfig contains local Ollama settings.
type OllamaConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// TelegramConfig contains relay settings.
type TelegramConfig struct {
	Token       string   `yaml:"-"` // env-only, never in YAML
	PollTimeout Duration `yaml:"poll_timeout"`
	Backoff     Duration `yaml:"backoff"`
	BaseURL     string   `yaml:"base_url"`
}

// TranscriptConfig contains conversation history settings.
type TranscriptConfig struct {
	DBPath string `yaml:"db_path"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ActiveModel reports the provider and model name the service will use,
// or ("local", "") when the hosted model is disabled.
func (c *Config) ActiveModel() (provider, model string) {
	if !c.Model.Enabled {
		return "local", ""
	}
	switch c.Model.Provider {
	case "ollama":
		return "ollama", c.Model.Ollama.Model
	default:
		return "huggingface", c.Model.HuggingFace.Model
	}
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Load loads configuration with precedence: defaults → YAML file → env vars.
// Returns an immutable Config suitable for concurrent read access.
func Load() (*Config, error) {
	cfg := newDefaults()

	configPath := getEnv("WILDFACT_CONFIG_PATH", "config/wildfact.yaml")

	// Load YAML file if it exists (missing file is not an error)
	if err := loadYAMLFile(cfg, configPath); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific path.
// Used for testing and explicit path specification.
func LoadFromFile(path string) (*Config, error) {
	cfg := newDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newDefaults returns a Config with all default values.
func newDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(3 * time.Minute),
			ShutdownTimeout: Duration(15 * time.Second),
			AllowedOrigins:  []string{"http://localhost:4200", "http://127.0.0.1:4200"},
		},
		Data: DataConfig{
			Dir: "data",
		},
		Model: ModelConfig{
			Enabled:  true,
			Provider: "huggingface",
			HuggingFace: HuggingFaceConfig{
				Model:   "Qwen/Qwen2.5-7B-Instruct:together",
				BaseURL: "https://router.huggingface.co/v1",
			},
			Ollama: OllamaConfig{
				Model:   "qwen2.5:3b",
				BaseURL: "http://127.0.0.1:11434",
			},
		},
		Telegram: TelegramConfig{
			PollTimeout: Duration(30 * time.Second),
			Backoff:     Duration(2 * time.Second),
			BaseURL:     "https://api.telegram.org",
		},
		Transcript: TranscriptConfig{
			DBPath: "data/wildfact.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// loadYAMLFile loads configuration from a YAML file if it exists.
// Missing file is not an error; we just use defaults.
func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Only non-empty env vars override config values.
func applyEnvOverrides(cfg *Config) {
	// Server
	if v := os.Getenv("WILDFACT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("WILDFACT_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = Duration(d)
		}
	}
	if v := os.Getenv("WILDFACT_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = Duration(d)
		}
	}
	if v := os.Getenv("WILDFACT_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ShutdownTimeout = Duration(d)
		}
	}
	if v := os.Getenv("WILDFACT_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}

	// Data
	if v := os.Getenv("WILDFACT_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}

	// Model
	if v := os.Getenv("WILDFACT_MODEL_ENABLED"); v != "" {
		cfg.Model.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("MODEL_PROVIDER"); v != "" {
		cfg.Model.Provider = v
	}
	if v := os.Getenv("HF_TOKEN"); v != "" {
		cfg.Model.HuggingFace.Token = v
	}
	if v := os.Getenv("HF_MODEL"); v != "" {
		cfg.Model.HuggingFace.Model = v
	}
	if v := os.Getenv("HF_BASE_URL"); v != "" {
		cfg.Model.HuggingFace.BaseURL = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		cfg.Model.Ollama.Model = v
	}
	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		cfg.Model.Ollama.BaseURL = v
	}

	// Telegram
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("WILDFACT_POLL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Telegram.PollTimeout = Duration(d)
		}
	}
	if v := os.Getenv("WILDFACT_RELAY_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Telegram.Backoff = Duration(d)
		}
	}
	if v := os.Getenv("WILDFACT_TELEGRAM_BASE_URL"); v != "" {
		cfg.Telegram.BaseURL = v
	}

	// Transcript
	if v := os.Getenv("WILDFACT_DB_PATH"); v != "" {
		cfg.Transcript.DBPath = v
	}

	// Log
	if v := os.Getenv("WILDFACT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("WILDFACT_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// validate checks configuration values that would otherwise fail at runtime.
// A missing HF_TOKEN is not an error here: the service degrades to
// dataset-only answers and the relay never needs a model.
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Model.Enabled {
		switch c.Model.Provider {
		case "huggingface", "ollama":
		default:
			return fmt.Errorf("unknown model provider %q", c.Model.Provider)
		}
	}
	return nil
}

// splitList parses a comma-separated env value into trimmed entries.
func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
