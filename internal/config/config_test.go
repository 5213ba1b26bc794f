package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Helper to clear all config-related env vars
func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"WILDFACT_PORT",
		"WILDFACT_READ_TIMEOUT",
		"WILDFACT_WRITE_TIMEOUT",
		"WILDFACT_SHUTDOWN_TIMEOUT",
		"WILDFACT_ALLOWED_ORIGINS",
		"WILDFACT_DATA_DIR",
		"WILDFACT_MODEL_ENABLED",
		"MODEL_PROVIDER",
		"HF_TOKEN",
		"HF_MODEL",
		"HF_BASE_URL",
		"OLLAMA_MODEL",
		"OLLAMA_BASE_URL",
		"TELEGRAM_BOT_TOKEN",
		"WILDFACT_POLL_TIMEOUT",
		"WILDFACT_RELAY_BACKOFF",
		"WILDFACT_TELEGRAM_BASE_URL",
		"WILDFACT_DB_PATH",
		"WILDFACT_LOG_LEVEL",
		"WILDFACT_LOG_FORMAT",
		"WILDFACT_CONFIG_PATH",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

// dur converts Duration to time.Duration for comparison
func dur(d Duration) time.Duration {
	return time.Duration(d)
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if dur(cfg.Server.ReadTimeout) != 30*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 30s", dur(cfg.Server.ReadTimeout))
	}
	if dur(cfg.Server.WriteTimeout) != 3*time.Minute {
		t.Errorf("Server.WriteTimeout = %v, want 3m", dur(cfg.Server.WriteTimeout))
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("Server.AllowedOrigins = %v, want two localhost origins", cfg.Server.AllowedOrigins)
	}
	if cfg.Data.Dir != "data" {
		t.Errorf("Data.Dir = %q, want %q", cfg.Data.Dir, "data")
	}
	if !cfg.Model.Enabled || cfg.Model.Provider != "huggingface" {
		t.Errorf("Model = %+v, want enabled huggingface", cfg.Model)
	}
	if cfg.Model.HuggingFace.Model != "Qwen/Qwen2.5-7B-Instruct:together" {
		t.Errorf("HuggingFace.Model = %q", cfg.Model.HuggingFace.Model)
	}
	if cfg.Model.HuggingFace.BaseURL != "https://router.huggingface.co/v1" {
		t.Errorf("HuggingFace.BaseURL = %q", cfg.Model.HuggingFace.BaseURL)
	}
	if cfg.Model.Ollama.Model != "qwen2.5:3b" || cfg.Model.Ollama.BaseURL != "http://127.0.0.1:11434" {
		t.Errorf("Ollama = %+v", cfg.Model.Ollama)
	}
	if dur(cfg.Telegram.PollTimeout) != 30*time.Second {
		t.Errorf("Telegram.PollTimeout = %v, want 30s", dur(cfg.Telegram.PollTimeout))
	}
	if dur(cfg.Telegram.Backoff) != 2*time.Second {
		t.Errorf("Telegram.Backoff = %v, want 2s", dur(cfg.Telegram.Backoff))
	}
	if cfg.Telegram.BaseURL != "https://api.telegram.org" {
		t.Errorf("Telegram.BaseURL = %q", cfg.Telegram.BaseURL)
	}
	if cfg.Transcript.DBPath != "data/wildfact.db" {
		t.Errorf("Transcript.DBPath = %q", cfg.Transcript.DBPath)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v, want info/json", cfg.Log)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	os.Setenv("WILDFACT_PORT", "9090")
	os.Setenv("WILDFACT_ALLOWED_ORIGINS", "https://wildfact.dev, https://app.wildfact.dev")
	os.Setenv("MODEL_PROVIDER", "ollama")
	os.Setenv("OLLAMA_MODEL", "llama3.2:1b")
	os.Setenv("HF_TOKEN", "hf_test_token")
	os.Setenv("TELEGRAM_BOT_TOKEN", "12345:abcdef")
	os.Setenv("WILDFACT_POLL_TIMEOUT", "10s")
	os.Setenv("WILDFACT_LOG_LEVEL", "debug")
	defer clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	want := []string{"https://wildfact.dev", "https://app.wildfact.dev"}
	if len(cfg.Server.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %v, want %v", cfg.Server.AllowedOrigins, want)
	}
	for i, origin := range want {
		if cfg.Server.AllowedOrigins[i] != origin {
			t.Errorf("AllowedOrigins[%d] = %q, want %q", i, cfg.Server.AllowedOrigins[i], origin)
		}
	}
	if cfg.Model.Provider != "ollama" {
		t.Errorf("Model.Provider = %q, want ollama", cfg.Model.Provider)
	}
	if cfg.Model.Ollama.Model != "llama3.2:1b" {
		t.Errorf("Ollama.Model = %q", cfg.Model.Ollama.Model)
	}
	if cfg.Model.HuggingFace.Token != "hf_test_token" {
		t.Errorf("HuggingFace.Token = %q", cfg.Model.HuggingFace.Token)
	}
	if cfg.Telegram.Token != "12345:abcdef" {
		t.Errorf("Telegram.Token = %q", cfg.Telegram.Token)
	}
	if dur(cfg.Telegram.PollTimeout) != 10*time.Second {
		t.Errorf("Telegram.PollTimeout = %v, want 10s", dur(cfg.Telegram.PollTimeout))
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	yamlContent := `
server:
  port: 3000
  read_timeout: 45s
  allowed_origins:
    - http://localhost:5173
data:
  dir: testdata
model:
  enabled: false
telegram:
  poll_timeout: 25s
  backoff: 5s
transcript:
  db_path: /tmp/wildfact-test.db
log:
  level: warn
`
	dir := t.TempDir()
	path := filepath.Join(dir, "wildfact.yaml")
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want 3000", cfg.Server.Port)
	}
	if dur(cfg.Server.ReadTimeout) != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 45s", dur(cfg.Server.ReadTimeout))
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "http://localhost:5173" {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Data.Dir != "testdata" {
		t.Errorf("Data.Dir = %q", cfg.Data.Dir)
	}
	if cfg.Model.Enabled {
		t.Error("Model.Enabled = true, want false")
	}
	if dur(cfg.Telegram.PollTimeout) != 25*time.Second || dur(cfg.Telegram.Backoff) != 5*time.Second {
		t.Errorf("Telegram timing = %v/%v", dur(cfg.Telegram.PollTimeout), dur(cfg.Telegram.Backoff))
	}
	if cfg.Transcript.DBPath != "/tmp/wildfact-test.db" {
		t.Errorf("Transcript.DBPath = %q", cfg.Transcript.DBPath)
	}
	// Model name falls back to the default when the file omits it
	if cfg.Model.HuggingFace.Model != "Qwen/Qwen2.5-7B-Instruct:together" {
		t.Errorf("HuggingFace.Model = %q, want default", cfg.Model.HuggingFace.Model)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	clearEnv(t)

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("LoadFromFile() with missing file should error")
	}
}

func TestLoadFromFile_Malformed(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}

	_, err := LoadFromFile(path)
	if err == nil || !strings.Contains(err.Error(), "parsing config file") {
		t.Fatalf("LoadFromFile() error = %v, want parse error", err)
	}
}

func TestValidate_RejectsBadProvider(t *testing.T) {
	clearEnv(t)
	os.Setenv("MODEL_PROVIDER", "watsonx")
	defer clearEnv(t)

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "unknown model provider") {
		t.Fatalf("Load() error = %v, want unknown provider error", err)
	}
}

func TestValidate_IgnoresProviderWhenDisabled(t *testing.T) {
	clearEnv(t)
	os.Setenv("WILDFACT_MODEL_ENABLED", "false")
	os.Setenv("MODEL_PROVIDER", "watsonx")
	defer clearEnv(t)

	if _, err := Load(); err != nil {
		t.Fatalf("Load() error = %v, want nil when model disabled", err)
	}
}

func TestValidate_RejectsBadPort(t *testing.T) {
	clearEnv(t)
	os.Setenv("WILDFACT_PORT", "70000")
	defer clearEnv(t)

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "invalid server port") {
		t.Fatalf("Load() error = %v, want port error", err)
	}
}

func TestActiveModel(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(*Config)
		wantProvider string
		wantModel    string
	}{
		{
			name:         "huggingface default",
			mutate:       func(c *Config) {},
			wantProvider: "huggingface",
			wantModel:    "Qwen/Qwen2.5-7B-Instruct:together",
		},
		{
			name:         "ollama",
			mutate:       func(c *Config) { c.Model.Provider = "ollama" },
			wantProvider: "ollama",
			wantModel:    "qwen2.5:3b",
		},
		{
			name:         "disabled",
			mutate:       func(c *Config) { c.Model.Enabled = false },
			wantProvider: "local",
			wantModel:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newDefaults()
			tt.mutate(cfg)
			provider, model := cfg.ActiveModel()
			if provider != tt.wantProvider || model != tt.wantModel {
				t.Errorf("ActiveModel() = (%q, %q), want (%q, %q)",
					provider, model, tt.wantProvider, tt.wantModel)
			}
		})
	}
}
