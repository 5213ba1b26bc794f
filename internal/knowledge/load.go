// Package knowledge loads and holds the static data the reply engine works
// from: the conversational bot configuration and the animal catalog. Both are
// read once at startup and never mutated afterwards.
package knowledge

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ConfigFileName is the bot configuration file inside the data directory.
	ConfigFileName = "bot-config.json"
	// CatalogFileName is the animal catalog file inside the data directory.
	CatalogFileName = "animals.json"
)

// CatalogSource is the user-facing location of the catalog file, referenced
// by responder messages that tell users where to add missing entries.
const CatalogSource = "data/" + CatalogFileName

// DefaultBotConfig is the built-in configuration used when the config file is
// missing or malformed. The engine must always be able to greet and fall
// back, so this is never empty.
func DefaultBotConfig() BotConfig {
	return BotConfig{
		DisplayName: "WildFact",
		Greetings:   []string{"Hello! I am WildFact, your animal assistant."},
		Fallback:    []string{"I am not sure about that one yet."},
	}
}

// Load reads the bot configuration and animal catalog from dataDir.
//
// Load never fails: a missing or malformed config file degrades to
// DefaultBotConfig, and a missing or malformed catalog degrades to an empty
// Catalog. Degradations are logged but never surfaced to end users.
func Load(dataDir string) (BotConfig, Catalog) {
	cfg := DefaultBotConfig()
	if err := readJSON(filepath.Join(dataDir, ConfigFileName), &cfg); err != nil {
		slog.Warn("bot config unavailable, using built-in default",
			"path", filepath.Join(dataDir, ConfigFileName),
			"error", err,
		)
		cfg = DefaultBotConfig()
	}
	cfg = normalizeConfig(cfg)

	var catalog Catalog
	if err := readJSON(filepath.Join(dataDir, CatalogFileName), &catalog); err != nil {
		slog.Warn("animal catalog unavailable, using empty catalog",
			"path", filepath.Join(dataDir, CatalogFileName),
			"error", err,
		)
		catalog = nil
	}

	return cfg, catalog
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// normalizeConfig backfills required pieces so a partially authored config
// file cannot leave the engine without a greeting or fallback.
func normalizeConfig(cfg BotConfig) BotConfig {
	def := DefaultBotConfig()
	if cfg.DisplayName == "" {
		cfg.DisplayName = def.DisplayName
	}
	if len(cfg.Greetings) == 0 {
		cfg.Greetings = def.Greetings
	}
	if len(cfg.Fallback) == 0 {
		cfg.Fallback = def.Fallback
	}
	return cfg
}
