package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Madhan-Sampath-Nexgile/telebot/internal/api"
	"github.com/Madhan-Sampath-Nexgile/telebot/internal/assistant"
	"github.com/Madhan-Sampath-Nexgile/telebot/internal/config"
	"github.com/Madhan-Sampath-Nexgile/telebot/internal/engine"
	"github.com/Madhan-Sampath-Nexgile/telebot/internal/knowledge"
	"github.com/Madhan-Sampath-Nexgile/telebot/internal/transcript"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "wildfact",
	Short: "WildFact - Animal Assistant Service",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(relayCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(newLogHandler(cfg.Log))
	slog.SetDefault(logger)
	slog.Info("configuration loaded")

	botCfg, catalog := knowledge.Load(cfg.Data.Dir)
	eng := engine.New(botCfg, catalog)
	slog.Info("knowledge loaded", "animals", len(catalog), "dir", cfg.Data.Dir)

	supplier := buildSupplier(cfg)
	service := assistant.NewService(eng, catalog, supplier)

	turns, err := transcript.NewStore(cfg.Transcript.DBPath)
	if err != nil {
		return fmt.Errorf("opening transcript store: %w", err)
	}
	slog.Info("transcript store initialized", "path", cfg.Transcript.DBPath)

	provider, model := cfg.ActiveModel()
	handler := api.NewHandler(service, turns, api.ServiceInfo{
		Service:  "wildfact",
		Version:  Version,
		Provider: provider,
		Model:    model,
		Endpoint: modelEndpoint(cfg),
	})
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
	}

	go func() {
		slog.Info("server starting", "address", addr, "provider", provider, "model", model)
		// ErrServerClosed is the expected error when Shutdown() is called gracefully.
		// Any other error indicates an actual server failure that should trigger shutdown.
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown initiated")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := turns.Close(); err != nil {
		slog.Error("transcript store close error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// buildSupplier returns the configured model supplier, or nil when the
// service should answer from the local dataset only. Supplier setup
// failures degrade to dataset-only mode instead of refusing to start.
func buildSupplier(cfg *config.Config) assistant.Supplier {
	if !cfg.Model.Enabled {
		slog.Info("hosted model disabled, answering from local dataset")
		return nil
	}

	switch cfg.Model.Provider {
	case "ollama":
		slog.Info("using ollama", "model", cfg.Model.Ollama.Model, "base_url", cfg.Model.Ollama.BaseURL)
		return assistant.NewOllama(cfg.Model.Ollama.BaseURL, cfg.Model.Ollama.Model)
	default:
		hf, err := assistant.NewHuggingFace(
			cfg.Model.HuggingFace.Token,
			cfg.Model.HuggingFace.Model,
			cfg.Model.HuggingFace.BaseURL)
		if err != nil {
			slog.Warn("hosted model unavailable, answering from local dataset", "error", err)
			return nil
		}
		slog.Info("using huggingface", "model", cfg.Model.HuggingFace.Model)
		return hf
	}
}

func modelEndpoint(cfg *config.Config) string {
	if !cfg.Model.Enabled {
		return ""
	}
	if cfg.Model.Provider == "ollama" {
		return cfg.Model.Ollama.BaseURL
	}
	return cfg.Model.HuggingFace.BaseURL
}

func newLogHandler(logCfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLogLevel(logCfg.Level)}
	if logCfg.Format == "text" {
		return slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.NewJSONHandler(os.Stdout, opts)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
