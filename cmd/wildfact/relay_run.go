package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/Madhan-Sampath-Nexgile/telebot/internal/engine"
	"github.com/Madhan-Sampath-Nexgile/telebot/internal/knowledge"
	"github.com/Madhan-Sampath-Nexgile/telebot/internal/relay"
	"github.com/spf13/cobra"
)

var relayRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the long-polling relay",
	Long:  "Poll Telegram for messages and answer each one from the local animal dataset.",
	RunE:  runRelay,
}

func runRelay(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	client, cfg, err := relayClient()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(newLogHandler(cfg.Log)))

	// Identity preflight is informational only. A missing token is the one
	// fatal startup condition; transport failures are retried by the loop.
	if me, err := client.GetMe(ctx); err != nil {
		slog.Warn("telegram identity check failed, polling anyway", "error", err)
	} else {
		slog.Info("relay connected", "username", me.Username, "name", me.FirstName)
	}

	botCfg, catalog := knowledge.Load(cfg.Data.Dir)
	eng := engine.New(botCfg, catalog)
	slog.Info("knowledge loaded", "animals", len(catalog), "dir", cfg.Data.Dir)

	// Relay replies come from the dataset engine only; the hosted model
	// is an HTTP-server concern.
	replier := relay.ReplierFunc(func(ctx context.Context, prompt string) string {
		return eng.Reply(prompt)
	})

	loop := relay.New(client, replier,
		time.Duration(cfg.Telegram.PollTimeout),
		time.Duration(cfg.Telegram.Backoff))

	slog.Info("relay started",
		"poll_timeout", time.Duration(cfg.Telegram.PollTimeout).String(),
		"backoff", time.Duration(cfg.Telegram.Backoff).String())
	loop.Run(ctx)
	slog.Info("relay stopped")
	return nil
}
