package main

import (
	"errors"

	"github.com/Madhan-Sampath-Nexgile/telebot/internal/config"
	"github.com/Madhan-Sampath-Nexgile/telebot/internal/telegram"
	"github.com/spf13/cobra"
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Telegram relay",
	Long:  "Run or check the Telegram long-polling relay without the HTTP server.",
}

func init() {
	relayCmd.AddCommand(relayRunCmd)
	relayCmd.AddCommand(relayCheckCmd)
}

// relayClient builds a Telegram client from config.
// The bot token is env-only and required for every relay subcommand.
func relayClient() (*telegram.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Telegram.Token == "" {
		return nil, nil, errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	client := telegram.NewClient(cfg.Telegram.Token,
		telegram.WithBaseURL(cfg.Telegram.BaseURL))
	return client, cfg, nil
}
