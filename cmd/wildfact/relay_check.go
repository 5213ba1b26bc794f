package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var relayCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the Telegram bot token",
	Long:  "Call getMe with the configured token and print the bot identity.",
	RunE:  runRelayCheck,
}

func runRelayCheck(cmd *cobra.Command, args []string) error {
	client, _, err := relayClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	me, err := client.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("telegram check failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Connected as @%s (%s)\n", me.Username, me.FirstName)
	return nil
}
