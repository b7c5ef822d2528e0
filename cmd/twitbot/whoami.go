package main

import (
	"context"
	"fmt"

	"github.com/abdulachik/twitbot/internal/twitter"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Verify credentials and show the authenticated account",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForPosting(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	client, err := twitter.NewClient(twitter.Config{
		Credentials: cfg.Credentials(),
		Timeout:     cfg.HTTPTimeout,
	})
	if err != nil {
		return err
	}

	user, err := client.Me(ctx)
	if err != nil {
		return fmt.Errorf("identity check: %w", err)
	}

	fmt.Printf("Logged in as @%s (%s, id %s)\n", user.Username, user.Name, user.ID)
	return nil
}
