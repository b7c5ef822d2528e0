package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete posts by ID",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForPosting(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	b, cleanup, err := newBot(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	failed := 0
	for _, id := range args {
		if b.DeletePost(ctx, id) {
			fmt.Printf("Deleted %s\n", id)
		} else {
			fmt.Printf("Failed to delete %s\n", id)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d deletions failed", failed, len(args))
	}
	return nil
}
