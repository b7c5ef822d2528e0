package main

import (
	"context"
	"fmt"
	"time"

	"github.com/abdulachik/twitbot/internal/store"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently posted messages",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of posts to list")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	st, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer st.Close()

	records, err := st.ListPosts(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("list posts: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No posts recorded.")
		return nil
	}

	for _, rec := range records {
		status := ""
		if rec.Deleted {
			status = " (deleted)"
		}
		if rec.ParentID != "" {
			status += " reply to " + rec.ParentID
		}
		fmt.Printf("%s  %s%s\n    %s\n", rec.PostedAt.Format(time.RFC3339), rec.ID, status, rec.Text)
	}
	return nil
}
