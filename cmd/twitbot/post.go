package main

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/abdulachik/twitbot/internal/bot"
	"github.com/spf13/cobra"
)

var postDryRun bool

var postCmd = &cobra.Command{
	Use:   "post <text>",
	Short: "Post a single message",
	Long: `Post a single message of up to 280 characters.

Examples:
  twitbot post "Hello, world!"
  twitbot post --dry-run "Hello, world!"  # Show what would be posted`,
	Args: cobra.ExactArgs(1),
	RunE: runPost,
}

func init() {
	postCmd.Flags().BoolVar(&postDryRun, "dry-run", false, "Show what would be posted without actually posting")
	rootCmd.AddCommand(postCmd)
}

func runPost(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	text := args[0]

	if n := utf8.RuneCountInString(text); n > bot.MaxPostLength {
		return fmt.Errorf("text is %d characters, limit is %d", n, bot.MaxPostLength)
	}

	if postDryRun {
		fmt.Println("=== DRY RUN - Not posting ===")
		fmt.Println(text)
		return nil
	}

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

	post, err := b.Post(ctx, text)
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}

	fmt.Printf("Posted successfully!\nID:  %s\nURL: %s\n", post.ID, postURL(post.ID))
	return nil
}
