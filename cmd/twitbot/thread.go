package main

import (
	"context"
	"fmt"

	"github.com/abdulachik/twitbot/internal/bot"
	"github.com/spf13/cobra"
)

var (
	threadDryRun bool
	threadSplit  bool
)

var threadCmd = &cobra.Command{
	Use:   "thread <message>...",
	Short: "Post a reply-chained thread",
	Long: `Post messages as a thread, each one replying to the previous.
If posting fails partway, the already-posted prefix stays up.

Examples:
  twitbot thread "First" "Second" "Third"
  twitbot thread --split "One long text, split into numbered parts"
  twitbot thread --dry-run "First" "Second"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runThread,
}

func init() {
	threadCmd.Flags().BoolVar(&threadDryRun, "dry-run", false, "Show the thread without posting")
	threadCmd.Flags().BoolVar(&threadSplit, "split", false, "Treat the single argument as long text and split it")
	rootCmd.AddCommand(threadCmd)
}

func runThread(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	texts := args
	if threadSplit {
		if len(args) != 1 {
			return fmt.Errorf("--split takes exactly one argument")
		}
		texts = bot.SplitThread(args[0], bot.MaxPostLength)
	}

	if threadDryRun {
		fmt.Println("=== DRY RUN - Not posting ===")
		for i, text := range texts {
			fmt.Printf("[%d/%d] %s\n", i+1, len(texts), text)
		}
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

	posts, threadErr := b.PostThread(ctx, texts)
	for i, post := range posts {
		fmt.Printf("[%d/%d] %s\n", i+1, len(texts), postURL(post.ID))
	}
	if threadErr != nil {
		return fmt.Errorf("thread stopped after %d of %d messages: %w", len(posts), len(texts), threadErr)
	}

	fmt.Printf("Thread posted: %d messages\n", len(posts))
	return nil
}
