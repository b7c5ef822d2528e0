package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/abdulachik/twitbot/internal/bot"
	"github.com/abdulachik/twitbot/internal/config"
	"github.com/abdulachik/twitbot/internal/store"
	"github.com/abdulachik/twitbot/internal/twitter"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "twitbot",
	Short: "A Twitter/X posting bot",
	Long: `TwitBot posts single messages and reply-chained threads to
Twitter/X and can delete them again, keeping a local history of
everything it posted.`,
}

func init() {
	// Load .env file if present
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Env file with credentials (default: .env)")

	// Set up logging
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if envFile != "" {
		return config.Load(envFile)
	}
	return config.Load()
}

// newBot builds the authenticated facade. A history store failure is
// logged and posting continues without history.
func newBot(ctx context.Context, cfg *config.Config) (*bot.Bot, func(), error) {
	client, err := twitter.NewClient(twitter.Config{
		Credentials: cfg.Credentials(),
		Timeout:     cfg.HTTPTimeout,
	})
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var st *store.Store
	if cfg.DatabasePath != "" {
		st, err = store.Open(ctx, cfg.DatabasePath)
		if err != nil {
			slog.Warn("failed to open history store, continuing without it", "error", err)
			st = nil
		} else {
			cleanup = func() { st.Close() }
		}
	}

	b, err := bot.New(ctx, bot.Config{Client: client, Store: st})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return b, cleanup, nil
}

// postURL returns the public URL for a posted message.
func postURL(id string) string {
	return "https://x.com/i/web/status/" + id
}
