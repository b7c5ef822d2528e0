package bot

import (
	"context"
	"errors"
	"log/slog"
	"unicode/utf8"

	"github.com/abdulachik/twitbot/internal/store"
	"github.com/abdulachik/twitbot/internal/twitter"
)

// MaxPostLength is the maximum character count for a single post.
const MaxPostLength = 280

// Post is a single published message. ParentID is set for thread
// replies and references the post this one replies to.
type Post struct {
	ID       string
	Text     string
	ParentID string
}

// Client is the subset of the API client the facade uses.
type Client interface {
	Me(ctx context.Context) (twitter.User, error)
	CreateTweet(ctx context.Context, text, inReplyTo string) (twitter.Tweet, error)
	DeleteTweet(ctx context.Context, id string) (bool, error)
}

// Config holds configuration for the bot facade.
type Config struct {
	Client Client
	Store  *store.Store // optional posting history
	Logger *slog.Logger // defaults to slog.Default()
}

// Bot wraps an authenticated API client and exposes post, thread and
// delete operations. Posts are never mutated after creation.
type Bot struct {
	client Client
	store  *store.Store
	logger *slog.Logger
	me     twitter.User
}

// New verifies the session with an identity lookup and returns a usable
// bot. A rejected lookup yields an *AuthError and no bot is created.
func New(ctx context.Context, cfg Config) (*Bot, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	me, err := cfg.Client.Me(ctx)
	if err != nil {
		return nil, &AuthError{Err: err}
	}

	logger.Info("authenticated", "username", me.Username, "user_id", me.ID)

	return &Bot{
		client: cfg.Client,
		store:  cfg.Store,
		logger: logger,
		me:     me,
	}, nil
}

// Me returns the authenticated account identity.
func (b *Bot) Me() twitter.User {
	return b.me
}

// Post publishes a single message. Oversized text fails before any
// network call; provider rejections come back as classified errors
// with access-level denial distinguished in the log.
func (b *Bot) Post(ctx context.Context, text string) (*Post, error) {
	if n := utf8.RuneCountInString(text); n > MaxPostLength {
		b.logger.Warn("post rejected: text too long",
			"length", n,
			"limit", MaxPostLength,
		)
		return nil, &ValidationError{Length: n, Limit: MaxPostLength}
	}
	return b.create(ctx, text, "")
}

// PostThread publishes texts as a reply chain: the first message is
// unparented, each later message replies to the previous one, and the
// parent reference is established only after that post succeeded. On
// failure it stops immediately and returns the successfully-created
// prefix together with the reason; posted messages are not rolled back.
func (b *Bot) PostThread(ctx context.Context, texts []string) ([]*Post, error) {
	posts := make([]*Post, 0, len(texts))
	parentID := ""

	for i, text := range texts {
		if n := utf8.RuneCountInString(text); n > MaxPostLength {
			b.logger.Warn("thread stopped: text too long",
				"index", i,
				"length", n,
				"limit", MaxPostLength,
				"posted", len(posts),
			)
			return posts, &ValidationError{Length: n, Limit: MaxPostLength}
		}

		post, err := b.create(ctx, text, parentID)
		if err != nil {
			b.logger.Warn("thread stopped",
				"index", i,
				"posted", len(posts),
			)
			return posts, err
		}

		posts = append(posts, post)
		parentID = post.ID

		b.logger.Info("thread progress",
			"index", i,
			"total", len(texts),
			"id", post.ID,
		)
	}

	return posts, nil
}

// DeletePost deletes a post by ID. It reports whether the provider
// confirmed the deletion; errors never escape this boundary.
func (b *Bot) DeletePost(ctx context.Context, id string) bool {
	deleted, err := b.client.DeleteTweet(ctx, id)
	if err != nil {
		cerr := classify(err)
		var nf *NotFoundError
		if errors.As(cerr, &nf) {
			b.logger.Warn("delete failed: post not found", "id", id)
		} else {
			b.logger.Error("delete failed", "id", id, "error", err)
		}
		return false
	}

	if !deleted {
		b.logger.Warn("delete not confirmed by provider", "id", id)
		return false
	}

	b.logger.Info("deleted post", "id", id)

	if b.store != nil {
		if err := b.store.MarkDeleted(ctx, id); err != nil {
			b.logger.Warn("failed to mark post deleted", "id", id, "error", err)
		}
	}

	return true
}

func (b *Bot) create(ctx context.Context, text, parentID string) (*Post, error) {
	tweet, err := b.client.CreateTweet(ctx, text, parentID)
	if err != nil {
		cerr := classify(err)
		if IsAccessDenied(cerr) {
			b.logger.Error("post rejected: access level denied", "error", err)
		} else {
			b.logger.Error("post failed", "error", err)
		}
		return nil, cerr
	}

	post := &Post{ID: tweet.ID, Text: tweet.Text, ParentID: parentID}
	b.logger.Info("posted", "id", post.ID, "parent_id", post.ParentID)

	if b.store != nil {
		err := b.store.RecordPost(ctx, store.Record{
			ID:       post.ID,
			Text:     post.Text,
			ParentID: post.ParentID,
		})
		if err != nil {
			b.logger.Warn("failed to record post", "id", post.ID, "error", err)
		}
	}

	return post, nil
}
