package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abdulachik/twitbot/internal/store"
	"github.com/abdulachik/twitbot/internal/twitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createCall struct {
	text      string
	inReplyTo string
}

// fakeClient implements Client for facade tests.
type fakeClient struct {
	me    twitter.User
	meErr error

	calls      []createCall
	createErrs map[int]error // call index -> error
	nextID     int

	deleted   bool
	deleteErr error
	deleteIDs []string
}

func (f *fakeClient) Me(ctx context.Context) (twitter.User, error) {
	if f.meErr != nil {
		return twitter.User{}, f.meErr
	}
	return f.me, nil
}

func (f *fakeClient) CreateTweet(ctx context.Context, text, inReplyTo string) (twitter.Tweet, error) {
	idx := len(f.calls)
	f.calls = append(f.calls, createCall{text: text, inReplyTo: inReplyTo})
	if err, ok := f.createErrs[idx]; ok {
		return twitter.Tweet{}, err
	}
	f.nextID++
	return twitter.Tweet{ID: fmt.Sprintf("t%d", f.nextID), Text: text}, nil
}

func (f *fakeClient) DeleteTweet(ctx context.Context, id string) (bool, error) {
	f.deleteIDs = append(f.deleteIDs, id)
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	return f.deleted, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestBot(t *testing.T, fake *fakeClient) *Bot {
	t.Helper()
	b, err := New(context.Background(), Config{Client: fake, Logger: testLogger()})
	require.NoError(t, err)
	return b
}

func TestNew(t *testing.T) {
	t.Run("verifies identity", func(t *testing.T) {
		fake := &fakeClient{me: twitter.User{ID: "42", Username: "tester"}}
		b, err := New(context.Background(), Config{Client: fake, Logger: testLogger()})
		require.NoError(t, err)
		assert.Equal(t, "tester", b.Me().Username)
	})

	t.Run("rejected identity check", func(t *testing.T) {
		fake := &fakeClient{meErr: &twitter.APIError{StatusCode: http.StatusUnauthorized}}
		b, err := New(context.Background(), Config{Client: fake, Logger: testLogger()})
		assert.Nil(t, b)

		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
	})
}

func TestBot_Post(t *testing.T) {
	ctx := context.Background()

	t.Run("posts text", func(t *testing.T) {
		fake := &fakeClient{}
		b := newTestBot(t, fake)

		post, err := b.Post(ctx, "Hello, world!")
		require.NoError(t, err)
		assert.Equal(t, "Hello, world!", post.Text)
		assert.Empty(t, post.ParentID)
		assert.Len(t, fake.calls, 1)
	})

	t.Run("rejects oversized text without a network call", func(t *testing.T) {
		fake := &fakeClient{}
		b := newTestBot(t, fake)

		post, err := b.Post(ctx, strings.Repeat("a", MaxPostLength+1))
		assert.Nil(t, post)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, MaxPostLength+1, verr.Length)
		assert.Empty(t, fake.calls, "no network call expected")
	})

	t.Run("counts runes, not bytes", func(t *testing.T) {
		fake := &fakeClient{}
		b := newTestBot(t, fake)

		// 280 two-byte runes are within the limit
		post, err := b.Post(ctx, strings.Repeat("é", MaxPostLength))
		require.NoError(t, err)
		assert.NotNil(t, post)
		assert.Len(t, fake.calls, 1)
	})

	t.Run("classifies access denial", func(t *testing.T) {
		fake := &fakeClient{createErrs: map[int]error{
			0: &twitter.APIError{StatusCode: http.StatusForbidden, Title: "Forbidden"},
		}}
		b := newTestBot(t, fake)

		post, err := b.Post(ctx, "hello")
		assert.Nil(t, post)

		var perr *ProviderError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, http.StatusForbidden, perr.StatusCode)
		assert.True(t, IsAccessDenied(err))
	})
}

func TestBot_PostThread(t *testing.T) {
	ctx := context.Background()

	t.Run("chains replies", func(t *testing.T) {
		fake := &fakeClient{}
		b := newTestBot(t, fake)

		posts, err := b.PostThread(ctx, []string{"a", "b", "c"})
		require.NoError(t, err)
		require.Len(t, posts, 3)

		assert.Empty(t, posts[0].ParentID)
		assert.Equal(t, posts[0].ID, posts[1].ParentID)
		assert.Equal(t, posts[1].ID, posts[2].ParentID)

		require.Len(t, fake.calls, 3)
		assert.Empty(t, fake.calls[0].inReplyTo)
		assert.Equal(t, posts[0].ID, fake.calls[1].inReplyTo)
		assert.Equal(t, posts[1].ID, fake.calls[2].inReplyTo)
	})

	t.Run("returns prefix on mid-thread failure", func(t *testing.T) {
		fake := &fakeClient{createErrs: map[int]error{
			2: &twitter.APIError{StatusCode: http.StatusInternalServerError},
		}}
		b := newTestBot(t, fake)

		posts, err := b.PostThread(ctx, []string{"a", "b", "c", "d"})
		require.Error(t, err)
		assert.Len(t, posts, 2, "exactly the successful prefix")
		assert.Len(t, fake.calls, 3, "no calls after the failure")

		var perr *ProviderError
		assert.ErrorAs(t, err, &perr)
	})

	t.Run("failure on first message yields empty thread", func(t *testing.T) {
		fake := &fakeClient{createErrs: map[int]error{
			0: &twitter.APIError{StatusCode: http.StatusForbidden},
		}}
		b := newTestBot(t, fake)

		posts, err := b.PostThread(ctx, []string{"a", "b"})
		require.Error(t, err)
		assert.Empty(t, posts)
		assert.Len(t, fake.calls, 1)
	})

	t.Run("stops on oversized message", func(t *testing.T) {
		fake := &fakeClient{}
		b := newTestBot(t, fake)

		posts, err := b.PostThread(ctx, []string{"ok", strings.Repeat("x", MaxPostLength+1), "never"})
		require.Error(t, err)
		assert.Len(t, posts, 1)
		assert.Len(t, fake.calls, 1)

		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("empty input", func(t *testing.T) {
		fake := &fakeClient{}
		b := newTestBot(t, fake)

		posts, err := b.PostThread(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, posts)
		assert.Empty(t, fake.calls)
	})
}

func TestBot_DeletePost(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed deletion", func(t *testing.T) {
		fake := &fakeClient{deleted: true}
		b := newTestBot(t, fake)

		assert.True(t, b.DeletePost(ctx, "t1"))
		assert.Equal(t, []string{"t1"}, fake.deleteIDs)
	})

	t.Run("provider error", func(t *testing.T) {
		fake := &fakeClient{deleteErr: &twitter.APIError{StatusCode: http.StatusNotFound}}
		b := newTestBot(t, fake)

		assert.False(t, b.DeletePost(ctx, "missing"))
	})

	t.Run("transport error", func(t *testing.T) {
		fake := &fakeClient{deleteErr: errors.New("connection refused")}
		b := newTestBot(t, fake)

		assert.False(t, b.DeletePost(ctx, "t1"))
	})

	t.Run("unconfirmed deletion", func(t *testing.T) {
		fake := &fakeClient{deleted: false}
		b := newTestBot(t, fake)

		assert.False(t, b.DeletePost(ctx, "t1"))
	})
}

func TestBot_History(t *testing.T) {
	ctx := context.Background()

	st, err := store.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	fake := &fakeClient{deleted: true}
	b, err := New(ctx, Config{Client: fake, Store: st, Logger: testLogger()})
	require.NoError(t, err)

	posts, err := b.PostThread(ctx, []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, posts, 2)

	require.True(t, b.DeletePost(ctx, posts[1].ID))

	records, err := st.ListPosts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byID := map[string]store.Record{}
	for _, rec := range records {
		byID[rec.ID] = rec
	}
	assert.Equal(t, "first", byID[posts[0].ID].Text)
	assert.Equal(t, posts[0].ID, byID[posts[1].ID].ParentID)
	assert.False(t, byID[posts[0].ID].Deleted)
	assert.True(t, byID[posts[1].ID].Deleted)
}

func TestClassify(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		err := classify(&twitter.APIError{StatusCode: http.StatusNotFound})
		var nf *NotFoundError
		assert.ErrorAs(t, err, &nf)
	})

	t.Run("provider rejection", func(t *testing.T) {
		err := classify(&twitter.APIError{StatusCode: http.StatusForbidden})
		var perr *ProviderError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, http.StatusForbidden, perr.StatusCode)
	})

	t.Run("transport error", func(t *testing.T) {
		err := classify(errors.New("timeout"))
		var perr *ProviderError
		require.ErrorAs(t, err, &perr)
		assert.Zero(t, perr.StatusCode)
		assert.False(t, IsAccessDenied(err))
	})
}
