package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.twitter.com/2"

// Credentials holds the five values required to talk to the API.
// OAuth 1.0a user context (key/secret/token/token secret) authorizes
// writes; the bearer token authorizes app-only reads.
type Credentials struct {
	APIKey            string
	APISecret         string
	AccessToken       string
	AccessTokenSecret string
	BearerToken       string
}

// Validate checks that every credential field is present.
func (c Credentials) Validate() error {
	switch {
	case c.APIKey == "":
		return fmt.Errorf("missing TWITTER_API_KEY")
	case c.APISecret == "":
		return fmt.Errorf("missing TWITTER_API_SECRET")
	case c.AccessToken == "":
		return fmt.Errorf("missing TWITTER_ACCESS_TOKEN")
	case c.AccessTokenSecret == "":
		return fmt.Errorf("missing TWITTER_ACCESS_TOKEN_SECRET")
	case c.BearerToken == "":
		return fmt.Errorf("missing TWITTER_BEARER_TOKEN")
	}
	return nil
}

// User is the authenticated account identity.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Tweet is a single published message.
type Tweet struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Config holds configuration for the API client.
type Config struct {
	Credentials Credentials
	Timeout     time.Duration // default 30s
}

// Client talks to the Twitter v2 API. Write endpoints are signed with
// OAuth 1.0a; tweet lookup uses the bearer token.
type Client struct {
	baseURL     string
	bearerToken string
	httpClient  *http.Client
	signer      *signer
	limiter     *rate.Limiter
}

// NewClient creates a client, failing if any credential is missing.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Credentials.Validate(); err != nil {
		return nil, fmt.Errorf("credentials: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:     defaultBaseURL,
		bearerToken: cfg.Credentials.BearerToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		signer:  newSigner(cfg.Credentials),
		limiter: newDefaultLimiter(),
	}, nil
}

// Me returns the identity of the authenticated user.
func (c *Client) Me(ctx context.Context) (User, error) {
	var user User

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/me", nil)
	if err != nil {
		return user, fmt.Errorf("create request: %w", err)
	}
	c.signer.Sign(req, nil)

	if err := c.limiter.Wait(ctx); err != nil {
		return user, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return user, decodeError(resp)
	}

	var raw struct {
		Data User `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return user, fmt.Errorf("parse response: %w", err)
	}

	return raw.Data, nil
}

// createTweetRequest is the request body for creating a tweet.
type createTweetRequest struct {
	Text  string      `json:"text"`
	Reply *tweetReply `json:"reply,omitempty"`
}

// tweetReply references the tweet being replied to.
type tweetReply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

// CreateTweet publishes text. A non-empty inReplyTo makes the tweet a
// reply to that tweet.
func (c *Client) CreateTweet(ctx context.Context, text, inReplyTo string) (Tweet, error) {
	var tweet Tweet

	reqBody := createTweetRequest{Text: text}
	if inReplyTo != "" {
		reqBody.Reply = &tweetReply{InReplyToTweetID: inReplyTo}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return tweet, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tweets", bytes.NewReader(body))
	if err != nil {
		return tweet, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.signer.Sign(req, nil)

	if err := c.limiter.Wait(ctx); err != nil {
		return tweet, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return tweet, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return tweet, decodeError(resp)
	}

	var raw struct {
		Data Tweet `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return tweet, fmt.Errorf("parse response: %w", err)
	}

	return raw.Data, nil
}

// DeleteTweet removes a tweet. It returns the provider's deleted flag.
func (c *Client) DeleteTweet(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("empty tweet id")
	}

	u := c.baseURL + "/tweets/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	c.signer.Sign(req, nil)

	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, decodeError(resp)
	}

	var raw struct {
		Data struct {
			Deleted bool `json:"deleted"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return false, fmt.Errorf("parse response: %w", err)
	}

	return raw.Data.Deleted, nil
}

// GetTweet looks up a tweet by ID using app-only bearer auth.
func (c *Client) GetTweet(ctx context.Context, id string) (Tweet, error) {
	var tweet Tweet
	if id == "" {
		return tweet, fmt.Errorf("empty tweet id")
	}

	u := c.baseURL + "/tweets/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return tweet, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	req.Header.Set("Accept", "application/json")

	if err := c.limiter.Wait(ctx); err != nil {
		return tweet, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return tweet, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return tweet, decodeError(resp)
	}

	var raw struct {
		Data Tweet `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return tweet, fmt.Errorf("parse response: %w", err)
	}

	return raw.Data, nil
}
