package bot

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/abdulachik/twitbot/internal/twitter"
)

// ValidationError reports text that exceeds the post length limit.
type ValidationError struct {
	Length int
	Limit  int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("text is %d characters, limit is %d", e.Length, e.Limit)
}

// AuthError reports a failed credential check or identity lookup.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NotFoundError reports an operation against a post that does not exist.
type NotFoundError struct {
	ID  string
	Err error
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("post %s not found", e.ID)
	}
	return "post not found"
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// ProviderError reports any other rejection from the external API.
type ProviderError struct {
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider rejected request (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider request failed: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// classify maps transport errors onto the facade's error variants.
func classify(err error) error {
	var apiErr *twitter.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusNotFound {
			return &NotFoundError{Err: apiErr}
		}
		return &ProviderError{StatusCode: apiErr.StatusCode, Err: apiErr}
	}
	return &ProviderError{Err: err}
}

// IsAccessDenied reports whether err is a provider access-level denial.
func IsAccessDenied(err error) bool {
	var perr *ProviderError
	return errors.As(err, &perr) && perr.StatusCode == http.StatusForbidden
}
