package twitter

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Title      string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("twitter api status %d (%s): %s", e.StatusCode, e.Title, e.Detail)
	}
	if e.Title != "" {
		return fmt.Sprintf("twitter api status %d (%s)", e.StatusCode, e.Title)
	}
	return fmt.Sprintf("twitter api status %d", e.StatusCode)
}

// decodeError builds an APIError from an error response body.
// The v2 API reports either a problem object (title/detail/status) or
// an errors array; unparseable bodies still carry the status code.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}

	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &problem); err != nil {
		return apiErr
	}

	apiErr.Title = problem.Title
	apiErr.Detail = problem.Detail
	if apiErr.Detail == "" && len(problem.Errors) > 0 {
		apiErr.Detail = problem.Errors[0].Message
	}

	return apiErr
}
