package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/confadmin/internal/core/domain"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 1 << 20

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap maps the status code onto a domain sentinel.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return domain.ErrInvalidInput
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	case http.StatusTooManyRequests:
		return domain.ErrRateLimited
	default:
		return nil
	}
}

// RateLimitError is returned on a 429 response.
type RateLimitError struct {
	RetryAt time.Time
}

func (e *RateLimitError) Error() string {
	if e.RetryAt.IsZero() {
		return "rate limit exceeded"
	}
	return fmt.Sprintf("rate limit exceeded, retry at %s", e.RetryAt.Format(time.RFC3339))
}

// Unwrap returns domain.ErrRateLimited.
func (e *RateLimitError) Unwrap() error {
	return domain.ErrRateLimited
}

// IsUnauthorized checks if the error indicates an expired or invalid session.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

// decodeError builds an APIError from a failed response.
func decodeError(resp *http.Response, url string) error {
	status := fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    "API Error: " + status,
		URL:        url,
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Message string          `json:"message"`
		Detail  json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		apiErr.Message = fmt.Sprintf("Request failed with status %d and no JSON body (%s)",
			resp.StatusCode, http.StatusText(resp.StatusCode))
		return apiErr
	}

	switch {
	case payload.Message != "":
		apiErr.Message = payload.Message
	case len(payload.Detail) > 0 && string(payload.Detail) != "null":
		var detail string
		if err := json.Unmarshal(payload.Detail, &detail); err == nil {
			apiErr.Message = detail
		} else {
			apiErr.Message = string(payload.Detail)
		}
	}
	return apiErr
}
