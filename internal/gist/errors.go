package gist

import (
	"errors"
	"fmt"
)

// ErrInvalidToken indicates the provided API token was rejected
var ErrInvalidToken = errors.New("invalid or expired gist token")

// ErrNotFound indicates the requested gist does not exist
var ErrNotFound = errors.New("gist not found")

// ErrRateLimited indicates the API rate limit was exceeded
var ErrRateLimited = errors.New("gist API rate limit exceeded")

// ServerError represents a 5xx error from the gist API
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("gist server error: HTTP %d", e.StatusCode)
}
