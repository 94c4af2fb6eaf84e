package chat

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyQuestion is returned for blank user input.
var ErrEmptyQuestion = errors.New("question is empty")

// AuthError reports a missing or unusable model credential. It is raised while
// building the model at startup.
type AuthError struct {
	Provider string
	Err      error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error [%s]: %v", e.Provider, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// UpstreamError reports a failed call to the model endpoint.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Timeout() {
		return fmt.Sprintf("upstream error [%s]: request timed out: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("upstream error [%s]: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request ran past its deadline.
func (e *UpstreamError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}
