package llm

import (
	"context"
	"errors"
	"fmt"
)

// Client abstracts the generative text service. Generate performs exactly one
// outbound call. A non-2xx reply is not an error: it is returned as a
// RawResponse so callers can tell a rejected request from an unreachable service.
type Client interface {
	Generate(ctx context.Context, prompt string) (RawResponse, error)
}

// RawResponse is the unprocessed reply of the generative service.
type RawResponse struct {
	StatusCode int
	Body       []byte
}

// TransportError reports a connection-level failure: DNS, refused or reset
// connections, timeouts, or a body that could not be read.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("generative service %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was a deadline being exceeded.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// ErrNotConfigured is returned when no credential is available for the generative service.
var ErrNotConfigured = errors.New("generative service credential is not configured")

// PlaceholderClient stands in when the credential is absent so the process can
// still start and report a configuration error per request.
type PlaceholderClient struct{}

// Generate returns ErrNotConfigured.
func (PlaceholderClient) Generate(ctx context.Context, prompt string) (RawResponse, error) {
	_ = ctx
	_ = prompt
	return RawResponse{}, ErrNotConfigured
}

// Configured reports whether c can reach a real generative service.
func Configured(c Client) bool {
	if c == nil {
		return false
	}
	switch c.(type) {
	case PlaceholderClient, *PlaceholderClient:
		return false
	default:
		return true
	}
}
