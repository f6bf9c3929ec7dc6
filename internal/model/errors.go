package model

import (
	"errors"
	"fmt"
)

// ErrNoSnapshot is returned by SnapshotStore.Load when no snapshot exists
// yet. A run treats this as fatal; `internwatch seed` creates the first one.
var ErrNoSnapshot = errors.New("no snapshot found")

// HTTPError wraps a non-success HTTP status from the board or a provider.
type HTTPError struct {
	StatusCode int
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
