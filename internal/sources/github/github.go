// Package github defines the contract for fetching the authenticated user's
// notifications feed. The HTTP implementation lives in impl; tests use mock.
package github

import (
	"context"
	"fmt"

	"github.com/bakkerme/gh-notifier/internal/core"
)

// DefaultFeedURL is the REST endpoint listing the authenticated user's
// notifications, most recently updated first.
const DefaultFeedURL = "https://api.github.com/notifications"

// Fetcher retrieves the current notifications feed in feed order.
type Fetcher interface {
	Fetch(ctx context.Context) ([]core.Record, error)
}

// StatusError reports a non-success response from the feed endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("github: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("github: unexpected status %d: %s", e.StatusCode, e.Body)
}
