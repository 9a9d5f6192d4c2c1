// Package poster publishes summary text to social networks.
//
// Each supported network implements the Poster interface; the command
// layer selects the posters the user asked for and publishes through
// them in turn.
package poster

import (
	"context"
	"fmt"
)

// Poster publishes a piece of text to one social network.
type Poster interface {
	// Name returns the human-readable network name.
	Name() string

	// Publish posts text and returns a human-readable confirmation,
	// typically the URL or URI of the created post. Text longer than
	// the network's character limit is truncated before posting.
	Publish(ctx context.Context, text string) (string, error)
}

// PostError wraps a failure from one network's posting client.
type PostError struct {
	Platform string
	Err      error
}

// Error returns the error message.
func (e *PostError) Error() string {
	return fmt.Sprintf("posting to %s failed: %v", e.Platform, e.Err)
}

// Unwrap returns the underlying client error.
func (e *PostError) Unwrap() error {
	return e.Err
}
