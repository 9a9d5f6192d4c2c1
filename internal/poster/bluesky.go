package poster

import (
	"context"

	"github.com/jfmyers9/lastshout/internal/summary"
	"github.com/jfmyers9/lastshout/pkg/bluesky"
)

// maxSkeetWidth is Bluesky's character limit for a single post.
const maxSkeetWidth = 300

// Bluesky posts ("skeets") to a Bluesky PDS, logging in with a handle
// and app password on each invocation.
type Bluesky struct {
	client   *bluesky.Client
	handle   string
	password string
}

// NewBluesky creates a Bluesky poster from stored credentials.
func NewBluesky(handle, password string) *Bluesky {
	return newBluesky(bluesky.NewClient(bluesky.Config{}), handle, password)
}

// newBluesky allows tests to inject a client pointed at a test server.
func newBluesky(client *bluesky.Client, handle, password string) *Bluesky {
	return &Bluesky{
		client:   client,
		handle:   handle,
		password: password,
	}
}

// Name returns the network name.
func (b *Bluesky) Name() string {
	return "Bluesky"
}

// Publish logs in and posts text to the user's feed.
func (b *Bluesky) Publish(ctx context.Context, text string) (string, error) {
	if !b.client.HasSession() {
		if err := b.client.CreateSession(ctx, b.handle, b.password); err != nil {
			return "", &PostError{Platform: b.Name(), Err: err}
		}
	}

	uri, err := b.client.CreatePost(ctx, summary.Truncate(text, maxSkeetWidth))
	if err != nil {
		return "", &PostError{Platform: b.Name(), Err: err}
	}

	return uri, nil
}
