package poster

import (
	"context"
	"fmt"

	"github.com/mattn/go-mastodon"

	"github.com/jfmyers9/lastshout/internal/summary"
)

// maxTootWidth is the default per-status character limit on Mastodon
// instances.
const maxTootWidth = 500

// Mastodon posts statuses ("toots") to a Mastodon instance.
type Mastodon struct {
	client *mastodon.Client
}

// NewMastodon creates a Mastodon poster from stored app credentials
// and a user access token.
func NewMastodon(server, clientID, clientSecret, accessToken string) *Mastodon {
	return &Mastodon{
		client: mastodon.NewClient(&mastodon.Config{
			Server:       server,
			ClientID:     clientID,
			ClientSecret: clientSecret,
			AccessToken:  accessToken,
		}),
	}
}

// Name returns the network name.
func (m *Mastodon) Name() string {
	return "Mastodon"
}

// Publish posts text as a status.
func (m *Mastodon) Publish(ctx context.Context, text string) (string, error) {
	status, err := m.client.PostStatus(ctx, &mastodon.Toot{
		Status: summary.Truncate(text, maxTootWidth),
	})
	if err != nil {
		return "", &PostError{Platform: m.Name(), Err: err}
	}

	if status.URL != "" {
		return status.URL, nil
	}
	return fmt.Sprintf("status %s", status.ID), nil
}
