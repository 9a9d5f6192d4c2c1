package poster

import (
	"context"
	"fmt"

	"github.com/dghubble/go-twitter/twitter"
	"github.com/dghubble/oauth1"

	"github.com/jfmyers9/lastshout/internal/summary"
)

// maxTweetWidth is Twitter's character limit for a single tweet.
const maxTweetWidth = 280

// Twitter posts via the Twitter v1.1 statuses/update endpoint using
// the OAuth1 consumer/access credential quad.
type Twitter struct {
	client *twitter.Client
}

// NewTwitter creates a Twitter poster from stored credentials.
func NewTwitter(consumerKey, consumerSecret, accessToken, accessSecret string) *Twitter {
	config := oauth1.NewConfig(consumerKey, consumerSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	httpClient := config.Client(oauth1.NoContext, token)

	return &Twitter{
		client: twitter.NewClient(httpClient),
	}
}

// Name returns the network name.
func (t *Twitter) Name() string {
	return "Twitter"
}

// Publish posts text as a tweet.
func (t *Twitter) Publish(ctx context.Context, text string) (string, error) {
	tweet, _, err := t.client.Statuses.Update(summary.Truncate(text, maxTweetWidth), nil)
	if err != nil {
		return "", &PostError{Platform: t.Name(), Err: err}
	}

	if tweet.User != nil && tweet.User.ScreenName != "" {
		return fmt.Sprintf("https://twitter.com/%s/status/%s", tweet.User.ScreenName, tweet.IDStr), nil
	}
	return fmt.Sprintf("tweet %s", tweet.IDStr), nil
}
