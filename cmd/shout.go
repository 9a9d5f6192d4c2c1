package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/lastshout/internal/poster"
	"github.com/jfmyers9/lastshout/internal/prompt"
	"github.com/jfmyers9/lastshout/internal/settings"
	"github.com/jfmyers9/lastshout/internal/summary"
	"github.com/jfmyers9/lastshout/pkg/lastfm"
)

// options collects everything one invocation needs. Flags are copied
// in here so the flow is testable without touching global flag state.
type options struct {
	user      string
	accessKey string
	number    int
	period    string

	consumerKey    string
	consumerSecret string
	accessToken    string
	accessSecret   string

	blueskyHandle   string
	blueskyPassword string

	tweet bool
	toot  bool
	skeet bool

	setLastFM       bool
	setTwitter      bool
	setBluesky      bool
	createMastoApp  bool
	createMastoUser bool

	configDir string

	// Test hooks.
	lastfmBaseURL string
	stdin         io.Reader
	stdout        io.Writer
}

func optionsFromFlags() options {
	return options{
		user:            flagUser,
		accessKey:       flagLastAccessKey,
		number:          flagNumber,
		period:          flagPeriod,
		consumerKey:     flagConsumerKey,
		consumerSecret:  flagConsumerSecret,
		accessToken:     flagAccessKey,
		accessSecret:    flagAccessSecret,
		blueskyHandle:   flagBlueskyHandle,
		blueskyPassword: flagBlueskyPassword,
		tweet:           flagTweet,
		toot:            flagToot,
		skeet:           flagSkeet,
		setLastFM:       flagSetLastFM,
		setTwitter:      flagSetTwitter,
		setBluesky:      flagSetBluesky,
		createMastoApp:  flagCreateMastoApp,
		createMastoUser: flagCreateMastoUser,
		configDir:       flagConfigDir,
		stdin:           os.Stdin,
		stdout:          os.Stdout,
	}
}

// validate rejects bad input before any file or network I/O.
func (o options) validate() error {
	if o.number < 1 || o.number > 1000 {
		return &ValidationError{Reason: fmt.Sprintf("number must be between 1 and 1000 (got %d)", o.number)}
	}

	if !lastfm.ValidPeriod(o.period) {
		return &ValidationError{Reason: fmt.Sprintf("unrecognized period %q (options: %s)",
			o.period, strings.Join(lastfm.Periods(), " | "))}
	}

	setupActions := 0
	for _, requested := range []bool{o.setLastFM, o.setTwitter, o.setBluesky, o.createMastoApp, o.createMastoUser} {
		if requested {
			setupActions++
		}
	}
	if setupActions > 1 {
		return &ValidationError{Reason: "only one setup action may be requested per invocation"}
	}
	if setupActions > 0 && (o.tweet || o.toot || o.skeet) {
		return &ValidationError{Reason: "setup actions cannot be combined with posting"}
	}

	return nil
}

// applyTo merges CLI overrides into the loaded settings record. The
// merged record is only persisted by the explicit --set-* actions.
func (o options) applyTo(s *settings.Settings) {
	if o.user != "" {
		s.LastFM.User = o.user
	}
	if o.accessKey != "" {
		s.LastFM.AccessKey = o.accessKey
	}

	if o.consumerKey != "" {
		s.Twitter.ConsumerKey = o.consumerKey
	}
	if o.consumerSecret != "" {
		s.Twitter.ConsumerSecret = o.consumerSecret
	}
	if o.accessToken != "" {
		s.Twitter.AccessKey = o.accessToken
	}
	if o.accessSecret != "" {
		s.Twitter.AccessSecret = o.accessSecret
	}

	if o.blueskyHandle != "" {
		s.Bluesky.Handle = o.blueskyHandle
	}
	if o.blueskyPassword != "" {
		s.Bluesky.Password = o.blueskyPassword
	}
}

func runShout(cmd *cobra.Command, args []string) error {
	return run(optionsFromFlags())
}

func run(o options) error {
	if err := o.validate(); err != nil {
		return err
	}

	st, err := settings.Load(o.configDir)
	if err != nil {
		return err
	}
	o.applyTo(st)

	ctx := context.Background()

	if o.setLastFM || o.setTwitter || o.setBluesky || o.createMastoApp || o.createMastoUser {
		return runSetup(ctx, o, st)
	}

	posters, err := selectPosters(st, o)
	if err != nil {
		return err
	}

	if !st.HasLastFM() {
		return &CredentialsError{Platform: "Last.fm"}
	}

	entries, err := fetchTopArtists(ctx, st, o)
	if err != nil {
		return err
	}

	text := summary.Build(entries, o.period)
	if text == "" {
		fmt.Fprintf(o.stdout, "No listening data found for %s over the requested period.\n", st.LastFM.User)
		return nil
	}

	// Without a posting flag the summary just goes to stdout.
	if len(posters) == 0 {
		fmt.Fprintln(o.stdout, text)
		return nil
	}

	for _, p := range posters {
		confirmation, err := p.Publish(ctx, text)
		if err != nil {
			return err
		}
		logger.Info().Str("platform", p.Name()).Msg("posted summary")
		fmt.Fprintf(o.stdout, "Posted to %s: %s\n", p.Name(), confirmation)
	}

	return nil
}

// runSetup dispatches the single requested setup action (validate has
// already rejected combinations).
func runSetup(ctx context.Context, o options, st *settings.Settings) error {
	p := prompt.New(o.stdin, o.stdout)

	switch {
	case o.setLastFM:
		return saveCredentials(o.stdout, st, "Last.fm", st.HasLastFM())
	case o.setTwitter:
		return saveCredentials(o.stdout, st, "Twitter", st.HasTwitter())
	case o.setBluesky:
		return saveCredentials(o.stdout, st, "Bluesky", st.HasBluesky())
	case o.createMastoApp:
		return createMastodonApp(ctx, o.stdout, st, p)
	default:
		return createMastodonUser(ctx, o.stdout, st, p)
	}
}

// selectPosters gates each requested platform on its credential
// predicate. A missing-credentials failure happens before any network
// client is constructed.
func selectPosters(st *settings.Settings, o options) ([]poster.Poster, error) {
	var posters []poster.Poster

	if o.tweet {
		if !st.HasTwitter() {
			return nil, &CredentialsError{Platform: "Twitter"}
		}
		posters = append(posters, poster.NewTwitter(
			st.Twitter.ConsumerKey,
			st.Twitter.ConsumerSecret,
			st.Twitter.AccessKey,
			st.Twitter.AccessSecret,
		))
	}

	if o.toot {
		if !st.HasMastodonApp() || !st.HasMastodonUser() {
			return nil, &CredentialsError{Platform: "Mastodon"}
		}
		posters = append(posters, poster.NewMastodon(
			st.Mastodon.APIBaseURL,
			st.Mastodon.ClientID,
			st.Mastodon.ClientSecret,
			st.Mastodon.UserToken,
		))
	}

	if o.skeet {
		if !st.HasBluesky() {
			return nil, &CredentialsError{Platform: "Bluesky"}
		}
		posters = append(posters, poster.NewBluesky(st.Bluesky.Handle, st.Bluesky.Password))
	}

	return posters, nil
}

func fetchTopArtists(ctx context.Context, st *settings.Settings, o options) ([]lastfm.TopArtist, error) {
	client, err := lastfm.NewClient(lastfm.Config{
		APIKey:  st.LastFM.AccessKey,
		BaseURL: o.lastfmBaseURL,
		Logger:  debugLogger{log: logger},
	})
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	entries, err := client.User().GetTopArtists(ctx, st.LastFM.User, o.period, o.number)
	if err != nil {
		switch {
		case lastfm.IsAuthError(err):
			return nil, &FetchError{Err: fmt.Errorf("Last.fm rejected the access key: %w", err)}
		case lastfm.IsUserNotFound(err):
			return nil, &FetchError{Err: fmt.Errorf("Last.fm user %q not found: %w", st.LastFM.User, err)}
		default:
			return nil, &FetchError{Err: err}
		}
	}

	logger.Debug().Int("artists", len(entries)).Str("period", o.period).Msg("fetched top artists")
	return entries, nil
}
