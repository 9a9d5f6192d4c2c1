package cmd

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/mattn/go-mastodon"

	"github.com/jfmyers9/lastshout/internal/prompt"
	"github.com/jfmyers9/lastshout/internal/settings"
)

const (
	appName    = "last-shout"
	appWebsite = "https://github.com/jfmyers9/lastshout"
	appScopes  = "write:statuses"

	// Out-of-band redirect: the instance displays the authorization
	// code for the user to paste back.
	oobRedirectURI = "urn:ietf:wg:oauth:2.0:oob"
)

// saveCredentials persists the merged record for a --set-* action.
// The platform's required fields must all be present.
func saveCredentials(out io.Writer, st *settings.Settings, platform string, ok bool) error {
	if !ok {
		return &CredentialsError{Platform: platform}
	}

	if err := st.Save(); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s credentials saved to %s\n", platform, st.Path())
	return nil
}

// createMastodonApp registers a new application on a Mastodon
// instance and stores the resulting client credentials.
func createMastodonApp(ctx context.Context, out io.Writer, st *settings.Settings, p *prompt.Prompter) error {
	baseURL := st.Mastodon.APIBaseURL
	if baseURL == "" {
		entered, err := p.Line("Enter the Mastodon instance URL (e.g. https://mastodon.social): ")
		if err != nil {
			return err
		}
		baseURL = entered
	}
	baseURL = strings.TrimRight(baseURL, "/")

	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return &ValidationError{Reason: fmt.Sprintf("invalid instance URL %q", baseURL)}
	}

	app, err := mastodon.RegisterApp(ctx, &mastodon.AppConfig{
		Server:       baseURL,
		ClientName:   appName,
		Scopes:       appScopes,
		Website:      appWebsite,
		RedirectURIs: oobRedirectURI,
	})
	if err != nil {
		return fmt.Errorf("registering Mastodon application failed: %w", err)
	}

	st.Mastodon.ClientID = app.ClientID
	st.Mastodon.ClientSecret = app.ClientSecret
	st.Mastodon.APIBaseURL = baseURL
	if err := st.Save(); err != nil {
		return err
	}

	logger.Info().Str("server", baseURL).Msg("registered mastodon application")
	fmt.Fprintf(out, "Mastodon application registered on %s.\n", baseURL)
	fmt.Fprintf(out, "Client credentials saved to %s\n", st.Path())
	fmt.Fprintln(out, "Now run with --create-mastodon-user to authorize your account.")
	return nil
}

// createMastodonUser walks the user through the OAuth authorization
// code flow and stores the resulting access token.
func createMastodonUser(ctx context.Context, out io.Writer, st *settings.Settings, p *prompt.Prompter) error {
	if !st.HasMastodonApp() {
		return &CredentialsError{Platform: "Mastodon"}
	}

	baseURL := strings.TrimRight(st.Mastodon.APIBaseURL, "/")

	authURL := fmt.Sprintf(
		"%s/oauth/authorize?client_id=%s&response_type=code&redirect_uri=%s&scope=%s",
		baseURL,
		url.QueryEscape(st.Mastodon.ClientID),
		url.QueryEscape(oobRedirectURI),
		url.QueryEscape(appScopes),
	)

	fmt.Fprintln(out, "Please visit this URL to authorize last-shout:")
	fmt.Fprintf(out, "\n  %s\n\n", authURL)

	code, err := p.Line("Enter the authorization code: ")
	if err != nil {
		return err
	}
	if code == "" {
		return &ValidationError{Reason: "empty authorization code"}
	}

	client := mastodon.NewClient(&mastodon.Config{
		Server:       baseURL,
		ClientID:     st.Mastodon.ClientID,
		ClientSecret: st.Mastodon.ClientSecret,
	})
	if err := client.AuthenticateToken(ctx, code, oobRedirectURI); err != nil {
		return fmt.Errorf("exchanging authorization code failed: %w", err)
	}

	st.Mastodon.UserToken = client.Config.AccessToken
	if err := st.Save(); err != nil {
		return err
	}

	logger.Info().Str("server", baseURL).Msg("stored mastodon user token")
	fmt.Fprintf(out, "Mastodon user token saved to %s\n", st.Path())
	fmt.Fprintln(out, "You can now post with --toot.")
	return nil
}
