// Package settings persists per-platform credentials in an INI file
// under the user's configuration directory.
//
// The file holds secrets, so the directory is created 0700 and the
// file is written 0600. There is no locking: the program is a single
// short-lived process and nothing else writes the file.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

const (
	appDirName = "last-shout"
	fileName   = "settings.ini"
)

// LastFM holds the statistics-provider credentials.
type LastFM struct {
	User      string
	AccessKey string
}

// Twitter holds the OAuth1 consumer/access credential quad.
type Twitter struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessKey      string
	AccessSecret   string
}

// Mastodon holds registered-app credentials plus the user token.
type Mastodon struct {
	ClientID     string
	ClientSecret string
	UserToken    string
	APIBaseURL   string
}

// Bluesky holds the handle and app password.
type Bluesky struct {
	Handle   string
	Password string
}

// Settings is the full credential record. Fields left empty in the
// file load as empty strings; no validation happens beyond presence
// checks in the Has* predicates.
type Settings struct {
	LastFM   LastFM
	Twitter  Twitter
	Mastodon Mastodon
	Bluesky  Bluesky

	path string
}

// StoreError reports a filesystem problem reading or writing the
// settings file.
type StoreError struct {
	Op  string
	Err error
}

// Error returns the error message.
func (e *StoreError) Error() string {
	return fmt.Sprintf("settings: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// ParseError reports malformed settings file content.
type ParseError struct {
	Path string
	Err  error
}

// Error returns the error message.
func (e *ParseError) Error() string {
	return fmt.Sprintf("settings: malformed file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// DefaultDir returns the default settings directory, following the
// platform's user configuration directory convention.
func DefaultDir() string {
	return filepath.Join(xdg.ConfigHome, appDirName)
}

// Load reads the settings file from dir (DefaultDir when empty).
//
// A missing file is not an error: the defaults are written out
// immediately so the user has a file to edit. Missing keys load as
// empty strings. Malformed content returns a *ParseError; filesystem
// problems return a *StoreError.
func Load(dir string) (*Settings, error) {
	if dir == "" {
		dir = DefaultDir()
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, &StoreError{Op: "create settings directory", Err: err}
	}

	s := &Settings{path: filepath.Join(dir, fileName)}

	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("ini")
	v.SetEnvPrefix("LASTSHOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := s.Save(); err != nil {
				return nil, err
			}
			return s, nil
		}

		var parseErr viper.ConfigParseError
		if errors.As(err, &parseErr) {
			return nil, &ParseError{Path: s.path, Err: err}
		}
		return nil, &StoreError{Op: "read settings file", Err: err}
	}

	s.LastFM.User = v.GetString("lastfm.user")
	s.LastFM.AccessKey = v.GetString("lastfm.access_key")

	s.Twitter.ConsumerKey = v.GetString("twitter.consumer_key")
	s.Twitter.ConsumerSecret = v.GetString("twitter.consumer_secret")
	s.Twitter.AccessKey = v.GetString("twitter.access_key")
	s.Twitter.AccessSecret = v.GetString("twitter.access_secret")

	s.Mastodon.ClientID = v.GetString("mastodon.client_id")
	s.Mastodon.ClientSecret = v.GetString("mastodon.client_secret")
	s.Mastodon.UserToken = v.GetString("mastodon.user_token")
	s.Mastodon.APIBaseURL = v.GetString("mastodon.api_base_url")

	s.Bluesky.Handle = v.GetString("bluesky.handle")
	s.Bluesky.Password = v.GetString("bluesky.password")

	return s, nil
}

// Save writes the full record back to the settings file with owner-only
// permissions.
func (s *Settings) Save() error {
	v := viper.New()
	v.SetConfigType("ini")

	v.Set("lastfm.user", s.LastFM.User)
	v.Set("lastfm.access_key", s.LastFM.AccessKey)

	v.Set("twitter.consumer_key", s.Twitter.ConsumerKey)
	v.Set("twitter.consumer_secret", s.Twitter.ConsumerSecret)
	v.Set("twitter.access_key", s.Twitter.AccessKey)
	v.Set("twitter.access_secret", s.Twitter.AccessSecret)

	v.Set("mastodon.client_id", s.Mastodon.ClientID)
	v.Set("mastodon.client_secret", s.Mastodon.ClientSecret)
	v.Set("mastodon.user_token", s.Mastodon.UserToken)
	v.Set("mastodon.api_base_url", s.Mastodon.APIBaseURL)

	v.Set("bluesky.handle", s.Bluesky.Handle)
	v.Set("bluesky.password", s.Bluesky.Password)

	if err := v.WriteConfigAs(s.path); err != nil {
		return &StoreError{Op: "write settings file", Err: err}
	}
	if err := os.Chmod(s.path, 0o600); err != nil {
		return &StoreError{Op: "set settings file permissions", Err: err}
	}

	return nil
}

// Path returns the location of the settings file.
func (s *Settings) Path() string {
	return s.path
}

// HasLastFM reports whether the Last.fm username and access key are
// both present.
func (s *Settings) HasLastFM() bool {
	return s.LastFM.User != "" && s.LastFM.AccessKey != ""
}

// HasTwitter reports whether all four Twitter OAuth1 fields are present.
func (s *Settings) HasTwitter() bool {
	return s.Twitter.ConsumerKey != "" &&
		s.Twitter.ConsumerSecret != "" &&
		s.Twitter.AccessKey != "" &&
		s.Twitter.AccessSecret != ""
}

// HasMastodonApp reports whether the registered-app credentials and
// instance URL are present.
func (s *Settings) HasMastodonApp() bool {
	return s.Mastodon.ClientID != "" &&
		s.Mastodon.ClientSecret != "" &&
		s.Mastodon.APIBaseURL != ""
}

// HasMastodonUser reports whether a user access token is present.
func (s *Settings) HasMastodonUser() bool {
	return s.Mastodon.UserToken != ""
}

// HasBluesky reports whether the Bluesky handle and app password are
// both present.
func (s *Settings) HasBluesky() bool {
	return s.Bluesky.Handle != "" && s.Bluesky.Password != ""
}
