package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jfmyers9/lastshout/internal/poster"
	"github.com/jfmyers9/lastshout/internal/prompt"
	"github.com/jfmyers9/lastshout/pkg/lastfm"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// Exit codes, one per error class. Setup flows and "no results" both
// count as success.
const (
	exitUnexpected  = 1
	exitCredentials = 2
	exitValidation  = 3
	exitFetch       = 4
	exitPosting     = 5
	exitCancelled   = 130
)

var (
	flagUser            string
	flagLastAccessKey   string
	flagSetLastFM       bool
	flagNumber          int
	flagPeriod          string
	flagTweet           bool
	flagConsumerKey     string
	flagConsumerSecret  string
	flagAccessKey       string
	flagAccessSecret    string
	flagSetTwitter      bool
	flagToot            bool
	flagCreateMastoApp  bool
	flagCreateMastoUser bool
	flagSkeet           bool
	flagBlueskyHandle   string
	flagBlueskyPassword string
	flagSetBluesky      bool
	flagConfigDir       string
	flagLogLevel        string
)

// logger carries diagnostics to stderr; user-facing results go to
// stdout via fmt. Replaced with a real logger before the command runs.
var logger = zerolog.Nop()

// rootCmd is the whole program: the original tool is one command with
// flags, so everything hangs off the root instead of subcommands.
var rootCmd = &cobra.Command{
	Use:   "lastshout",
	Short: "Post Last.fm listening statistics to Twitter, Mastodon and Bluesky",
	Long: `lastshout fetches your top-listened-to artists from Last.fm and posts
a formatted summary to Twitter, Mastodon and/or Bluesky.

Credentials are stored in an INI settings file in your user config
directory. Save them once with the --set-* flags, then post with any
combination of --tweet, --toot and --skeet. The Mastodon one-time
setup flows (--create-mastodon-app, --create-mastodon-user) are
interactive and exit when complete.

Exit codes:
  0   - success, setup complete, or no listening data
  1   - unexpected error
  2   - missing credentials for a requested action
  3   - invalid command-line input
  4   - fetching statistics from Last.fm failed
  5   - posting to a platform failed
  130 - cancelled at an interactive prompt`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = setupLogger(flagLogLevel)
	},
	RunE: runShout,
}

// Execute runs the root command and exits with the code matching the
// error class. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func init() {
	// Credentials may also come from the environment; a .env file is
	// honored when present.
	_ = godotenv.Load()

	rootCmd.Flags().StringVarP(&flagUser, "user", "u", "", "Last.fm username")
	rootCmd.Flags().StringVar(&flagLastAccessKey, "last-access-key", "", "Last.fm access key")
	rootCmd.Flags().BoolVar(&flagSetLastFM, "set-lastfm", false, "Save Last.fm credentials and exit")
	rootCmd.Flags().IntVarP(&flagNumber, "number", "n", 10, "Number of top artists to fetch (1-1000)")
	rootCmd.Flags().StringVarP(&flagPeriod, "period", "p", lastfm.Period7Day,
		"Ranking period: overall | 7day | 1month | 3month | 6month | 12month")

	rootCmd.Flags().BoolVarP(&flagTweet, "tweet", "t", false, "Post top artists to Twitter")
	rootCmd.Flags().StringVar(&flagConsumerKey, "consumer-key", "", "Twitter consumer key")
	rootCmd.Flags().StringVar(&flagConsumerSecret, "consumer-secret", "", "Twitter consumer secret")
	rootCmd.Flags().StringVar(&flagAccessKey, "access-key", "", "Twitter access token")
	rootCmd.Flags().StringVar(&flagAccessSecret, "access-secret", "", "Twitter access token secret")
	rootCmd.Flags().BoolVar(&flagSetTwitter, "set-twitter", false, "Save Twitter credentials and exit")

	rootCmd.Flags().BoolVar(&flagToot, "toot", false, "Post top artists to Mastodon")
	rootCmd.Flags().BoolVar(&flagCreateMastoApp, "create-mastodon-app", false,
		"Register a Mastodon application and exit")
	rootCmd.Flags().BoolVar(&flagCreateMastoUser, "create-mastodon-user", false,
		"Create a Mastodon user token and exit")

	rootCmd.Flags().BoolVar(&flagSkeet, "skeet", false, "Post top artists to Bluesky")
	rootCmd.Flags().StringVar(&flagBlueskyHandle, "bluesky-handle", "", "Bluesky handle")
	rootCmd.Flags().StringVar(&flagBlueskyPassword, "bluesky-password", "", "Bluesky app password")
	rootCmd.Flags().BoolVar(&flagSetBluesky, "set-bluesky", false, "Save Bluesky credentials and exit")

	rootCmd.Flags().StringVar(&flagConfigDir, "config-dir", "", "Settings directory (default: OS user config dir)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

// exitCode maps an error to its taxonomy-specific exit code.
func exitCode(err error) int {
	var (
		validationErr  *ValidationError
		credentialsErr *CredentialsError
		fetchErr       *FetchError
		postErr        *poster.PostError
	)

	switch {
	case errors.Is(err, prompt.ErrCancelled):
		return exitCancelled
	case errors.As(err, &validationErr):
		return exitValidation
	case errors.As(err, &credentialsErr):
		return exitCredentials
	case errors.As(err, &fetchErr):
		return exitFetch
	case errors.As(err, &postErr):
		return exitPosting
	default:
		return exitUnexpected
	}
}

// setupLogger creates a logger with the specified level, writing
// pretty console output to stderr.
func setupLogger(logLevel string) zerolog.Logger {
	level := zerolog.InfoLevel
	switch logLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	return zerolog.New(os.Stderr).
		Level(level).
		With().
		Timestamp().
		Logger().
		Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// debugLogger adapts zerolog to the Debugf interface the API clients
// accept.
type debugLogger struct {
	log zerolog.Logger
}

func (d debugLogger) Debugf(format string, args ...interface{}) {
	d.log.Debug().Msgf(format, args...)
}
