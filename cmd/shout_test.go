package cmd

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jfmyers9/lastshout/internal/poster"
	"github.com/jfmyers9/lastshout/internal/prompt"
	"github.com/jfmyers9/lastshout/pkg/lastfm"
)

// testOptions returns a valid baseline options value for tests.
func testOptions(t *testing.T) options {
	t.Helper()
	return options{
		number:    10,
		period:    lastfm.Period7Day,
		configDir: t.TempDir(),
		stdin:     strings.NewReader(""),
		stdout:    &bytes.Buffer{},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*options)
		wantErr     bool
		errContains string
	}{
		{
			name:   "defaults are valid",
			mutate: func(o *options) {},
		},
		{
			name:        "number too small",
			mutate:      func(o *options) { o.number = 0 },
			wantErr:     true,
			errContains: "between 1 and 1000",
		},
		{
			name:        "number too large",
			mutate:      func(o *options) { o.number = 1001 },
			wantErr:     true,
			errContains: "between 1 and 1000",
		},
		{
			name:   "number at bounds",
			mutate: func(o *options) { o.number = 1000 },
		},
		{
			name:        "unrecognized period",
			mutate:      func(o *options) { o.period = "fortnight" },
			wantErr:     true,
			errContains: "unrecognized period",
		},
		{
			name:   "every known period accepted",
			mutate: func(o *options) { o.period = lastfm.Period12Month },
		},
		{
			name: "two setup actions",
			mutate: func(o *options) {
				o.setLastFM = true
				o.setBluesky = true
			},
			wantErr:     true,
			errContains: "one setup action",
		},
		{
			name: "setup combined with posting",
			mutate: func(o *options) {
				o.createMastoApp = true
				o.toot = true
			},
			wantErr:     true,
			errContains: "cannot be combined with posting",
		},
		{
			name: "posting alone is fine",
			mutate: func(o *options) {
				o.tweet = true
				o.toot = true
				o.skeet = true
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := options{number: 10, period: lastfm.Period7Day}
			tt.mutate(&o)

			err := o.validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got nil")
				}
				var validationErr *ValidationError
				if !errors.As(err, &validationErr) {
					t.Fatalf("expected *ValidationError, got %T", err)
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error containing %q, got %q", tt.errContains, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("validate failed: %v", err)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &ValidationError{Reason: "bad"}, exitValidation},
		{"credentials", &CredentialsError{Platform: "Mastodon"}, exitCredentials},
		{"fetch", &FetchError{Err: errors.New("boom")}, exitFetch},
		{"posting", &poster.PostError{Platform: "Bluesky", Err: errors.New("boom")}, exitPosting},
		{"cancelled", prompt.ErrCancelled, exitCancelled},
		{"unexpected", errors.New("boom"), exitUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode = %d, expected %d", got, tt.want)
			}
		})
	}
}

// TestPostWithoutCredentials verifies the credential gate fires before
// any network call is attempted.
func TestPostWithoutCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no network call should be made when credentials are missing")
	}))
	defer server.Close()

	for _, tt := range []struct {
		name     string
		mutate   func(*options)
		platform string
	}{
		{"tweet", func(o *options) { o.tweet = true }, "Twitter"},
		{"toot", func(o *options) { o.toot = true }, "Mastodon"},
		{"skeet", func(o *options) { o.skeet = true }, "Bluesky"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			o := testOptions(t)
			o.lastfmBaseURL = server.URL
			// Last.fm credentials are present; only the platform's are missing.
			o.user = "test"
			o.accessKey = "123456789041d6db1442edf362e17a83"
			tt.mutate(&o)

			err := run(o)
			if err == nil {
				t.Fatal("expected error but got nil")
			}

			var credentialsErr *CredentialsError
			if !errors.As(err, &credentialsErr) {
				t.Fatalf("expected *CredentialsError, got %T: %v", err, err)
			}
			if credentialsErr.Platform != tt.platform {
				t.Errorf("expected platform %s, got %s", tt.platform, credentialsErr.Platform)
			}
			if exitCode(err) != exitCredentials {
				t.Errorf("expected exit code %d, got %d", exitCredentials, exitCode(err))
			}
		})
	}
}

func TestRunWithoutLastFMCredentials(t *testing.T) {
	o := testOptions(t)

	err := run(o)
	if err == nil {
		t.Fatal("expected error but got nil")
	}

	var credentialsErr *CredentialsError
	if !errors.As(err, &credentialsErr) {
		t.Fatalf("expected *CredentialsError, got %T: %v", err, err)
	}
	if credentialsErr.Platform != "Last.fm" {
		t.Errorf("expected platform Last.fm, got %s", credentialsErr.Platform)
	}
}

func TestRunPrintsSummaryWithoutPostingFlags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="utf-8"?>
<lfm status="ok">
	<topartists user="test">
		<artist rank="1"><name>Artist A</name><playcount>50</playcount></artist>
		<artist rank="2"><name>Artist B</name><playcount>30</playcount></artist>
		<artist rank="3"><name>Artist C</name><playcount>10</playcount></artist>
	</topartists>
</lfm>`))
	}))
	defer server.Close()

	var out bytes.Buffer
	o := testOptions(t)
	o.stdout = &out
	o.lastfmBaseURL = server.URL
	o.user = "test"
	o.accessKey = "123456789041d6db1442edf362e17a83"
	o.number = 3

	if err := run(o); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := "♪ My Weekly Top 3 artists: Artist A (50), Artist B (30) & Artist C (10)\n"
	if out.String() != want {
		t.Errorf("stdout = %q, expected %q", out.String(), want)
	}
}

func TestRunReportsNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="utf-8"?>
<lfm status="ok">
	<topartists user="quiet"></topartists>
</lfm>`))
	}))
	defer server.Close()

	var out bytes.Buffer
	o := testOptions(t)
	o.stdout = &out
	o.lastfmBaseURL = server.URL
	o.user = "quiet"
	o.accessKey = "123456789041d6db1442edf362e17a83"

	if err := run(o); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !strings.Contains(out.String(), "No listening data") {
		t.Errorf("expected a no-results report, got %q", out.String())
	}
}

func TestRunFetchFailures(t *testing.T) {
	tests := []struct {
		name        string
		response    string
		statusCode  int
		errContains string
	}{
		{
			name: "bad access key",
			response: `<?xml version="1.0" encoding="utf-8"?>
<lfm status="failed"><error code="10">Invalid API key</error></lfm>`,
			statusCode:  http.StatusForbidden,
			errContains: "rejected the access key",
		},
		{
			name: "user not found",
			response: `<?xml version="1.0" encoding="utf-8"?>
<lfm status="failed"><error code="6">User not found</error></lfm>`,
			statusCode:  http.StatusBadRequest,
			errContains: "not found",
		},
		{
			name:        "service failure",
			response:    "",
			statusCode:  http.StatusInternalServerError,
			errContains: "500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.response))
			}))
			defer server.Close()

			o := testOptions(t)
			o.lastfmBaseURL = server.URL
			o.user = "test"
			o.accessKey = "123456789041d6db1442edf362e17a83"

			err := run(o)
			if err == nil {
				t.Fatal("expected error but got nil")
			}

			var fetchErr *FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("expected *FetchError, got %T: %v", err, err)
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("expected error containing %q, got %q", tt.errContains, err.Error())
			}
			if exitCode(err) != exitFetch {
				t.Errorf("expected exit code %d, got %d", exitFetch, exitCode(err))
			}
		})
	}
}
