package summary

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/jfmyers9/lastshout/pkg/lastfm"
)

func TestPeriodLabel(t *testing.T) {
	tests := []struct {
		period   string
		expected string
	}{
		{lastfm.PeriodOverall, "All-Time"},
		{lastfm.Period7Day, "Weekly"},
		{lastfm.Period1Month, "Monthly"},
		{lastfm.Period3Month, "Quarterly"},
		{lastfm.Period6Month, "Semi-Annual"},
		{lastfm.Period12Month, strconv.Itoa(time.Now().Year())},
		{"fortnight", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			if got := PeriodLabel(tt.period); got != tt.expected {
				t.Errorf("PeriodLabel(%q) = %q, expected %q", tt.period, got, tt.expected)
			}
		})
	}
}

func TestArtistList(t *testing.T) {
	tests := []struct {
		name     string
		entries  []lastfm.TopArtist
		expected string
	}{
		{
			name:     "empty",
			entries:  nil,
			expected: "",
		},
		{
			name:     "single artist has no separators",
			entries:  []lastfm.TopArtist{{Name: "Rush", PlayCount: 802}},
			expected: "Rush (802)",
		},
		{
			name: "two artists joined by ampersand only",
			entries: []lastfm.TopArtist{
				{Name: "Rush", PlayCount: 802},
				{Name: "Yes", PlayCount: 400},
			},
			expected: "Rush (802) & Yes (400)",
		},
		{
			name: "three artists",
			entries: []lastfm.TopArtist{
				{Name: "Artist A", PlayCount: 50},
				{Name: "Artist B", PlayCount: 30},
				{Name: "Artist C", PlayCount: 10},
			},
			expected: "Artist A (50), Artist B (30) & Artist C (10)",
		},
		{
			name: "five artists",
			entries: []lastfm.TopArtist{
				{Name: "A", PlayCount: 5},
				{Name: "B", PlayCount: 4},
				{Name: "C", PlayCount: 3},
				{Name: "D", PlayCount: 2},
				{Name: "E", PlayCount: 1},
			},
			expected: "A (5), B (4), C (3), D (2) & E (1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ArtistList(tt.entries)
			if got != tt.expected {
				t.Fatalf("ArtistList = %q, expected %q", got, tt.expected)
			}

			// Separator structure: commas between all but the final
			// pair, exactly one ampersand before the final entry.
			if n := len(tt.entries); n > 1 {
				if commas := strings.Count(got, ", "); commas != n-2 {
					t.Errorf("expected %d comma separators, got %d", n-2, commas)
				}
				if amps := strings.Count(got, " & "); amps != 1 {
					t.Errorf("expected exactly one ampersand separator, got %d", amps)
				}
			} else if strings.ContainsAny(got, "&,") {
				t.Errorf("expected no separators for %d entries, got %q", len(tt.entries), got)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	entries := []lastfm.TopArtist{
		{Name: "Artist A", PlayCount: 50},
		{Name: "Artist B", PlayCount: 30},
		{Name: "Artist C", PlayCount: 10},
	}

	got := Build(entries, lastfm.Period7Day)
	want := "♪ My Weekly Top 3 artists: Artist A (50), Artist B (30) & Artist C (10)"
	if got != want {
		t.Errorf("Build = %q, expected %q", got, want)
	}
}

func TestBuildEmpty(t *testing.T) {
	if got := Build(nil, lastfm.Period7Day); got != "" {
		t.Errorf("expected empty string for no entries, got %q", got)
	}
	if got := Build([]lastfm.TopArtist{}, lastfm.PeriodOverall); got != "" {
		t.Errorf("expected empty string for no entries, got %q", got)
	}
}

func TestBuildCountsFetchedEntries(t *testing.T) {
	// The header N is the number of entries actually returned, which
	// may be smaller than the number requested.
	entries := []lastfm.TopArtist{{Name: "Solo", PlayCount: 7}}
	got := Build(entries, lastfm.PeriodOverall)
	want := "♪ My All-Time Top 1 artists: Solo (7)"
	if got != want {
		t.Errorf("Build = %q, expected %q", got, want)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{
			name:     "unchanged when width is zero",
			input:    "Hello",
			width:    0,
			expected: "Hello",
		},
		{
			name:     "unchanged when it fits",
			input:    "Hello",
			width:    10,
			expected: "Hello",
		},
		{
			name:     "exact width unchanged",
			input:    "Hello",
			width:    5,
			expected: "Hello",
		},
		{
			name:     "truncated with ellipsis",
			input:    "This is a very long string that needs truncation",
			width:    20,
			expected: "This is a very lo...",
		},
		{
			name:     "wide characters measured by display width",
			input:    "♪ 日本語のアーティスト名",
			width:    10,
			expected: "♪ 日本...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.width)
			if got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, expected %q", tt.input, tt.width, got, tt.expected)
			}
			if tt.width > 0 && runewidth.StringWidth(got) > tt.width {
				t.Errorf("result %q exceeds width %d", got, tt.width)
			}
		})
	}
}
