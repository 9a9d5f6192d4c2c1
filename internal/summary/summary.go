// Package summary renders top-artist statistics into the text that
// gets posted to social networks.
package summary

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/jfmyers9/lastshout/pkg/lastfm"
)

// musicalNote prefixes every summary.
const musicalNote = "♪"

// PeriodLabel maps a ranking period token to its display label.
// The twelve-month window is labeled with the current calendar year.
// Unknown tokens yield an empty string; callers are expected to have
// validated the period before building text.
func PeriodLabel(period string) string {
	switch period {
	case lastfm.PeriodOverall:
		return "All-Time"
	case lastfm.Period7Day:
		return "Weekly"
	case lastfm.Period1Month:
		return "Monthly"
	case lastfm.Period3Month:
		return "Quarterly"
	case lastfm.Period6Month:
		return "Semi-Annual"
	case lastfm.Period12Month:
		return strconv.Itoa(time.Now().Year())
	default:
		return ""
	}
}

// ArtistList renders entries as "Name (count)" pairs, comma-joined,
// with " & " before the final entry when there is more than one.
// An empty slice yields an empty string.
func ArtistList(entries []lastfm.TopArtist) string {
	total := len(entries)

	var b strings.Builder
	for i, artist := range entries {
		fmt.Fprintf(&b, "%s (%d)", artist.Name, artist.PlayCount)
		switch {
		case i < total-2:
			b.WriteString(", ")
		case i == total-2:
			b.WriteString(" & ")
		}
	}

	return b.String()
}

// Build composes the full summary text for a list of top artists.
//
// It returns an empty string when entries is empty; callers treat
// that as the signal to skip posting and report "no results" instead
// of publishing an empty message.
func Build(entries []lastfm.TopArtist, period string) string {
	if len(entries) == 0 {
		return ""
	}

	return fmt.Sprintf("%s My %s Top %d artists: %s",
		musicalNote, PeriodLabel(period), len(entries), ArtistList(entries))
}

// Truncate shortens text to at most width display columns, ending in
// "..." when anything was cut. Widths are measured in display columns
// so emoji and CJK characters count by their visual width.
func Truncate(text string, width int) string {
	if width <= 0 || runewidth.StringWidth(text) <= width {
		return text
	}
	return runewidth.Truncate(text, width, "...")
}
