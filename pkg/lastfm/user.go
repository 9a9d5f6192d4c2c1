package lastfm

import (
	"context"
	"encoding/xml"
	"fmt"
	"strconv"
)

// UserService provides user data operations for the Last.fm API.
type UserService struct {
	client *Client
}

// Ranking period tokens accepted by user.getTopArtists.
const (
	PeriodOverall = "overall"
	Period7Day    = "7day"
	Period1Month  = "1month"
	Period3Month  = "3month"
	Period6Month  = "6month"
	Period12Month = "12month"
)

// Periods returns the ranking period tokens in their canonical order.
func Periods() []string {
	return []string{
		PeriodOverall,
		Period7Day,
		Period1Month,
		Period3Month,
		Period6Month,
		Period12Month,
	}
}

// ValidPeriod reports whether period is a recognized ranking period token.
func ValidPeriod(period string) bool {
	for _, p := range Periods() {
		if p == period {
			return true
		}
	}
	return false
}

// TopArtist is one ranked artist from a user's listening history.
type TopArtist struct {
	Rank      int    // 1-based rank within the requested period
	Name      string // Artist name
	PlayCount int    // Number of plays within the period
}

// topArtistsResponse mirrors the user.getTopArtists XML payload.
type topArtistsResponse struct {
	XMLName xml.Name `xml:"topartists"`
	Artists []struct {
		Rank      string `xml:"rank,attr"`
		Name      string `xml:"name"`
		PlayCount int    `xml:"playcount"`
	} `xml:"artist"`
}

// GetTopArtists fetches a user's most-played artists for a ranking period.
//
// The returned slice is ordered by rank and may contain fewer than
// limit entries when the user's listening history is sparse or the
// service caps the result.
//
// Errors from Last.fm surface as *Error; use IsAuthError and
// IsUserNotFound to classify them. Transport and decode failures are
// returned as plain wrapped errors.
//
// Example:
//
//	artists, err := client.User().GetTopArtists(ctx, "rj", lastfm.Period7Day, 10)
//	if err != nil {
//	    if lastfm.IsUserNotFound(err) {
//	        // unknown username
//	    }
//	}
func (u *UserService) GetTopArtists(ctx context.Context, user, period string, limit int) ([]TopArtist, error) {
	if user == "" {
		return nil, fmt.Errorf("lastfm: user is required")
	}
	if !ValidPeriod(period) {
		return nil, fmt.Errorf("lastfm: invalid period %q", period)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("lastfm: limit must be positive (got %d)", limit)
	}

	params := map[string]string{
		"user":   user,
		"period": period,
		"limit":  strconv.Itoa(limit),
	}

	inner, err := u.client.call(ctx, "user.getTopArtists", params)
	if err != nil {
		return nil, err
	}

	var payload topArtistsResponse
	if err := xml.Unmarshal(inner, &payload); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse top artists response: %w", err)
	}

	artists := make([]TopArtist, 0, len(payload.Artists))
	for i, a := range payload.Artists {
		rank, err := strconv.Atoi(a.Rank)
		if err != nil {
			// Some responses omit the rank attribute; fall back
			// to the document order.
			rank = i + 1
		}
		artists = append(artists, TopArtist{
			Rank:      rank,
			Name:      a.Name,
			PlayCount: a.PlayCount,
		})
	}

	return artists, nil
}
