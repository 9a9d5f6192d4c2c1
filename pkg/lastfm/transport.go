package lastfm

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Base represents the root XML response from Last.fm API.
type Base struct {
	XMLName xml.Name `xml:"lfm"`
	Status  string   `xml:"status,attr"`
	Inner   []byte   `xml:",innerxml"`
}

// APIError represents an error response from the Last.fm API.
type APIError struct {
	Code    int    `xml:"code,attr"`
	Message string `xml:",chardata"`
}

const (
	apiStatusOK     = "ok"
	apiStatusFailed = "failed"
)

// call makes a single HTTP request to the Last.fm API.
//
// It handles:
// - Request construction with proper headers
// - Response parsing (XML)
// - Translating API failure envelopes into *Error values
// - Context cancellation
//
// The request is attempted exactly once. lastshout performs at most
// one fetch per invocation and reports any failure to the user, so
// there is no retry or backoff here.
func (c *Client) call(ctx context.Context, method string, params map[string]string) ([]byte, error) {
	formData := url.Values{}
	for k, v := range params {
		formData.Add(k, v)
	}
	formData.Add("method", method)
	formData.Add("api_key", c.apiKey)

	c.logDebugf("lastfm: calling %s", method)

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, strings.NewReader(formData.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "lastshout/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Last.fm reports API errors with a failure envelope, often
	// alongside a non-200 status. Parse the body first so those
	// surface as typed errors rather than bare status codes.
	var base Base
	if xmlErr := xml.Unmarshal(body, &base); xmlErr != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to parse XML response: %w", xmlErr)
	}

	if base.Status == apiStatusFailed {
		var apiErr APIError
		if err := xml.Unmarshal(base.Inner, &apiErr); err != nil {
			return nil, fmt.Errorf("failed to parse error response: %w", err)
		}
		return nil, &Error{
			Code:    apiErr.Code,
			Message: strings.TrimSpace(apiErr.Message),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	c.logDebugf("lastfm: %s succeeded", method)
	return base.Inner, nil
}
