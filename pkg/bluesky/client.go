// Package bluesky provides a minimal client for posting to Bluesky.
//
// It implements the two AT Protocol XRPC calls lastshout needs:
// com.atproto.server.createSession (log in with a handle and app
// password) and com.atproto.repo.createRecord (publish a post to the
// app.bsky.feed.post collection).
package bluesky

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultHost is the default Bluesky PDS endpoint.
	DefaultHost = "https://bsky.social"

	// postCollection is the record collection feed posts live in.
	postCollection = "app.bsky.feed.post"
)

// Config holds client configuration.
type Config struct {
	Host       string       // Optional: PDS host (defaults to bsky.social, used for testing)
	HTTPClient *http.Client // Optional: HTTP client (defaults to http.DefaultClient)
	Logger     Logger       // Optional: Logger interface for debug logging
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

// Client talks to a Bluesky PDS. A client must establish a session
// with CreateSession before it can publish posts.
type Client struct {
	host       string
	httpClient *http.Client
	logger     Logger

	accessJwt string
	did       string
	handle    string
}

// NewClient creates a new Bluesky client.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	host := cfg.Host
	if host == "" {
		host = DefaultHost
	}

	return &Client{
		host:       strings.TrimRight(host, "/"),
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Error represents an XRPC error response from the PDS.
type Error struct {
	Status  int    // HTTP status code
	Code    string // XRPC error name, e.g. "AuthenticationRequired"
	Message string // Human-readable message
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("bluesky: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("bluesky: %s (status %d)", e.Code, e.Status)
}

// IsAuthError reports whether err is a Bluesky error caused by a bad
// handle or app password.
func IsAuthError(err error) bool {
	var bskyErr *Error
	if !errors.As(err, &bskyErr) {
		return false
	}
	return bskyErr.Status == http.StatusUnauthorized || bskyErr.Code == "AuthenticationRequired"
}

// ErrNoSession is returned when a call requires a session but
// CreateSession has not succeeded.
var ErrNoSession = fmt.Errorf("bluesky: session required")

type createSessionRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type createSessionResponse struct {
	AccessJwt  string `json:"accessJwt"`
	RefreshJwt string `json:"refreshJwt"`
	Handle     string `json:"handle"`
	DID        string `json:"did"`
}

// CreateSession authenticates with the PDS using a handle (or email)
// and an app password, and stores the session on the client.
func (c *Client) CreateSession(ctx context.Context, identifier, password string) error {
	if identifier == "" || password == "" {
		return fmt.Errorf("bluesky: identifier and password are required")
	}

	c.logDebugf("bluesky: creating session for %s", identifier)

	var resp createSessionResponse
	err := c.call(ctx, "com.atproto.server.createSession", createSessionRequest{
		Identifier: identifier,
		Password:   password,
	}, &resp)
	if err != nil {
		return err
	}

	if resp.AccessJwt == "" || resp.DID == "" {
		return fmt.Errorf("bluesky: incomplete session response")
	}

	c.accessJwt = resp.AccessJwt
	c.did = resp.DID
	c.handle = resp.Handle

	return nil
}

// HasSession reports whether the client holds an authenticated session.
func (c *Client) HasSession() bool {
	return c.accessJwt != ""
}

// Handle returns the handle resolved during CreateSession.
func (c *Client) Handle() string {
	return c.handle
}

type postRecord struct {
	Type      string `json:"$type"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

type createRecordRequest struct {
	Repo       string     `json:"repo"`
	Collection string     `json:"collection"`
	Record     postRecord `json:"record"`
}

type createRecordResponse struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}

// CreatePost publishes a text post to the session user's feed and
// returns the at:// URI of the created record.
//
// CreateSession must have succeeded first.
func (c *Client) CreatePost(ctx context.Context, text string) (string, error) {
	if !c.HasSession() {
		return "", ErrNoSession
	}

	c.logDebugf("bluesky: creating post for %s", c.did)

	var resp createRecordResponse
	err := c.call(ctx, "com.atproto.repo.createRecord", createRecordRequest{
		Repo:       c.did,
		Collection: postCollection,
		Record: postRecord{
			Type:      postCollection,
			Text:      text,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}, &resp)
	if err != nil {
		return "", err
	}

	return resp.URI, nil
}

// xrpcError mirrors the JSON error body XRPC endpoints return.
type xrpcError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// call makes a single XRPC procedure call. Requests are attempted
// exactly once; any failure is returned to the caller.
func (c *Client) call(ctx context.Context, method string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := c.host + "/xrpc/" + method
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "lastshout/1.0")
	if c.accessJwt != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessJwt)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var xerr xrpcError
		if json.Unmarshal(respBody, &xerr) == nil && xerr.Error != "" {
			return &Error{
				Status:  resp.StatusCode,
				Code:    xerr.Error,
				Message: xerr.Message,
			}
		}
		return &Error{
			Status: resp.StatusCode,
			Code:   http.StatusText(resp.StatusCode),
		}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	c.logDebugf("bluesky: %s succeeded", method)
	return nil
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
