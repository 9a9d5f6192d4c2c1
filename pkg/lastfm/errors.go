package lastfm

import (
	"errors"
	"fmt"
)

// Error represents a Last.fm API error.
//
// The Error type provides structured error information including
// the Last.fm error code and message. It implements error, and the
// package-level helpers classify the failure for callers that need
// to distinguish bad credentials from an unknown user.
type Error struct {
	Code    int    // Last.fm error code
	Message string // Error message from Last.fm
}

// Error returns the error message.
func (e *Error) Error() string {
	return fmt.Sprintf("lastfm: error %d: %s", e.Code, e.Message)
}

// Is checks if the target error is a Last.fm error.
//
// This allows errors.Is() to work with *Error types.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Common Last.fm error codes.
const (
	ErrCodeInvalidService       = 2
	ErrCodeInvalidMethod        = 3
	ErrCodeAuthenticationFailed = 4
	ErrCodeInvalidFormat        = 5
	ErrCodeInvalidParameters    = 6
	ErrCodeInvalidResourceSpec  = 7
	ErrCodeOperationFailed      = 8
	ErrCodeInvalidSessionKey    = 9
	ErrCodeInvalidAPIKey        = 10
	ErrCodeServiceOffline       = 11
	ErrCodeSubscribersOnly      = 12
	ErrCodeInvalidSignature     = 13
	ErrCodeUnauthorizedToken    = 14
	ErrCodeExpiredToken         = 15
	ErrCodeTempUnavailable      = 16
	ErrCodeRateLimitExceeded    = 29
)

// IsAuthError reports whether err is a Last.fm error caused by bad
// API credentials (invalid or suspended API key, failed auth).
func IsAuthError(err error) bool {
	var lastfmErr *Error
	if !errors.As(err, &lastfmErr) {
		return false
	}
	switch lastfmErr.Code {
	case ErrCodeAuthenticationFailed, ErrCodeInvalidAPIKey:
		return true
	default:
		return false
	}
}

// IsUserNotFound reports whether err is the Last.fm error returned
// when the requested username does not exist. Last.fm signals this
// with error code 6 ("User not found").
func IsUserNotFound(err error) bool {
	var lastfmErr *Error
	if !errors.As(err, &lastfmErr) {
		return false
	}
	return lastfmErr.Code == ErrCodeInvalidParameters
}
