package cmd

import "fmt"

// ValidationError reports bad command-line input.
type ValidationError struct {
	Reason string
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	return "invalid arguments: " + e.Reason
}

// CredentialsError reports that a requested action needs credentials
// that are not stored or supplied.
type CredentialsError struct {
	Platform string
}

// Error returns the error message.
func (e *CredentialsError) Error() string {
	return fmt.Sprintf("missing %s credentials", e.Platform)
}

// FetchError wraps a failure fetching statistics from Last.fm.
type FetchError struct {
	Err error
}

// Error returns the error message.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching top artists failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}
