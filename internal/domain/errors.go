package domain

import "errors"

var (
	// ErrCredentialsNotFound means an account has no publish credentials on
	// file. The whole account group is skipped for the run.
	ErrCredentialsNotFound = errors.New("credentials not found")

	// ErrPostNotFound means a post id matched no row.
	ErrPostNotFound = errors.New("post not found")
)

// IsRetryable reports whether a publish attempt failure is transient.
// Errors produced by the publish API itself carry the marker; anything
// else (transport setup, decoding, programming errors) is fatal and ends
// the attempt sequence immediately.
func IsRetryable(err error) bool {
	var r interface{ Retryable() bool }
	return errors.As(err, &r) && r.Retryable()
}
