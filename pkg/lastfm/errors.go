package lastfm

import (
	"errors"
	"fmt"
)

// Error is an error envelope returned by the Last.fm API.
type Error struct {
	Code    int    // Last.fm error code
	Message string // Error message from Last.fm
}

// Error returns the error message.
func (e *Error) Error() string {
	return fmt.Sprintf("lastfm: error %d: %s", e.Code, e.Message)
}

// Is matches any *Error with the same code, so errors.Is(err, ErrNotFound)
// works whatever the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Temporary returns true if the error is temporary and the request
// may be retried.
//
// The following Last.fm error codes are considered temporary:
//   - 11: Service Offline
//   - 16: Service Temporarily Unavailable
//   - 29: Rate Limit Exceeded
func (e *Error) Temporary() bool {
	switch e.Code {
	case ErrCodeServiceOffline, ErrCodeTempUnavailable, ErrCodeRateLimitExceeded:
		return true
	default:
		return false
	}
}

// Last.fm error codes returned by the read methods.
const (
	ErrCodeInvalidService      = 2
	ErrCodeInvalidMethod       = 3
	ErrCodeInvalidFormat       = 5
	ErrCodeInvalidParameters   = 6 // also "user/artist/track not found"
	ErrCodeInvalidResourceSpec = 7
	ErrCodeOperationFailed     = 8
	ErrCodeInvalidAPIKey       = 10
	ErrCodeServiceOffline      = 11
	ErrCodeTempUnavailable     = 16
	ErrCodeSuspendedAPIKey     = 26
	ErrCodeRateLimitExceeded   = 29
)

// Predefined errors for common cases.
var (
	// ErrInvalidConfig is returned when client configuration is invalid.
	ErrInvalidConfig = errors.New("lastfm: invalid configuration")

	// ErrInvalidPeriod is returned for a period outside the set Last.fm accepts.
	ErrInvalidPeriod = errors.New("lastfm: invalid period")

	// ErrNotFound matches the API error returned for unknown users,
	// artists and tracks (code 6).
	ErrNotFound = &Error{Code: ErrCodeInvalidParameters}
)

// IsTemporary reports whether err is a temporary Last.fm API error.
func IsTemporary(err error) bool {
	var lastfmErr *Error
	if errors.As(err, &lastfmErr) {
		return lastfmErr.Temporary()
	}
	return false
}
