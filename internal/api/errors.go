package api

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthRequired means a bearer-auth operation was attempted with no
	// local account token. No network call is made.
	ErrAuthRequired = errors.New("authentication required")

	// ErrEncodeRequest wraps request body serialization failures.
	ErrEncodeRequest = errors.New("encode request")

	// ErrMalformedResponse wraps decode failures and missing required
	// fields in otherwise successful responses.
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError is returned for any response outside [200,299]. The body is
// not decoded.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http status %d", e.Code)
}

// IsStatus reports whether err carries the given HTTP status code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
