package tmdb

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRetriesExhausted is returned when every attempt failed at the transport level.
	ErrRetriesExhausted = errors.New("upstream retries exhausted")
	// ErrResponseTooLarge is returned when an upstream body exceeds the client's size cap.
	ErrResponseTooLarge = errors.New("upstream response too large")
	// ErrMalformedAccessToken is returned when the access token is not a decodable JWT.
	ErrMalformedAccessToken = errors.New("malformed access token")
	// ErrAccessTokenExpired is returned when the access token carries a past expiry.
	ErrAccessTokenExpired = errors.New("access token expired")
)

// TransportError is a connection-level failure. It is the only error the retry policy retries.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPStatusError is an upstream reply with status >= 400.
type HTTPStatusError struct {
	Status int
	Body   []byte
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("TMDB API error: %d %s", e.Status, http.StatusText(e.Status))
}

// IsServerError reports whether the upstream failed with a 5xx status.
func (e *HTTPStatusError) IsServerError() bool {
	return e.Status >= http.StatusInternalServerError
}

// IsTransport reports whether err is (or wraps) a transport-level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
