package player

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrNoPlaylist        = errors.New("no playlist loaded")
)

// HTTPStatusError reports a non-2xx response while fetching a track.
// These are transient: archive mirrors routinely return 5xx under load.
type HTTPStatusError struct {
	URL  string
	Code int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Code)
}

// DecodeError reports a failure to decode a fetched track. Decode
// failures are fatal for the track: retrying the same bytes cannot help.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
