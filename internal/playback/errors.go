package playback

import "errors"

// Errors returned synchronously by service calls. Everything else that
// goes wrong during playback is normalized into PlaybackState.Err and
// delivered through the event stream instead of being returned.
var (
	// ErrInvalidQueue rejects an empty track list or an out-of-range
	// start index. No native call is made.
	ErrInvalidQueue = errors.New("invalid queue")

	// ErrReleased rejects any operation after Release.
	ErrReleased = errors.New("playback service released")
)
