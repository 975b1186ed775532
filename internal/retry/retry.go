// Package retry classifies playback failures and drives bounded
// retry-with-backoff for the transient ones.
package retry

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/sgrimes/tapedeck/internal/player"
)

// Policy holds the retry bounds for one error episode.
type Policy struct {
	MaxAttempts int
	Schedule    []time.Duration
}

// Default returns the standard policy: three attempts with delays of
// 0, 1s and 2s.
func Default() Policy {
	return Policy{
		MaxAttempts: 3,
		Schedule:    []time.Duration{0, time.Second, 2 * time.Second},
	}
}

// Delay returns the backoff before the given 1-based attempt. Attempts
// past the end of the schedule reuse the last entry.
func (p Policy) Delay(attempt int) time.Duration {
	if len(p.Schedule) == 0 || attempt < 1 {
		return 0
	}
	idx := attempt - 1
	if idx >= len(p.Schedule) {
		idx = len(p.Schedule) - 1
	}
	return p.Schedule[idx]
}

// Known transient failure shapes reported by media backends as plain
// message text rather than typed errors.
var sourceErrorSignatures = []string{
	"source error",
	"connection reset",
	"connection refused",
	"unexpected eof",
	"stream error",
	"i/o timeout",
}

// Retryable reports whether the failure is transient: a network
// connection failure, a network timeout, a bad HTTP status, or a known
// source-error signature. Everything else is fatal.
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	// Decode and format failures are fatal: the same bytes will fail again.
	var decodeErr *player.DecodeError
	if errors.As(err, &decodeErr) {
		return false
	}
	if errors.Is(err, player.ErrUnsupportedFormat) {
		return false
	}

	var httpErr *player.HTTPStatusError
	if errors.As(err, &httpErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, sig := range sourceErrorSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// Episode tracks one contiguous run of retryable failures. It captures
// where playback was when the first failure hit so recovery can resume
// there. Created on the first retryable failure after a ready state,
// discarded on recovery or exhaustion.
type Episode struct {
	Index      int
	Position   time.Duration
	WasPlaying bool
	Attempts   int
}

// Next returns the delay before the next retry and whether another
// attempt is allowed, consuming one attempt when it is.
func (e *Episode) Next(p Policy) (time.Duration, bool) {
	if e.Attempts >= p.MaxAttempts {
		return 0, false
	}
	e.Attempts++
	return p.Delay(e.Attempts), true
}
