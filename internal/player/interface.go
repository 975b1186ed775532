// Package player defines the platform player adapter contract and its
// native-queue implementation on top of the beep audio engine.
package player

import (
	"context"
	"time"
)

// Item is the minimal per-track payload handed across the adapter
// boundary. Payloads are flat values, never live references, so either
// side of the boundary is independently replaceable.
type Item struct {
	URL    string
	Title  string
	Format string // "mp3", "flac" or "ogg"
}

// Adapter defines the generic playback contract every platform
// implementation satisfies. Exactly one concrete implementation is
// selected at wiring time.
type Adapter interface {
	// LoadAndPlay replaces the adapter's playlist with the given items
	// and begins playback at startIndex.
	LoadAndPlay(ctx context.Context, items []Item, startIndex int) error

	Pause(ctx context.Context) error
	Resume(ctx context.Context) error

	// SeekTo moves to an absolute position in the current track.
	// The position is clamped into [0, duration] by the caller.
	SeekTo(ctx context.Context, pos time.Duration) error

	// Next and Previous move within the adapter playlist. They return
	// false, without error, when already at an edge.
	Next(ctx context.Context) (bool, error)
	Previous(ctx context.Context) (bool, error)

	Stop(ctx context.Context) error

	// Release stops playback and frees native resources. Idempotent.
	Release()

	// Status returns a best-effort snapshot of the playback status.
	// It never fails: fields that are not yet known are zeroed.
	Status() Status

	// Position reports the current position and duration for the
	// position poller. A failed query is reported as an error and
	// skipped by the caller.
	Position() (pos, dur time.Duration, err error)

	// Events returns the push stream of low-level playback events.
	// The channel is closed by Release.
	Events() <-chan Event
}
