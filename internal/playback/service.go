// Package playback contains the playback orchestrator: it owns the
// active queue, drives the platform player adapter, recovers from
// transient failures, and republishes a consolidated reactive state to
// UI and tracking collaborators.
package playback

import (
	"context"
	"time"

	"github.com/sgrimes/tapedeck/internal/track"
)

// Service defines the playback orchestrator contract.
type Service interface {
	// LoadAndPlay atomically replaces the active queue and begins
	// playback of tracks[startIndex]. Fails with ErrInvalidQueue when
	// tracks is empty or startIndex is out of range; no native call is
	// made in that case.
	LoadAndPlay(ctx context.Context, tracks []track.Enriched, startIndex int) error

	// Next and Previous delegate to platform queue navigation. They
	// return false, without error, when already at an edge.
	//
	// Previous restarts the current track instead of moving back when
	// more than three seconds have elapsed.
	Next(ctx context.Context) (bool, error)
	Previous(ctx context.Context) (bool, error)

	Pause(ctx context.Context) error

	// Resume restarts playback and clears a surfaced error: a user
	// gesture is one of the two ways out of the Error state.
	Resume(ctx context.Context) error

	// SeekTo clamps the target into [0, duration].
	SeekTo(ctx context.Context, pos time.Duration) error

	// Stop halts playback and returns to Idle. The queue stays loaded.
	Stop(ctx context.Context) error

	// Release stops playback and frees native resources. Idempotent;
	// every other call fails with ErrReleased afterwards.
	Release()

	// State queries
	State() PlaybackState
	CurrentTrack() *track.Enriched
	CurrentShowID() string
	CurrentRecordingID() string
	QueueTracks() []track.Enriched
	QueueIndex() int

	// Snapshot lifecycle. SaveSnapshot is called on demand (app
	// backgrounding); RestoreSnapshot applies the saved snapshot at
	// most once per process and loads the queue paused at the saved
	// position. ClearSnapshot is for user-intentional termination only.
	SaveSnapshot() error
	RestoreSnapshot(ctx context.Context) (bool, error)
	ClearSnapshot() error

	// Event subscription
	Subscribe() *Subscription
}
