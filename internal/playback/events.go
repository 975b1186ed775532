package playback

import (
	"time"

	"github.com/sgrimes/tapedeck/internal/track"
)

// TrackChange is emitted when playback moves to a different track,
// whether by command or by native auto-advance.
//
// It fires exactly once per actual transition: redundant notifications
// carrying the index already current are dropped, so observers can
// apply metadata side effects (history tracking, notifications)
// without de-duplicating themselves.
type TrackChange struct {
	Previous      *track.Enriched
	Current       *track.Enriched
	PreviousIndex int
	Index         int
}

// QueueChange is emitted when the active queue is replaced.
type QueueChange struct {
	Tracks []track.Enriched
	Index  int
}

// PositionChange is emitted by the position poller and by seeks. Only
// position and duration ever travel on this event; playing state and
// track identity are owned by discrete events so two update sources
// never race on the same fields.
type PositionChange struct {
	Position time.Duration
	Duration time.Duration
}

// ErrorEvent is emitted once automatic recovery has given up on an
// error, or immediately for fatal ones.
type ErrorEvent struct {
	Op  string
	Err error
}
