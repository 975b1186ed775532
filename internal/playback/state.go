package playback

import "time"

// State is the orchestrator's position in the playback state machine.
//
//	Idle → Loading → Ready(Playing|Paused) ⇄ Buffering → … → Ended
//
// Ended is terminal on playlist exhaustion. Error is terminal unless
// recovered by a new load or a user-initiated resume. Stop and Release
// return to Idle.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
	StatePaused
	StateBuffering
	StateEnded
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateLoading:
		return "Loading"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateBuffering:
		return "Buffering"
	case StateEnded:
		return "Ended"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// IsReady returns true when a track is prepared and playable.
func (s State) IsReady() bool {
	return s == StatePlaying || s == StatePaused
}

// PlaybackState is the consolidated status republished to observers.
// It is transient: rebuilt on every event or poll tick, never itself
// persisted.
type PlaybackState struct {
	State       State
	IsPlaying   bool
	Position    time.Duration
	Duration    time.Duration
	IsLoading   bool
	IsBuffering bool
	Err         error
}
