package player

import "time"

// Status is the low-level playback status pushed by an adapter.
//
// IsLoading covers the initial queue load; IsBuffering covers fetching
// and preparing a track mid-session. Position and Duration are
// best-effort and may lag the audio engine slightly.
type Status struct {
	IsPlaying   bool
	Position    time.Duration
	Duration    time.Duration
	IsLoading   bool
	IsBuffering bool
	Err         error
}
