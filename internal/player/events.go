package player

// Event is a low-level playback event pushed by an adapter.
//
// Events are emitted in the order the native layer produced them and
// must be consumed from a single goroutine so bursts cannot reorder
// relative to poll-driven updates.
type Event interface {
	isEvent()
}

// StatusEvent carries a fresh status snapshot.
type StatusEvent struct {
	Status Status
}

// TrackChangedEvent is emitted when the adapter moves to a different
// track, either on command or on native auto-advance. It fires exactly
// once per actual transition: redundant native notifications with the
// same index are de-duplicated by the adapter.
type TrackChangedEvent struct {
	Index int
}

// PlaylistEndedEvent is emitted when the last track finishes.
type PlaylistEndedEvent struct{}

// ErrorEvent is emitted when playback fails asynchronously.
type ErrorEvent struct {
	Err error
}

func (StatusEvent) isEvent()        {}
func (TrackChangedEvent) isEvent()  {}
func (PlaylistEndedEvent) isEvent() {}
func (ErrorEvent) isEvent()         {}
