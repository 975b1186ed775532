package playlist

import "github.com/sgrimes/tapedeck/internal/track"

// Queue holds the ordered set of tracks currently loaded for playback
// plus the index of the current track.
//
// The queue is replaced wholesale on every load and never incrementally
// mutated. Whenever the queue is non-empty, 0 <= currentIndex < Len().
type Queue struct {
	tracks       []track.Enriched
	currentIndex int // -1 if empty
}

// NewQueue creates a new empty queue.
func NewQueue() *Queue {
	return &Queue{
		currentIndex: -1,
	}
}

// Replace discards the previous contents and loads the given tracks with
// the current index set to startIndex.
// Returns false (leaving the queue untouched) if tracks is empty or
// startIndex is out of range.
func (q *Queue) Replace(tracks []track.Enriched, startIndex int) bool {
	if len(tracks) == 0 || startIndex < 0 || startIndex >= len(tracks) {
		return false
	}
	q.tracks = make([]track.Enriched, len(tracks))
	copy(q.tracks, tracks)
	q.currentIndex = startIndex
	return true
}

// Current returns the current track, or nil if the queue is empty.
func (q *Queue) Current() *track.Enriched {
	if q.currentIndex < 0 || q.currentIndex >= len(q.tracks) {
		return nil
	}
	return &q.tracks[q.currentIndex]
}

// CurrentIndex returns the index of the current track (-1 if empty).
func (q *Queue) CurrentIndex() int {
	return q.currentIndex
}

// HasNext returns true if there is a track after the current one.
func (q *Queue) HasNext() bool {
	return q.currentIndex >= 0 && q.currentIndex < len(q.tracks)-1
}

// HasPrevious returns true if there is a track before the current one.
func (q *Queue) HasPrevious() bool {
	return q.currentIndex > 0
}

// Next advances to the next track and returns it.
// Returns nil if already at the last track.
func (q *Queue) Next() *track.Enriched {
	if !q.HasNext() {
		return nil
	}
	q.currentIndex++
	return q.Current()
}

// Previous moves back to the previous track and returns it.
// Returns nil if already at the first track.
func (q *Queue) Previous() *track.Enriched {
	if !q.HasPrevious() {
		return nil
	}
	q.currentIndex--
	return q.Current()
}

// JumpTo sets the current index to the specified position.
// Returns the track at that position, or nil if the index is invalid.
func (q *Queue) JumpTo(index int) *track.Enriched {
	if index < 0 || index >= len(q.tracks) {
		return nil
	}
	q.currentIndex = index
	return q.Current()
}

// Clear removes all tracks and resets the index.
func (q *Queue) Clear() {
	q.tracks = nil
	q.currentIndex = -1
}

// Tracks returns a copy of all tracks in the queue.
func (q *Queue) Tracks() []track.Enriched {
	result := make([]track.Enriched, len(q.tracks))
	copy(result, q.tracks)
	return result
}

// Len returns the number of tracks in the queue.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// IsEmpty returns true if the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return len(q.tracks) == 0
}
