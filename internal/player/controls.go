package player

import (
	"context"
	"time"

	"github.com/gopxl/beep/v2/speaker"
)

// Pause pauses playback. No-op when nothing is playing.
func (e *Engine) Pause(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctrl == nil || !e.playing {
		return nil
	}
	speaker.Lock()
	e.ctrl.Paused = true
	speaker.Unlock()
	e.playing = false
	return nil
}

// Resume resumes paused playback.
func (e *Engine) Resume(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctrl == nil || e.playing {
		return nil
	}
	speaker.Lock()
	e.ctrl.Paused = false
	speaker.Unlock()
	e.playing = true
	return nil
}

// SeekTo moves to an absolute position in the current track, clamped
// into the track bounds.
func (e *Engine) SeekTo(_ context.Context, pos time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.streamer == nil {
		return ErrNoPlaylist
	}

	target := e.format.SampleRate.N(pos)
	target = max(target, 0)
	if limit := e.streamer.Len() - 1; target > limit {
		target = limit
	}

	speaker.Lock()
	err := e.streamer.Seek(target)
	speaker.Unlock()
	return err
}

// Next advances to the next item. Returns false, without error, when
// already at the last item.
func (e *Engine) Next(ctx context.Context) (bool, error) {
	e.mu.Lock()
	if e.released || e.index < 0 || e.index >= len(e.items)-1 {
		e.mu.Unlock()
		return false, nil
	}
	e.index++
	idx := e.index
	e.gen++
	gen := e.gen
	e.mu.Unlock()

	e.emit(TrackChangedEvent{Index: idx})
	return true, e.startCurrent(ctx, gen)
}

// Previous moves back to the previous item. Returns false, without
// error, when already at the first item.
func (e *Engine) Previous(ctx context.Context) (bool, error) {
	e.mu.Lock()
	if e.released || e.index <= 0 {
		e.mu.Unlock()
		return false, nil
	}
	e.index--
	idx := e.index
	e.gen++
	gen := e.gen
	e.mu.Unlock()

	e.emit(TrackChangedEvent{Index: idx})
	return true, e.startCurrent(ctx, gen)
}

// Stop stops playback and releases the active streamer. The playlist
// stays loaded; a new LoadAndPlay supersedes it.
func (e *Engine) Stop(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.released {
		return nil
	}
	e.gen++
	e.stopLocked()
	return nil
}
