package bridge

import (
	"context"
	"time"

	"github.com/sgrimes/tapedeck/internal/player"
)

// LoadAndPlay replaces the host playlist and starts playback at
// startIndex. The bridge keeps its own copy of the ordered list and
// index; the host only ever sees flat URL and metadata records.
func (b *Bridge) LoadAndPlay(ctx context.Context, items []player.Item, startIndex int) error {
	if len(items) == 0 || startIndex < 0 || startIndex >= len(items) {
		return player.ErrNoPlaylist
	}

	urls := make([]string, len(items))
	meta := make([]itemMetadata, len(items))
	for i, it := range items {
		urls[i] = it.URL
		meta[i] = itemMetadata{Title: it.Title, Format: it.Format}
	}

	start := startIndex
	_, err := b.call(ctx, command{
		Action:     actionReplacePlaylist,
		URLs:       urls,
		Metadata:   meta,
		StartIndex: &start,
	})
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.items = items
	b.index = startIndex
	b.lastNotified = startIndex
	b.lastStatus = player.Status{IsPlaying: true}
	b.mu.Unlock()

	b.emit(player.StatusEvent{Status: player.Status{IsPlaying: true}})
	return nil
}

// Pause pauses host playback.
func (b *Bridge) Pause(ctx context.Context) error {
	if _, err := b.call(ctx, command{Action: actionPause}); err != nil {
		return err
	}
	b.setPlaying(false)
	return nil
}

// Resume resumes host playback.
func (b *Bridge) Resume(ctx context.Context) error {
	if _, err := b.call(ctx, command{Action: actionPlay}); err != nil {
		return err
	}
	b.setPlaying(true)
	return nil
}

// SeekTo moves to an absolute position in the current track.
func (b *Bridge) SeekTo(ctx context.Context, pos time.Duration) error {
	ms := pos.Milliseconds()
	_, err := b.call(ctx, command{Action: actionSeek, PositionMs: &ms})
	return err
}

// Next moves to the next playlist item. Returns false, without error,
// when already at the last item: the host lacks wraparound.
func (b *Bridge) Next(ctx context.Context) (bool, error) {
	b.mu.Lock()
	if b.index < 0 || b.index >= len(b.items)-1 {
		b.mu.Unlock()
		return false, nil
	}
	target := b.index + 1
	b.mu.Unlock()

	if _, err := b.call(ctx, command{Action: actionPlayNext}); err != nil {
		return false, err
	}
	b.noteTransition(target)
	return true, nil
}

// Previous moves to the previous playlist item. Returns false, without
// error, when already at the first item.
func (b *Bridge) Previous(ctx context.Context) (bool, error) {
	b.mu.Lock()
	if b.index <= 0 {
		b.mu.Unlock()
		return false, nil
	}
	target := b.index - 1
	b.mu.Unlock()

	if _, err := b.call(ctx, command{Action: actionPlayPrevious}); err != nil {
		return false, err
	}
	b.noteTransition(target)
	return true, nil
}

// noteTransition records a command-driven index move and emits the
// track change. The host's own track-changed callback for the same
// index is then recognized as redundant and dropped.
func (b *Bridge) noteTransition(index int) {
	b.mu.Lock()
	b.index = index
	b.lastNotified = index
	b.mu.Unlock()
	b.emit(player.TrackChangedEvent{Index: index})
}

// Stop stops host playback. The playlist stays loaded on the host
// until the next replace-playlist.
func (b *Bridge) Stop(ctx context.Context) error {
	if _, err := b.call(ctx, command{Action: actionStop}); err != nil {
		return err
	}
	b.setPlaying(false)
	return nil
}

// Status returns the host state. It never fails: when the host cannot
// be reached the last known snapshot is returned, zeroed fields and
// all, per the get-state contract.
func (b *Bridge) Status() player.Status {
	resp, err := b.call(context.Background(), command{Action: actionGetState})
	if err != nil || resp.State == nil {
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.lastStatus
	}

	st := snapshotToStatus(*resp.State)
	b.mu.Lock()
	b.lastStatus = st
	b.mu.Unlock()
	return st
}

// Position queries the host for position and duration.
func (b *Bridge) Position() (time.Duration, time.Duration, error) {
	resp, err := b.call(context.Background(), command{Action: actionGetState})
	if err != nil {
		return 0, 0, err
	}
	if resp.State == nil {
		return 0, 0, player.ErrNoPlaylist
	}
	return time.Duration(resp.State.PositionMs) * time.Millisecond,
		time.Duration(resp.State.DurationMs) * time.Millisecond, nil
}

func (b *Bridge) setPlaying(playing bool) {
	b.mu.Lock()
	b.lastStatus.IsPlaying = playing
	b.mu.Unlock()
}

func snapshotToStatus(s stateSnapshot) player.Status {
	st := player.Status{
		IsPlaying:   s.IsPlaying,
		Position:    time.Duration(s.PositionMs) * time.Millisecond,
		Duration:    time.Duration(s.DurationMs) * time.Millisecond,
		IsLoading:   s.IsLoading,
		IsBuffering: s.IsBuffering,
	}
	if s.Error != "" {
		st.Err = &hostError{msg: s.Error}
	}
	return st
}

// hostError carries an error string reported by the host.
type hostError struct {
	msg string
}

func (e *hostError) Error() string {
	return e.msg
}
