package playback

import (
	"context"

	"github.com/sgrimes/tapedeck/internal/resume"
)

// SaveSnapshot writes the durable resume snapshot. A no-op when no
// store is configured or nothing restorable is loaded.
func (s *serviceImpl) SaveSnapshot() error {
	if s.store == nil {
		return nil
	}

	s.mu.RLock()
	if s.released {
		s.mu.RUnlock()
		return ErrReleased
	}
	snap := resume.Snapshot{
		Tracks:     s.queue.Tracks(),
		TrackIndex: s.queue.CurrentIndex(),
		Position:   s.state.Position,
	}
	if t := s.queue.Current(); t != nil {
		snap.ShowID = t.ShowID
		snap.RecordingID = t.RecordingID
		snap.Format = t.Format
	}
	s.mu.RUnlock()

	return s.store.Save(snap)
}

// RestoreSnapshot applies the saved snapshot: the queue is loaded
// paused at the saved index and position. Applied at most once per
// process; returns false when there is nothing to restore.
func (s *serviceImpl) RestoreSnapshot(ctx context.Context) (bool, error) {
	if s.store == nil {
		return false, nil
	}

	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return false, ErrReleased
	}
	if s.restored {
		s.mu.Unlock()
		return false, nil
	}
	s.restored = true
	s.mu.Unlock()

	snap := s.store.Restore()
	if snap == nil {
		return false, nil
	}

	s.mu.Lock()
	if !s.queue.Replace(snap.Tracks, snap.TrackIndex) {
		s.mu.Unlock()
		return false, nil
	}
	s.episode = nil
	s.state = PlaybackState{State: StateLoading, IsLoading: true}
	queueTracks := s.queue.Tracks()
	s.mu.Unlock()

	s.publishState()
	s.publishQueue(QueueChange{Tracks: queueTracks, Index: snap.TrackIndex})

	s.log.Info().Str("show", snap.ShowID).Int("index", snap.TrackIndex).
		Dur("position", snap.Position).Msg("restoring playback session")

	if err := s.adapter.LoadAndPlay(ctx, itemsFromTracks(snap.Tracks), snap.TrackIndex); err != nil {
		s.handlePlaybackError(err)
		return true, nil
	}
	if snap.Position > 0 {
		if err := s.adapter.SeekTo(ctx, snap.Position); err != nil {
			s.log.Debug().Err(err).Msg("restore seek failed, starting from the top")
		}
	}
	// Restored sessions come back paused; playing is a user decision.
	if err := s.adapter.Pause(ctx); err != nil {
		s.log.Debug().Err(err).Msg("pause after restore failed")
	}

	s.mu.Lock()
	s.state.IsPlaying = false
	s.state.State = StatePaused
	s.state.Position = snap.Position
	s.mu.Unlock()
	s.publishState()

	return true, nil
}

// ClearSnapshot writes the empty sentinel. For user-intentional
// termination only, never for transient pause or stop.
func (s *serviceImpl) ClearSnapshot() error {
	if s.store == nil {
		return nil
	}
	return s.store.Clear()
}
