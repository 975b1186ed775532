package playback

import (
	"context"
	"time"

	"github.com/sgrimes/tapedeck/internal/retry"
)

// handlePlaybackError normalizes a playback failure: transient errors
// are retried with backoff, fatal or exhausted ones populate
// PlaybackState.Err. Nothing is thrown across the service boundary.
func (s *serviceImpl) handlePlaybackError(err error) {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return
	}

	if retry.Retryable(err) {
		if s.episode == nil {
			s.episode = &retry.Episode{
				Index:      s.queue.CurrentIndex(),
				Position:   s.state.Position,
				WasPlaying: s.state.IsPlaying || s.state.State == StateLoading,
			}
		}
		if delay, ok := s.episode.Next(s.policy); ok {
			attempt := s.episode.Attempts
			s.state.IsPlaying = false
			s.state.IsBuffering = true
			s.state.State = StateBuffering
			s.mu.Unlock()

			s.log.Warn().Err(err).Int("attempt", attempt).Dur("delay", delay).
				Msg("transient playback failure, retrying")
			s.publishState()
			s.scheduleRetry(delay)
			return
		}
	}

	s.state.IsPlaying = false
	s.state.IsLoading = false
	s.state.IsBuffering = false
	s.state.State = StateError
	s.state.Err = err
	s.mu.Unlock()

	s.log.Error().Err(err).Msg("playback failed")
	s.publishState()
	s.publishError(ErrorEvent{Op: "play", Err: err})
}

// scheduleRetry arms the retry timer. The actual recovery runs on the
// internal loop once the delay elapses; retrying before the delay
// would just spin on a persistent failure.
func (s *serviceImpl) scheduleRetry(delay time.Duration) {
	s.retryMu.Lock()
	defer s.retryMu.Unlock()
	if s.retryTimer != nil {
		s.retryTimer.Stop()
	}
	s.retryTimer = time.AfterFunc(delay, func() {
		select {
		case s.retryCh <- struct{}{}:
		default:
		}
	})
}

// cancelRetry disarms any pending retry. Caller holds s.mu.
func (s *serviceImpl) cancelRetry() {
	s.retryMu.Lock()
	defer s.retryMu.Unlock()
	if s.retryTimer != nil {
		s.retryTimer.Stop()
		s.retryTimer = nil
	}
	select {
	case <-s.retryCh:
	default:
	}
}

// runRetry re-seeks to the captured index and position, re-prepares
// the track, and re-issues play if playback was active when the
// episode began.
func (s *serviceImpl) runRetry() {
	s.mu.RLock()
	if s.released || s.episode == nil {
		s.mu.RUnlock()
		return
	}
	ep := *s.episode
	tracks := s.queue.Tracks()
	s.mu.RUnlock()

	if len(tracks) == 0 || ep.Index < 0 || ep.Index >= len(tracks) {
		return
	}

	s.log.Info().Int("attempt", ep.Attempts).Int("index", ep.Index).
		Dur("position", ep.Position).Msg("recovering playback")

	ctx := context.Background()
	if err := s.adapter.LoadAndPlay(ctx, itemsFromTracks(tracks), ep.Index); err != nil {
		s.handlePlaybackError(err)
		return
	}
	if ep.Position > 0 {
		if err := s.adapter.SeekTo(ctx, ep.Position); err != nil {
			s.log.Debug().Err(err).Msg("resume seek failed, starting from the top")
		}
	}
	if !ep.WasPlaying {
		if err := s.adapter.Pause(ctx); err != nil {
			s.log.Debug().Err(err).Msg("pause after recovery failed")
		}
	}
}
