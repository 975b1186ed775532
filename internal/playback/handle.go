package playback

import (
	"github.com/sgrimes/tapedeck/internal/player"
	"github.com/sgrimes/tapedeck/internal/track"
)

// handleAdapterEvent processes one low-level event. Called only from
// the internal loop, in native emission order.
func (s *serviceImpl) handleAdapterEvent(ev player.Event) {
	switch e := ev.(type) {
	case player.StatusEvent:
		s.handleStatus(e.Status)
	case player.TrackChangedEvent:
		s.handleTrackChanged(e.Index)
	case player.PlaylistEndedEvent:
		s.handlePlaylistEnded()
	case player.ErrorEvent:
		s.handlePlaybackError(e.Err)
	}
}

func (s *serviceImpl) handleStatus(st player.Status) {
	if st.Err != nil {
		s.handlePlaybackError(st.Err)
		return
	}

	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return
	}
	prev := s.state.State

	s.state.IsPlaying = st.IsPlaying
	s.state.IsLoading = st.IsLoading
	s.state.IsBuffering = st.IsBuffering
	if st.Duration > 0 {
		s.state.Duration = st.Duration
	}

	switch {
	case st.IsPlaying:
		s.state.State = StatePlaying
	case st.IsBuffering:
		s.state.State = StateBuffering
	case st.IsLoading:
		s.state.State = StateLoading
	case prev.IsReady():
		s.state.State = StatePaused
	}

	// A genuine transition back to a ready state ends the error
	// episode; only then does the attempt counter reset.
	if s.state.State.IsReady() && !prev.IsReady() && s.episode != nil {
		s.log.Debug().Int("attempts", s.episode.Attempts).Msg("playback recovered")
		s.episode = nil
	}
	s.mu.Unlock()

	s.publishState()
}

func (s *serviceImpl) handleTrackChanged(index int) {
	s.mu.Lock()
	if s.released || index == s.queue.CurrentIndex() {
		s.mu.Unlock()
		return
	}
	prevIndex := s.queue.CurrentIndex()
	var prevTrack *track.Enriched
	if t := s.queue.Current(); t != nil {
		cp := *t
		prevTrack = &cp
	}
	current := s.queue.JumpTo(index)
	if current == nil {
		s.mu.Unlock()
		s.log.Warn().Int("index", index).Msg("track change outside queue bounds")
		return
	}
	cp := *current
	s.mu.Unlock()

	s.publishTrack(TrackChange{
		Previous:      prevTrack,
		Current:       &cp,
		PreviousIndex: prevIndex,
		Index:         index,
	})
}

func (s *serviceImpl) handlePlaylistEnded() {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return
	}
	s.state.IsPlaying = false
	s.state.IsBuffering = false
	s.state.State = StateEnded
	s.mu.Unlock()

	s.log.Info().Msg("playlist ended")
	s.publishState()
}
