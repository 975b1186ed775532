package playback

// pollPosition samples the adapter for position and duration and
// republishes only those two fields. Playing state and track identity
// are owned by discrete events, so the poller and the event handlers
// never write the same fields. Runs on the internal loop once per
// poll interval.
func (s *serviceImpl) pollPosition() {
	s.mu.RLock()
	if s.released || s.queue.IsEmpty() {
		s.mu.RUnlock()
		return
	}
	s.mu.RUnlock()

	pos, dur, err := s.adapter.Position()
	if err != nil {
		// Skip the tick and retain last-known values.
		s.log.Debug().Err(err).Msg("position poll skipped")
		return
	}

	s.mu.Lock()
	s.state.Position = pos
	if dur > 0 {
		s.state.Duration = dur
	}
	dur = s.state.Duration
	s.mu.Unlock()

	s.publishPosition(PositionChange{Position: pos, Duration: dur})
}
