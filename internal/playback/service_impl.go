package playback

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sgrimes/tapedeck/internal/player"
	"github.com/sgrimes/tapedeck/internal/playlist"
	"github.com/sgrimes/tapedeck/internal/resume"
	"github.com/sgrimes/tapedeck/internal/retry"
	"github.com/sgrimes/tapedeck/internal/track"
)

// Previous restarts the current track past this elapsed time instead
// of moving to the prior index.
const previousRestartThreshold = 3 * time.Second

const defaultPollInterval = time.Second

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

// Options configures the playback service.
type Options struct {
	Store        *resume.Store // nil disables snapshots
	Policy       retry.Policy  // zero value means retry.Default()
	PollInterval time.Duration // zero means 1s
	Logger       zerolog.Logger
}

type serviceImpl struct {
	mu sync.RWMutex

	log     zerolog.Logger
	adapter player.Adapter
	queue   *playlist.Queue
	policy  retry.Policy
	store   *resume.Store

	state    PlaybackState
	episode  *retry.Episode
	restored bool
	released bool

	pollInterval time.Duration

	retryMu    sync.Mutex
	retryTimer *time.Timer
	retryCh    chan struct{}

	subs   []*Subscription
	subsMu sync.RWMutex

	done chan struct{}
}

// New creates a playback service on top of the given adapter and
// starts its internal event loop.
func New(adapter player.Adapter, opts Options) Service {
	policy := opts.Policy
	if policy.MaxAttempts == 0 {
		policy = retry.Default()
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	s := &serviceImpl{
		log:          opts.Logger,
		adapter:      adapter,
		queue:        playlist.NewQueue(),
		policy:       policy,
		store:        opts.Store,
		pollInterval: interval,
		retryCh:      make(chan struct{}, 1),
		done:         make(chan struct{}),
	}
	go s.loop()
	return s
}

// loop is the single internal event sequence: adapter events, poll
// ticks and retry timers are all serialized here, so callback bursts
// from the native layer can never reorder relative to poll updates.
func (s *serviceImpl) loop() {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-s.adapter.Events():
			if !ok {
				return
			}
			s.handleAdapterEvent(ev)
		case <-ticker.C:
			s.pollPosition()
		case <-s.retryCh:
			s.runRetry()
		}
	}
}

// LoadAndPlay replaces the active queue and starts playback.
func (s *serviceImpl) LoadAndPlay(ctx context.Context, tracks []track.Enriched, startIndex int) error {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return ErrReleased
	}
	if !s.queue.Replace(tracks, startIndex) {
		s.mu.Unlock()
		return ErrInvalidQueue
	}
	// A new load retires the previous queue's in-flight retry episode.
	s.episode = nil
	s.cancelRetry()
	s.state = PlaybackState{State: StateLoading, IsLoading: true}
	queueTracks := s.queue.Tracks()
	s.mu.Unlock()

	s.publishState()
	s.publishQueue(QueueChange{Tracks: queueTracks, Index: startIndex})

	s.log.Info().Int("tracks", len(tracks)).Int("start", startIndex).Msg("loading queue")

	if err := s.adapter.LoadAndPlay(ctx, itemsFromTracks(tracks), startIndex); err != nil {
		s.handlePlaybackError(err)
	}
	return nil
}

// Next moves to the next track. Returns false at the queue edge.
func (s *serviceImpl) Next(ctx context.Context) (bool, error) {
	s.mu.RLock()
	if s.released {
		s.mu.RUnlock()
		return false, ErrReleased
	}
	hasNext := s.queue.HasNext()
	s.mu.RUnlock()

	if !hasNext {
		return false, nil
	}

	moved, err := s.adapter.Next(ctx)
	if err != nil {
		s.handlePlaybackError(err)
	}
	return moved, nil
}

// Previous restarts the current track when more than three seconds
// have elapsed, and moves to the prior index otherwise. Returns false
// at the queue edge below the threshold.
func (s *serviceImpl) Previous(ctx context.Context) (bool, error) {
	s.mu.RLock()
	if s.released {
		s.mu.RUnlock()
		return false, ErrReleased
	}
	position := s.state.Position
	hasPrevious := s.queue.HasPrevious()
	s.mu.RUnlock()

	if position > previousRestartThreshold {
		return true, s.SeekTo(ctx, 0)
	}
	if !hasPrevious {
		return false, nil
	}

	moved, err := s.adapter.Previous(ctx)
	if err != nil {
		s.handlePlaybackError(err)
	}
	return moved, nil
}

// Pause pauses playback.
func (s *serviceImpl) Pause(ctx context.Context) error {
	s.mu.RLock()
	if s.released {
		s.mu.RUnlock()
		return ErrReleased
	}
	s.mu.RUnlock()

	if err := s.adapter.Pause(ctx); err != nil {
		s.handlePlaybackError(err)
		return nil
	}

	s.mu.Lock()
	s.state.IsPlaying = false
	if s.state.State == StatePlaying {
		s.state.State = StatePaused
	}
	s.mu.Unlock()
	s.publishState()
	return nil
}

// Resume resumes playback, clearing any surfaced error.
func (s *serviceImpl) Resume(ctx context.Context) error {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return ErrReleased
	}
	s.state.Err = nil
	s.mu.Unlock()

	if err := s.adapter.Resume(ctx); err != nil {
		s.handlePlaybackError(err)
		return nil
	}

	s.mu.Lock()
	s.state.IsPlaying = true
	s.state.State = StatePlaying
	s.mu.Unlock()
	s.publishState()
	return nil
}

// SeekTo seeks to an absolute position, clamped into [0, duration].
func (s *serviceImpl) SeekTo(ctx context.Context, pos time.Duration) error {
	s.mu.RLock()
	if s.released {
		s.mu.RUnlock()
		return ErrReleased
	}
	duration := s.state.Duration
	s.mu.RUnlock()

	pos = max(pos, 0)
	if duration > 0 && pos > duration {
		pos = duration
	}

	if err := s.adapter.SeekTo(ctx, pos); err != nil {
		s.handlePlaybackError(err)
		return nil
	}

	s.mu.Lock()
	s.state.Position = pos
	duration = s.state.Duration
	s.mu.Unlock()
	s.publishPosition(PositionChange{Position: pos, Duration: duration})
	return nil
}

// Stop halts playback and returns to Idle.
func (s *serviceImpl) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return ErrReleased
	}
	s.episode = nil
	s.cancelRetry()
	s.mu.Unlock()

	if err := s.adapter.Stop(ctx); err != nil {
		s.handlePlaybackError(err)
		return nil
	}

	s.mu.Lock()
	s.state = PlaybackState{State: StateIdle}
	s.mu.Unlock()
	s.publishState()
	return nil
}

// Release shuts down the service and frees native resources.
func (s *serviceImpl) Release() {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return
	}
	s.released = true
	s.episode = nil
	s.cancelRetry()
	s.queue.Clear()
	s.state = PlaybackState{State: StateIdle}
	s.mu.Unlock()

	close(s.done)
	s.adapter.Release()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()
}

// State returns the current consolidated playback state.
func (s *serviceImpl) State() PlaybackState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// CurrentTrack returns the current enriched track, or nil. Computed
// from queue and index on demand, never cached.
func (s *serviceImpl) CurrentTrack() *track.Enriched {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue.Current()
}

// CurrentShowID returns the show of the current track ("" if none).
func (s *serviceImpl) CurrentShowID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t := s.queue.Current(); t != nil {
		return t.ShowID
	}
	return ""
}

// CurrentRecordingID returns the recording of the current track.
func (s *serviceImpl) CurrentRecordingID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t := s.queue.Current(); t != nil {
		return t.RecordingID
	}
	return ""
}

// QueueTracks returns a copy of the active queue.
func (s *serviceImpl) QueueTracks() []track.Enriched {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue.Tracks()
}

// QueueIndex returns the current queue index (-1 if empty).
func (s *serviceImpl) QueueIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue.CurrentIndex()
}

// Subscribe creates a new event subscription.
func (s *serviceImpl) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

func itemsFromTracks(tracks []track.Enriched) []player.Item {
	items := make([]player.Item, len(tracks))
	for i, t := range tracks {
		items[i] = player.Item{URL: t.URL, Title: t.Display(), Format: t.Format}
	}
	return items
}

// Event fan-out

func (s *serviceImpl) publishState() {
	s.mu.RLock()
	st := s.state
	s.mu.RUnlock()

	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendState(st)
	}
}

func (s *serviceImpl) publishTrack(e TrackChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendTrack(e)
	}
}

func (s *serviceImpl) publishPosition(e PositionChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendPosition(e)
	}
}

func (s *serviceImpl) publishQueue(e QueueChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendQueue(e)
	}
}

func (s *serviceImpl) publishError(e ErrorEvent) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendError(e)
	}
}
