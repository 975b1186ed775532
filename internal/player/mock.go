package player

import (
	"context"
	"sync"
	"time"
)

// Mock is a test double for Adapter.
type Mock struct {
	mu sync.Mutex

	items      []Item
	index      int
	status     Status
	posErr     error
	loadErr    error
	released   bool
	loadCalls  [][]Item
	startIdxs  []int
	seekCalls  []time.Duration
	pauseCount int
	resumeCnt  int
	stopCount  int
	events     chan Event
}

// NewMock creates a new mock adapter for testing.
func NewMock() *Mock {
	return &Mock{
		index:  -1,
		events: make(chan Event, 32),
	}
}

func (m *Mock) LoadAndPlay(_ context.Context, items []Item, startIndex int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls = append(m.loadCalls, items)
	m.startIdxs = append(m.startIdxs, startIndex)
	if m.loadErr != nil {
		return m.loadErr
	}
	m.items = items
	m.index = startIndex
	m.status.IsPlaying = true
	return nil
}

func (m *Mock) Pause(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseCount++
	m.status.IsPlaying = false
	return nil
}

func (m *Mock) Resume(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumeCnt++
	m.status.IsPlaying = true
	return nil
}

func (m *Mock) SeekTo(_ context.Context, pos time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekCalls = append(m.seekCalls, pos)
	m.status.Position = pos
	return nil
}

func (m *Mock) Next(_ context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.index < 0 || m.index >= len(m.items)-1 {
		return false, nil
	}
	m.index++
	m.events <- TrackChangedEvent{Index: m.index}
	return true, nil
}

func (m *Mock) Previous(_ context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.index <= 0 {
		return false, nil
	}
	m.index--
	m.events <- TrackChangedEvent{Index: m.index}
	return true, nil
}

func (m *Mock) Stop(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCount++
	m.status.IsPlaying = false
	return nil
}

func (m *Mock) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return
	}
	m.released = true
	close(m.events)
}

func (m *Mock) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Mock) Position() (time.Duration, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.posErr != nil {
		return 0, 0, m.posErr
	}
	return m.status.Position, m.status.Duration, nil
}

func (m *Mock) Events() <-chan Event {
	return m.events
}

// Test helpers

func (m *Mock) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

func (m *Mock) SetPositionError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posErr = err
}

func (m *Mock) SetPosition(pos, dur time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.Position = pos
	m.status.Duration = dur
}

func (m *Mock) LoadCalls() [][]Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

func (m *Mock) StartIndexes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.startIdxs...)
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

func (m *Mock) PauseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauseCount
}

func (m *Mock) Released() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}

// EmitStatus pushes a status event as if the native layer produced it.
func (m *Mock) EmitStatus(st Status) {
	m.mu.Lock()
	m.status = st
	m.mu.Unlock()
	m.events <- StatusEvent{Status: st}
}

// EmitTrackChanged pushes a track-changed event.
func (m *Mock) EmitTrackChanged(index int) {
	m.mu.Lock()
	m.index = index
	m.mu.Unlock()
	m.events <- TrackChangedEvent{Index: index}
}

// EmitPlaylistEnded pushes a playlist-ended event.
func (m *Mock) EmitPlaylistEnded() {
	m.events <- PlaylistEndedEvent{}
}

// EmitError pushes an asynchronous playback error.
func (m *Mock) EmitError(err error) {
	m.events <- ErrorEvent{Err: err}
}

// Verify Mock implements Adapter at compile time.
var _ Adapter = (*Mock)(nil)
