// Package bridge implements the player adapter for platforms where the
// native media engine is only reachable through a narrow command and
// callback boundary. The bridge owns the ordered playlist and index
// itself and speaks a small closed command set over a websocket.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/sgrimes/tapedeck/internal/player"
)

const (
	eventBufferSize    = 32
	defaultCallTimeout = 5 * time.Second
)

// ErrClosed is returned for calls after the bridge connection is gone.
var ErrClosed = errors.New("bridge closed")

// Bridge implements player.Adapter over the host command protocol.
type Bridge struct {
	mu  sync.Mutex
	log zerolog.Logger

	conn     *websocket.Conn
	writeMu  sync.Mutex
	playerID string

	pending map[string]chan hostMessage

	items []player.Item
	index int

	// lastNotified de-duplicates redundant track-changed callbacks.
	lastNotified int

	lastStatus player.Status

	events   chan player.Event
	done     chan struct{}
	released bool
}

// Dial connects to the native player host at the given websocket URL.
func Dial(ctx context.Context, url string, log zerolog.Logger) (*Bridge, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial player host: %w", err)
	}

	b := &Bridge{
		log:          log,
		conn:         conn,
		playerID:     uuid.NewString(),
		pending:      make(map[string]chan hostMessage),
		index:        -1,
		lastNotified: -1,
		events:       make(chan player.Event, eventBufferSize),
		done:         make(chan struct{}),
	}
	go b.readLoop()
	return b, nil
}

// readLoop dispatches host messages: responses go to their waiting
// caller, callbacks are processed in receive order on this single
// goroutine so bursts cannot interleave.
func (b *Bridge) readLoop() {
	for {
		var msg hostMessage
		if err := b.conn.ReadJSON(&msg); err != nil {
			b.mu.Lock()
			released := b.released
			b.mu.Unlock()
			if !released {
				b.log.Warn().Err(err).Msg("player host connection lost")
				b.emit(player.ErrorEvent{Err: fmt.Errorf("player host: connection reset: %w", err)})
			}
			return
		}

		if msg.Event != "" {
			b.handleCallback(msg)
			continue
		}

		b.mu.Lock()
		ch, ok := b.pending[msg.CallbackID]
		if ok {
			delete(b.pending, msg.CallbackID)
		}
		b.mu.Unlock()
		if ok {
			ch <- msg
		}
	}
}

func (b *Bridge) handleCallback(msg hostMessage) {
	switch msg.Event {
	case eventTrackChanged:
		b.mu.Lock()
		if msg.Index == b.lastNotified || msg.Index < 0 || msg.Index >= len(b.items) {
			b.mu.Unlock()
			return
		}
		b.lastNotified = msg.Index
		b.index = msg.Index
		b.mu.Unlock()
		b.emit(player.TrackChangedEvent{Index: msg.Index})

	case eventPlaylistEnded:
		b.mu.Lock()
		b.lastStatus.IsPlaying = false
		b.mu.Unlock()
		b.emit(player.PlaylistEndedEvent{})

	case eventError:
		b.emit(player.ErrorEvent{Err: errors.New(msg.Error)})

	default:
		b.log.Debug().Str("event", msg.Event).Msg("ignoring unknown host callback")
	}
}

// call sends one command and waits for its correlated response.
func (b *Bridge) call(ctx context.Context, cmd command) (hostMessage, error) {
	b.mu.Lock()
	if b.released {
		b.mu.Unlock()
		return hostMessage{}, ErrClosed
	}
	cmd.PlayerID = b.playerID
	cmd.CallbackID = uuid.NewString()
	ch := make(chan hostMessage, 1)
	b.pending[cmd.CallbackID] = ch
	b.mu.Unlock()

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultCallTimeout)
		defer cancel()
	}

	b.writeMu.Lock()
	err := b.conn.WriteJSON(cmd)
	b.writeMu.Unlock()
	if err != nil {
		b.dropPending(cmd.CallbackID)
		return hostMessage{}, fmt.Errorf("send %s: %w", cmd.Action, err)
	}

	select {
	case resp := <-ch:
		if !resp.OK {
			return resp, fmt.Errorf("%s: %s", cmd.Action, resp.Error)
		}
		return resp, nil
	case <-ctx.Done():
		b.dropPending(cmd.CallbackID)
		return hostMessage{}, ctx.Err()
	case <-b.done:
		b.dropPending(cmd.CallbackID)
		return hostMessage{}, ErrClosed
	}
}

func (b *Bridge) dropPending(callbackID string) {
	b.mu.Lock()
	delete(b.pending, callbackID)
	b.mu.Unlock()
}

func (b *Bridge) emit(ev player.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return
	}
	select {
	case b.events <- ev:
	default:
		b.log.Debug().Msg("event buffer full, dropping event")
	}
}

// Events returns the bridge event stream. Closed by Release.
func (b *Bridge) Events() <-chan player.Event {
	return b.events
}

// Release detaches all callbacks and closes the host connection.
// Idempotent; any later call fails with ErrClosed.
func (b *Bridge) Release() {
	b.mu.Lock()
	if b.released {
		b.mu.Unlock()
		return
	}
	b.released = true
	// Waiting callers are unblocked via done; the buffered response
	// channels are simply dropped.
	clear(b.pending)
	b.mu.Unlock()

	// Best effort: tell the host to free the native player.
	b.writeMu.Lock()
	_ = b.conn.WriteJSON(command{Action: actionRelease, PlayerID: b.playerID})
	b.writeMu.Unlock()

	close(b.done)
	b.conn.Close()
	close(b.events)
}

// Verify Bridge implements Adapter at compile time.
var _ player.Adapter = (*Bridge)(nil)
