package player

import (
	"context"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/rs/zerolog"
)

const eventBufferSize = 32

var (
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// Engine is the native-queue adapter: it hands playback to the beep
// audio engine, owns the ordered item list and index itself, and
// auto-advances when a track finishes.
type Engine struct {
	mu  sync.Mutex
	log zerolog.Logger

	client *http.Client

	items []Item
	index int

	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	spool    *os.File

	playing   bool
	buffering bool

	// gen identifies the current playback session. Finish callbacks
	// from a superseded session carry a stale gen and are discarded.
	gen int

	events     chan Event
	finishedCh chan int
	done       chan struct{}
	released   bool
}

// NewEngine creates a new local streaming engine.
func NewEngine(client *http.Client, log zerolog.Logger) *Engine {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	e := &Engine{
		client:     client,
		log:        log,
		index:      -1,
		events:     make(chan Event, eventBufferSize),
		finishedCh: make(chan int, 1),
		done:       make(chan struct{}),
	}
	go e.run()
	return e
}

// LoadAndPlay replaces the playlist and starts playback at startIndex.
func (e *Engine) LoadAndPlay(ctx context.Context, items []Item, startIndex int) error {
	e.mu.Lock()
	if e.released {
		e.mu.Unlock()
		return nil
	}
	if len(items) == 0 || startIndex < 0 || startIndex >= len(items) {
		e.mu.Unlock()
		return ErrNoPlaylist
	}
	e.items = items
	e.index = startIndex
	e.gen++
	gen := e.gen
	e.mu.Unlock()

	return e.startCurrent(ctx, gen)
}

// startCurrent fetches, decodes and plays the item at the current
// index. gen guards against a newer load superseding this one while
// the fetch was in flight.
func (e *Engine) startCurrent(ctx context.Context, gen int) error {
	e.mu.Lock()
	if e.released || gen != e.gen {
		e.mu.Unlock()
		return nil
	}
	item := e.items[e.index]
	e.buffering = true
	e.mu.Unlock()

	e.emit(StatusEvent{Status: Status{IsBuffering: true}})

	spool, err := e.fetch(ctx, item.URL)
	if err != nil {
		e.clearBuffering()
		return err
	}

	streamer, format, err := decode(item.Format, spool)
	if err != nil {
		spool.Close()
		e.clearBuffering()
		return err
	}

	e.mu.Lock()
	if e.released || gen != e.gen {
		e.mu.Unlock()
		streamer.Close()
		spool.Close()
		return nil
	}

	e.stopLocked()

	if !speakerInitialized {
		speakerSampleRate = format.SampleRate
		if err := speaker.Init(speakerSampleRate, speakerSampleRate.N(time.Second/10)); err != nil {
			e.mu.Unlock()
			streamer.Close()
			spool.Close()
			e.clearBuffering()
			return err
		}
		speakerInitialized = true
	}

	e.streamer = streamer
	e.format = format
	e.spool = spool
	e.ctrl = &beep.Ctrl{Streamer: streamer}

	// Resample if the track's sample rate differs from the speaker's
	var playStreamer beep.Streamer = e.ctrl
	if format.SampleRate != speakerSampleRate {
		playStreamer = beep.Resample(4, format.SampleRate, speakerSampleRate, e.ctrl)
	}

	e.playing = true
	e.buffering = false
	dur := format.SampleRate.D(streamer.Len())

	speaker.Play(beep.Seq(playStreamer, beep.Callback(func() {
		select {
		case e.finishedCh <- gen:
		default:
		}
	})))
	e.mu.Unlock()

	e.log.Debug().Str("url", item.URL).Str("format", item.Format).Msg("playback started")
	e.emit(StatusEvent{Status: Status{IsPlaying: true, Duration: dur}})
	return nil
}

// run consumes finish signals from the speaker callback and advances
// the playlist. Running on its own goroutine keeps the speaker
// goroutine from ever blocking on playlist work.
func (e *Engine) run() {
	for {
		select {
		case <-e.done:
			return
		case gen := <-e.finishedCh:
			e.handleFinished(gen)
		}
	}
}

func (e *Engine) handleFinished(gen int) {
	e.mu.Lock()
	if e.released || gen != e.gen {
		e.mu.Unlock()
		return
	}
	if e.index >= len(e.items)-1 {
		e.playing = false
		e.mu.Unlock()
		e.emit(PlaylistEndedEvent{})
		return
	}
	e.index++
	idx := e.index
	e.gen++
	next := e.gen
	e.mu.Unlock()

	e.emit(TrackChangedEvent{Index: idx})
	if err := e.startCurrent(context.Background(), next); err != nil {
		e.emit(ErrorEvent{Err: err})
	}
}

// Status returns a best-effort snapshot. Never fails; unknown fields
// are zeroed.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := Status{
		IsPlaying:   e.playing,
		IsBuffering: e.buffering,
	}
	if e.streamer != nil {
		st.Position = e.format.SampleRate.D(e.streamer.Position())
		st.Duration = e.format.SampleRate.D(e.streamer.Len())
	}
	return st
}

// Position reports position and duration for the poller.
func (e *Engine) Position() (time.Duration, time.Duration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.streamer == nil {
		return 0, 0, ErrNoPlaylist
	}
	return e.format.SampleRate.D(e.streamer.Position()),
		e.format.SampleRate.D(e.streamer.Len()), nil
}

// Events returns the engine event stream. Closed by Release.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Release stops playback and frees the audio engine. Idempotent.
func (e *Engine) Release() {
	e.mu.Lock()
	if e.released {
		e.mu.Unlock()
		return
	}
	e.released = true
	e.gen++
	e.stopLocked()
	e.mu.Unlock()

	close(e.done)
	close(e.events)
}

// stopLocked tears down the active streamer. Caller holds e.mu.
func (e *Engine) stopLocked() {
	if speakerInitialized {
		speaker.Clear()
	}
	if e.streamer != nil {
		e.streamer.Close()
		e.streamer = nil
	}
	if e.spool != nil {
		e.spool.Close()
		e.spool = nil
	}
	e.ctrl = nil
	e.playing = false
}

func (e *Engine) clearBuffering() {
	e.mu.Lock()
	e.buffering = false
	e.mu.Unlock()
}

// emit sends an event without blocking. If the consumer has fallen
// this far behind, dropping is safer than stalling the audio path.
func (e *Engine) emit(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.released {
		return
	}
	select {
	case e.events <- ev:
	default:
		e.log.Debug().Msg("event buffer full, dropping event")
	}
}

// Verify Engine implements Adapter at compile time.
var _ Adapter = (*Engine)(nil)
