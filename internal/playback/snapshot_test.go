package playback

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sgrimes/tapedeck/internal/player"
	"github.com/sgrimes/tapedeck/internal/resume"
)

func newTestServiceWithStore(t *testing.T) (*serviceImpl, *player.Mock, *resume.Store) {
	t.Helper()
	store, err := resume.OpenAt(filepath.Join(t.TempDir(), "tapedeck.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	mock := player.NewMock()
	svc := New(mock, Options{
		Store:        store,
		Policy:       fastPolicy(),
		PollInterval: 10 * time.Millisecond,
		Logger:       zerolog.Nop(),
	})
	t.Cleanup(svc.Release)
	return svc.(*serviceImpl), mock, store
}

func TestSnapshot_SaveAndRestore(t *testing.T) {
	ctx := context.Background()

	first, mock, store := newTestServiceWithStore(t)
	if err := first.LoadAndPlay(ctx, threeTracks(), 1); err != nil {
		t.Fatalf("LoadAndPlay failed: %v", err)
	}
	mock.SetPosition(42*time.Second, 3*time.Minute)
	waitFor(t, "poller pickup", func() bool { return first.State().Position == 42*time.Second })

	if err := first.SaveSnapshot(); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	first.Release()

	// A fresh service against the same store picks the session up paused.
	mock2 := player.NewMock()
	second := New(mock2, Options{
		Store:        store,
		Policy:       fastPolicy(),
		PollInterval: time.Hour, // keep the poller out of this test
		Logger:       zerolog.Nop(),
	})
	t.Cleanup(second.Release)

	restored, err := second.RestoreSnapshot(ctx)
	if err != nil {
		t.Fatalf("RestoreSnapshot failed: %v", err)
	}
	if !restored {
		t.Fatal("nothing restored from a saved session")
	}

	if got := second.QueueIndex(); got != 1 {
		t.Errorf("restored index = %d, want 1", got)
	}
	if got := second.CurrentTrack(); got == nil || got.Title != "Track B" {
		t.Errorf("restored track = %+v, want Track B", got)
	}

	st := second.State()
	if st.State != StatePaused || st.IsPlaying {
		t.Errorf("restored state = %+v, want Paused", st)
	}
	if st.Position != 42*time.Second {
		t.Errorf("restored position = %v, want 42s", st.Position)
	}

	// The native layer was prepared, seeked and paused.
	if got := mock2.StartIndexes(); len(got) != 1 || got[0] != 1 {
		t.Errorf("adapter start indexes = %v, want [1]", got)
	}
	if got := mock2.SeekCalls(); len(got) != 1 || got[0] != 42*time.Second {
		t.Errorf("adapter seeks = %v, want [42s]", got)
	}
	if mock2.PauseCount() != 1 {
		t.Errorf("adapter pauses = %d, want 1", mock2.PauseCount())
	}

	// Restore runs at most once per service.
	restored, err = second.RestoreSnapshot(ctx)
	if err != nil || restored {
		t.Errorf("second restore = (%v, %v), want (false, nil)", restored, err)
	}
}

func TestSnapshot_NothingToRestore(t *testing.T) {
	svc, _, _ := newTestServiceWithStore(t)

	restored, err := svc.RestoreSnapshot(context.Background())
	if err != nil {
		t.Fatalf("RestoreSnapshot failed: %v", err)
	}
	if restored {
		t.Error("empty store must restore nothing")
	}
}

func TestSnapshot_ClearRemovesSession(t *testing.T) {
	ctx := context.Background()
	svc, _, store := newTestServiceWithStore(t)

	if err := svc.LoadAndPlay(ctx, threeTracks(), 0); err != nil {
		t.Fatalf("LoadAndPlay failed: %v", err)
	}
	if err := svc.SaveSnapshot(); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if err := svc.ClearSnapshot(); err != nil {
		t.Fatalf("ClearSnapshot failed: %v", err)
	}

	if snap := store.Restore(); snap != nil {
		t.Errorf("store still holds a session after clear: %+v", snap)
	}
}

func TestSnapshot_NoStoreIsNoOp(t *testing.T) {
	svc, _ := newTestService(t)

	if err := svc.SaveSnapshot(); err != nil {
		t.Errorf("SaveSnapshot without store = %v, want nil", err)
	}
	restored, err := svc.RestoreSnapshot(context.Background())
	if err != nil || restored {
		t.Errorf("RestoreSnapshot without store = (%v, %v), want (false, nil)", restored, err)
	}
	if err := svc.ClearSnapshot(); err != nil {
		t.Errorf("ClearSnapshot without store = %v, want nil", err)
	}
}
