package resume

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgrimes/tapedeck/internal/track"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenAt(filepath.Join(t.TempDir(), "resume.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSnapshot() Snapshot {
	return Snapshot{
		Tracks: []track.Enriched{
			{
				Track: track.Track{
					ID:       "t1",
					Title:    "Scarlet Begonias",
					URL:      "https://archive.example.org/gd77/t1.mp3",
					Duration: 512 * time.Second,
					Format:   "mp3",
					Ordinal:  1,
				},
				RecordingID:  "gd1977-05-08.sbd",
				ShowID:       "gd1977-05-08",
				ShowDate:     "1977-05-08",
				Venue:        "Barton Hall",
				DisplayTitle: "Scarlet Begonias",
			},
			{
				Track: track.Track{
					ID:      "t2",
					Title:   "Fire on the Mountain",
					URL:     "https://archive.example.org/gd77/t2.mp3",
					Format:  "mp3",
					Ordinal: 2,
				},
				RecordingID: "gd1977-05-08.sbd",
				ShowID:      "gd1977-05-08",
			},
		},
		TrackIndex:  1,
		Position:    93 * time.Second,
		ShowID:      "gd1977-05-08",
		RecordingID: "gd1977-05-08.sbd",
		Format:      "mp3",
	}
}

func TestRestore_EmptyStore(t *testing.T) {
	s := openTestStore(t)
	assert.Nil(t, s.Restore())
}

func TestSaveRestore_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	want := sampleSnapshot()

	require.NoError(t, s.Save(want))

	got := s.Restore()
	require.NotNil(t, got)
	assert.Equal(t, want.Tracks, got.Tracks)
	assert.Equal(t, want.TrackIndex, got.TrackIndex)
	assert.Equal(t, want.Position, got.Position)
	assert.Equal(t, want.ShowID, got.ShowID)
	assert.Equal(t, want.RecordingID, got.RecordingID)
	assert.Equal(t, want.Format, got.Format)
}

func TestSave_OverwritesPreviousSlot(t *testing.T) {
	s := openTestStore(t)

	first := sampleSnapshot()
	require.NoError(t, s.Save(first))

	second := sampleSnapshot()
	second.Tracks = second.Tracks[:1]
	second.TrackIndex = 0
	second.Position = 5 * time.Second
	require.NoError(t, s.Save(second))

	got := s.Restore()
	require.NotNil(t, got)
	assert.Len(t, got.Tracks, 1)
	assert.Equal(t, 5*time.Second, got.Position)
}

func TestSave_SkipsUnrestorableSnapshots(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Save(sampleSnapshot()))

	// Empty queue must not clobber the slot
	require.NoError(t, s.Save(Snapshot{TrackIndex: 0}))
	require.NotNil(t, s.Restore())

	// Out-of-range index must not clobber the slot either
	bad := sampleSnapshot()
	bad.TrackIndex = len(bad.Tracks)
	require.NoError(t, s.Save(bad))

	got := s.Restore()
	require.NotNil(t, got)
	assert.Equal(t, 1, got.TrackIndex)
}

func TestRestore_CorruptSlotIsAbsent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Save(sampleSnapshot()))

	// Corrupt the slot behind the store's back: index past the tracks
	_, err := s.db.Exec(`UPDATE resume_state SET track_index = 99`)
	require.NoError(t, err)

	assert.Nil(t, s.Restore(), "corrupt slot must read as absent, not raise")
}

func TestClear_WritesEmptySentinel(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Save(sampleSnapshot()))

	require.NoError(t, s.Clear())
	assert.Nil(t, s.Restore())

	// Saving after clear works again
	require.NoError(t, s.Save(sampleSnapshot()))
	assert.NotNil(t, s.Restore())
}
