package track

import "time"

// Track represents a single playable recording file.
type Track struct {
	ID       string
	Title    string
	URL      string        // remote stream URL
	Duration time.Duration // zero if unknown until playback starts
	Format   string        // "mp3", "flac" or "ogg"
	Ordinal  int           // position within the recording
}

// Enriched is a Track augmented with the recording and show context
// needed for display and history tracking. Built once per queue load,
// never mutated afterwards.
type Enriched struct {
	Track
	RecordingID  string
	ShowID       string
	ShowDate     string // empty if unknown
	Venue        string // empty if unknown
	DisplayTitle string
}

// Display returns the title to show in UI surfaces, falling back to the
// raw track title when no display title was built.
func (e Enriched) Display() string {
	if e.DisplayTitle != "" {
		return e.DisplayTitle
	}
	return e.Title
}
