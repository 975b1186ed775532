package bridge

// Wire protocol for the native player host. All payloads are flat,
// serializable records, never live references, so either side of the
// boundary is independently replaceable.

// Command actions understood by the host.
const (
	actionReplacePlaylist = "replace-playlist"
	actionPlay            = "play"
	actionPause           = "pause"
	actionSeek            = "seek"
	actionGetState        = "get-state"
	actionPlayNext        = "play-next"
	actionPlayPrevious    = "play-previous"
	actionStop            = "stop"
	actionRelease         = "release"
)

// Callback events pushed by the host.
const (
	eventTrackChanged  = "track-changed"
	eventPlaylistEnded = "playlist-ended"
	eventError         = "error"
)

// command is a serialized request to the host.
type command struct {
	Action     string         `json:"action"`
	PlayerID   string         `json:"playerId"`
	CallbackID string         `json:"callbackId"`
	URLs       []string       `json:"urls,omitempty"`
	Metadata   []itemMetadata `json:"metadata,omitempty"`
	StartIndex *int           `json:"startIndex,omitempty"`
	PositionMs *int64         `json:"positionMs,omitempty"`
}

// itemMetadata carries the per-track display fields alongside the URLs.
type itemMetadata struct {
	Title  string `json:"title"`
	Format string `json:"format"`
}

// stateSnapshot is the host's playback status record.
type stateSnapshot struct {
	IsPlaying   bool   `json:"isPlaying"`
	PositionMs  int64  `json:"positionMs"`
	DurationMs  int64  `json:"durationMs"`
	IsLoading   bool   `json:"isLoading"`
	IsBuffering bool   `json:"isBuffering"`
	Error       string `json:"error,omitempty"`
}

// hostMessage is anything the host sends back: a response correlated
// by callbackId, or an unsolicited callback carrying an event name.
type hostMessage struct {
	CallbackID string         `json:"callbackId,omitempty"`
	OK         bool           `json:"ok,omitempty"`
	Error      string         `json:"error,omitempty"`
	State      *stateSnapshot `json:"state,omitempty"`

	Event string `json:"event,omitempty"`
	Index int    `json:"index,omitempty"`
}
