package player

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/vorbis"
)

// Format tags accepted by the engine. Archive sources serve these three.
const (
	formatMP3  = "mp3"
	formatFLAC = "flac"
	formatOGG  = "ogg"
)

// fetch downloads the track into an unlinked temp file so the decoder
// has a seekable source. The recordings are static files, not live
// streams, so spooling before playback is correct and makes seeking
// exact.
func (e *Engine) fetch(ctx context.Context, url string) (*os.File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPStatusError{URL: url, Code: resp.StatusCode}
	}

	f, err := os.CreateTemp("", "tapedeck-spool-*")
	if err != nil {
		return nil, err
	}
	// Unlink immediately; the fd keeps the spool alive until Close.
	os.Remove(f.Name())

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// decode selects a decoder by the track's format tag.
func decode(format string, f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	var (
		streamer beep.StreamSeekCloser
		bf       beep.Format
		err      error
	)
	switch format {
	case formatMP3:
		streamer, bf, err = decodeGoMP3(f)
	case formatFLAC:
		// Skip ID3v2 tag if present (some taggers add it to FLAC files)
		if err := skipID3v2(f); err != nil {
			return nil, beep.Format{}, &DecodeError{URL: f.Name(), Err: err}
		}
		streamer, bf, err = flac.Decode(f)
	case formatOGG:
		streamer, bf, err = vorbis.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, beep.Format{}, &DecodeError{URL: f.Name(), Err: err}
	}
	return streamer, bf, nil
}

// skipID3v2 advances past an ID3v2 tag if the file starts with one.
func skipID3v2(f *os.File) error {
	header := make([]byte, 10)
	if _, err := io.ReadFull(f, header); err != nil {
		return err
	}
	if string(header[0:3]) != "ID3" {
		_, err := f.Seek(0, io.SeekStart)
		return err
	}
	// Syncsafe 28-bit size in bytes 6-9
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err := f.Seek(10+size, io.SeekStart)
	return err
}
