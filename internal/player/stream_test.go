package player

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/rs/zerolog"
)

func TestFetch_SpoolsBody(t *testing.T) {
	body := []byte("fake audio payload")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	e := NewEngine(srv.Client(), zerolog.Nop())
	defer e.Release()

	f, err := e.fetch(context.Background(), srv.URL+"/track.mp3")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	defer f.Close()

	got, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read spool: %v", err)
	}
	if string(got) != string(body) {
		t.Errorf("spool contents = %q, want %q", got, body)
	}

	// The spool must be positioned at the start for the decoder.
	if pos, _ := f.Seek(0, io.SeekCurrent); pos != int64(len(body)) {
		t.Errorf("position after full read = %d, want %d", pos, len(body))
	}
}

func TestFetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	e := NewEngine(srv.Client(), zerolog.Nop())
	defer e.Release()

	_, err := e.fetch(context.Background(), srv.URL+"/missing.mp3")
	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %v, want HTTPStatusError", err)
	}
	if statusErr.Code != http.StatusNotFound {
		t.Errorf("Code = %d, want 404", statusErr.Code)
	}
}

func TestDecode_UnsupportedFormat(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "audio")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	_, _, err = decode("wav", f)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestSkipID3v2(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		wantPos int64
	}{
		{
			name:    "no tag rewinds to start",
			content: []byte("fLaC and then some stream data"),
			wantPos: 0,
		},
		{
			name: "tag skipped via syncsafe size",
			// 10-byte header + 5 tag bytes (syncsafe size 0x05)
			content: append([]byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0, 5}, []byte("tagsudata")...),
			wantPos: 15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := os.CreateTemp(t.TempDir(), "audio")
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			if _, err := f.Write(tt.content); err != nil {
				t.Fatal(err)
			}
			if _, err := f.Seek(0, io.SeekStart); err != nil {
				t.Fatal(err)
			}

			if err := skipID3v2(f); err != nil {
				t.Fatalf("skipID3v2 failed: %v", err)
			}
			pos, _ := f.Seek(0, io.SeekCurrent)
			if pos != tt.wantPos {
				t.Errorf("position = %d, want %d", pos, tt.wantPos)
			}
		})
	}
}
