package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpPlaybackStart,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpPlaybackStart,
			err:      errors.New("no audio device"),
			expected: "Failed to start playback: no audio device",
		},
		{
			name:     "snapshot restore operation",
			op:       OpSnapshotRestore,
			err:      errors.New("database locked"),
			expected: "Failed to restore playback session: database locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.op, tt.err); got != tt.expected {
				t.Errorf("Format() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	err := errors.New("404 from host")
	got := FormatWith(OpQueueLoad, "gd1977-05-08", err)
	want := "Failed to load queue 'gd1977-05-08': 404 from host"
	if got != want {
		t.Errorf("FormatWith() = %q, want %q", got, want)
	}

	if got := FormatWith(OpQueueLoad, "", err); got != Format(OpQueueLoad, err) {
		t.Errorf("empty context should fall back to Format, got %q", got)
	}

	if got := FormatWith(OpQueueLoad, "x", nil); got != "" {
		t.Errorf("nil error should return empty string, got %q", got)
	}
}
