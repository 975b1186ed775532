package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sgrimes/tapedeck/internal/bridge"
	"github.com/sgrimes/tapedeck/internal/config"
	"github.com/sgrimes/tapedeck/internal/errmsg"
	"github.com/sgrimes/tapedeck/internal/playback"
	"github.com/sgrimes/tapedeck/internal/player"
	"github.com/sgrimes/tapedeck/internal/resume"
	"github.com/sgrimes/tapedeck/internal/retry"
	"github.com/sgrimes/tapedeck/internal/track"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("%s: %w", errmsg.OpInitialize, err)
	}

	log := newLogger(cfg.LogLevel)
	pb := cfg.GetPlaybackConfig()

	store, err := resume.Open(log)
	if err != nil {
		return fmt.Errorf("%s: %w", errmsg.OpInitialize, err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	adapter, err := newAdapter(ctx, cfg, pb, log)
	if err != nil {
		return err
	}

	svc := playback.New(adapter, playback.Options{
		Store:        store,
		Policy:       retry.Policy{MaxAttempts: pb.MaxRetries, Schedule: retry.Default().Schedule},
		PollInterval: pb.PollInterval(),
		Logger:       log,
	})
	defer svc.Release()

	tracks := tracksFromArgs(os.Args[1:])
	if len(tracks) > 0 {
		if err := svc.LoadAndPlay(ctx, tracks, 0); err != nil {
			return fmt.Errorf("%s: %w", errmsg.OpQueueLoad, err)
		}
	} else {
		restored, err := svc.RestoreSnapshot(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", errmsg.OpSnapshotRestore, err)
		}
		if !restored {
			fmt.Fprintln(os.Stderr, "Usage: tapedeck <track-url> [track-url...]")
			return nil
		}
		fmt.Println("Restored previous session (paused). Resuming.")
		if err := svc.Resume(ctx); err != nil {
			return fmt.Errorf("%s: %w", errmsg.OpPlaybackResume, err)
		}
	}

	watch(ctx, svc)

	// Persist the session on the way out so the next run can pick it up.
	if err := svc.SaveSnapshot(); err != nil {
		log.Warn().Msg(errmsg.Format(errmsg.OpSnapshotSave, err))
	}
	return nil
}

// newAdapter picks the playback backend: a remote player host over
// websocket when one is configured, the in-process audio engine
// otherwise.
func newAdapter(ctx context.Context, cfg *config.Config, pb config.PlaybackConfig, log zerolog.Logger) (player.Adapter, error) {
	if cfg.HasBridgeConfig() {
		b, err := bridge.Dial(ctx, cfg.Bridge.URL, log)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errmsg.OpBridgeDial, err)
		}
		log.Info().Str("url", cfg.Bridge.URL).Msg("using remote player host")
		return b, nil
	}
	client := &http.Client{Timeout: pb.HTTPTimeout()}
	return player.NewEngine(client, log), nil
}

// watch prints playback events until the context is cancelled or the
// queue finishes.
func watch(ctx context.Context, svc playback.Service) {
	sub := svc.Subscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case st := <-sub.StateChanged:
			if st.Err != nil {
				fmt.Printf("[%s] %v\n", st.State, st.Err)
			} else {
				fmt.Printf("[%s]\n", st.State)
			}
			if st.State == playback.StateEnded || st.State == playback.StateError {
				return
			}
		case tc := <-sub.TrackChanged:
			if tc.Current != nil {
				fmt.Printf("Now playing: %s\n", tc.Current.Display())
			}
		case pc := <-sub.PositionChanged:
			fmt.Printf("\r%s / %s", fmtDuration(pc.Position), fmtDuration(pc.Duration))
		case ev := <-sub.Error:
			fmt.Printf("\n%s\n", errmsg.Format(errmsg.Op(ev.Op), ev.Err))
		}
	}
}

// tracksFromArgs builds a playable queue from URL arguments, inferring
// the format from the file extension.
func tracksFromArgs(args []string) []track.Enriched {
	var tracks []track.Enriched
	for i, url := range args {
		ext := strings.TrimPrefix(strings.ToLower(path.Ext(url)), ".")
		name := strings.TrimSuffix(path.Base(url), path.Ext(url))
		tracks = append(tracks, track.Enriched{
			Track: track.Track{
				ID:      fmt.Sprintf("arg-%d", i),
				Title:   name,
				URL:     url,
				Format:  ext,
				Ordinal: i + 1,
			},
		})
	}
	return tracks
}

func fmtDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

func newLogger(level string) zerolog.Logger {
	lvl := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(level); err == nil && level != "" {
		lvl = parsed
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger()
}
