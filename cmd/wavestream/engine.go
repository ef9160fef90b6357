package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/wavestream/internal/backend"
	"github.com/llehouerou/wavestream/internal/lastfm"
	"github.com/llehouerou/wavestream/internal/logging"
	"github.com/llehouerou/wavestream/internal/lrclib"
	"github.com/llehouerou/wavestream/internal/mpris"
	"github.com/llehouerou/wavestream/internal/notify"
	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/player"
	"github.com/llehouerou/wavestream/internal/playlist"
	"github.com/llehouerou/wavestream/internal/resolver"
	"github.com/llehouerou/wavestream/internal/state"
	"github.com/llehouerou/wavestream/internal/stream"
)

var errNoBackend = errors.New("no backend configured: set [backend] url in config.toml")

// engine holds everything the player needs, in teardown order.
type engine struct {
	log        zerolog.Logger
	logFile    io.Closer
	state      *state.Manager
	resolver   *resolver.Resolver
	controller *playback.Controller
	mpris      *mpris.Adapter
	stopNotify context.CancelFunc
}

func (c *cli) openLogger() (zerolog.Logger, io.Closer, error) {
	return logging.New(logging.Options{Level: c.cfg.LogLevel(), File: c.cfg.Log.File})
}

func (c *cli) openBackend() (*backend.Client, error) {
	if !c.cfg.HasBackend() {
		return nil, errNoBackend
	}
	return backend.New(c.cfg.Backend.URL, c.cfg.Backend.Token, c.cfg.BackendTimeout())
}

func (c *cli) newResolver(src resolver.Source, log zerolog.Logger) *resolver.Resolver {
	opts := []resolver.Option{resolver.WithLogger(log)}
	if c.cfg.Lyrics.Lrclib {
		opts = append(opts, resolver.WithLyrics(lrclib.New()))
	}
	return resolver.New(src, opts...)
}

// openEngine wires the playback controller and its optional integrations.
func (c *cli) openEngine(ctx context.Context) (_ *engine, err error) {
	e := &engine{}
	defer func() {
		if err != nil {
			e.Close()
		}
	}()

	e.log, e.logFile, err = c.openLogger()
	if err != nil {
		return nil, err
	}
	e.state, err = state.Open(c.cfg.DatabasePath, state.WithLogger(e.log.With().Str("component", "state").Logger()))
	if err != nil {
		return nil, fmt.Errorf("open state: %w", err)
	}
	client, err := c.openBackend()
	if err != nil {
		return nil, err
	}
	e.resolver = c.newResolver(client, e.log.With().Str("component", "resolver").Logger())

	loader, err := stream.NewLoader(client, stream.Options{
		CacheDir:   c.cfg.Stream.CacheDir,
		MaxBytes:   c.cfg.Stream.MaxBytes,
		S3Region:   c.cfg.Stream.S3Region,
		S3Endpoint: c.cfg.Stream.S3Endpoint,
		Logger:     e.log.With().Str("component", "stream").Logger(),
	})
	if err != nil {
		return nil, err
	}

	reporters := []playback.Reporter{client}
	if c.cfg.HasLastfmConfig() {
		lfm := lastfm.New(c.cfg.Lastfm.APIKey, c.cfg.Lastfm.APISecret)
		lfm.SetSessionKey(c.cfg.Lastfm.SessionKey)
		reporters = append(reporters, lastfm.NewReporter(lfm))
	}

	settings := c.cfg.PlaybackSettings()
	e.controller, err = playback.New(playback.Options{
		Element:          player.New(e.log.With().Str("component", "player").Logger()),
		Resolver:         e.resolver,
		Loader:           loader,
		Preferences:      e.state,
		Recorder:         e.state,
		Reporters:        reporters,
		HistoryDepth:     settings.HistoryDepth,
		RestartThreshold: settings.RestartThreshold(),
		ReportTimeout:    settings.ReportTimeout(),
		Logger:           e.log.With().Str("component", "playback").Logger(),
	})
	if err != nil {
		return nil, err
	}

	if c.cfg.MPRISEnabled() {
		if e.mpris, err = mpris.New(e.controller); err != nil {
			e.log.Warn().Err(err).Msg("mpris unavailable")
			e.mpris, err = nil, nil
		}
	}

	if c.cfg.Notify.Enabled {
		n, nerr := notify.New()
		if nerr != nil {
			e.log.Warn().Err(nerr).Msg("notifications unavailable")
		} else {
			nctx, cancel := context.WithCancel(ctx)
			e.stopNotify = cancel
			go notify.Watch(nctx, e.controller.Subscribe(), n, e.log.With().Str("component", "notify").Logger())
		}
	}

	return e, nil
}

// Close tears the engine down; it is safe on a partially opened engine.
func (e *engine) Close() {
	if e.stopNotify != nil {
		e.stopNotify()
	}
	if e.mpris != nil {
		_ = e.mpris.Close()
	}
	if e.controller != nil {
		if err := e.controller.Close(); err != nil {
			e.log.Warn().Err(err).Msg("close playback")
		}
	}
	if e.state != nil {
		if err := e.state.Close(); err != nil {
			e.log.Warn().Err(err).Msg("close state")
		}
	}
	if e.logFile != nil {
		_ = e.logFile.Close()
	}
}

const resolveConcurrency = 4

// resolveAll resolves ids concurrently, keeping their order.
func resolveAll(ctx context.Context, r playback.TrackResolver, ids []string) ([]playlist.Track, error) {
	tracks := make([]playlist.Track, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			t, err := r.Resolve(ctx, id)
			if err != nil {
				return fmt.Errorf("resolve %s: %w", id, err)
			}
			tracks[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tracks, nil
}
