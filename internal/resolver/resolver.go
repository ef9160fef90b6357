// Package resolver fetches authoritative track metadata before playback.
package resolver

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/lrclib"
	"github.com/llehouerou/wavestream/internal/playlist"
)

const defaultLyricsTimeout = 5 * time.Second

// Source returns canonical metadata for a track ID.
type Source interface {
	Track(ctx context.Context, id string) (playlist.Track, error)
}

// LyricsSource looks lyrics up by artist and title.
type LyricsSource interface {
	Lookup(ctx context.Context, artist, title string, duration time.Duration) (*lrclib.LyricsResult, error)
}

// Resolver coalesces concurrent lookups of the same ID and optionally fills
// in lyrics the backend does not provide.
type Resolver struct {
	src           Source
	lyrics        LyricsSource
	lyricsTimeout time.Duration
	group         singleflight.Group
	log           zerolog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLyrics enables the lyrics fallback.
func WithLyrics(l LyricsSource) Option {
	return func(r *Resolver) { r.lyrics = l }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Resolver) { r.log = log }
}

// New creates a resolver over src.
func New(src Source, opts ...Option) *Resolver {
	r := &Resolver{
		src:           src,
		lyricsTimeout: defaultLyricsTimeout,
		log:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the metadata for id. Failures are classified errors;
// anything the source did not classify is reported as a resolution failure.
// A caller whose ctx ends stops waiting; the shared lookup keeps serving any
// other caller.
func (r *Resolver) Resolve(ctx context.Context, id string) (playlist.Track, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return playlist.Track{}, errmsg.Newf(errmsg.KindResolution, errmsg.OpResolveTrack, "empty track id")
	}

	ch := r.group.DoChan(id, func() (any, error) {
		return r.fetch(context.WithoutCancel(ctx), id)
	})

	select {
	case res := <-ch:
		if res.Shared {
			r.log.Debug().Str("track", id).Msg("resolve coalesced")
		}
		if res.Err != nil {
			return playlist.Track{}, res.Err
		}
		return res.Val.(playlist.Track), nil
	case <-ctx.Done():
		return playlist.Track{}, errmsg.New(errmsg.KindCanceled, errmsg.OpResolveTrack, ctx.Err()).WithTrack(id)
	}
}

func (r *Resolver) fetch(ctx context.Context, id string) (playlist.Track, error) {
	t, err := r.src.Track(ctx, id)
	if err != nil {
		return playlist.Track{}, classify(id, err)
	}
	if t.ID == "" {
		t.ID = id
	}
	if t.ID != id {
		return playlist.Track{}, errmsg.Newf(errmsg.KindResolution, errmsg.OpResolveTrack,
			"backend returned track %q", t.ID).WithTrack(id)
	}

	if t.Lyrics == "" && r.lyrics != nil && t.Artist != "" && t.Title != "" {
		t.Lyrics = r.lookupLyrics(ctx, t)
	}
	return t, nil
}

// lookupLyrics is best effort: failures only log.
func (r *Resolver) lookupLyrics(ctx context.Context, t playlist.Track) string {
	ctx, cancel := context.WithTimeout(ctx, r.lyricsTimeout)
	defer cancel()

	res, err := r.lyrics.Lookup(ctx, t.Artist, t.Title, t.Duration)
	if err != nil {
		if !errors.Is(err, lrclib.ErrNotFound) {
			r.log.Debug().Err(err).Str("track", t.ID).Msg("lyrics lookup failed")
		}
		return ""
	}
	return res.Text()
}

func classify(id string, err error) error {
	var e *errmsg.Error
	if errors.As(err, &e) {
		return e.WithTrack(id)
	}
	kind := errmsg.KindOf(err)
	if kind == errmsg.KindUnknown {
		kind = errmsg.KindResolution
	}
	return errmsg.New(kind, errmsg.OpResolveTrack, err).WithTrack(id)
}
