package stream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/playlist"
)

// DefaultMaxBytes bounds a single payload.
const DefaultMaxBytes int64 = 512 << 20

const userAgent = "wavestream/1.0 (https://github.com/llehouerou/wavestream)"

// Options configures a Loader.
type Options struct {
	// CacheDir receives downloaded payloads. Defaults to the XDG cache dir.
	CacheDir   string
	MaxBytes   int64
	S3Region   string
	S3Endpoint string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Loader downloads track audio and materializes it as a Resource.
type Loader struct {
	descriptors Descriptors
	cacheDir    string
	maxBytes    int64
	httpClient  *http.Client
	log         zerolog.Logger

	s3Region   string
	s3Endpoint string
	s3Once     sync.Once
	s3         objectGetter
	s3Err      error
}

// NewLoader creates a loader that asks descriptors where each track lives.
func NewLoader(descriptors Descriptors, opts Options) (*Loader, error) {
	if opts.CacheDir == "" {
		opts.CacheDir = filepath.Join(xdg.CacheHome, "wavestream", "streams")
	}
	if err := os.MkdirAll(opts.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 5 * time.Minute}
	}
	return &Loader{
		descriptors: descriptors,
		cacheDir:    opts.CacheDir,
		maxBytes:    opts.MaxBytes,
		httpClient:  opts.HTTPClient,
		log:         opts.Logger,
		s3Region:    opts.S3Region,
		s3Endpoint:  opts.S3Endpoint,
	}, nil
}

// Load fetches the audio for track and returns it as a Resource owned by the
// caller. Failures are *errmsg.Error values classified as auth, not found,
// network, decode or canceled. Nothing is left on disk when Load fails.
func (l *Loader) Load(ctx context.Context, track playlist.Track) (*Resource, error) {
	start := time.Now()

	desc, err := l.descriptors.StreamDescriptor(ctx, track.ID)
	if err != nil {
		return nil, classify(errmsg.OpStreamDescriptor, track.ID, err)
	}

	body, contentType, err := l.open(ctx, desc)
	if err != nil {
		return nil, classify(errmsg.OpStreamDownload, track.ID, err)
	}
	defer body.Close()

	res, err := l.materialize(ctx, track.ID, body, contentType)
	if err != nil {
		return nil, classify(errmsg.OpStreamDownload, track.ID, err)
	}

	l.log.Debug().
		Str("track", track.ID).
		Str("resource", res.ID).
		Str("size", humanize.Bytes(uint64(res.Size))). //nolint:gosec // size is non-negative
		Str("mime", res.MIME).
		Dur("elapsed", time.Since(start)).
		Msg("stream loaded")
	return res, nil
}

func (l *Loader) open(ctx context.Context, desc Descriptor) (io.ReadCloser, string, error) {
	scheme, u, err := desc.scheme()
	if err != nil {
		return nil, "", errmsg.New(errmsg.KindResolution, errmsg.OpStreamDescriptor,
			fmt.Errorf("parse stream url: %w", err))
	}
	switch scheme {
	case "http", "https":
		return l.openHTTP(ctx, desc)
	case "s3":
		return l.openS3(ctx, u)
	default:
		return nil, "", errmsg.Newf(errmsg.KindResolution, errmsg.OpStreamDescriptor,
			"unsupported stream scheme %q", scheme)
	}
}

func (l *Loader) openHTTP(ctx context.Context, desc Descriptor) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, desc.URL, http.NoBody)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	for k, v := range desc.Headers {
		req.Header.Set(k, v)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("http request: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.Body, resp.Header.Get("Content-Type"), nil
	}
	resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, "", errmsg.Newf(errmsg.KindAuth, errmsg.OpStreamDownload, "unexpected status: %s", resp.Status)
	case http.StatusNotFound, http.StatusGone:
		return nil, "", errmsg.Newf(errmsg.KindNotFound, errmsg.OpStreamDownload, "unexpected status: %s", resp.Status)
	default:
		return nil, "", errmsg.Newf(errmsg.KindNetwork, errmsg.OpStreamDownload, "unexpected status: %s", resp.Status)
	}
}

// materialize copies body into a cache file. The file is removed on any
// failure, including cancellation after the copy completed.
func (l *Loader) materialize(ctx context.Context, trackID string, body io.Reader, contentType string) (*Resource, error) {
	f, err := os.CreateTemp(l.cacheDir, "stream-*")
	if err != nil {
		return nil, fmt.Errorf("create cache file: %w", err)
	}
	path := f.Name()

	n, copyErr := io.Copy(f, io.LimitReader(body, l.maxBytes+1))
	closeErr := f.Close()

	fail := func(err error) (*Resource, error) {
		_ = os.Remove(path)
		return nil, err
	}

	if ctx.Err() != nil {
		l.log.Debug().Str("track", trackID).Str("received", humanize.Bytes(uint64(n))).Msg("stream download aborted") //nolint:gosec // n is non-negative
		return fail(errmsg.New(errmsg.KindCanceled, errmsg.OpStreamDownload, ctx.Err()))
	}
	if copyErr != nil {
		return fail(errmsg.New(errmsg.KindNetwork, errmsg.OpStreamDownload, fmt.Errorf("read body: %w", copyErr)))
	}
	if closeErr != nil {
		return fail(fmt.Errorf("write cache file: %w", closeErr))
	}
	if n > l.maxBytes {
		return fail(errmsg.Newf(errmsg.KindDecode, errmsg.OpStreamDecode,
			"payload exceeds %s", humanize.Bytes(uint64(l.maxBytes)))) //nolint:gosec // maxBytes is positive
	}
	if n == 0 {
		return fail(errmsg.Newf(errmsg.KindDecode, errmsg.OpStreamDecode, "empty payload"))
	}

	mimeType, err := sniffMIME(path, contentType)
	if err != nil {
		return fail(fmt.Errorf("sniff payload: %w", err))
	}

	res := fileResource(trackID, path, n, mimeType)
	res.ArtworkPath = writeArtwork(path)
	return res, nil
}

// sniffMIME prefers the declared content type unless it is generic.
func sniffMIME(path, contentType string) (string, error) {
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil && mt != "application/octet-stream" {
			return mt, nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", err
	}
	head = head[:n]

	if bytes.HasPrefix(head, []byte("fLaC")) {
		return "audio/flac", nil
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(head))
	return mt, nil
}

// classify attaches the track ID and a kind to err. Errors that already carry
// a kind keep it; context errors map through errmsg.KindOf; anything else is
// treated as a transport failure.
func classify(op errmsg.Op, trackID string, err error) error {
	var e *errmsg.Error
	if errors.As(err, &e) {
		if e.TrackID == "" {
			return e.WithTrack(trackID)
		}
		return err
	}
	kind := errmsg.KindOf(err)
	if kind == errmsg.KindUnknown {
		kind = errmsg.KindNetwork
	}
	return errmsg.New(kind, op, err).WithTrack(trackID)
}
