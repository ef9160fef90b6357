// Package backend provides a client for the music backend API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/playlist"
	"github.com/llehouerou/wavestream/internal/stream"
)

const (
	userAgent      = "wavestream/1.0 (https://github.com/llehouerou/wavestream)"
	defaultTimeout = 15 * time.Second
)

// Client is a music backend API client.
type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
}

// New creates a backend client. token is sent as a bearer credential when
// non-empty. A non-positive timeout selects the default.
func New(baseURL, token string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend url %q must be absolute", baseURL)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    u,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// trackResponse is the wire shape of a track.
type trackResponse struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	Album      string  `json:"album"`
	ArtworkURL string  `json:"artwork_url"`
	Duration   float64 `json:"duration"`
	Lyrics     string  `json:"lyrics"`
}

func (r trackResponse) track() playlist.Track {
	return playlist.Track{
		ID:         r.ID,
		Title:      r.Title,
		Artist:     r.Artist,
		Album:      r.Album,
		ArtworkURL: r.ArtworkURL,
		Duration:   time.Duration(r.Duration * float64(time.Second)),
		Lyrics:     r.Lyrics,
	}
}

// streamResponse is the wire shape of a stream descriptor.
type streamResponse struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
}

// Track fetches authoritative metadata for id.
func (c *Client) Track(ctx context.Context, id string) (playlist.Track, error) {
	var resp trackResponse
	if err := c.getJSON(ctx, errmsg.OpResolveTrack, "tracks/"+url.PathEscape(id), &resp); err != nil {
		return playlist.Track{}, withTrack(err, id)
	}
	if resp.ID == "" {
		resp.ID = id
	}
	return resp.track(), nil
}

// StreamDescriptor fetches where the audio for id lives and which headers
// authenticate the download. Relative URLs are resolved against the backend.
// When the backend returns no headers, the client's own token is used.
func (c *Client) StreamDescriptor(ctx context.Context, id string) (stream.Descriptor, error) {
	var resp streamResponse
	if err := c.getJSON(ctx, errmsg.OpStreamDescriptor, "tracks/"+url.PathEscape(id)+"/stream", &resp); err != nil {
		return stream.Descriptor{}, withTrack(err, id)
	}
	if resp.URL == "" {
		return stream.Descriptor{}, errmsg.Newf(errmsg.KindResolution, errmsg.OpStreamDescriptor, "empty stream url").WithTrack(id)
	}

	ref, err := url.Parse(resp.URL)
	if err != nil {
		return stream.Descriptor{}, errmsg.New(errmsg.KindResolution, errmsg.OpStreamDescriptor, err).WithTrack(id)
	}
	desc := stream.Descriptor{
		URL:     c.baseURL.ResolveReference(ref).String(),
		Headers: resp.Headers,
	}
	if len(desc.Headers) == 0 && c.token != "" {
		desc.Headers = map[string]string{"Authorization": "Bearer " + c.token}
	}
	return desc, nil
}

// ReportPlayback records a play of track.
func (c *Client) ReportPlayback(ctx context.Context, track playlist.Track) error {
	body, err := json.Marshal(map[string]any{
		"played_at": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "tracks/"+url.PathEscape(track.ID)+"/plays", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(errmsg.OpReportPlayback, err).WithTrack(track.ID)
	}
	defer resp.Body.Close()

	if err := statusError(errmsg.OpReportPlayback, resp); err != nil {
		return withTrack(err, track.ID)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body *bytes.Reader) (*http.Request, error) {
	u := c.baseURL.JoinPath(path)
	var req *http.Request
	var err error
	if body == nil {
		req, err = http.NewRequestWithContext(ctx, method, u.String(), http.NoBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, u.String(), body)
	}
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) getJSON(ctx context.Context, op errmsg.Op, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(op, err)
	}
	defer resp.Body.Close()

	if err := statusError(op, resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errmsg.New(errmsg.KindResolution, op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// transportError classifies a failed round trip. Cancellation stays
// distinguishable; everything else is a network failure.
func transportError(op errmsg.Op, err error) *errmsg.Error {
	kind := errmsg.KindOf(err)
	if kind == errmsg.KindUnknown {
		kind = errmsg.KindNetwork
	}
	return errmsg.New(kind, op, fmt.Errorf("http request: %w", err))
}

// statusError classifies a non-2xx response.
func statusError(op errmsg.Op, resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return errmsg.Newf(errmsg.KindAuth, op, "unexpected status: %s", resp.Status)
	case code == http.StatusNotFound || code == http.StatusGone:
		return errmsg.Newf(errmsg.KindNotFound, op, "unexpected status: %s", resp.Status)
	case code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout:
		return errmsg.Newf(errmsg.KindNetwork, op, "unexpected status: %s", resp.Status)
	default:
		return errmsg.Newf(errmsg.KindResolution, op, "unexpected status: %s", resp.Status)
	}
}

func withTrack(err error, id string) error {
	if e, ok := err.(*errmsg.Error); ok {
		return e.WithTrack(id)
	}
	return err
}
