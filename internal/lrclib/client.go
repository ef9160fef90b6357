// Package lrclib is a small client for the lrclib.net lyrics API, used to
// fill in lyrics the backend does not carry.
package lrclib

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when no lyrics are found.
var ErrNotFound = errors.New("lyrics not found")

const (
	defaultBaseURL = "https://lrclib.net/api"
	userAgent      = "wavestream/1.0 (https://github.com/llehouerou/wavestream)"
)

// Client is an lrclib.net API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another lrclib-compatible server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// New creates a new lrclib client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LyricsResult is one lyrics record. Duration is in seconds.
type LyricsResult struct {
	ID           int     `json:"id"`
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}

// Get fetches the lyrics of an exact artist and title match, narrowed by
// duration when it is known.
func (c *Client) Get(ctx context.Context, artist, title string, duration time.Duration) (*LyricsResult, error) {
	params := url.Values{"artist_name": {artist}, "track_name": {title}}
	if duration > 0 {
		params.Set("duration", strconv.Itoa(int(duration.Round(time.Second).Seconds())))
	}
	var result LyricsResult
	if err := c.getJSON(ctx, "/get", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search runs a free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]LyricsResult, error) {
	var results []LyricsResult
	if err := c.getJSON(ctx, "/search", url.Values{"q": {query}}, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Lookup tries Get, then falls back to a search for "artist title" and
// keeps the hit closest in duration. It returns ErrNotFound when neither
// finds anything.
func (c *Client) Lookup(ctx context.Context, artist, title string, duration time.Duration) (*LyricsResult, error) {
	res, err := c.Get(ctx, artist, title, duration)
	if !errors.Is(err, ErrNotFound) {
		return res, err
	}
	hits, err := c.Search(ctx, artist+" "+title)
	if err != nil {
		return nil, err
	}
	return closest(hits, duration)
}

func closest(hits []LyricsResult, duration time.Duration) (*LyricsResult, error) {
	if len(hits) == 0 {
		return nil, ErrNotFound
	}
	best := 0
	if duration > 0 {
		want := duration.Seconds()
		for i := range hits {
			if math.Abs(hits[i].Duration-want) < math.Abs(hits[best].Duration-want) {
				best = i
			}
		}
	}
	return &hits[best], nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("lrclib %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("lrclib %s: unexpected status %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// Text returns the best lyrics text: plain when available, synced otherwise.
// Instrumental tracks have none.
func (r *LyricsResult) Text() string {
	if r == nil || r.Instrumental {
		return ""
	}
	if r.PlainLyrics != "" {
		return r.PlainLyrics
	}
	return r.SyncedLyrics
}
