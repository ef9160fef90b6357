package lastfm

import (
	"context"

	"github.com/llehouerou/wavestream/internal/playlist"
)

// Reporter forwards playback starts to Last.fm as "now playing" updates.
type Reporter struct {
	client *Client
}

// NewReporter creates a reporter for an authenticated client.
func NewReporter(c *Client) *Reporter {
	return &Reporter{client: c}
}

// ReportPlayback implements playback.Reporter. The Last.fm call itself is
// not cancelable; ctx bounds how long the caller waits for it.
func (r *Reporter) ReportPlayback(ctx context.Context, t playlist.Track) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() {
		done <- r.client.UpdateNowPlaying(NowPlaying{
			Artist:   t.Artist,
			Track:    t.Title,
			Album:    t.Album,
			Duration: t.Duration,
		})
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
