package notify

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/playlist"
)

const (
	trackIcon    = "audio-x-generic"
	errorIcon    = "dialog-error"
	trackTimeout = 5 * time.Second
)

// TrackNotification describes a track that just became current.
func TrackNotification(t playlist.Track) Notification {
	var parts []string
	if t.Artist != "" {
		parts = append(parts, t.Artist)
	}
	if t.Album != "" {
		parts = append(parts, t.Album)
	}
	title := t.Title
	if title == "" {
		title = t.ID
	}
	return Notification{
		Summary: title,
		Body:    strings.Join(parts, " - "),
		Icon:    trackIcon,
		Timeout: trackTimeout,
		Urgency: UrgencyLow,
	}
}

// ErrorNotification describes a failed playback request.
func ErrorNotification(e playback.ErrorEvent) Notification {
	return Notification{
		Summary: "Playback failed",
		Body:    e.Message,
		Icon:    errorIcon,
		Timeout: trackTimeout,
		Urgency: UrgencyNormal,
	}
}

// Watch shows a notification for every track change and playback error
// on sub until ctx ends or the subscription closes. A track's embedded
// artwork replaces the generic icon. Successive
// notifications replace the previous one, and the last one is dismissed
// on return.
func Watch(ctx context.Context, sub *playback.Subscription, n Notifier, log zerolog.Logger) {
	var lastID uint32
	defer func() {
		if lastID != 0 {
			_ = n.Close(lastID)
		}
	}()
	send := func(notif Notification) {
		notif.Replaces = lastID
		id, err := n.Notify(notif)
		if err != nil {
			log.Debug().Err(err).Msg("desktop notification failed")
			return
		}
		if id != 0 {
			lastID = id
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case e := <-sub.TrackChanged:
			if e.Current != nil {
				notif := TrackNotification(*e.Current)
				if e.ArtworkPath != "" {
					notif.Icon = e.ArtworkPath
				}
				send(notif)
			}
		case e := <-sub.Error:
			send(ErrorNotification(e))
		}
	}
}
