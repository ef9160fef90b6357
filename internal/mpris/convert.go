package mpris

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/playlist"
)

// noTrack is the MPRIS object path for "no current track".
const noTrack = "/org/mpris/MediaPlayer2/TrackList/NoTrack"

func playbackStatus(s playback.Snapshot) types.PlaybackStatus {
	switch {
	case s.Track == nil:
		return types.PlaybackStatusStopped
	case s.Playing:
		return types.PlaybackStatusPlaying
	default:
		return types.PlaybackStatusPaused
	}
}

func loopStatus(m playlist.RepeatMode) types.LoopStatus {
	switch m {
	case playlist.RepeatOne:
		return types.LoopStatusTrack
	case playlist.RepeatAll:
		return types.LoopStatusPlaylist
	default:
		return types.LoopStatusNone
	}
}

func repeatMode(status types.LoopStatus) (playlist.RepeatMode, bool) {
	switch status {
	case types.LoopStatusNone:
		return playlist.RepeatOff, true
	case types.LoopStatusTrack:
		return playlist.RepeatOne, true
	case types.LoopStatusPlaylist:
		return playlist.RepeatAll, true
	}
	return playlist.RepeatOff, false
}

func metadata(s playback.Snapshot) types.Metadata {
	t := s.Track
	if t == nil {
		return types.Metadata{TrackId: dbus.ObjectPath(noTrack)}
	}
	length := t.Duration
	if s.Duration > 0 {
		length = s.Duration
	}
	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(t.ID)),
		Length:  types.Microseconds(length.Microseconds()),
		Title:   t.Title,
		Album:   t.Album,
		ArtUrl:  artURL(t.ArtworkURL, s.ArtworkPath),
	}
	if t.Artist != "" {
		meta.Artist = []string{t.Artist}
	}
	return meta
}

// artURL keeps only URLs a desktop shell can fetch itself, falling back to
// the embedded picture copied to local disk.
func artURL(u, local string) string {
	for _, scheme := range []string{"http://", "https://", "file://"} {
		if strings.HasPrefix(u, scheme) {
			return u
		}
	}
	if local != "" {
		return "file://" + local
	}
	return ""
}

func formatTrackID(id string) string {
	h := fnv.New64a()
	h.Write([]byte(id))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
