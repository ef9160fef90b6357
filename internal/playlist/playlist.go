package playlist

import (
	"slices"
	"time"
)

// Track is the engine's view of a playable track.
// Values are produced by the resolver and never mutated afterwards.
type Track struct {
	ID         string // backend track identifier
	Title      string
	Artist     string
	Album      string
	ArtworkURL string
	Duration   time.Duration // 0 when unknown until loaded
	Lyrics     string
}

// Same reports whether both tracks refer to the same backend track.
func (t *Track) Same(other *Track) bool {
	if t == nil || other == nil {
		return false
	}
	return t.ID == other.ID
}

// Playlist is an ordered list of tracks. Duplicates are allowed.
type Playlist struct {
	tracks []Track
}

// NewPlaylist returns an empty playlist.
func NewPlaylist() *Playlist {
	return &Playlist{}
}

func (p *Playlist) valid(i int) bool {
	return i >= 0 && i < len(p.tracks)
}

// Add appends tracks.
func (p *Playlist) Add(tracks ...Track) {
	p.tracks = append(p.tracks, tracks...)
}

// Remove deletes the track at index and reports whether it existed.
func (p *Playlist) Remove(index int) bool {
	if !p.valid(index) {
		return false
	}
	p.tracks = slices.Delete(p.tracks, index, index+1)
	return true
}

func (p *Playlist) Clear() {
	p.tracks = nil
}

// Tracks returns a copy of the tracks, never nil.
func (p *Playlist) Tracks() []Track {
	return append([]Track{}, p.tracks...)
}

// Track returns the track at index, or nil when out of range. The pointer
// is only valid until the next mutation.
func (p *Playlist) Track(index int) *Track {
	if !p.valid(index) {
		return nil
	}
	return &p.tracks[index]
}

// IndexOf returns the first position of id, or -1.
func (p *Playlist) IndexOf(id string) int {
	return slices.IndexFunc(p.tracks, func(t Track) bool { return t.ID == id })
}

func (p *Playlist) Len() int {
	return len(p.tracks)
}

// Move relocates the track at from so that it ends up at to. Both indices
// must be in range.
func (p *Playlist) Move(from, to int) bool {
	if !p.valid(from) || !p.valid(to) {
		return false
	}
	if from != to {
		t := p.tracks[from]
		p.tracks = slices.Insert(slices.Delete(p.tracks, from, from+1), to, t)
	}
	return true
}
