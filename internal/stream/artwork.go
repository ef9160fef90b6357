package stream

import (
	"os"

	"github.com/dhowden/tag"
)

// writeArtwork copies the embedded picture of the audio file at path next
// to it and returns the copy's path, or "" when there is none.
func writeArtwork(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return ""
	}
	p := m.Picture()
	if p == nil || len(p.Data) == 0 {
		return ""
	}
	ext := p.Ext
	if ext == "" {
		ext = "img"
	}
	cover := path + ".cover." + ext
	if err := os.WriteFile(cover, p.Data, 0o600); err != nil {
		_ = os.Remove(cover)
		return ""
	}
	return cover
}
