// Package stream turns a resolved track into a locally playable resource.
package stream

import (
	"errors"
	"os"
	"sync"

	"github.com/google/uuid"
)

// Resource is a downloaded audio payload materialized on local disk.
// It is owned by whoever holds it as the active source and must be
// released exactly once when that ownership ends.
type Resource struct {
	ID      string
	TrackID string
	Path    string
	Size    int64
	MIME    string
	// ArtworkPath is a local copy of the embedded picture, if the payload
	// carried one. It is removed on release.
	ArtworkPath string

	once    sync.Once
	release func() error
	err     error
}

// NewResource wraps a playable file. release runs once on the first call to
// Release and may be nil.
func NewResource(trackID, path string, size int64, mime string, release func() error) *Resource {
	return &Resource{
		ID:      uuid.NewString(),
		TrackID: trackID,
		Path:    path,
		Size:    size,
		MIME:    mime,
		release: release,
	}
}

// fileResource returns a Resource whose release removes path and the
// artwork copy.
func fileResource(trackID, path string, size int64, mime string) *Resource {
	var r *Resource
	r = NewResource(trackID, path, size, mime, func() error {
		return errors.Join(removeFile(path), removeFile(r.ArtworkPath))
	})
	return r
}

func removeFile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Release frees the underlying payload. Subsequent calls return the result
// of the first one.
func (r *Resource) Release() error {
	if r == nil {
		return nil
	}
	r.once.Do(func() {
		if r.release != nil {
			r.err = r.release()
		}
	})
	return r.err
}
