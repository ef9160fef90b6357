package stream

import (
	"context"
	"net/url"
	"strings"
)

// Descriptor tells the loader where the audio lives and how to authenticate.
type Descriptor struct {
	URL     string
	Headers map[string]string
}

// Descriptors resolves a track ID into a stream descriptor.
type Descriptors interface {
	StreamDescriptor(ctx context.Context, trackID string) (Descriptor, error)
}

// scheme returns the lower-cased URL scheme.
func (d Descriptor) scheme() (string, *url.URL, error) {
	u, err := url.Parse(d.URL)
	if err != nil {
		return "", nil, err
	}
	return strings.ToLower(u.Scheme), u, nil
}
