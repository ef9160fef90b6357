//go:build windows

// Package stderr is a no-op on Windows, whose audio stack does not write
// to the process stderr.
package stderr

import (
	"os"

	"github.com/rs/zerolog"
)

// Capture does nothing on Windows.
type Capture struct{}

// Start returns a no-op capture.
func Start(zerolog.Logger) (*Capture, error) {
	return &Capture{}, nil
}

// WriteOriginal writes to stderr.
func (*Capture) WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

// Stop is a no-op.
func (*Capture) Stop() {}
