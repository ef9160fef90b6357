//go:build linux

package mpris

import (
	"github.com/quarckster/go-mpris-server/pkg/server"
)

// Adapter exposes a Player on the session bus as
// org.mpris.MediaPlayer2.wavestream.
type Adapter struct {
	server *server.Server
}

// New creates and starts a new MPRIS adapter.
func New(p Player) (*Adapter, error) {
	a := &Adapter{
		server: server.NewServer("wavestream", &rootAdapter{}, newPlayerAdapter(p)),
	}

	go func() {
		_ = a.server.Listen()
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}
