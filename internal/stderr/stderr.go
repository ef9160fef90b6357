//go:build !windows

// Package stderr captures output that C audio libraries (ALSA through oto)
// write straight to file descriptor 2, so it cannot corrupt the TUI.
// Captured lines go to the log instead.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// Capture redirects fd 2 into a pipe until Stop is called.
type Capture struct {
	log      zerolog.Logger
	orig     int
	r, w     *os.File
	done     chan struct{}
	stopOnce sync.Once
}

// Start begins capturing stderr. It must run before the audio device is
// opened. On error the program can continue without capture.
func Start(log zerolog.Logger) (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	fd := int(os.Stderr.Fd())
	orig, err := unix.Dup(fd)
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}
	if err := unix.Dup2(int(w.Fd()), fd); err != nil {
		_ = unix.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{
		log:  log,
		orig: orig,
		r:    r,
		w:    w,
		done: make(chan struct{}),
	}
	go c.forward()
	return c, nil
}

func (c *Capture) forward() {
	defer close(c.done)
	scanner := bufio.NewScanner(c.r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			c.log.Warn().Str("source", "stderr").Msg(line)
		}
	}
}

// WriteOriginal writes to the original stderr, bypassing capture.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = unix.Write(c.orig, []byte(msg))
}

// Stop restores the original stderr and waits for pending lines to be
// logged. Safe to call more than once.
func (c *Capture) Stop() {
	c.stopOnce.Do(func() {
		_ = unix.Dup2(c.orig, int(os.Stderr.Fd()))
		_ = unix.Close(c.orig)
		c.w.Close()
		<-c.done
		c.r.Close()
	})
}
