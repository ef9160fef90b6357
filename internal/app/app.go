// Package app is the terminal front end: a bubbletea model that drives a
// playback.Service and renders its queue and player bar.
package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/state"
	"github.com/llehouerou/wavestream/internal/ui/playerbar"
	"github.com/llehouerou/wavestream/internal/ui/queuepanel"
)

// QueueSaver persists the queue in the background.
type QueueSaver interface {
	ScheduleQueueSave(state.QueueState)
}

// Options configures New.
type Options struct {
	Service playback.Service
	// Saver is optional; the queue is not persisted without it.
	Saver QueueSaver
	// StartIndex is played on start when it is a valid queue index.
	StartIndex int
	Logger     zerolog.Logger
}

// Model is the root bubbletea model.
type Model struct {
	svc    playback.Service
	sub    *playback.Subscription
	saver  QueueSaver
	log    zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	snap       playback.Snapshot
	queue      queuepanel.Model
	barMode    playerbar.DisplayMode
	startIndex int
	status     string
	width      int
	height     int
}

// New creates the model and subscribes to the service.
func New(opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())
	snap := opts.Service.Snapshot()

	queue := queuepanel.New()
	queue.SetQueue(opts.Service.Queue(), snap.QueueIndex)
	queue.SetModes(snap.Shuffle, snap.Repeat)

	return Model{
		svc:        opts.Service,
		sub:        opts.Service.Subscribe(),
		saver:      opts.Saver,
		log:        opts.Logger,
		ctx:        ctx,
		cancel:     cancel,
		snap:       snap,
		queue:      queue,
		barMode:    playerbar.ModeCompact,
		startIndex: opts.StartIndex,
	}
}

// Init starts the event watcher, the refresh tick and the initial track.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{WatchServiceEvents(m.sub), TickCmd()}
	if m.startIndex >= 0 && m.startIndex < len(m.svc.Queue()) {
		idx := m.startIndex
		cmds = append(cmds, request(m.ctx, "jump", func(ctx context.Context) error {
			return m.svc.JumpTo(ctx, idx)
		}))
	}
	return tea.Batch(cmds...)
}

// Snapshot returns the last snapshot the model rendered.
func (m Model) Snapshot() playback.Snapshot {
	return m.snap
}

// Status returns the message shown in the header, usually the last error.
func (m Model) Status() string {
	return m.status
}
