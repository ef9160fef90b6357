package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/keymap"
	"github.com/llehouerou/wavestream/internal/ui/playerbar"
	"github.com/llehouerou/wavestream/internal/ui/queuepanel"
)

const (
	seekStep   = 5 * time.Second
	volumeStep = 0.05
)

var keys = keymap.NewResolver(keymap.All)

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		m.snap = m.svc.Snapshot()
		m.resize()
		return m, TickCmd()
	case RequestDoneMsg:
		if msg.Err != nil && !errmsg.IsCanceled(msg.Err) {
			m.log.Debug().Err(msg.Err).Str("op", msg.Op).Msg("request failed")
		}
		return m, nil
	case queuepanel.JumpToTrackMsg:
		return m, m.jumpTo(msg.Index)
	case queuepanel.RemoveTrackMsg:
		m.svc.RemoveFromQueue(msg.Index)
		return m, nil
	case queuepanel.MoveTrackMsg:
		m.svc.MoveInQueue(msg.From, msg.To)
		return m, nil
	}
	return m.handleServiceMsg(msg)
}

func (m Model) handleServiceMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ServiceStateChangedMsg:
		m.snap = msg.Snapshot
		m.resize()
	case ServiceTrackChangedMsg:
		m.status = ""
		m.saveQueue()
	case ServiceQueueChangedMsg:
		m.queue.SetQueue(msg.Tracks, msg.Index)
		m.saveQueue()
	case ServiceModeChangedMsg:
		m.queue.SetModes(msg.Shuffle, msg.Repeat)
	case ServiceSeekedMsg:
		m.snap.Position = msg.Position
	case ServiceErrorMsg:
		m.status = msg.Message
		m.log.Info().Str("track", msg.TrackID).Str("message", msg.Message).Msg("playback error")
	case ServiceClosedMsg:
		return m, nil
	default:
		return m, nil
	}
	return m, WatchServiceEvents(m.sub)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keys.Resolve(msg.String()) {
	case keymap.ActionQuit:
		m.saveQueue()
		m.cancel()
		return m, tea.Quit
	case keymap.ActionSwitchFocus:
		m.queue.SetFocused(!m.queue.IsFocused())
	case keymap.ActionToggleView:
		if m.barMode == playerbar.ModeCompact {
			m.barMode = playerbar.ModeExpanded
		} else {
			m.barMode = playerbar.ModeCompact
		}
		m.resize()
	case keymap.ActionPlayPause:
		m.svc.TogglePlay()
	case keymap.ActionNext:
		return m, request(m.ctx, "next", m.svc.Next)
	case keymap.ActionPrevious:
		return m, request(m.ctx, "previous", m.svc.Previous)
	case keymap.ActionSeekBack:
		m.svc.Seek(max(m.snap.Position-seekStep, 0))
	case keymap.ActionSeekForward:
		m.svc.Seek(m.snap.Position + seekStep)
	case keymap.ActionVolumeUp:
		m.svc.SetVolume(m.snap.Volume + volumeStep)
	case keymap.ActionVolumeDown:
		m.svc.SetVolume(m.snap.Volume - volumeStep)
	case keymap.ActionMute:
		m.svc.ToggleMute()
	case keymap.ActionShuffle:
		m.svc.ToggleShuffle()
	case keymap.ActionRepeat:
		m.svc.ToggleRepeat()
	case keymap.ActionRemoveCurrent:
		if m.snap.QueueIndex >= 0 {
			m.svc.RemoveFromQueue(m.snap.QueueIndex)
		}
	case keymap.ActionClearQueue:
		m.svc.ClearQueue()
	default:
		var cmd tea.Cmd
		m.queue, cmd = m.queue.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) jumpTo(index int) tea.Cmd {
	return request(m.ctx, "jump", func(ctx context.Context) error {
		return m.svc.JumpTo(ctx, index)
	})
}
