package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavestream/internal/playback"
)

// TickCmd returns a command that sends TickMsg after 1 second.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// WatchServiceEvents waits for the next playback event and converts it to
// a tea.Msg. It must be re-issued after every event it delivers.
func WatchServiceEvents(sub *playback.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return ServiceStateChangedMsg{Snapshot: e.Snapshot}
		case e := <-sub.TrackChanged:
			return ServiceTrackChangedMsg{Current: e.Current, Index: e.Index}
		case e := <-sub.QueueChanged:
			return ServiceQueueChangedMsg{Tracks: e.Tracks, Index: e.Index}
		case e := <-sub.ModeChanged:
			return ServiceModeChangedMsg{Shuffle: e.Shuffle, Repeat: e.Repeat}
		case e := <-sub.PositionChanged:
			return ServiceSeekedMsg{Position: e.Position}
		case e := <-sub.Error:
			return ServiceErrorMsg{TrackID: e.TrackID, Message: e.Message}
		case <-sub.Done:
			return ServiceClosedMsg{}
		}
	}
}

// request runs a blocking service call off the update loop.
func request(ctx context.Context, op string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return RequestDoneMsg{Op: op, Err: fn(ctx)}
	}
}
