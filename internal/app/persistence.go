package app

import "github.com/llehouerou/wavestream/internal/state"

// saveQueue schedules a save of the current queue.
func (m *Model) saveQueue() {
	if m.saver == nil {
		return
	}
	m.saver.ScheduleQueueSave(state.NewQueueState(m.svc.Queue(), m.svc.Snapshot().QueueIndex))
}
