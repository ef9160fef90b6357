package playback

import "time"

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
//
// Sends never block the controller. When a buffer is full, state changes
// evict the oldest pending snapshot so the newest one is always delivered;
// other events are dropped.
type Subscription struct {
	StateChanged    <-chan StateChange
	TrackChanged    <-chan TrackChange
	PositionChanged <-chan PositionChange
	QueueChanged    <-chan QueueChange
	ModeChanged     <-chan ModeChange
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	stateCh    chan StateChange
	trackCh    chan TrackChange
	positionCh chan PositionChange
	queueCh    chan QueueChange
	modeCh     chan ModeChange
	errorCh    chan ErrorEvent
	doneCh     chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:    make(chan StateChange, eventBufferSize),
		trackCh:    make(chan TrackChange, eventBufferSize),
		positionCh: make(chan PositionChange, eventBufferSize),
		queueCh:    make(chan QueueChange, eventBufferSize),
		modeCh:     make(chan ModeChange, eventBufferSize),
		errorCh:    make(chan ErrorEvent, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.TrackChanged = s.trackCh
	s.PositionChanged = s.positionCh
	s.QueueChanged = s.queueCh
	s.ModeChanged = s.modeCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// offer sends e without blocking and reports whether it was queued.
func offer[T any](ch chan T, e T) bool {
	select {
	case ch <- e:
		return true
	default:
		return false
	}
}

// sendState queues a snapshot, evicting the oldest one when full.
func (s *Subscription) sendState(e StateChange) {
	for range 2 {
		if offer(s.stateCh, e) {
			return
		}
		select {
		case <-s.stateCh:
		default:
		}
	}
}

func (s *Subscription) sendTrack(e TrackChange) { offer(s.trackCh, e) }

func (s *Subscription) sendPosition(pos time.Duration) {
	offer(s.positionCh, PositionChange{Position: pos})
}

func (s *Subscription) sendQueue(e QueueChange) { offer(s.queueCh, e) }

func (s *Subscription) sendMode(e ModeChange) { offer(s.modeCh, e) }

func (s *Subscription) sendError(e ErrorEvent) { offer(s.errorCh, e) }
