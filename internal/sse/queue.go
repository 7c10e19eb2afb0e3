package sse

import (
	"sync"

	"github.com/ariadne-dev/ariadne/internal/event"
)

// BackpressureComment is the literal text emitted when a subscriber's
// queue is full and the oldest pending event is dropped. Kept byte-for-
// byte per spec §9 so existing log-scrapers keep matching it: rendered as
// ":warning stream backpressure; events skipped\n\n", with no space after
// the colon.
const BackpressureComment = "warning stream backpressure; events skipped"

// heartbeatCommentText renders as ": heartbeat\n\n" — note the leading
// space, unlike BackpressureComment; both forms are copied byte-for-byte
// from spec §6's SSE frame catalogue.
const heartbeatCommentText = " heartbeat"

// frame is one pending unit of output for a subscription: either a real
// event or a comment line (heartbeat, backpressure). The connected control
// frame is written directly by WriteConnected and never queued.
type frame struct {
	event   *event.Event
	comment string
}

// boundedQueue is a per-subscription pending-output queue. Event frames
// are capped at Q entries (spec §4.5, §5); once full, pushEvent evicts the
// oldest *event* frame before appending the new one, which is what keeps
// |queue(S)| <= Q true at every instant (spec §8). Comment frames (heartbeat
// and backpressure lines) are not event frames and never trigger or
// suffer eviction — they are rare, one per drop or heartbeat tick.
type boundedQueue struct {
	mu         sync.Mutex
	frames     []frame
	eventCount int
	capacity   int
	notify     chan struct{}
}

func newBoundedQueue(capacity int) *boundedQueue {
	if capacity <= 0 {
		capacity = 1
	}
	return &boundedQueue{
		capacity: capacity,
		notify:   make(chan struct{}, 1),
	}
}

// pushEvent enqueues e, evicting the oldest event frame first if the queue
// is already at capacity. Reports whether an eviction happened.
func (q *boundedQueue) pushEvent(e event.Event) (dropped bool) {
	q.mu.Lock()
	if q.eventCount >= q.capacity {
		for i, f := range q.frames {
			if f.event != nil {
				q.frames = append(q.frames[:i], q.frames[i+1:]...)
				q.eventCount--
				dropped = true
				break
			}
		}
	}
	ec := e
	q.frames = append(q.frames, frame{event: &ec})
	q.eventCount++
	q.mu.Unlock()

	q.wake()
	return dropped
}

// pushComment enqueues a control/comment line. It does not count against
// capacity and is never evicted.
func (q *boundedQueue) pushComment(text string) {
	q.mu.Lock()
	q.frames = append(q.frames, frame{comment: text})
	q.mu.Unlock()
	q.wake()
}

func (q *boundedQueue) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// drain removes and returns every pending frame in FIFO order.
func (q *boundedQueue) drain() []frame {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.frames) == 0 {
		return nil
	}
	out := q.frames
	q.frames = nil
	q.eventCount = 0
	return out
}

// eventLen reports the current number of buffered event frames (excludes
// comments), i.e. the value bounded by Q.
func (q *boundedQueue) eventLen() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.eventCount
}
