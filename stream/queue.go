package stream

import (
	"context"
	"time"
)

// Event is one normalized notification: a tagged map whose "type" field
// discriminates the variant.
type Event = map[string]any

// Sentinel events returned by Next. They are fresh maps per call so
// callers can annotate them without racing.
func timeoutEvent() Event { return Event{"type": "timeout"} }
func closedEvent() Event  { return Event{"type": "closed"} }

// Queue is a bounded, lossy, cancellable event buffer. Producers never
// block: TryPush drops when the buffer is full. Consumers block in Next
// with an optional timeout. Cancel is safe to call while a Next is
// blocked on the same queue; the blocked call resolves to the closed
// sentinel.
type Queue struct {
	ch     chan Event
	ctx    context.Context
	cancel context.CancelFunc
}

// NewQueue creates a queue holding at most capacity events.
func NewQueue(capacity int) *Queue {
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		ch:     make(chan Event, capacity),
		ctx:    ctx,
		cancel: cancel,
	}
}

// TryPush enqueues without blocking. Returns false when the event was
// dropped, either because the buffer is full or the queue is cancelled.
// The queue favors liveness over completeness: a slow consumer loses
// events rather than stalling the producer.
func (q *Queue) TryPush(e Event) bool {
	select {
	case <-q.ctx.Done():
		return false
	default:
	}
	select {
	case q.ch <- e:
		return true
	default:
		return false
	}
}

// Next blocks until an event arrives, the timeout elapses, or the queue
// is cancelled. A timeout of zero or below means wait indefinitely.
// Timeout and cancellation produce sentinel events, not errors, so the
// transport envelope stays ok=true and the caller can re-poll.
func (q *Queue) Next(timeout time.Duration) Event {
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}
	select {
	case e := <-q.ch:
		return e
	case <-expired:
		return timeoutEvent()
	case <-q.ctx.Done():
		return closedEvent()
	}
}

// Cancel marks the queue closed. Idempotent.
func (q *Queue) Cancel() {
	q.cancel()
}

// Done is closed once the queue has been cancelled.
func (q *Queue) Done() <-chan struct{} {
	return q.ctx.Done()
}
