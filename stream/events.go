package stream

import (
	"time"

	"go.uber.org/zap"

	wa "go.mau.fi/whatsmeow"
)

// Events is a subscription to a client's notification stream. Every
// native event is normalized into a tagged Event and fed into a bounded
// queue; the host polls with Next.
type Events struct {
	queue     *Queue
	client    *wa.Client
	handlerID uint32
}

// StartEvents registers a listener on the client and returns the
// subscription. The listener does no work beyond normalize-and-enqueue,
// so it never blocks the client's dispatch goroutine.
func StartEvents(cli *wa.Client, capacity int) *Events {
	es := &Events{
		queue:  NewQueue(capacity),
		client: cli,
	}
	es.handlerID = cli.AddEventHandler(func(raw interface{}) {
		if raw == nil {
			return
		}
		e := Normalize(raw)
		if !es.queue.TryPush(e) {
			Logger().Debug("event dropped",
				zap.Any("type", e["type"]),
				zap.Int("capacity", capacity))
		}
	})
	return es
}

// Next returns the next buffered event, or a timeout/closed sentinel.
func (es *Events) Next(timeout time.Duration) Event {
	return es.queue.Next(timeout)
}

// Release cancels the subscription and deregisters the native listener.
// Deregistration is dispatched asynchronously: RemoveEventHandler can
// wait on in-flight handler callbacks, and release must not block on
// them. The cancelled queue already drops anything those callbacks
// still try to push.
func (es *Events) Release() {
	es.queue.Cancel()
	if es.client != nil && es.handlerID != 0 {
		go es.client.RemoveEventHandler(es.handlerID)
	}
}
