// Package stream implements the bounded, cancellable event feeds the
// host polls across the call boundary.
//
// # Queue discipline
//
// Each subscription owns a fixed-capacity queue. The producer side is a
// native listener callback and must never block, so enqueue is a
// non-blocking try: when the buffer is full the event is dropped. The
// engine favors liveness over completeness; callers get a timely,
// representative subset of notifications, in the order the listener
// observed them, with no cross-stream ordering guarantee.
//
// The consumer side blocks with a caller-bounded timeout:
//
//	evt := es.Next(5 * time.Second)
//
// A timeout of zero or below waits indefinitely. Timeout and
// cancellation are not failures; they return sentinel events
// ({"type":"timeout"}, {"type":"closed"}) inside a success envelope so
// the caller can re-poll. Releasing a stream while a Next is blocked on
// it resolves that call to the closed sentinel.
//
// # Streams
//
// Events subscribes to a client's full notification stream, normalizing
// every native event into a tagged map (see Normalize). Pairing wraps
// the login handshake channel: a finite alphabet of code, success,
// error, timeout and closed, where the producer stops after a terminal
// event but the handle stays open until explicitly released.
package stream
