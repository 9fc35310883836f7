package stream

import (
	"testing"
	"time"
)

func TestQueueOrdering(t *testing.T) {
	q := NewQueue(8)
	for i := 0; i < 5; i++ {
		if !q.TryPush(Event{"type": "receipt", "n": i}) {
			t.Fatalf("push %d dropped with room in the buffer", i)
		}
	}
	for i := 0; i < 5; i++ {
		e := q.Next(time.Second)
		if e["n"] != i {
			t.Fatalf("expected event %d, got %v", i, e)
		}
	}
}

func TestQueueDropsWhenFull(t *testing.T) {
	const capacity = 4
	q := NewQueue(capacity)

	pushed := 0
	for i := 0; i < capacity*3; i++ {
		if q.TryPush(Event{"n": i}) {
			pushed++
		}
	}
	if pushed != capacity {
		t.Fatalf("expected %d accepted events, got %d", capacity, pushed)
	}

	// Consuming frees room again.
	q.Next(time.Second)
	if !q.TryPush(Event{"n": 99}) {
		t.Fatal("push should succeed after a consume")
	}
}

func TestQueueNextTimeout(t *testing.T) {
	q := NewQueue(1)
	start := time.Now()
	e := q.Next(20 * time.Millisecond)
	if e["type"] != "timeout" {
		t.Fatalf("expected timeout sentinel, got %v", e)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Fatal("Next returned before the timeout elapsed")
	}
}

func TestQueueCancelUnblocksNext(t *testing.T) {
	q := NewQueue(1)
	got := make(chan Event, 1)
	go func() {
		got <- q.Next(0) // wait indefinitely
	}()

	// Give the consumer time to block, then cancel.
	time.Sleep(10 * time.Millisecond)
	q.Cancel()

	select {
	case e := <-got:
		if e["type"] != "closed" {
			t.Fatalf("expected closed sentinel, got %v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked Next did not resolve after Cancel")
	}
}

func TestQueuePushAfterCancel(t *testing.T) {
	q := NewQueue(4)
	q.Cancel()
	if q.TryPush(Event{"type": "connected"}) {
		t.Fatal("push into a cancelled queue should report dropped")
	}
	if e := q.Next(0); e["type"] != "closed" {
		t.Fatalf("expected closed sentinel, got %v", e)
	}
}

func TestQueueCancelIdempotent(t *testing.T) {
	q := NewQueue(1)
	q.Cancel()
	q.Cancel()
	select {
	case <-q.Done():
	default:
		t.Fatal("Done should be closed after Cancel")
	}
}
