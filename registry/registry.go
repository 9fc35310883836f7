package registry

import (
	"sync"
	"sync/atomic"
)

// Handle is an opaque reference to a native object held by a table.
// Handle 0 is reserved and always invalid.
type Handle uint64

// Handles are drawn from one process-wide counter shared by every
// namespace, so a handle value identifies at most one object for the
// process lifetime and released values are never reissued. Stale
// references therefore fail lookups deterministically.
var counter atomic.Uint64

func next() Handle { return Handle(counter.Add(1)) }

// ReleaseFunc runs after an entry has been removed from its table.
// It is called outside the table lock so release side effects
// (disconnects, storage close) cannot block unrelated operations.
type ReleaseFunc[T any] func(Handle, T)

// Table is one handle namespace. Each table has its own lock, so
// unrelated object kinds never contend.
type Table[T any] struct {
	mu        sync.RWMutex
	entries   map[Handle]T
	kind      string
	onRelease ReleaseFunc[T]
}

// NewTable creates a namespace for one object kind. onRelease may be
// nil when the kind has no release side effect.
func NewTable[T any](kind string, onRelease ReleaseFunc[T]) *Table[T] {
	return &Table[T]{
		entries:   make(map[Handle]T),
		kind:      kind,
		onRelease: onRelease,
	}
}

// Kind returns the namespace name.
func (t *Table[T]) Kind() string { return t.kind }

// Insert stores a value and returns its handle.
func (t *Table[T]) Insert(v T) Handle {
	h := next()
	t.mu.Lock()
	t.entries[h] = v
	t.mu.Unlock()
	return h
}

// Get retrieves a value by handle.
func (t *Table[T]) Get(h Handle) (T, bool) {
	t.mu.RLock()
	v, ok := t.entries[h]
	t.mu.RUnlock()
	return v, ok
}

// Release removes the entry and runs the release hook. Returns false
// when the handle is not in this namespace, which covers both unknown
// handles and double release.
func (t *Table[T]) Release(h Handle) bool {
	t.mu.Lock()
	v, ok := t.entries[h]
	if ok {
		delete(t.entries, h)
	}
	t.mu.Unlock()
	if !ok {
		return false
	}
	if t.onRelease != nil {
		t.onRelease(h, v)
	}
	return true
}

// Len returns the number of live entries.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	n := len(t.entries)
	t.mu.RUnlock()
	return n
}

// Each iterates over a snapshot of the live entries.
func (t *Table[T]) Each(fn func(Handle, T) bool) {
	t.mu.RLock()
	snapshot := make(map[Handle]T, len(t.entries))
	for h, v := range t.entries {
		snapshot[h] = v
	}
	t.mu.RUnlock()
	for h, v := range snapshot {
		if !fn(h, v) {
			return
		}
	}
}

// Namespace is the kind-erased view of a Table used by Set.
type Namespace interface {
	Kind() string
	Release(Handle) bool
}

// Set tries namespaces in a fixed order so a single release entry point
// works for any handle kind. Order matters for the caller-visible
// contract (release side effects run for exactly the owning namespace),
// not for collision resolution: the shared counter means a handle can
// live in at most one namespace.
type Set struct {
	namespaces []Namespace
}

// NewSet builds a release set; namespaces are tried in argument order.
func NewSet(ns ...Namespace) *Set {
	return &Set{namespaces: ns}
}

// Release removes h from whichever namespace holds it and reports the
// namespace kind. Returns ("", false) when no namespace holds h.
func (s *Set) Release(h Handle) (string, bool) {
	for _, ns := range s.namespaces {
		if ns.Release(h) {
			return ns.Kind(), true
		}
	}
	return "", false
}
