package registry

import (
	"sync"
	"testing"
)

func TestTableBasic(t *testing.T) {
	table := NewTable[string]("thing", nil)

	h := table.Insert("first")
	if h == 0 {
		t.Fatal("expected non-zero handle")
	}

	v, ok := table.Get(h)
	if !ok {
		t.Fatal("Get failed")
	}
	if v != "first" {
		t.Fatalf("expected 'first', got %q", v)
	}

	if !table.Release(h) {
		t.Fatal("Release failed")
	}
	if table.Len() != 0 {
		t.Fatal("expected empty table after release")
	}
	if _, ok := table.Get(h); ok {
		t.Fatal("Get should fail after release")
	}
}

func TestLookupNeverAllocated(t *testing.T) {
	table := NewTable[int]("thing", nil)
	table.Insert(1)

	if _, ok := table.Get(Handle(1 << 40)); ok {
		t.Fatal("lookup of a never-allocated handle should fail")
	}
	if _, ok := table.Get(0); ok {
		t.Fatal("handle 0 is reserved and must never resolve")
	}
}

func TestDoubleReleaseReportsNotFound(t *testing.T) {
	table := NewTable[string]("thing", nil)
	h := table.Insert("x")

	if !table.Release(h) {
		t.Fatal("first release should succeed")
	}
	if table.Release(h) {
		t.Fatal("second release must report not-found")
	}
}

func TestHandlesMonotonicAcrossTables(t *testing.T) {
	a := NewTable[string]("a", nil)
	b := NewTable[int]("b", nil)

	ha := a.Insert("x")
	hb := b.Insert(1)
	ha2 := a.Insert("y")

	if !(ha < hb && hb < ha2) {
		t.Fatalf("handles should be strictly increasing across namespaces: %d %d %d", ha, hb, ha2)
	}

	// Released values are never reissued.
	a.Release(ha)
	if h := a.Insert("z"); h <= ha2 {
		t.Fatalf("released handle value reissued: %d", h)
	}
}

func TestReleaseHookRunsOnce(t *testing.T) {
	var calls []Handle
	table := NewTable[string]("thing", func(h Handle, v string) {
		calls = append(calls, h)
	})

	h := table.Insert("x")
	table.Release(h)
	table.Release(h)

	if len(calls) != 1 || calls[0] != h {
		t.Fatalf("hook should run exactly once for %d, got %v", h, calls)
	}
}

func TestSetFixedOrder(t *testing.T) {
	streams := NewTable[string]("event stream", nil)
	clients := NewTable[string]("client", nil)
	set := NewSet(streams, clients)

	hs := streams.Insert("s")
	hc := clients.Insert("c")

	kind, ok := set.Release(hs)
	if !ok || kind != "event stream" {
		t.Fatalf("expected event stream release, got %q %v", kind, ok)
	}
	kind, ok = set.Release(hc)
	if !ok || kind != "client" {
		t.Fatalf("expected client release, got %q %v", kind, ok)
	}
	if _, ok := set.Release(hc); ok {
		t.Fatal("released handle should not be found in any namespace")
	}
}

func TestConcurrentAccess(t *testing.T) {
	table := NewTable[int]("thing", nil)

	var wg sync.WaitGroup
	handles := make([]Handle, 64)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i] = table.Insert(i)
		}(i)
	}
	wg.Wait()

	seen := make(map[Handle]bool)
	for _, h := range handles {
		if seen[h] {
			t.Fatalf("duplicate handle %d", h)
		}
		seen[h] = true
	}

	for _, h := range handles {
		wg.Add(1)
		go func(h Handle) {
			defer wg.Done()
			table.Get(h)
			table.Release(h)
		}(h)
	}
	wg.Wait()

	if table.Len() != 0 {
		t.Fatalf("expected empty table, %d entries remain", table.Len())
	}
}
