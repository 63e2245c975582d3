package hazard

// © 2026 lfcore authors. MIT License.

import (
	"sync"
	"testing"

	"github.com/Voskan/lfcore/internal/atomics"
)

func TestAcquireReleaseCycleReusesRecord(t *testing.T) {
	mgr := NewManager[int]()

	h := mgr.Acquire()
	h.Release()

	if stats := mgr.Stats(); stats.ActiveHandles != 0 {
		t.Fatalf("ActiveHandles = %d, want 0 after Release", stats.ActiveHandles)
	}

	h2 := mgr.Acquire()
	defer h2.Release()
	if stats := mgr.Stats(); stats.ActiveHandles != 1 {
		t.Fatalf("ActiveHandles = %d, want 1", stats.ActiveHandles)
	}
}

func TestProtectGuardsFromReclamation(t *testing.T) {
	mgr := NewManager[int]()

	v := new(int)
	*v = 7
	var ref atomics.Pointer[int]
	ref.StoreRelease(v)

	h := mgr.Acquire()
	defer h.Release()

	got := h.Acquire(0, &ref)
	if got != v {
		t.Fatal("Acquire should return the currently published pointer")
	}

	freed := false
	h.Retire(v, func(*int) { freed = true })
	// Run a reclamation pass: v is still published in slot 0 of an active
	// handle, so it must survive.
	mgr.Drain(false)
	if freed {
		t.Fatal("a retired entry still held in a hazard slot must not be freed")
	}
}

func TestRetireReclaimsUnhazardedNodesAtThreshold(t *testing.T) {
	mgr := NewManager[int]()
	h := mgr.Acquire()
	defer h.Release()

	freedCount := 0
	var mu sync.Mutex
	deleter := func(*int) {
		mu.Lock()
		freedCount++
		mu.Unlock()
	}

	for i := 0; i < retireThreshold+1; i++ {
		h.Retire(new(int), deleter)
	}

	mu.Lock()
	got := freedCount
	mu.Unlock()
	if got == 0 {
		t.Fatal("expected at least some retired entries to be reclaimed past the threshold")
	}
}

func TestDrainForcePanicsWhileHandleActive(t *testing.T) {
	mgr := NewManager[int]()
	h := mgr.Acquire()
	defer h.Release()

	defer func() {
		if recover() == nil {
			t.Fatal("expected Drain(force=true) to panic while a handle is active")
		}
	}()
	mgr.Drain(true)
}

func TestDrainForceSucceedsWhenInactive(t *testing.T) {
	mgr := NewManager[int]()
	h := mgr.Acquire()
	h.Retire(new(int), func(*int) {})
	h.Release()

	mgr.Drain(true) // should not panic
	if stats := mgr.Stats(); stats.RetiredTotal != 0 {
		t.Fatalf("RetiredTotal = %d, want 0 after Drain(true)", stats.RetiredTotal)
	}
}
