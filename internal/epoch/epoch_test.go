package epoch

// © 2026 lfcore authors. MIT License.

import (
	"sync"
	"testing"
)

func TestEnterExitAdvancesEpoch(t *testing.T) {
	r := NewReclaimer[int]()
	start := r.Stats().GlobalEpoch

	for i := 0; i < advanceEveryNExits+1; i++ {
		g := r.Enter()
		g.Exit()
	}

	if got := r.Stats().GlobalEpoch; got <= start {
		t.Fatalf("GlobalEpoch = %d, want > %d after enough exits to trigger tryAdvance", got, start)
	}
}

func TestGuardEpochMatchesGlobalAtEntry(t *testing.T) {
	r := NewReclaimer[int]()
	g := r.Enter()
	defer g.Exit()

	if g.Epoch() != r.Stats().GlobalEpoch {
		t.Fatalf("Guard.Epoch() = %d, want %d", g.Epoch(), r.Stats().GlobalEpoch)
	}
}

func TestRetireDoesNotFreeWhileGuardActive(t *testing.T) {
	r := NewReclaimer[int]()

	g := r.Enter()
	freed := false
	r.Retire(new(int), func(*int) { freed = true })
	r.Cleanup()

	if freed {
		t.Fatal("retired entry stamped at the active guard's epoch must not be freed yet")
	}
	g.Exit()
}

func TestRetireEventuallyFreesAfterGuardExits(t *testing.T) {
	r := NewReclaimer[int]()

	g := r.Enter()
	var mu sync.Mutex
	freed := false
	r.Retire(new(int), func(*int) {
		mu.Lock()
		freed = true
		mu.Unlock()
	})
	g.Exit()

	// Advance the epoch past the retired stamp with fresh enter/exit cycles,
	// then force a cleanup pass.
	for i := 0; i < advanceEveryNExits*2; i++ {
		gg := r.Enter()
		gg.Exit()
	}
	r.Cleanup()

	mu.Lock()
	got := freed
	mu.Unlock()
	if !got {
		t.Fatal("expected retired entry to be freed once no guard could still observe its epoch")
	}
}

func TestEnterPanicsWhenExhausted(t *testing.T) {
	r := NewReclaimer[int]()

	guards := make([]*Guard[int], 0, maxReaders)
	defer func() {
		for _, g := range guards {
			g.Exit()
		}
	}()

	for i := 0; i < maxReaders; i++ {
		guards = append(guards, r.Enter())
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected Enter to panic once every reader slot is occupied")
		}
	}()
	r.Enter()
}
