package queue

// © 2026 lfcore authors. MIT License.

import (
	"sync"
	"sync/atomic"
	"testing"

	"golang.org/x/sync/errgroup"
)

// TestBoundedSPMCNoDuplication drives scenario C: one producer and many
// consumers, checking that no value is ever delivered to two consumers.
func TestBoundedSPMCNoDuplication(t *testing.T) {
	const total = 20000
	const consumers = 16

	q := NewBoundedSPMC[int](128)

	go func() {
		for i := 0; i < total; i++ {
			for !q.TryPush(i) {
			}
		}
	}()

	var popped int64
	var mu sync.Mutex
	seen := make([]int32, total)

	var g errgroup.Group
	for c := 0; c < consumers; c++ {
		g.Go(func() error {
			for atomic.LoadInt64(&popped) < total {
				v, ok := q.TryPop()
				if !ok {
					continue
				}
				mu.Lock()
				seen[v]++
				mu.Unlock()
				atomic.AddInt64(&popped, 1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	for i, count := range seen {
		if count != 1 {
			t.Fatalf("item %d delivered %d times, want exactly 1", i, count)
		}
	}
}

func TestBoundedSPMCFullEmptyBoundaries(t *testing.T) {
	q := NewBoundedSPMC[int](2)
	if !q.TryPush(1) || !q.TryPush(2) {
		t.Fatal("expected both pushes to succeed")
	}
	if q.TryPush(3) {
		t.Fatal("push into full ring should fail")
	}
	if v, ok := q.TryPop(); !ok || v != 1 {
		t.Fatalf("got (%v, %v), want (1, true)", v, ok)
	}
}
