package queue

// © 2026 lfcore authors. MIT License.

import (
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"
)

// TestBoundedMPSCCountConservation drives scenario B: many producers and one
// consumer, checking that every produced value is received exactly once.
func TestBoundedMPSCCountConservation(t *testing.T) {
	const producers = 16
	const perProducer = 2000
	const total = producers * perProducer

	q := NewBoundedMPSC[int](128)

	var g errgroup.Group
	for p := 0; p < producers; p++ {
		p := p
		g.Go(func() error {
			base := p * perProducer
			for i := 0; i < perProducer; i++ {
				for !q.TryPush(base + i) {
				}
			}
			return nil
		})
	}

	var mu sync.Mutex
	seen := make([]int32, total)
	popped := 0
	done := make(chan struct{})

	go func() {
		for popped < total {
			v, ok := q.TryPop()
			if !ok {
				continue
			}
			mu.Lock()
			seen[v]++
			popped++
			mu.Unlock()
		}
		close(done)
	}()

	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	<-done

	for i, count := range seen {
		if count != 1 {
			t.Fatalf("item %d consumed %d times, want exactly 1", i, count)
		}
	}
}

func TestBoundedMPSCFullEmptyBoundaries(t *testing.T) {
	q := NewBoundedMPSC[int](2)
	if !q.TryPush(1) || !q.TryPush(2) {
		t.Fatal("expected both pushes to succeed")
	}
	if q.TryPush(3) {
		t.Fatal("push into full ring should fail")
	}
	if v, ok := q.TryPop(); !ok || v != 1 {
		t.Fatalf("got (%v, %v), want (1, true)", v, ok)
	}
	if _, ok := q.TryPop(); !ok {
		t.Fatal("expected second pop to succeed")
	}
	if _, ok := q.TryPop(); ok {
		t.Fatal("pop from empty ring should fail")
	}
}
