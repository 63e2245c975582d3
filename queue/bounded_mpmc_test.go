package queue

// © 2026 lfcore authors. MIT License.

import (
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"
)

// TestBoundedMPMCChurnConservesCount drives scenario D: many producers and
// many consumers racing against a small ring, and checks that every produced
// item is eventually consumed exactly once — no duplication, no loss.
func TestBoundedMPMCChurnConservesCount(t *testing.T) {
	const (
		producers    = 8
		consumers    = 8
		perProducer  = 5000
		totalItems   = producers * perProducer
	)
	q := NewBoundedMPMC[int](64)

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

	seen := make([]int32, totalItems)
	var mu sync.Mutex
	popped := 0

	var cg errgroup.Group
	stop := make(chan struct{})
	for c := 0; c < consumers; c++ {
		cg.Go(func() error {
			for {
				select {
				case <-stop:
					return nil
				default:
				}
				v, ok := q.TryPop()
				if !ok {
					continue
				}
				mu.Lock()
				seen[v]++
				popped++
				done := popped == totalItems
				mu.Unlock()
				if done {
					close(stop)
					return nil
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if err := cg.Wait(); err != nil {
		t.Fatal(err)
	}

	for i, count := range seen {
		if count != 1 {
			t.Fatalf("item %d consumed %d times, want exactly 1", i, count)
		}
	}
}

func TestBoundedMPMCFullEmptyBoundaries(t *testing.T) {
	q := NewBoundedMPMC[int](2)
	if !q.TryPush(1) || !q.TryPush(2) {
		t.Fatal("expected both pushes to succeed")
	}
	if q.TryPush(3) {
		t.Fatal("push into full ring should fail")
	}
	v, ok := q.TryPop()
	if !ok || v != 1 {
		t.Fatalf("got (%v, %v), want (1, true)", v, ok)
	}
	v, ok = q.TryPop()
	if !ok || v != 2 {
		t.Fatalf("got (%v, %v), want (2, true)", v, ok)
	}
	if _, ok := q.TryPop(); ok {
		t.Fatal("pop from empty ring should fail")
	}
}
