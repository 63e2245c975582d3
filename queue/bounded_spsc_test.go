package queue

// © 2026 lfcore authors. MIT License.

import "testing"

func TestBoundedSPSCFIFOOrder(t *testing.T) {
	q := NewBoundedSPSC[int](8)

	done := make(chan struct{})
	const n = 1000

	go func() {
		defer close(done)
		for i := 0; i < n; {
			if q.TryPush(i) {
				i++
			}
		}
	}()

	for i := 0; i < n; {
		v, ok := q.TryPop()
		if !ok {
			continue
		}
		if v != i {
			t.Fatalf("out-of-order pop: got %d, want %d", v, i)
		}
		i++
	}
	<-done
}

func TestBoundedSPSCFullEmptyBoundaries(t *testing.T) {
	q := NewBoundedSPSC[int](4)
	if q.Cap() != 4 {
		t.Fatalf("Cap() = %d, want 4", q.Cap())
	}

	for i := 0; i < 4; i++ {
		if !q.TryPush(i) {
			t.Fatalf("push %d should have succeeded on empty ring", i)
		}
	}
	if q.TryPush(99) {
		t.Fatal("push into full ring should fail")
	}

	for i := 0; i < 4; i++ {
		v, ok := q.TryPop()
		if !ok || v != i {
			t.Fatalf("pop %d: got (%v, %v)", i, v, ok)
		}
	}
	if _, ok := q.TryPop(); ok {
		t.Fatal("pop from empty ring should fail")
	}
}

func TestBoundedSPSCRoundsCapacityUpToPowerOfTwo(t *testing.T) {
	q := NewBoundedSPSC[int](5)
	if q.Cap() != 8 {
		t.Fatalf("Cap() = %d, want 8", q.Cap())
	}
}

func TestBoundedSPSCPanicsOnZeroCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for zero capacity")
		}
	}()
	NewBoundedSPSC[int](0)
}
