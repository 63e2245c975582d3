package queue

// © 2026 lfcore authors. MIT License.

import "github.com/Voskan/lfcore/internal/atomics"

// BoundedMPSC is a fixed-capacity multi-producer/single-consumer ring
// buffer. Producers contend for cells exactly as in BoundedMPMC; the single
// consumer owns dequeue outright and never needs a CAS to claim a cell,
// only the release-publish that lets the next producer reuse it (spec.md
// §4.4.3).
type BoundedMPSC[T any] struct {
	_        atomics.Pad
	enqueue  atomics.Uint64
	_        atomics.Pad
	dequeue  atomics.Uint64
	_        atomics.Pad

	cells    []cell[T]
	mask     uint64
	capacity uint64
}

// NewBoundedMPSC constructs a ring of the given capacity, rounded up to the
// next power of two.
func NewBoundedMPSC[T any](capacity int) *BoundedMPSC[T] {
	if capacity < 1 {
		panic("queue: capacity must be >= 1")
	}
	n := atomics.NextPowerOfTwo(uint64(capacity))
	q := &BoundedMPSC[T]{
		cells:    make([]cell[T], n),
		mask:     n - 1,
		capacity: n,
	}
	for i := range q.cells {
		q.cells[i].seq.StoreRelease(uint64(i))
	}
	return q
}

// TryPush enqueues v, returning false if the ring is full.
func (q *BoundedMPSC[T]) TryPush(v T) bool {
	var bo atomics.Backoff
	pos := q.enqueue.LoadAcquire()
	for {
		c := &q.cells[pos&q.mask]
		seq := c.seq.LoadAcquire()
		diff := int64(seq) - int64(pos)

		switch {
		case diff == 0:
			if q.enqueue.CompareAndSwapAcqRel(pos, pos+1) {
				c.value = v
				c.seq.StoreRelease(pos + 1)
				return true
			}
			bo.Spin()
			pos = q.enqueue.LoadAcquire()
		case diff < 0:
			return false
		default:
			pos = q.enqueue.LoadAcquire()
		}
	}
}

// TryPop dequeues the oldest value, returning false if the ring is empty.
// Only the single consumer goroutine may call this.
func (q *BoundedMPSC[T]) TryPop() (T, bool) {
	var zero T
	pos := q.dequeue.LoadRelaxed() // sole owner: no cross-consumer contention
	c := &q.cells[pos&q.mask]
	seq := c.seq.LoadAcquire()
	if int64(seq)-int64(pos+1) != 0 {
		return zero, false
	}

	v := c.value
	c.value = zero
	q.dequeue.StoreRelease(pos + 1)
	c.seq.StoreRelease(pos + q.capacity)
	return v, true
}

// Cap returns the ring's usable capacity.
func (q *BoundedMPSC[T]) Cap() int { return int(q.capacity) }
