package queue

// © 2026 lfcore authors. MIT License.

import "github.com/Voskan/lfcore/internal/atomics"

// BoundedSPMC is a fixed-capacity single-producer/multi-consumer ring
// buffer. The single producer owns enqueue outright; consumers contend for
// cells exactly as in BoundedMPMC (spec.md §4.4.4).
type BoundedSPMC[T any] struct {
	_        atomics.Pad
	enqueue  atomics.Uint64
	_        atomics.Pad
	dequeue  atomics.Uint64
	_        atomics.Pad

	cells    []cell[T]
	mask     uint64
	capacity uint64
}

// NewBoundedSPMC constructs a ring of the given capacity, rounded up to the
// next power of two.
func NewBoundedSPMC[T any](capacity int) *BoundedSPMC[T] {
	if capacity < 1 {
		panic("queue: capacity must be >= 1")
	}
	n := atomics.NextPowerOfTwo(uint64(capacity))
	q := &BoundedSPMC[T]{
		cells:    make([]cell[T], n),
		mask:     n - 1,
		capacity: n,
	}
	for i := range q.cells {
		q.cells[i].seq.StoreRelease(uint64(i))
	}
	return q
}

// TryPush enqueues v, returning false if the ring is full. Only the single
// producer goroutine may call this.
func (q *BoundedSPMC[T]) TryPush(v T) bool {
	pos := q.enqueue.LoadRelaxed() // sole owner: no cross-producer contention
	c := &q.cells[pos&q.mask]
	seq := c.seq.LoadAcquire()
	if int64(seq)-int64(pos) != 0 {
		return false
	}

	c.value = v
	q.enqueue.StoreRelease(pos + 1)
	c.seq.StoreRelease(pos + 1)
	return true
}

// TryPop dequeues the oldest value, returning false if the ring is empty.
func (q *BoundedSPMC[T]) TryPop() (T, bool) {
	var zero T
	var bo atomics.Backoff
	pos := q.dequeue.LoadAcquire()
	for {
		c := &q.cells[pos&q.mask]
		seq := c.seq.LoadAcquire()
		diff := int64(seq) - int64(pos+1)

		switch {
		case diff == 0:
			if q.dequeue.CompareAndSwapAcqRel(pos, pos+1) {
				v := c.value
				c.value = zero
				c.seq.StoreRelease(pos + q.capacity)
				return v, true
			}
			bo.Spin()
			pos = q.dequeue.LoadAcquire()
		case diff < 0:
			return zero, false
		default:
			pos = q.dequeue.LoadAcquire()
		}
	}
}

// Cap returns the ring's usable capacity.
func (q *BoundedSPMC[T]) Cap() int { return int(q.capacity) }
