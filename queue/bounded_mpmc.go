package queue

// © 2026 lfcore authors. MIT License.

import "github.com/Voskan/lfcore/internal/atomics"

// cell is a Vyukov ring slot: seq encodes whether the slot is empty or full
// for a given lap, so a producer/consumer can tell at a glance whether the
// slot belongs to them without taking a lock (spec.md §4.4.2).
type cell[T any] struct {
	seq   atomics.Uint64
	value T
}

// BoundedMPMC is a fixed-capacity multi-producer/multi-consumer ring buffer
// using Dmitry Vyukov's per-cell sequence-number algorithm: every cell owns a
// sequence counter that holds pos while the cell is empty and waiting for the
// producer at position pos, pos+1 once that producer has filled it, and
// pos+capacity after the consumer has emptied it for the next lap. Producers
// claim positions by CAS on the enqueue index and consumers by CAS on the
// dequeue index; the seq check tells each side whether its cell is ready.
type BoundedMPMC[T any] struct {
	_        atomics.Pad
	enqueue  atomics.Uint64
	_        atomics.Pad
	dequeue  atomics.Uint64
	_        atomics.Pad

	cells    []cell[T]
	mask     uint64
	capacity uint64
}

// NewBoundedMPMC constructs a ring of the given capacity, rounded up to the
// next power of two. Each cell's initial sequence is seeded to its own index
// so the first producer to reach it sees seq == its own enqueue position.
func NewBoundedMPMC[T any](capacity int) *BoundedMPMC[T] {
	if capacity < 1 {
		panic("queue: capacity must be >= 1")
	}
	n := atomics.NextPowerOfTwo(uint64(capacity))
	q := &BoundedMPMC[T]{
		cells:    make([]cell[T], n),
		mask:     n - 1,
		capacity: n,
	}
	for i := range q.cells {
		q.cells[i].seq.StoreRelease(uint64(i))
	}
	return q
}

// TryPush enqueues v, returning false if the ring is full. Contending
// producers race a CAS on the shared enqueue index; the loser simply retries
// against whatever cell it lands on next, never blocking the winner.
func (q *BoundedMPMC[T]) TryPush(v T) bool {
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
			return false // ring is full
		default:
			pos = q.enqueue.LoadAcquire()
		}
	}
}

// TryPop dequeues the oldest value, returning false if the ring is empty.
func (q *BoundedMPMC[T]) TryPop() (T, bool) {
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
			return zero, false // ring is empty
		default:
			pos = q.dequeue.LoadAcquire()
		}
	}
}

// Cap returns the ring's usable capacity.
func (q *BoundedMPMC[T]) Cap() int { return int(q.capacity) }
