// Package epoch implements epoch-based reclamation (EBR): amortized memory
// reclamation for high-frequency read paths, replacing per-access hazard
// publications with per-critical-section epoch snapshots.
//
// The global-epoch/reader-registry/retired-list shape is grounded on the
// cowbtree package's EpochManager in the retrieval corpus, adapted from its
// unbounded sync.Map reader registry to the fixed-size per-reader table
// spec.md §4.3/§6 require (the cowbtree version is an internal helper for a
// single B-tree and never needs to bound its reader count; this module's
// reclaimer is a reusable primitive that must make "exhausted slots" a
// unrecoverable, testable condition).
//
// © 2026 lfcore authors. MIT License.
package epoch

import (
	"sync"

	"github.com/Voskan/lfcore/internal/atomics"
)

const (
	maxReaders         = 128
	advanceEveryNExits = 16
	retireThreshold    = 64
)

type readerRecord struct {
	active     atomics.Bool
	localEpoch atomics.Uint64
	exits      atomics.Uint32
}

type retired[T any] struct {
	ptr      *T
	deleter  func(*T)
	epoch    uint64
}

// Reclaimer is the epoch-based reclaimer instance. It is parameterized on
// the node type T it retires; like hazard.Manager it is not a process-wide
// singleton (see SPEC_FULL.md §3).
type Reclaimer[T any] struct {
	globalEpoch atomics.Uint64

	records [maxReaders]readerRecord

	retiredMu [maxReaders]sync.Mutex
	retired   [maxReaders][]retired[T]

	nextBucket atomics.Uint32 // round-robins Retire across retired buckets
}

// NewReclaimer constructs a reclaimer with the global epoch starting at 1
// (0 is reserved to mean "never retired" so a zero-value retired entry can
// never be mistaken for a live one).
func NewReclaimer[T any]() *Reclaimer[T] {
	r := &Reclaimer[T]{}
	r.globalEpoch.StoreRelease(1)
	return r
}

// Guard represents one reader's critical section. Enter claims a slot and
// snapshots the global epoch; Exit releases the slot and, periodically,
// attempts to advance the global epoch.
type Guard[T any] struct {
	r    *Reclaimer[T]
	slot int
}

// Enter begins a read-side critical section. It panics with a descriptive
// message if every reader slot is occupied by another live reader — the one
// unrecoverable failure this package exposes, per spec.md §4.3/§7 ("the
// reclaimer fails loudly... a configuration bug, not something to paper
// over").
//
// Note this bounds concurrent *readers*, not *threads ever seen*: a guard is
// acquired and released once per critical section (e.g. once per Find call
// on the hash map), so the table only needs to be as large as the highest
// number of hash-map reads genuinely in flight at once. This differs from
// hazard.Manager's handle-pool model, which amortizes registration across
// many short operations from the same goroutine; see SPEC_FULL.md §4.3 for
// why the two packages use different slot-lifetime models.
func (r *Reclaimer[T]) Enter() *Guard[T] {
	for i := range r.records {
		if r.records[i].active.CompareAndSwapAcqRel(false, true) {
			r.records[i].localEpoch.StoreRelease(r.globalEpoch.LoadAcquire())
			return &Guard[T]{r: r, slot: i}
		}
	}
	panic("epoch: exhausted reader slots")
}

// Exit ends the critical section. Every advanceEveryNExits exits, the
// releasing goroutine attempts to advance the global epoch — this amortizes
// the cost of scanning every reader record across many Exit calls instead of
// paying it on every single one.
func (g *Guard[T]) Exit() {
	rec := &g.r.records[g.slot]
	rec.active.StoreRelease(false)

	if rec.exits.AddAcqRel(1)%advanceEveryNExits == 0 {
		g.r.tryAdvance()
	}
}

// Epoch returns the epoch this guard entered at.
func (g *Guard[T]) Epoch() uint64 {
	return g.r.records[g.slot].localEpoch.LoadAcquire()
}

// tryAdvance computes the minimum local epoch among active readers and CASes
// the global epoch to min+1, guaranteeing that by the time globalEpoch
// reaches e+2, every reader active at epoch <= e has exited — exactly the
// invariant spec.md §4.3 requires.
func (r *Reclaimer[T]) tryAdvance() {
	minActive, anyActive := r.minActiveEpoch()
	current := r.globalEpoch.LoadAcquire()

	if !anyActive {
		r.globalEpoch.StoreRelease(current + 1)
		return
	}
	target := minActive + 1
	if target > current {
		r.globalEpoch.CompareAndSwapAcqRel(current, target)
	}
}

func (r *Reclaimer[T]) minActiveEpoch() (min uint64, anyActive bool) {
	min = r.globalEpoch.LoadAcquire()
	for i := range r.records {
		if !r.records[i].active.LoadAcquire() {
			continue
		}
		e := r.records[i].localEpoch.LoadAcquire()
		if !anyActive || e < min {
			min = e
			anyActive = true
		}
	}
	return min, anyActive
}

// Retire appends p (with its deleter and the current global epoch) to a
// retired bucket. Past a threshold the caller's goroutine attempts cleanup
// of the same bucket. There is no user-visible error: retire is never
// rejected, per spec.md §7.
func (r *Reclaimer[T]) Retire(p *T, deleter func(*T)) {
	bucket := int(r.nextBucket.AddAcqRel(1)) % maxReaders

	epochNow := r.globalEpoch.LoadAcquire()

	r.retiredMu[bucket].Lock()
	r.retired[bucket] = append(r.retired[bucket], retired[T]{ptr: p, deleter: deleter, epoch: epochNow})
	shouldClean := len(r.retired[bucket]) >= retireThreshold
	r.retiredMu[bucket].Unlock()

	if shouldClean {
		r.cleanupBucket(bucket)
	}
}

// safeEpoch is the minimum of active readers' local epochs, or
// globalEpoch+1 if no reader is active — any retired entry stamped strictly
// before this epoch is provably unreachable by any current reader.
func (r *Reclaimer[T]) safeEpoch() uint64 {
	min, anyActive := r.minActiveEpoch()
	if !anyActive {
		return r.globalEpoch.LoadAcquire() + 1
	}
	return min
}

func (r *Reclaimer[T]) cleanupBucket(bucket int) {
	safe := r.safeEpoch()

	r.retiredMu[bucket].Lock()
	defer r.retiredMu[bucket].Unlock()

	kept := r.retired[bucket][:0]
	for _, e := range r.retired[bucket] {
		if e.epoch < safe {
			e.deleter(e.ptr)
			continue
		}
		kept = append(kept, e)
	}
	r.retired[bucket] = kept
}

// Cleanup forces a cleanup pass across every retired bucket. Unlike
// hazard.Manager.Drain, there is no force-unconditional variant: an EBR
// retired entry's epoch stamp already proves (or disproves) safety, so there
// is never a situation where freeing an entry still short of the safe epoch
// would be anything but a bug.
func (r *Reclaimer[T]) Cleanup() {
	for i := range r.retired {
		r.cleanupBucket(i)
	}
}

// Stats reports informational counters only; see spec.md §6.
type Stats struct {
	GlobalEpoch   uint64
	ActiveReaders int
	Retired       int
}

func (r *Reclaimer[T]) Stats() Stats {
	s := Stats{GlobalEpoch: r.globalEpoch.LoadAcquire()}
	for i := range r.records {
		if r.records[i].active.LoadAcquire() {
			s.ActiveReaders++
		}
	}
	for i := range r.retired {
		r.retiredMu[i].Lock()
		s.Retired += len(r.retired[i])
		r.retiredMu[i].Unlock()
	}
	return s
}
