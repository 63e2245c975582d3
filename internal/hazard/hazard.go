// Package hazard implements a hazard-pointer manager: the mechanism that
// lets a reader publish "I am about to dereference p" before any reclaimer
// frees p, so free-before-last-use is impossible.
//
// The snapshot-then-sweep reclamation shape is grounded on the lock-free
// string interning table in the retrieval corpus (hazard slot array scanned
// by isProtectedByHazardPointer before a retired node is freed); the
// fixed-size per-thread record table and lazy/degrading registration scheme
// follow spec.md §4.2 directly.
//
// A Manager is parameterized on the node type T it protects. Each unbounded
// SPMC/MPMC queue variant owns one Manager[node[T]] instance; the manager is
// not a process-wide singleton (see SPEC_FULL.md §3 for why Go generics rule
// that out).
//
// © 2026 lfcore authors. MIT License.
package hazard

import (
	"sync"

	"github.com/Voskan/lfcore/internal/atomics"
)

const (
	maxThreads     = 128
	slotsPerThread = 2
)

type retired[T any] struct {
	ptr     *T
	deleter func(*T)
}

type record[T any] struct {
	active  atomics.Bool
	hazards [slotsPerThread]atomics.Pointer[T]

	retiredMu sync.Mutex
	retired   []retired[T]
}

// Manager owns a fixed-size table of per-thread hazard records plus a pool
// that lends already-registered records back to callers so repeat callers on
// the same goroutine usually avoid the registration scan.
type Manager[T any] struct {
	records [maxThreads]record[T]
	pool    sync.Pool
}

// NewManager constructs an empty hazard-pointer manager.
func NewManager[T any]() *Manager[T] {
	m := &Manager[T]{}
	m.pool.New = func() any { return nil }
	return m
}

// Handle is a scoped hazard-pointer acquisition: the "scoped-acquisition
// wrapper" spec.md §4.2 requires. Callers must defer Release() immediately
// after Acquire() returns so every exit path — including a panic unwinding
// through the caller — clears the thread's hazard slots.
type Handle[T any] struct {
	mgr *Manager[T]
	idx int
}

// Acquire reserves a hazard record for the calling goroutine's use for the
// duration of one operation. Registration is lock-free in the common case
// (a pooled handle from a prior Acquire/Release pair); on a cold start it
// scans the fixed table for an inactive record, and degrades to reusing the
// last slot if the table is completely full rather than failing — exactly
// the fallback spec.md §4.2 calls for.
func (m *Manager[T]) Acquire() *Handle[T] {
	if h, ok := m.pool.Get().(*Handle[T]); ok && h != nil {
		m.records[h.idx].active.StoreRelease(true)
		return h
	}

	for i := range m.records {
		if m.records[i].active.CompareAndSwapAcqRel(false, true) {
			return &Handle[T]{mgr: m, idx: i}
		}
	}

	// Degradation path: every slot is occupied. Fall back to the last slot
	// rather than failing. Handles sharing that record write the same hazard
	// slots, so one handle's Protect overwrites another's published pointer
	// and one handle's Release clears the slots and the active flag for all
	// of them; protection is not guaranteed on this path.
	last := len(m.records) - 1
	m.records[last].active.StoreRelease(true)
	return &Handle[T]{mgr: m, idx: last}
}

// Protect publishes p into the handle's slot-th hazard slot with release
// ordering and returns p for convenience, matching spec.md §4.2's contract.
func (h *Handle[T]) Protect(slot int, p *T) *T {
	h.mgr.records[h.idx].hazards[slot].StoreRelease(p)
	return p
}

// Acquire repeatedly loads atomicRef with acquire ordering, publishes the
// observed value into the handle's hazard slot, then re-loads and compares —
// the re-check loop spec.md §4.2 requires before a caller may trust the
// pointer is stable under publication.
func (h *Handle[T]) Acquire(slot int, atomicRef *atomics.Pointer[T]) *T {
	for {
		p := atomicRef.LoadAcquire()
		h.Protect(slot, p)
		if atomicRef.LoadAcquire() == p {
			return p
		}
	}
}

// Clear clears one of the handle's hazard slots.
func (h *Handle[T]) Clear(slot int) {
	h.mgr.records[h.idx].hazards[slot].StoreRelease(nil)
}

// Release clears every slot owned by the handle and returns it to the pool,
// implementing the scoped-acquisition guarantee: callers defer this right
// after Acquire() so the slot is freed on every exit path.
func (h *Handle[T]) Release() {
	rec := &h.mgr.records[h.idx]
	for i := range rec.hazards {
		rec.hazards[i].StoreRelease(nil)
	}
	rec.active.StoreRelease(false)
	h.mgr.pool.Put(h)
}

const retireThreshold = 64

// Retire enqueues p with its deleter onto the handle's thread-local retired
// list. retire is never rejected; once the list grows past a threshold the
// handle attempts reclamation on its own retired entries.
func (h *Handle[T]) Retire(p *T, deleter func(*T)) {
	rec := &h.mgr.records[h.idx]
	rec.retiredMu.Lock()
	rec.retired = append(rec.retired, retired[T]{ptr: p, deleter: deleter})
	shouldReclaim := len(rec.retired) >= retireThreshold
	rec.retiredMu.Unlock()

	if shouldReclaim {
		h.mgr.tryReclaim(rec)
	}
}

// tryReclaim builds a snapshot of every active record's hazard pointers and
// frees any retired entry in rec whose pointer is absent from that snapshot.
func (m *Manager[T]) tryReclaim(rec *record[T]) {
	hazardSet := m.snapshotHazards()

	rec.retiredMu.Lock()
	defer rec.retiredMu.Unlock()

	kept := rec.retired[:0]
	for _, e := range rec.retired {
		if _, stillHazarded := hazardSet[e.ptr]; stillHazarded {
			kept = append(kept, e)
			continue
		}
		e.deleter(e.ptr)
	}
	rec.retired = kept
}

func (m *Manager[T]) snapshotHazards() map[*T]struct{} {
	set := make(map[*T]struct{}, maxThreads*slotsPerThread)
	for i := range m.records {
		rec := &m.records[i]
		if !rec.active.LoadAcquire() {
			continue
		}
		for s := range rec.hazards {
			if p := rec.hazards[s].LoadAcquire(); p != nil {
				set[p] = struct{}{}
			}
		}
	}
	return set
}

// Drain reclaims every retired entry across every thread's retired list that
// is not currently hazarded. With force=true it frees unconditionally — but
// only after confirming every record is inactive, since an unconditional
// free while a reader is mid-traversal is a use-after-free. This is the
// resolved Open Question from spec.md §9: the teacher's silent
// unconditional free under force=true is not preserved.
func (m *Manager[T]) Drain(force bool) {
	if force {
		for i := range m.records {
			if m.records[i].active.LoadAcquire() {
				panic("hazard: Drain(force=true) called while a record is still active")
			}
		}
		for i := range m.records {
			rec := &m.records[i]
			rec.retiredMu.Lock()
			for _, e := range rec.retired {
				e.deleter(e.ptr)
			}
			rec.retired = nil
			rec.retiredMu.Unlock()
		}
		return
	}

	for i := range m.records {
		m.tryReclaim(&m.records[i])
	}
}

// Stats reports informational counters only; see spec.md §6.
type Stats struct {
	ActiveHandles int
	RetiredTotal  int
}

// Stats snapshots the manager's current occupancy. Not synchronized with any
// single instant — every field is read independently, consistent with the
// "informational only" contract spec.md §6 documents for debug counters.
func (m *Manager[T]) Stats() Stats {
	var s Stats
	for i := range m.records {
		rec := &m.records[i]
		if rec.active.LoadAcquire() {
			s.ActiveHandles++
		}
		rec.retiredMu.Lock()
		s.RetiredTotal += len(rec.retired)
		rec.retiredMu.Unlock()
	}
	return s
}
