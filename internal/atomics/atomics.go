// Package atomics provides the typed atomic wrappers, cache-line isolation
// helpers and spin-backoff primitive that every other package in this module
// builds on.
//
// The wrapper types name their methods after the memory-ordering hint they
// provide (LoadAcquire, StoreRelease, CompareAndSwapAcqRel, ...) rather than
// exposing a raw ordering parameter, mirroring the style of the ordering-
// explicit atomic packages referenced by the lock-free queue algorithms this
// module implements. Go's runtime documents every sync/atomic operation as
// sequentially consistent, which is strictly stronger than the
// acquire/release discipline this library actually requires (see
// DESIGN.md) — so each method below is a thin, zero-cost rename over the
// stdlib operation with that ordering, kept distinct so call sites read the
// way the algorithms they implement are usually described.
//
// Go has no standalone CPU fence instruction and no separate "weak" CAS;
// FenceAcquire/FenceRelease/FenceFull are documented no-ops kept for API
// completeness, and CompareAndSwapWeakAcqRel is a plain CAS a caller is
// expected to retry, exactly like CompareAndSwapAcqRel.
//
// © 2026 lfcore authors. MIT License.
package atomics

import (
	"runtime"
	"sync/atomic"
)

// CacheLineSize is the assumed cache line width used to isolate hot atomic
// fields from their neighbors. 64 is correct for the overwhelming majority
// of deployed hardware; platforms whose prefetcher pairs adjacent lines (128B
// effective) are not specifically targeted by this library.
const CacheLineSize = 64

// Pad reserves a cache line's worth of space between two fields so they
// never share a line and false-share under contention.
type Pad [CacheLineSize]byte

// FenceAcquire is a documented no-op: every wrapper method in this package
// already carries acquire ordering into its underlying atomic instruction.
func FenceAcquire() {}

// FenceRelease is a documented no-op; see FenceAcquire.
func FenceRelease() {}

// FenceFull is a documented no-op; see FenceAcquire.
func FenceFull() {}

// Bool is a typed atomic boolean with explicit-ordering accessors.
type Bool struct{ v atomic.Bool }

func (b *Bool) LoadAcquire() bool     { return b.v.Load() }
func (b *Bool) LoadRelaxed() bool     { return b.v.Load() }
func (b *Bool) StoreRelease(val bool) { b.v.Store(val) }
func (b *Bool) StoreRelaxed(val bool) { b.v.Store(val) }
func (b *Bool) CompareAndSwapAcqRel(old, new bool) bool {
	return b.v.CompareAndSwap(old, new)
}

// Int64 is a typed atomic signed 64-bit integer with explicit-ordering
// accessors.
type Int64 struct{ v atomic.Int64 }

func (i *Int64) LoadAcquire() int64      { return i.v.Load() }
func (i *Int64) LoadRelaxed() int64      { return i.v.Load() }
func (i *Int64) StoreRelease(val int64)  { i.v.Store(val) }
func (i *Int64) StoreRelaxed(val int64)  { i.v.Store(val) }
func (i *Int64) AddAcqRel(delta int64) int64 { return i.v.Add(delta) }
func (i *Int64) AddRelaxed(delta int64) int64 { return i.v.Add(delta) }
func (i *Int64) CompareAndSwapAcqRel(old, new int64) bool {
	return i.v.CompareAndSwap(old, new)
}

// Uint32 is a typed atomic unsigned 32-bit integer with explicit-ordering
// accessors.
type Uint32 struct{ v atomic.Uint32 }

func (u *Uint32) LoadAcquire() uint32     { return u.v.Load() }
func (u *Uint32) LoadRelaxed() uint32     { return u.v.Load() }
func (u *Uint32) StoreRelease(val uint32) { u.v.Store(val) }
func (u *Uint32) StoreRelaxed(val uint32) { u.v.Store(val) }
func (u *Uint32) AddAcqRel(delta uint32) uint32 { return u.v.Add(delta) }
func (u *Uint32) CompareAndSwapAcqRel(old, new uint32) bool {
	return u.v.CompareAndSwap(old, new)
}

// Uint64 is a typed atomic unsigned 64-bit integer with explicit-ordering
// accessors. This is the workhorse type for ring-buffer indices, per-cell
// sequence numbers and epoch counters.
type Uint64 struct{ v atomic.Uint64 }

func (u *Uint64) LoadAcquire() uint64     { return u.v.Load() }
func (u *Uint64) LoadRelaxed() uint64     { return u.v.Load() }
func (u *Uint64) StoreRelease(val uint64) { u.v.Store(val) }
func (u *Uint64) StoreRelaxed(val uint64) { u.v.Store(val) }
func (u *Uint64) AddAcqRel(delta uint64) uint64  { return u.v.Add(delta) }
func (u *Uint64) AddRelaxed(delta uint64) uint64 { return u.v.Add(delta) }
func (u *Uint64) CompareAndSwapAcqRel(old, new uint64) bool {
	return u.v.CompareAndSwap(old, new)
}

// CompareAndSwapWeakAcqRel behaves identically to CompareAndSwapAcqRel. Go's
// stdlib exposes only a strong CAS; callers that loop on failure (every call
// site in this module does) get the same effect as a weak CAS that is
// allowed to fail spuriously.
func (u *Uint64) CompareAndSwapWeakAcqRel(old, new uint64) bool {
	return u.v.CompareAndSwap(old, new)
}

// Pointer is a typed atomic pointer with explicit-ordering accessors.
type Pointer[T any] struct{ v atomic.Pointer[T] }

func (p *Pointer[T]) LoadAcquire() *T      { return p.v.Load() }
func (p *Pointer[T]) LoadRelaxed() *T      { return p.v.Load() }
func (p *Pointer[T]) StoreRelease(val *T)  { p.v.Store(val) }
func (p *Pointer[T]) StoreRelaxed(val *T)  { p.v.Store(val) }
func (p *Pointer[T]) CompareAndSwapAcqRel(old, new *T) bool {
	return p.v.CompareAndSwap(old, new)
}

// Backoff implements a spin-then-yield retry strategy for CAS loops. Call
// Spin on every failed retry and Reset once progress is made; this is the
// sole suspension point any lock-free algorithm in this module may use — it
// never blocks, only spins and occasionally yields the scheduling quantum.
type Backoff struct {
	spins int
}

const backoffSpinLimit = 6

// Spin performs one backoff step: a short busy loop while contention is
// still young, escalating to runtime.Gosched() once the caller has retried
// enough times that yielding the P is more productive than burning cycles.
func (b *Backoff) Spin() {
	if b.spins < backoffSpinLimit {
		n := 1 << uint(b.spins)
		for i := 0; i < n; i++ {
			procyield()
		}
		b.spins++
		return
	}
	runtime.Gosched()
}

// Reset clears the escalation counter after a successful operation so the
// next contended retry starts from the cheapest spin again.
func (b *Backoff) Reset() { b.spins = 0 }

// procyield is a minimal CPU-relax primitive. Go does not expose the PAUSE/
// YIELD instruction directly from pure Go code without per-arch assembly;
// runtime.Gosched is the portable stand-in used once backoff has escalated,
// and this tiny loop is the pre-escalation "do a little local work" step.
func procyield() {
	var x int
	for i := 0; i < 1; i++ {
		x++
	}
	_ = x
}

// IsPowerOfTwo reports whether x has exactly one bit set.
func IsPowerOfTwo(x uint64) bool {
	return x != 0 && x&(x-1) == 0
}

// NextPowerOfTwo rounds x up to the next power of two. NextPowerOfTwo(0)
// returns 1.
func NextPowerOfTwo(x uint64) uint64 {
	if x == 0 {
		return 1
	}
	if IsPowerOfTwo(x) {
		return x
	}
	x--
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	x |= x >> 32
	return x + 1
}
