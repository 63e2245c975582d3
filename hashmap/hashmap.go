package hashmap

// © 2026 lfcore authors. MIT License.

import (
	"errors"
	"math/bits"
	"runtime"

	"go.uber.org/zap"

	"github.com/Voskan/lfcore/internal/atomics"
	"github.com/Voskan/lfcore/internal/epoch"
)

// Sentinel errors returned by New for constructor-argument validation
// failures. Every per-operation outcome (inserted/already-present,
// found/not-found) stays a boolean return, never an error; these two are the
// only error values this package defines.
var (
	ErrNilHasher    = errors.New("hashmap: hasher must not be nil")
	ErrInvalidShape = errors.New("hashmap: shards and buckets must be >= 0")
)

// node is one entry in a bucket's singly-linked chain. A published node's
// value and next are never mutated in place: Insert is a no-op on a key
// that is already present, and Erase unlinks a node wholesale and hands it
// to the map's epoch reclaimer rather than editing it — the discipline a
// lock-free reader needs to never observe a half-written entry.
type node[K comparable, V any] struct {
	key   K
	value V
	next  atomics.Pointer[node[K, V]]
}

// bucket is one chain, guarded on the write side by a spin lock. Find never
// takes this lock: it walks the chain via next's acquire loads, relying on
// the map's epoch guard to keep any node it touches alive.
type bucket[K comparable, V any] struct {
	head atomics.Pointer[node[K, V]]
	lock atomics.SpinLock
}

// shard owns a slice of bucket chains and an approximate live-entry count.
type shard[K comparable, V any] struct {
	buckets []bucket[K, V]
	size    atomics.Int64
}

// Map is a sharded concurrent hash map. Find never blocks on a writer;
// writes (Insert, Erase) and Range take per-bucket spin locks, one at a
// time, never across buckets or shards.
type Map[K comparable, V any] struct {
	shards     []shard[K, V]
	shardMask  uint64
	shardBits  uint
	bucketMask uint64
	bucketN    int

	totalSize atomics.Int64
	reclaimer *epoch.Reclaimer[node[K, V]]
	hasher    func(K) uint64

	metrics metricsSink
	logger  *zap.Logger

	hits       atomics.Uint64
	misses     atomics.Uint64
	inserts    atomics.Uint64
	duplicates atomics.Uint64
	erases     atomics.Uint64
	notFound   atomics.Uint64
}

const (
	minAutoShards = 8
	maxAutoShards = 512
	defaultBuckets = 16
)

// New constructs a Map. hasher must not be nil — unlike the bounded queues,
// a zero/garbage hasher cannot be caught at compile time, so this is a
// sentinel-error constructor failure rather than a panic. shards == 0
// auto-selects clamp(nextPow2(4*runtime.NumCPU()), 8, 512); buckets == 0
// defaults to 16. Both are otherwise rounded up to the next power of two.
func New[K comparable, V any](shards, buckets int, hasher func(K) uint64, opts ...Option[K, V]) (*Map[K, V], error) {
	if hasher == nil {
		return nil, ErrNilHasher
	}
	if shards < 0 || buckets < 0 {
		return nil, ErrInvalidShape
	}

	if shards == 0 {
		n := atomics.NextPowerOfTwo(uint64(4 * runtime.NumCPU()))
		if n < minAutoShards {
			n = minAutoShards
		}
		if n > maxAutoShards {
			n = maxAutoShards
		}
		shards = int(n)
	}
	if buckets == 0 {
		buckets = defaultBuckets
	}

	cfg := defaultConfig[K, V](shards, buckets)
	applyOptions(cfg, opts)

	nShards := atomics.NextPowerOfTwo(uint64(shards))
	nBuckets := atomics.NextPowerOfTwo(uint64(buckets))

	m := &Map[K, V]{
		shards:     make([]shard[K, V], nShards),
		shardMask:  nShards - 1,
		shardBits:  uint(bits.Len64(nShards - 1)),
		bucketMask: nBuckets - 1,
		bucketN:    int(nBuckets),
		reclaimer:  epoch.NewReclaimer[node[K, V]](),
		hasher:     hasher,
		metrics:    newMetricsSink(cfg.registry),
		logger:     cfg.logger,
	}
	for i := range m.shards {
		m.shards[i].buckets = make([]bucket[K, V], nBuckets)
	}
	m.logger.Debug("hashmap constructed",
		zap.Int("shards", int(nShards)),
		zap.Int("buckets", int(nBuckets)),
	)
	return m, nil
}

// locate splits hash into a shard index (its low shardBits bits) and a
// bucket index (the bits above those, per spec.md's
// `(hash(key) >> log2 S) mod B` formula), so the two indices are drawn from
// disjoint bit ranges of the same hash.
func (m *Map[K, V]) locate(key K) (*shard[K, V], *bucket[K, V], int) {
	hash := m.hasher(key)
	shardIdx := hash & m.shardMask
	bucketIdx := (hash >> m.shardBits) & m.bucketMask
	s := &m.shards[shardIdx]
	return s, &s.buckets[bucketIdx], int(shardIdx)
}

// Insert adds value under key, reporting true if the key was newly created.
// If key is already present, Insert leaves the existing entry untouched and
// reports false — it is not an upsert.
func (m *Map[K, V]) Insert(key K, value V) bool {
	s, b, shardIdx := m.locate(key)

	b.lock.Lock()
	defer b.lock.Unlock()

	for cur := b.head.LoadAcquire(); cur != nil; cur = cur.next.LoadAcquire() {
		if cur.key == key {
			m.duplicates.AddAcqRel(1)
			m.metrics.incInsert(shardIdx)
			return false
		}
	}

	fresh := &node[K, V]{key: key, value: value}
	fresh.next.StoreRelease(b.head.LoadAcquire())
	b.head.StoreRelease(fresh)
	s.size.AddAcqRel(1)
	m.totalSize.AddAcqRel(1)
	m.inserts.AddAcqRel(1)
	m.metrics.incInsert(shardIdx)
	return true
}

// Find returns the value stored for key and whether it was present. Find
// never takes a lock: it registers an epoch guard, walks the chain with
// acquire loads, and exits the guard before returning.
func (m *Map[K, V]) Find(key K) (V, bool) {
	var zero V
	_, b, shardIdx := m.locate(key)

	guard := m.reclaimer.Enter()
	defer guard.Exit()

	for cur := b.head.LoadAcquire(); cur != nil; cur = cur.next.LoadAcquire() {
		if cur.key == key {
			m.hits.AddAcqRel(1)
			m.metrics.incFind(shardIdx, true)
			return cur.value, true
		}
	}
	m.misses.AddAcqRel(1)
	m.metrics.incFind(shardIdx, false)
	return zero, false
}

// Erase removes key, reporting whether it was present.
func (m *Map[K, V]) Erase(key K) bool {
	s, b, shardIdx := m.locate(key)

	b.lock.Lock()
	defer b.lock.Unlock()

	var prev *node[K, V]
	for cur := b.head.LoadAcquire(); cur != nil; cur = cur.next.LoadAcquire() {
		if cur.key != key {
			prev = cur
			continue
		}

		next := cur.next.LoadAcquire()
		if prev == nil {
			b.head.StoreRelease(next)
		} else {
			prev.next.StoreRelease(next)
		}
		s.size.AddAcqRel(-1)
		m.totalSize.AddAcqRel(-1)
		m.erases.AddAcqRel(1)
		m.reclaimer.Retire(cur, func(*node[K, V]) {})
		m.metrics.incErase(shardIdx)
		return true
	}
	m.notFound.AddAcqRel(1)
	return false
}

// Len returns the approximate total number of entries across every shard.
func (m *Map[K, V]) Len() int {
	return int(m.totalSize.LoadAcquire())
}

// Range calls f for every key/value pair currently in the map, taking and
// releasing one bucket's spin lock at a time in ascending shard-then-bucket
// order — never more than one lock held simultaneously. f may still observe
// an entry inserted or removed concurrently with a bucket it hasn't reached
// yet, same as Go's own map iteration offers no whole-map snapshot
// guarantee. Range stops early if f returns false.
func (m *Map[K, V]) Range(f func(key K, value V) bool) {
	for si := range m.shards {
		s := &m.shards[si]
		for bi := range s.buckets {
			b := &s.buckets[bi]
			b.lock.Lock()
			cur := b.head.LoadAcquire()
			for cur != nil {
				if !f(cur.key, cur.value) {
					b.lock.Unlock()
					return
				}
				cur = cur.next.LoadAcquire()
			}
			b.lock.Unlock()
		}
	}
}

// Clear removes every entry from the map.
func (m *Map[K, V]) Clear() {
	for si := range m.shards {
		s := &m.shards[si]
		for bi := range s.buckets {
			b := &s.buckets[bi]
			b.lock.Lock()
			old := b.head.LoadAcquire()
			b.head.StoreRelease(nil)
			b.lock.Unlock()

			for cur := old; cur != nil; {
				next := cur.next.LoadAcquire()
				m.reclaimer.Retire(cur, func(*node[K, V]) {})
				cur = next
			}
		}
		s.size.StoreRelease(0)
	}
	m.totalSize.StoreRelease(0)
	m.logger.Debug("hashmap cleared", zap.Int("shards", len(m.shards)))
}

// Stats is the debug-counters struct spec.md §6 explicitly allows. All
// fields are informational snapshots, not synchronized with one another.
type Stats struct {
	Shards     int
	Buckets    int
	Size       int64
	Epoch      epoch.Stats
	Hits       uint64
	Misses     uint64
	Inserts    uint64
	Duplicates uint64
	Erases     uint64
	NotFound   uint64
}

// Stats snapshots the map's current counters.
func (m *Map[K, V]) Stats() Stats {
	return Stats{
		Shards:     len(m.shards),
		Buckets:    m.bucketN,
		Size:       m.totalSize.LoadAcquire(),
		Epoch:      m.reclaimer.Stats(),
		Hits:       m.hits.LoadAcquire(),
		Misses:     m.misses.LoadAcquire(),
		Inserts:    m.inserts.LoadAcquire(),
		Duplicates: m.duplicates.LoadAcquire(),
		Erases:     m.erases.LoadAcquire(),
		NotFound:   m.notFound.LoadAcquire(),
	}
}
