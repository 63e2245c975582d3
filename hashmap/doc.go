// Package hashmap implements a sharded concurrent hash map whose write path
// takes a per-bucket spin lock and whose read path is entirely lock-free,
// protected instead by epoch-based reclamation (spec.md §4.5).
//
// Layout: a Map owns a fixed number of shards (selected by the low
// log2(shardCount) bits of a key's hash, via shardMask); each shard owns a
// fixed number of buckets (selected by the next bits up, via bucketMask) and
// shares one map-wide epoch.Reclaimer with every other shard. A bucket holds
// a singly-linked chain of nodes. Insert/Erase take the bucket's spin lock
// and splice the chain with release-ordered pointer writes; Find walks the
// same chain under an epoch guard with acquire-ordered loads and never
// blocks a concurrent writer, nor is it ever blocked by one.
//
// The shard/bucket/chain shape and the maphash-based key hashing (one seed
// per DefaultHasher, shared by every shard) follow the sharded map this
// module's sibling cache package used; the lock-free read side replaces that package's RWMutex with
// internal/atomics.SpinLock plus internal/epoch, since spec.md requires
// reads to never block on a writer.
//
// © 2026 lfcore authors. MIT License.
package hashmap
