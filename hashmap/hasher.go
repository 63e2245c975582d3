package hashmap

// © 2026 lfcore authors. MIT License.

import (
	"hash/maphash"
	"unsafe"
)

// DefaultHasher builds a hasher func(K) uint64 suitable for passing to New,
// using a single maphash.Seed shared by every call. It special-cases string
// and []byte keys and falls back to hashing a comparable key's raw bytes
// for everything else — the same switch the sibling cache package's
// shard.hash method uses for its own maphash-based key hashing.
//
// A hasher built this way is safe for concurrent use by many goroutines:
// maphash.Hash itself is not, but DefaultHasher allocates a fresh one on
// every call.
func DefaultHasher[K comparable]() func(K) uint64 {
	seed := maphash.MakeSeed()
	return func(key K) uint64 {
		var h maphash.Hash
		h.SetSeed(seed)
		switch k := any(key).(type) {
		case string:
			h.WriteString(k)
		case []byte:
			h.Write(k)
		default:
			ptr := unsafe.Pointer(&key)
			size := unsafe.Sizeof(key)
			h.Write(unsafe.Slice((*byte)(ptr), size))
		}
		return h.Sum64()
	}
}
