package queue

// © 2026 lfcore authors. MIT License.

import "github.com/Voskan/lfcore/internal/atomics"

// node is the singly-linked list cell shared by all four unbounded variants.
// Every unbounded queue keeps one dummy node permanently at the head so that
// head and tail are never nil and a single-element queue never needs a
// special case.
type node[T any] struct {
	value T
	next  atomics.Pointer[node[T]]
}
