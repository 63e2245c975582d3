package hashmap

// © 2026 lfcore authors. MIT License.

import (
	"fmt"
	"testing"

	"golang.org/x/sync/errgroup"
)

func newTestMap[V any](t *testing.T, shards, buckets int) *Map[string, V] {
	t.Helper()
	m, err := New[string, V](shards, buckets, DefaultHasher[string]())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return m
}

func newTestIntMap(t *testing.T, shards, buckets int) *Map[int, int] {
	t.Helper()
	m, err := New[int, int](shards, buckets, DefaultHasher[int]())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return m
}

func TestMapInsertFindErase(t *testing.T) {
	m := newTestMap[int](t, 4, 8)

	if created := m.Insert("a", 1); !created {
		t.Fatal("expected first insert of \"a\" to report created=true")
	}
	if created := m.Insert("a", 2); created {
		t.Fatal("expected second insert of \"a\" to report created=false")
	}

	// Insert on an existing key is a no-op: the original value survives.
	v, ok := m.Find("a")
	if !ok || v != 1 {
		t.Fatalf("Find(a) = (%v, %v), want (1, true)", v, ok)
	}

	if _, ok := m.Find("missing"); ok {
		t.Fatal("Find(missing) should report false")
	}

	if !m.Erase("a") {
		t.Fatal("Erase(a) should report true")
	}
	if m.Erase("a") {
		t.Fatal("second Erase(a) should report false")
	}
	if _, ok := m.Find("a"); ok {
		t.Fatal("Find(a) after Erase should report false")
	}
}

func TestMapLenTracksInsertsAndErases(t *testing.T) {
	m := newTestIntMap(t, 4, 8)
	for i := 0; i < 100; i++ {
		m.Insert(i, i*i)
	}
	if got := m.Len(); got != 100 {
		t.Fatalf("Len() = %d, want 100", got)
	}

	for i := 0; i < 50; i++ {
		m.Erase(i)
	}
	if got := m.Len(); got != 50 {
		t.Fatalf("Len() after erase = %d, want 50", got)
	}
}

func TestMapRangeVisitsEveryEntry(t *testing.T) {
	m := newTestIntMap(t, 4, 8)
	want := make(map[int]int)
	for i := 0; i < 200; i++ {
		m.Insert(i, i*2)
		want[i] = i * 2
	}

	got := make(map[int]int)
	m.Range(func(k, v int) bool {
		got[k] = v
		return true
	})

	if len(got) != len(want) {
		t.Fatalf("Range visited %d entries, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("Range entry %d = %d, want %d", k, got[k], v)
		}
	}
}

func TestMapClear(t *testing.T) {
	m := newTestIntMap(t, 4, 8)
	for i := 0; i < 20; i++ {
		m.Insert(i, i)
	}
	m.Clear()
	if got := m.Len(); got != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", got)
	}
	if _, ok := m.Find(0); ok {
		t.Fatal("Find after Clear should report false")
	}
}

func TestMapStatsReflectsOperations(t *testing.T) {
	m := newTestIntMap(t, 4, 8)
	m.Insert(1, 1)
	m.Insert(1, 2) // duplicate
	m.Find(1)      // hit
	m.Find(2)      // miss
	m.Erase(1)
	m.Erase(1) // not found

	stats := m.Stats()
	if stats.Inserts != 1 {
		t.Errorf("Inserts = %d, want 1", stats.Inserts)
	}
	if stats.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", stats.Duplicates)
	}
	if stats.Hits != 1 {
		t.Errorf("Hits = %d, want 1", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
	if stats.Erases != 1 {
		t.Errorf("Erases = %d, want 1", stats.Erases)
	}
	if stats.NotFound != 1 {
		t.Errorf("NotFound = %d, want 1", stats.NotFound)
	}
}

// TestMapConcurrentInsertFindIsConsistent drives scenario F: concurrent
// writers and readers on a shared keyspace, checking that a key is always
// either fully absent or mapped to one of the values a writer actually
// stored — never a torn or stale-but-impossible value.
func TestMapConcurrentInsertFindIsConsistent(t *testing.T) {
	const keyspace = 256
	const writers = 8
	const readers = 8
	const opsPerGoroutine = 4000

	m := newTestIntMap(t, 8, 16)

	var g errgroup.Group
	for w := 0; w < writers; w++ {
		w := w
		g.Go(func() error {
			for i := 0; i < opsPerGoroutine; i++ {
				k := (i + w) % keyspace
				m.Insert(k, w*1_000_000+i)
			}
			return nil
		})
	}
	for r := 0; r < readers; r++ {
		g.Go(func() error {
			for i := 0; i < opsPerGoroutine; i++ {
				k := i % keyspace
				v, ok := m.Find(k)
				if !ok {
					continue
				}
				w, j := v/1_000_000, v%1_000_000
				if v < 0 || w >= writers || j >= opsPerGoroutine || (j+w)%keyspace != k {
					return fmt.Errorf("value %d for key %d was never written to that key", v, k)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestMapNewRejectsNilHasher(t *testing.T) {
	_, err := New[int, int](4, 8, nil)
	if err != ErrNilHasher {
		t.Fatalf("err = %v, want ErrNilHasher", err)
	}
}

func TestMapNewRejectsNegativeShape(t *testing.T) {
	_, err := New[int, int](-1, 8, DefaultHasher[int]())
	if err != ErrInvalidShape {
		t.Fatalf("err = %v, want ErrInvalidShape", err)
	}
}

func TestMapNewAutoSelectsShardsWhenZero(t *testing.T) {
	m, err := New[int, int](0, 0, DefaultHasher[int]())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	stats := m.Stats()
	if stats.Shards < 8 || stats.Shards > 512 {
		t.Fatalf("auto-selected Shards = %d, want in [8, 512]", stats.Shards)
	}
	if stats.Buckets != 16 {
		t.Fatalf("default Buckets = %d, want 16", stats.Buckets)
	}
}
