// Command corestress drives the scenario suite spec'd for this module's
// queue and hash-map implementations outside `go test`: longer runs, larger
// goroutine counts, and a pass/fail summary instead of a test failure.
//
// Usage:
//
//	go run ./cmd/corestress -scenario=all -ops=2000000 -seed=42
//
// Flags:
//
//	-scenario  one of: spsc, mpsc, spmc, mpmc, hashmap, consistency, all
//	           (default all)
//	-ops       total operations per scenario (default 1,000,000)
//	-seed      PRNG seed for reproducibility (default current time)
//
// SIGINT/SIGTERM cancels the in-flight scenario; it and every scenario after
// it report FAIL with the cancellation error, and corestress exits with a
// non-zero status.
//
// © 2026 lfcore authors. MIT License.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Voskan/lfcore/hashmap"
	"github.com/Voskan/lfcore/queue"
)

type options struct {
	scenario string
	ops      int
	seed     int64
}

func parseFlags() *options {
	opts := &options{}
	flag.StringVar(&opts.scenario, "scenario", "all", "spsc, mpsc, spmc, mpmc, hashmap, consistency, or all")
	flag.IntVar(&opts.ops, "ops", 1_000_000, "total operations per scenario")
	flag.Int64Var(&opts.seed, "seed", time.Now().UnixNano(), "PRNG seed")
	flag.Parse()
	return opts
}

func main() {
	opts := parseFlags()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	scenarios := selectScenarios(opts.scenario)
	if len(scenarios) == 0 {
		fmt.Fprintln(os.Stderr, "corestress: unknown -scenario:", opts.scenario)
		os.Exit(1)
	}

	failed := false
	for _, s := range scenarios {
		start := time.Now()
		err := s.run(ctx, opts)
		elapsed := time.Since(start)
		if err != nil {
			failed = true
			fmt.Printf("FAIL %-12s (%s): %v\n", s.name, elapsed, err)
			continue
		}
		fmt.Printf("PASS %-12s (%s)\n", s.name, elapsed)
	}

	if failed {
		os.Exit(1)
	}
}

type scenario struct {
	name string
	run  func(ctx context.Context, opts *options) error
}

func selectScenarios(name string) []scenario {
	all := []scenario{
		{"spsc", scenarioSPSC},
		{"mpsc", scenarioMPSC},
		{"spmc", scenarioSPMC},
		{"mpmc", scenarioMPMC},
		{"hashmap", scenarioHashmapChurn},
		{"consistency", scenarioHashmapConsistency},
	}
	if name == "all" {
		return all
	}
	for _, s := range all {
		if s.name == name {
			return []scenario{s}
		}
	}
	return nil
}

// scenarioSPSC drives a single producer/consumer over a bounded ring,
// checking FIFO order is preserved end to end.
func scenarioSPSC(ctx context.Context, opts *options) error {
	q := queue.NewBoundedSPSC[int](1024)
	var g errgroup.Group

	g.Go(func() error {
		for i := 0; i < opts.ops; i++ {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			for !q.TryPush(i) {
				if ctx.Err() != nil {
					return ctx.Err()
				}
			}
		}
		return nil
	})

	g.Go(func() error {
		for i := 0; i < opts.ops; i++ {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			var v int
			var ok bool
			for {
				v, ok = q.TryPop()
				if ok {
					break
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
			}
			if v != i {
				return fmt.Errorf("out-of-order pop: got %d, want %d", v, i)
			}
		}
		return nil
	})

	return g.Wait()
}

// scenarioMPSC drives many producers and one consumer over an unbounded
// queue, checking every produced value is consumed exactly once.
func scenarioMPSC(ctx context.Context, opts *options) error {
	const producers = 8
	perProducer := opts.ops / producers
	total := perProducer * producers

	q := queue.NewUnboundedMPSC[int]()
	var g errgroup.Group

	for p := 0; p < producers; p++ {
		p := p
		g.Go(func() error {
			base := p * perProducer
			for i := 0; i < perProducer; i++ {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				q.TryPush(base + i)
			}
			return nil
		})
	}

	seen := make([]int32, total)
	g.Go(func() error {
		popped := 0
		for popped < total {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			v, ok := q.TryPop()
			if !ok {
				continue
			}
			seen[v]++
			popped++
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	for i, c := range seen {
		if c != 1 {
			return fmt.Errorf("item %d consumed %d times, want exactly 1", i, c)
		}
	}
	return nil
}

// scenarioSPMC drives one producer and many consumers over an unbounded
// queue, checking no value is delivered twice.
func scenarioSPMC(ctx context.Context, opts *options) error {
	const consumers = 8
	total := opts.ops

	q := queue.NewUnboundedSPMC[int]()
	var g errgroup.Group

	g.Go(func() error {
		for i := 0; i < total; i++ {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			q.TryPush(i)
		}
		return nil
	})

	seen := make([]int32, total)
	var popped int
	var pmu sync.Mutex
	for c := 0; c < consumers; c++ {
		g.Go(func() error {
			for {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				pmu.Lock()
				if popped >= total {
					pmu.Unlock()
					return nil
				}
				pmu.Unlock()

				v, ok := q.TryPop()
				if !ok {
					continue
				}
				pmu.Lock()
				seen[v]++
				popped++
				pmu.Unlock()
			}
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	for i, c := range seen {
		if c != 1 {
			return fmt.Errorf("item %d delivered %d times, want exactly 1", i, c)
		}
	}
	return nil
}

// scenarioMPMC drives many producers and many consumers over a bounded
// ring, checking every produced value is consumed exactly once.
func scenarioMPMC(ctx context.Context, opts *options) error {
	const producers = 8
	const consumers = 8
	perProducer := opts.ops / producers
	total := perProducer * producers

	q := queue.NewBoundedMPMC[int](4096)
	var g errgroup.Group

	for p := 0; p < producers; p++ {
		p := p
		g.Go(func() error {
			base := p * perProducer
			for i := 0; i < perProducer; i++ {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				for !q.TryPush(base + i) {
					if ctx.Err() != nil {
						return ctx.Err()
					}
				}
			}
			return nil
		})
	}

	seen := make([]int32, total)
	var popped int
	var pmu sync.Mutex
	for c := 0; c < consumers; c++ {
		g.Go(func() error {
			for {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				pmu.Lock()
				if popped >= total {
					pmu.Unlock()
					return nil
				}
				pmu.Unlock()

				v, ok := q.TryPop()
				if !ok {
					continue
				}
				pmu.Lock()
				seen[v]++
				popped++
				pmu.Unlock()
			}
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	for i, c := range seen {
		if c != 1 {
			return fmt.Errorf("item %d consumed %d times, want exactly 1", i, c)
		}
	}
	return nil
}

// scenarioHashmapChurn drives concurrent Insert/Erase on a bounded keyspace
// and checks Len() matches the hash map's own accounting.
func scenarioHashmapChurn(ctx context.Context, opts *options) error {
	m, err := hashmap.New[uint64, int](0, 0, hashmap.DefaultHasher[uint64]())
	if err != nil {
		return err
	}

	const writers = 8
	const keyRange = 10_000
	perWriter := opts.ops / writers

	var g errgroup.Group
	for w := 0; w < writers; w++ {
		w := w
		g.Go(func() error {
			rnd := rand.New(rand.NewSource(opts.seed + int64(w)))
			for i := 0; i < perWriter; i++ {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				k := uint64(rnd.Intn(keyRange))
				if i%2 == 0 {
					m.Insert(k, i)
				} else {
					m.Erase(k)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if got := m.Len(); got < 0 || got > keyRange {
		return fmt.Errorf("Len() = %d, out of expected bound [0, %d]", got, keyRange)
	}
	st := m.Stats()
	if want := int64(st.Inserts) - int64(st.Erases); int64(m.Len()) != want {
		return fmt.Errorf("Len() = %d, want inserts - erases = %d", m.Len(), want)
	}
	return nil
}

// scenarioHashmapConsistency drives concurrent writers and readers on a
// shared keyspace, checking every observed value is one the writers' value
// scheme can produce (never a torn or impossible value).
func scenarioHashmapConsistency(ctx context.Context, opts *options) error {
	m, err := hashmap.New[int, int](0, 0, hashmap.DefaultHasher[int]())
	if err != nil {
		return err
	}

	const keyspace = 256
	const writers = 8
	const readers = 8
	perGoroutine := opts.ops / (writers + readers)

	var g errgroup.Group
	for w := 0; w < writers; w++ {
		w := w
		g.Go(func() error {
			rnd := rand.New(rand.NewSource(opts.seed + int64(w)))
			for i := 0; i < perGoroutine; i++ {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				k := rnd.Intn(keyspace)
				m.Insert(k, w*1_000_000+i)
			}
			return nil
		})
	}
	for r := 0; r < readers; r++ {
		r := r
		g.Go(func() error {
			rnd := rand.New(rand.NewSource(opts.seed + int64(writers+r)))
			for i := 0; i < perGoroutine; i++ {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				k := rnd.Intn(keyspace)
				if v, ok := m.Find(k); ok && (v < 0 || v/1_000_000 >= writers || v%1_000_000 >= perGoroutine) {
					return fmt.Errorf("impossible value %d for key %d", v, k)
				}
			}
			return nil
		})
	}
	return g.Wait()
}
