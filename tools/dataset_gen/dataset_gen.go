// Command dataset_gen generates deterministic key datasets for standalone
// stress-testing of this module's queue and hash-map types, outside `go
// test`. It emits newline-separated uint64 numbers which an external
// load-testing harness can replay; cmd/corestress draws its own keys from
// -seed and does not read these files.
//
// Usage:
//
//	go run ./tools/dataset_gen -n 1000000 -dist=zipf -seed=42 -out keys.txt
//
// Flags:
//
//	-n       number of keys to generate (default 1e6)
//	-dist    distribution: "uniform", "zipf", or "bounded" (default uniform)
//	-zipfs   Zipf s parameter (>1) (default 1.2)
//	-zipfv   Zipf v parameter (>=1) (default 1.0)
//	-range   keyspace size for -dist=bounded, e.g. 10000 for the hash map's
//	         scenario-E/F key range [0, range) (default 10000)
//	-seed    RNG seed (default current time)
//	-out     output file (default stdout)
//
// The "bounded" distribution is the one the hash map's stress scenarios
// actually want: a small, fixed keyspace so concurrent Insert/Find/Erase
// calls repeatedly collide on the same keys instead of spreading across a
// near-infinite uint64 range, which would never exercise bucket chaining or
// the epoch reclaimer's retire/cleanup path under real contention.
//
// © 2026 lfcore authors. MIT License.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"
)

func main() {
	var (
		n        = flag.Int("n", 1_000_000, "number of keys to generate")
		dist     = flag.String("dist", "uniform", "distribution: uniform, zipf, or bounded")
		zipfS    = flag.Float64("zipfs", 1.2, "zipf s parameter (>1)")
		zipfV    = flag.Float64("zipfv", 1.0, "zipf v parameter (>=1)")
		keyRange = flag.Uint64("range", 10_000, "keyspace size for -dist=bounded")
		seedVal  = flag.Int64("seed", time.Now().UnixNano(), "PRNG seed")
		outPath  = flag.String("out", "", "output file (default stdout)")
	)
	flag.Parse()

	rnd := rand.New(rand.NewSource(*seedVal))

	var gen func() uint64
	switch *dist {
	case "uniform":
		gen = rnd.Uint64
	case "zipf":
		if *zipfS <= 1.0 || *zipfV < 1 {
			fmt.Fprintln(os.Stderr, "zipfs must be >1 and zipfv >=1")
			os.Exit(1)
		}
		z := rand.NewZipf(rnd, *zipfS, *zipfV, ^uint64(0))
		gen = z.Uint64
	case "bounded":
		if *keyRange == 0 {
			fmt.Fprintln(os.Stderr, "range must be >0")
			os.Exit(1)
		}
		gen = func() uint64 { return rnd.Uint64() % *keyRange }
	default:
		fmt.Fprintln(os.Stderr, "unknown dist:", *dist)
		os.Exit(1)
	}

	var out *os.File
	var err error
	if *outPath == "" {
		out = os.Stdout
	} else {
		out, err = os.Create(*outPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot create file:", err)
			os.Exit(1)
		}
		defer out.Close()
	}

	w := bufio.NewWriterSize(out, 1<<20)
	defer w.Flush()

	for i := 0; i < *n; i++ {
		fmt.Fprintln(w, gen())
	}
}
