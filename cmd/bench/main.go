// Command bench runs a synthetic workload against the cache and exposes optional pprof/Prometheus endpoints.
//
// The engine is single-threaded by design, so the workload runs on one
// goroutine; the HTTP endpoints only observe counters exported through
// the Prometheus adapter.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/IvanBrykalov/ordercache/cache"
	pmet "github.com/IvanBrykalov/ordercache/metrics/prom"
	"github.com/IvanBrykalov/ordercache/policy/lru"
)

func main() {
	// ---- Flags ----
	var (
		capacity = flag.Int("cap", 100_000, "cache capacity (entries)")
		policy   = flag.String("policy", "lru", "ordering policy: lru | priority")

		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 80, "read percentage [0..100]")

		keys    = flag.Int("keys", 1_000_000, "keyspace size")
		zipfS   = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV   = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		preload = flag.Int("preload", 0, "preload entries (0 = cap/2)")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr")
	)
	flag.Parse()

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			log.Printf("pprof: serving at %s", *pprofAddr)
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	metrics := pmet.New(nil, "ordercache", "bench", nil)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Printf("metrics: serving at %s", *metricsAddr)
		log.Println(http.ListenAndServe(*metricsAddr, nil))
	}()

	r := rand.New(rand.NewSource(*seed))
	zipf := rand.NewZipf(r, *zipfS, *zipfV, uint64(*keys-1))

	// ---- Build cache ----
	type bencher interface {
		Get(key uint64) (*uint64, bool)
		Set(key uint64, v uint64) bool
		Len() int
	}
	var c bencher
	switch *policy {
	case "lru":
		c = lru.New[uint64](lru.Options[uint64]{Capacity: *capacity, Metrics: metrics})
	case "priority":
		c = priorityBench{
			Cache: cache.New[uint64](cache.Options[uint64]{Capacity: *capacity, Metrics: metrics}),
			rng:   r,
		}
	default:
		log.Fatalf("unknown policy: %q (use lru or priority)", *policy)
	}

	// ---- Preload half capacity to get a realistic hit-rate ----
	pl := *preload
	if pl == 0 {
		pl = *capacity / 2
	}
	for i := 0; i < pl; i++ {
		c.Set(uint64(i), uint64(i))
	}

	// ---- Load generation (single goroutine: the engine is unsynchronized) ----
	var reads, writes, hits, misses, total uint64
	deadline := time.Now().Add(*duration)

	start := time.Now()
	for time.Now().Before(deadline) {
		for i := 0; i < 1024; i++ { // amortize the clock check
			total++
			k := zipf.Uint64()
			if int(r.Int31n(100)) < *readPct {
				reads++
				if _, ok := c.Get(k); ok {
					hits++
				} else {
					misses++
				}
			} else {
				writes++
				c.Set(k, k)
			}
		}
	}
	elapsed := time.Since(start)

	// ---- Report ----
	hitRate := 0.0
	if reads > 0 {
		hitRate = float64(hits) / float64(reads) * 100
	}

	fmt.Printf("policy=%s cap=%d keys=%d dur=%v seed=%d\n",
		*policy, *capacity, *keys, elapsed, *seed)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d\n",
		total, float64(total)/elapsed.Seconds(), reads, writes)
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", hits, misses, hitRate)
	fmt.Printf("Len()=%d\n", c.Len())
}

// priorityBench adapts the raw engine to the bench loop by drawing a
// random priority for every write.
type priorityBench struct {
	*cache.Cache[uint64]
	rng *rand.Rand
}

func (p priorityBench) Set(key uint64, v uint64) bool {
	return p.Cache.Set(key, uint64(p.rng.Int31n(1024)), v)
}
