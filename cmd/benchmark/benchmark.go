package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	cache "github.com/krisalay/ttl-memo"
	mylog "github.com/krisalay/ttl-memo/internal/log"
)

// ================= BENCHMARK =================

func main() {
	mylog.InitLogger()
	ctx := context.Background()

	fmt.Println("\n================ MEMO CACHE BENCHMARK =================")

	// ---------------- Cache Config ----------------
	const (
		shards      = 8
		ttl         = time.Minute
		preloadKeys = 100000
		goroutines  = 200
		opsPerG     = 5000
		stampede    = 1000
		latency     = 50 * time.Millisecond
	)

	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Shards       :", shards)
	fmt.Println("TTL          :", ttl)
	fmt.Println("Preload Keys :", preloadKeys)
	fmt.Println("Goroutines   :", goroutines)
	fmt.Println("Ops/Goroutine:", opsPerG)
	fmt.Println("Stampede     :", stampede)
	fmt.Println("---------------------------------")

	// ---------------- Producer ----------------
	var computations atomic.Int64
	producer := func(ctx context.Context, key int) (int, error) {
		computations.Add(1)
		if key < 0 {
			time.Sleep(latency)
		}
		return key * 2, nil
	}

	c, err := cache.New(cache.Config{TTL: ttl, Shards: shards}, producer)
	if err != nil {
		fmt.Println("ERROR:", err)
		return
	}
	defer c.Close()

	// ---------------- Preload Cache ----------------
	fmt.Println("Preloading cache...")
	for i := 0; i < preloadKeys; i++ {
		c.GetOrCompute(ctx, i)
	}
	fmt.Println("Preload complete.")

	// ---------------- Hit Throughput ----------------
	fmt.Println("Running hit benchmark...")

	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < goroutines; i++ {
		g.Go(func() error {
			for j := 0; j < opsPerG; j++ {
				if _, err := c.GetOrCompute(gctx, j%preloadKeys); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Println("ERROR:", err)
		return
	}

	hitDuration := time.Since(start)
	totalOps := goroutines * opsPerG

	// ---------------- Stampede ----------------
	fmt.Println("Running stampede on one cold key...")
	before := computations.Load()

	start = time.Now()
	g, gctx = errgroup.WithContext(ctx)
	for i := 0; i < stampede; i++ {
		g.Go(func() error {
			_, err := c.GetOrCompute(gctx, -1)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Println("ERROR:", err)
		return
	}
	stampedeDuration := time.Since(start)

	stats := c.Stats()

	fmt.Println("\n================ RESULTS =================")
	fmt.Printf("Total Operations : %s\n", humanize.Comma(int64(totalOps)))
	fmt.Printf("Total Time       : %v\n", hitDuration)
	fmt.Printf("Throughput       : %s ops/sec\n", humanize.CommafWithDigits(float64(totalOps)/hitDuration.Seconds(), 2))
	fmt.Printf("Stampede Time    : %v\n", stampedeDuration)
	fmt.Printf("Stampede Runs    : %d (callers: %d)\n", computations.Load()-before, stampede)
	fmt.Printf("Hits / Misses    : %s / %s\n", humanize.Comma(int64(stats.Hits)), humanize.Comma(int64(stats.Misses)))
	fmt.Println("=========================================")
}
