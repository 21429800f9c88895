package cache_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	cache "github.com/krisalay/ttl-memo"
)

func newBenchmarkCache(b *testing.B) *cache.MemoCache[string, string] {
	c, err := cache.New(cache.Config{TTL: 10 * time.Minute, Shards: 8}, func(ctx context.Context, key string) (string, error) {
		return "value-" + key, nil
	})
	if err != nil {
		b.Fatal(err)
	}
	return c
}

//
// ================= SINGLE THREAD BENCH =================
//

func BenchmarkGetOrComputeHit(b *testing.B) {
	ctx := context.Background()
	c := newBenchmarkCache(b)

	c.GetOrCompute(ctx, "key")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.GetOrCompute(ctx, "key")
	}
}

func BenchmarkGetOrComputeMiss(b *testing.B) {
	ctx := context.Background()
	c := newBenchmarkCache(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.GetOrCompute(ctx, fmt.Sprintf("miss-%d", i))
	}
}

//
// ================= PARALLEL BENCH =================
//

func BenchmarkGetOrComputeParallelHit(b *testing.B) {
	ctx := context.Background()
	c := newBenchmarkCache(b)

	for i := 0; i < 1000; i++ {
		c.GetOrCompute(ctx, fmt.Sprintf("key-%d", i))
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.GetOrCompute(ctx, "key-42")
		}
	})
}

//
// ================= HIGH CONCURRENCY TEST =================
//

func BenchmarkGetOrComputeHighConcurrency(b *testing.B) {
	ctx := context.Background()
	c := newBenchmarkCache(b)

	keys := make([]string, 10000)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
	}

	b.ResetTimer()

	wg := sync.WaitGroup{}
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < b.N/100; j++ {
				c.GetOrCompute(ctx, keys[j%len(keys)])
			}
		}(i)
	}
	wg.Wait()
}
