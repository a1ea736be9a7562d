package main

import (
	"math/rand"
	"runtime"
	"testing"
	"time"

	"github.com/ltnguyen02/tiny-range-index-go/internal/index"
	"github.com/ltnguyen02/tiny-range-index-go/internal/types"
)

const benchSequenceSize = 1 << 14

func randomWeights(n int, seed int64) []int64 {
	rng := rand.New(rand.NewSource(seed))
	weights := make([]int64, n)
	for i := range weights {
		weights[i] = rng.Int63n(2001) - 1000
	}
	return weights
}

func benchmarkUpdates(b *testing.B, idx types.RangeIndex) {
	weights := randomWeights(benchSequenceSize, 1)
	if err := idx.Reset(weights); err != nil {
		b.Fatalf("failed to build index: %v", err)
	}
	rng := rand.New(rand.NewSource(2))

	b.ResetTimer()
	start := time.Now()
	var memStatsStart, memStatsEnd runtime.MemStats

	runtime.ReadMemStats(&memStatsStart)

	var sink int64
	for i := 0; i < b.N; i++ {
		pos := rng.Intn(benchSequenceSize)
		value := rng.Int63n(2001) - 1000
		if err := idx.Update(pos, value); err != nil {
			b.Fatalf("update failed: %v", err)
		}
		sink += idx.Best()
	}
	_ = sink

	runtime.ReadMemStats(&memStatsEnd)
	elapsed := time.Since(start)

	b.StopTimer()

	b.ReportMetric(float64(b.N)/elapsed.Seconds(), "updates/sec")
	b.ReportMetric(float64(memStatsEnd.TotalAlloc-memStatsStart.TotalAlloc)/float64(b.N), "bytes/update")
	b.ReportMetric(float64(memStatsEnd.NumGC-memStatsStart.NumGC), "gc_count")
}

func BenchmarkSegmentIndexUpdate(b *testing.B) {
	benchmarkUpdates(b, index.NewSegmentIndex())
}

func BenchmarkNaiveIndexUpdate(b *testing.B) {
	benchmarkUpdates(b, index.NewNaiveIndex())
}

func BenchmarkSegmentIndexBuild(b *testing.B) {
	weights := randomWeights(benchSequenceSize, 3)
	idx := index.NewSegmentIndex()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := idx.Reset(weights); err != nil {
			b.Fatalf("failed to build index: %v", err)
		}
	}
}
