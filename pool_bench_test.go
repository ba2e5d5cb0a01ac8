//go:build bench

package md2deck

import (
	"fmt"
	"runtime"
	"testing"
)

// BenchmarkResolvePoolSize benchmarks pool size calculation.
func BenchmarkResolvePoolSize(b *testing.B) {
	workers := []int{0, 1, 2, 4, 8}

	for _, w := range workers {
		b.Run(workerName(w), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				result := ResolvePoolSize(w)
				_ = result
			}
		})
	}
}

func workerName(w int) string {
	if w == 0 {
		return "auto"
	}
	return fmt.Sprintf("%d", w)
}

// BenchmarkExporterPoolAcquireRelease benchmarks the acquire/release
// cycle. Exporters never launch a browser here, so this measures pure
// pool overhead.
func BenchmarkExporterPoolAcquireRelease(b *testing.B) {
	sizes := []int{1, 2, 4, 8}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			pool := NewExporterPool(size)
			// Pre-warm the pool by acquiring and releasing all slots
			exporters := make([]*Exporter, size)
			for i := 0; i < size; i++ {
				exporters[i] = pool.Acquire()
			}
			for i := 0; i < size; i++ {
				pool.Release(exporters[i])
			}

			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				exp := pool.Acquire()
				pool.Release(exp)
			}

			b.StopTimer()
			pool.Close()
		})
	}
}

// BenchmarkExporterPoolParallel benchmarks parallel pool access.
func BenchmarkExporterPoolParallel(b *testing.B) {
	pool := NewExporterPool(runtime.GOMAXPROCS(0))
	size := pool.Size()
	exporters := make([]*Exporter, size)
	for i := 0; i < size; i++ {
		exporters[i] = pool.Acquire()
	}
	for i := 0; i < size; i++ {
		pool.Release(exporters[i])
	}

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			exp := pool.Acquire()
			pool.Release(exp)
		}
	})

	b.StopTimer()
	pool.Close()
}
