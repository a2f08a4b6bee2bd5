package bench

import (
	"fmt"
	"os"
	"runtime"
	"testing"

	"github.com/alexhude/PeculiarLog/internal/engine"
)

func sizeForThroughputBenchmark() []Size {
	if testing.Short() {
		return []Size{Tiny}
	}
	return []Size{Tiny, Small}
}

// BenchmarkFilterThroughput measures end-to-end Init+Filter+MergeScope
// throughput against generated fixtures at increasing hit rates.
func BenchmarkFilterThroughput(b *testing.B) {
	hitRates := []int{1, 10, 50}

	for _, size := range sizeForThroughputBenchmark() {
		for _, hitRate := range hitRates {
			b.Run(fmt.Sprintf("Size=%s/HitRate=%d%%", size, hitRate), func(b *testing.B) {
				path, err := os.CreateTemp("", "plog_bench_*.log")
				if err != nil {
					b.Fatalf("create fixture: %v", err)
				}
				path.Close()
				defer os.Remove(path.Name())

				cfg := Config{Size: size, Pattern: "ERROR", PatternRate: hitRate, Seed: 1}
				if err := WritePlain(path.Name(), cfg); err != nil {
					b.Fatalf("write fixture: %v", err)
				}
				info, err := os.Stat(path.Name())
				if err != nil {
					b.Fatalf("stat fixture: %v", err)
				}

				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					e, err := engine.Open(path.Name())
					if err != nil {
						b.Fatalf("open: %v", err)
					}
					blockCount := e.Init(runtime.NumCPU())
					if err := e.SetPattern(cfg.Pattern); err != nil {
						b.Fatalf("set pattern: %v", err)
					}
					for blk := 0; blk < blockCount; blk++ {
						if _, _, err := e.Filter(blk); err != nil {
							b.Fatalf("filter: %v", err)
						}
					}
					if _, err := e.MergeScope(); err != nil {
						b.Fatalf("merge scope: %v", err)
					}
					e.Close()
				}

				mbPerSec := float64(info.Size()) / (1024 * 1024) * float64(b.N) / b.Elapsed().Seconds()
				b.ReportMetric(mbPerSec, "MB/sec")
			})
		}
	}
}

// BenchmarkZstdFixtureRoundTrip measures decompressing a zstd fixture
// back to a plain mmap-able file, the cost paid once up front when a
// log is shipped compressed but must be indexed uncompressed. The
// fixture is compressed once before the timer starts; compression is
// not part of the measurement.
func BenchmarkZstdFixtureRoundTrip(b *testing.B) {
	for _, size := range sizeForThroughputBenchmark() {
		b.Run(fmt.Sprintf("Size=%s", size), func(b *testing.B) {
			zstdPath, err := os.CreateTemp("", "plog_bench_*.log.zst")
			if err != nil {
				b.Fatalf("create fixture: %v", err)
			}
			zstdPath.Close()
			defer os.Remove(zstdPath.Name())

			cfg := Config{Size: size, Pattern: "ERROR", PatternRate: 10, Seed: 2}
			if err := WriteZstd(zstdPath.Name(), cfg); err != nil {
				b.Fatalf("write zstd fixture: %v", err)
			}

			plainPath, err := os.CreateTemp("", "plog_bench_*.log")
			if err != nil {
				b.Fatalf("create plain path: %v", err)
			}
			plainPath.Close()
			defer os.Remove(plainPath.Name())

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := DecompressToPlain(zstdPath.Name(), plainPath.Name()); err != nil {
					b.Fatalf("decompress: %v", err)
				}
			}
		})
	}
}
