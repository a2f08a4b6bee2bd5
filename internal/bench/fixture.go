// Package bench generates synthetic log fixtures for comparing block
// partitioning and filtering throughput against files of known shape.
// It is benchmark tooling only: the engine itself never reads
// compressed input, since mmap needs a real byte image and
// decompression is out of scope for the indexer proper.
//
// Grounded on dtail/benchmarks/testdata_generator.go, including its use
// of github.com/DataDog/zstd for compressed comparison fixtures.
package bench

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/DataDog/zstd"
)

// Size is a fixture's approximate uncompressed byte count.
type Size int64

const (
	Tiny   Size = 64 * 1024
	Small  Size = 10 * 1024 * 1024
	Medium Size = 100 * 1024 * 1024
)

func (s Size) String() string {
	switch s {
	case Tiny:
		return "64KB"
	case Small:
		return "10MB"
	case Medium:
		return "100MB"
	default:
		return fmt.Sprintf("%dB", int64(s))
	}
}

// Config describes a fixture to generate: its size, how often lines
// contain Pattern (for filter-throughput benchmarks), and the RNG seed
// so a run is reproducible.
type Config struct {
	Size        Size
	Pattern     string
	PatternRate int // percent of lines containing Pattern, 0-100
	Seed        int64
}

// WritePlain generates an uncompressed fixture at path.
func WritePlain(path string, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()
	return writeLines(w, cfg)
}

// WriteZstd generates a fixture compressed with zstd at path, useful
// for comparing mapped-plain-text throughput against a decompress-then-
// map baseline.
func WriteZstd(path string, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zstd.NewWriterLevel(f, zstd.DefaultCompression)
	defer zw.Close()

	bw := bufio.NewWriter(zw)
	defer bw.Flush()
	return writeLines(bw, cfg)
}

// DecompressToPlain expands a zstd fixture produced by WriteZstd back
// to a plain file, for benchmarks that need a real mmap-able byte
// image after measuring compressed-transfer cost separately.
func DecompressToPlain(zstdPath, plainPath string) error {
	in, err := os.Open(zstdPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(plainPath)
	if err != nil {
		return err
	}
	defer out.Close()

	zr := zstd.NewReader(in)
	defer zr.Close()

	_, err = io.Copy(out, zr)
	return err
}

func writeLines(w io.Writer, cfg Config) error {
	rng := rand.New(rand.NewSource(cfg.Seed))
	const avgLineSize = 96
	totalLines := int64(cfg.Size) / avgLineSize

	levels := []string{"INFO", "WARN", "ERROR", "DEBUG"}

	var written int64
	for i := int64(0); written < int64(cfg.Size) && i < totalLines; i++ {
		level := levels[rng.Intn(len(levels))]
		msg := fmt.Sprintf("request %d from thread-%d", i, rng.Intn(32)+1)
		if cfg.Pattern != "" && rng.Intn(100) < cfg.PatternRate {
			msg = fmt.Sprintf("%s %s", msg, cfg.Pattern)
		}
		n, err := fmt.Fprintf(w, "%s|%07d|app.go:%d|%s\n", level, i, rng.Intn(4000)+1, msg)
		if err != nil {
			return err
		}
		written += int64(n)
	}
	return nil
}
