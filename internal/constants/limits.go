// Package constants collects the numeric limits shared across the engine.
package constants

// Block and scope maxima from the original C header.
const (
	// MaxBlockCount is the fixed capacity of the block array.
	MaxBlockCount = 40

	// MaxScopeBefore is the maximum number of "before" context lines.
	MaxScopeBefore = 10

	// MaxScopeAfter is the maximum number of "after" context lines.
	MaxScopeAfter = 10

	// MaxErrorLength is the size of the compile-error buffer in the C ABI.
	MaxErrorLength = 64
)

// Pattern identifiers used by the multi-pattern filter database. Values
// chosen to match the original Hyperscan-backed implementation.
const (
	EOLPatternID     = 0x5EE0
	UserPatternID    = 0x5EAA
)

// Scanning/IO tunables.
const (
	// OneBlockThreshold is the file size below which formatBlocks keeps a
	// single block instead of partitioning by concurrency hint.
	OneBlockThreshold = 1024 * 1024

	// DefaultChunkSize is a 64 KiB chunk size. No package in this module
	// references it.
	DefaultChunkSize = 64 * 1024
)
