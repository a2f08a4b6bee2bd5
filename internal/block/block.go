// Package block implements the file partitioning and per-block
// bookkeeping used to process a memory-mapped file in parallel.
//
// Grounded on
// original_source/PeculiarLog/SearchEngine/SearchEngine.{hpp,cpp}
// (SEBlock, formatBlocks) and SPEC_FULL.md §4.C.
package block

import (
	"bytes"

	"github.com/alexhude/PeculiarLog/internal/constants"
)

// Block tracks one partition of the mapped file: its byte span and
// the running counters the filter/merge/getLine operations accumulate
// against it.
type Block struct {
	Active bool

	ByteOffset uint64
	Size       uint64

	Lines         uint32
	FilteredLines uint32
	ScopeLines    uint32

	// HeadLines/TailLines are signed spare-capacity counters: positive
	// means this many context lines are still unclaimed at that end of
	// the block, negative means this many more context lines were
	// wanted than the block's own matches could supply. They are only
	// meaningful between Filter and Merge; Merge consumes them to
	// produce BorrowHeadLines/BorrowTailLines below.
	HeadLines int32
	TailLines int32

	// BorrowHeadLines is how many of this block's own trailing lines
	// Merge assigned as "before" context for the next block's first
	// match. BorrowTailLines is how many of this block's own leading
	// lines Merge assigned as "after" context for the previous block's
	// last match. Both are set on the block that owns (and GetLine
	// emits) the lent lines, and both add to its result-row count. The
	// original's SEBlock carries these as two independently-named pairs
	// (borrowHeadLines/borrowTailLines on the borrowing block,
	// lendedHeadLines/lendedTailLines on the lending block) that are
	// never actually wired together; here the two ends of each borrow
	// are collapsed into the single value Merge computes, read by both
	// sides of the boundary.
	BorrowHeadLines uint32
	BorrowTailLines uint32
}

// Partition splits the mapped bytes data into newline-aligned blocks.
// Files up to constants.OneBlockThreshold bytes, or a concurrencyHint
// of 1 or less, give a single block; otherwise concurrencyHint blocks
// are made. Each boundary is placed just after the first '\n' at or
// after a multiple of len(data)/blocks, located with bytes.IndexByte
// (strstr's role in the original, without relying on NUL-terminated C
// strings).
//
// Partition never returns more than constants.MaxBlockCount blocks and
// always returns at least one, covering [0, totalSize) in full even
// when the file does not end with a trailing newline (the original's
// formatBlocks carries a "FIXME" for exactly this case; here it is
// resolved by clamping the last block's end to totalSize regardless of
// where the final search for a '\n' lands).
func Partition(data []byte, concurrencyHint int) []Block {
	totalSize := uint64(len(data))

	blocks := 1
	if totalSize > constants.OneBlockThreshold && concurrencyHint > 1 {
		blocks = concurrencyHint
		if blocks > constants.MaxBlockCount {
			blocks = constants.MaxBlockCount
		}
	}

	result := make([]Block, blocks)
	result[0] = Block{Active: true, ByteOffset: 0}

	if blocks == 1 {
		result[0].Size = totalSize
		return result
	}

	blockSize := totalSize / uint64(blocks)
	offset := blockSize

	i := 1
	for ; i < blocks; i++ {
		result[i].Active = true

		var byteOffset uint64
		if offset >= totalSize {
			// Ran out of file before placing every boundary: collapse
			// all remaining blocks onto the tail, same as the original
			// would once strstr found no further '\n'.
			byteOffset = totalSize
		} else {
			idx := bytes.IndexByte(data[offset:], '\n')
			if idx < 0 {
				byteOffset = totalSize
			} else {
				byteOffset = offset + uint64(idx) + 1
			}
		}

		result[i].ByteOffset = byteOffset
		result[i-1].Size = byteOffset - result[i-1].ByteOffset
		offset += blockSize
	}
	result[i-1].Size = totalSize - result[i-1].ByteOffset

	return result
}
