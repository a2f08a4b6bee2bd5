package engine

import (
	"github.com/alexhude/PeculiarLog/internal/block"
	"github.com/alexhude/PeculiarLog/internal/scanner"
)

// fetchBlock counts newlines within the given block's byte span and
// reports the block's line count and longest line length.
//
// Grounded on HyperscanEngine.cpp's fetch(): a single EOL-only scan
// accumulating a running "lastHit" cursor, incrementing a line counter
// per newline and tracking the widest line seen.
func fetchBlock(data []byte, b *block.Block, eol scanner.Database) (lines uint32, maxLength uint32) {
	region := data[b.ByteOffset : b.ByteOffset+b.Size]

	var lastHit uint64
	eol.Scan(region, 0, func(id scanner.MatchID, from, to uint64) bool {
		if length := uint32(to - lastHit - 1); length > maxLength {
			maxLength = length
		}
		lastHit = to
		lines++
		return false
	})

	b.Lines = lines
	return lines, maxLength
}
