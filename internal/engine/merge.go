package engine

import (
	"github.com/alexhude/PeculiarLog/internal/block"
	"github.com/alexhude/PeculiarLog/internal/scope"
)

// mergeScope reconciles the head/tail spare-capacity counters Filter
// left on each block, turning context-line deficits at a block
// boundary into a borrow from the neighboring block, and grows that
// neighbor's tracker capacity so it can actually hold the borrowed
// lines. It adds the total number of borrowed lines to totalFiltered
// and returns the adjusted count.
//
// Grounded on SearchEngine.cpp's mergeScope().
func mergeScope(blocks []block.Block, before, after []*scope.Tracker, totalFiltered uint32) uint32 {
	var extraLines uint32
	var carry int32

	for i := 1; i < len(blocks); i++ {
		headLines := blocks[i].HeadLines

		var tailLines int32
		if blocks[i-1].FilteredLines != 0 {
			tailLines = blocks[i-1].TailLines
		} else {
			tailLines = blocks[i-1].HeadLines - carry
		}

		linesLeft := headLines + tailLines
		carry = 0

		switch {
		case tailLines < 0:
			// Block i-1 wanted more after-context than it found: block i
			// lends lines from its own head (tracked by its own
			// before-tracker) to serve as block i-1's tail context.
			if linesLeft > 0 {
				carry = headLines - linesLeft
			} else if headLines > 0 {
				carry = headLines
			}
			blocks[i].BorrowTailLines = uint32(carry)
			if before[i].GetSize() < int(carry) {
				before[i].SetSize(int(carry))
			}
		case headLines < 0:
			// Block i wanted more before-context than it found: block
			// i-1 lends lines from its own tail (tracked by its own
			// after-tracker) to serve as block i's head context.
			if linesLeft > 0 {
				carry = tailLines - linesLeft
			} else if tailLines > 0 {
				carry = tailLines
			}
			blocks[i-1].BorrowHeadLines = uint32(carry)
			if after[i-1].GetSize() < int(carry) {
				after[i-1].SetSize(int(carry))
			}
		default:
			carry = 0
		}

		extraLines += uint32(carry)
	}

	return totalFiltered + extraLines
}
