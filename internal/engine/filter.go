package engine

import (
	"github.com/alexhude/PeculiarLog/internal/block"
	"github.com/alexhude/PeculiarLog/internal/scanner"
	"github.com/alexhude/PeculiarLog/internal/scope"
)

// filterBlock scans a block for pattern matches and, when a before/
// after scope is configured, the surrounding context lines, updating
// b's FilteredLines/ScopeLines/HeadLines/TailLines counters in place.
//
// Grounded on HyperscanEngine.cpp's filter(): a single combined EOL+
// pattern scan where a "patternMatch" flag set by a PATTERN_ID hit is
// consulted at the following EOL hit to decide whether that line
// counts as a match. Context lines preceding the first match in the
// block accumulate in the before-tracker (Ring); once a match is seen,
// subsequent non-matching lines go to the after-tracker (Fixed) until
// it's full, after which they spill into the before-tracker again
// (this spillover is preserved as-is from the original, which leaves
// it a `// TODO: investigate`).
func filterBlock(data []byte, b *block.Block, db scanner.Database, before, after *scope.Tracker, scopeBefore, scopeAfter uint32) uint32 {
	region := data[b.ByteOffset : b.ByteOffset+b.Size]

	var maxLength uint32
	var lastHit uint64
	var patternMatch bool

	db.Scan(region, 0, func(id scanner.MatchID, from, to uint64) bool {
		if id == scanner.PatternID {
			patternMatch = true
			return false
		}

		// id == scanner.EOLID
		if patternMatch {
			length := uint32(to - lastHit - 1)
			if length > maxLength {
				maxLength = length
			}
			if b.FilteredLines > 0 {
				if m := after.GetMaxLength(); m > maxLength {
					maxLength = m
				}
				if m := before.GetMaxLength(); m > maxLength {
					maxLength = m
				}
				b.ScopeLines += uint32(before.GetCount() + after.GetCount())
			} else {
				if m := before.GetMaxLength(); m > maxLength {
					maxLength = m
				}
				b.ScopeLines += uint32(before.GetCount())
				b.HeadLines = b.TailLines
			}
			b.TailLines = 0
			b.FilteredLines++
			before.Reset()
			after.Reset()
		} else {
			length := uint32(to - lastHit - 1)
			if b.FilteredLines > 0 {
				if !after.IsFull() {
					after.PushScope(lastHit, length)
				} else {
					before.PushScope(lastHit, length)
				}
			} else {
				before.PushScope(lastHit, length)
			}
			b.TailLines++
		}
		lastHit = to
		patternMatch = false
		return false
	})

	if m := after.GetMaxLength(); m > maxLength {
		maxLength = m
	}
	if b.FilteredLines > 0 {
		b.ScopeLines += uint32(after.GetCount())
	}

	if b.FilteredLines > 0 {
		b.HeadLines -= int32(scopeBefore)
		b.TailLines -= int32(scopeAfter)
	} else {
		b.HeadLines = b.TailLines
		b.TailLines = 0
	}

	b.FilteredLines += b.ScopeLines
	return maxLength
}

// filterBlockNoScope is the scope-free fast path: it only needs a
// match/no-match decision per line, mirroring filter()'s "else"
// branch.
func filterBlockNoScope(data []byte, b *block.Block, db scanner.Database) uint32 {
	region := data[b.ByteOffset : b.ByteOffset+b.Size]

	var maxLength uint32
	var lastHit uint64
	var patternMatch bool

	db.Scan(region, 0, func(id scanner.MatchID, from, to uint64) bool {
		if id == scanner.PatternID {
			patternMatch = true
			return false
		}
		if patternMatch {
			if length := uint32(to - lastHit - 1); length > maxLength {
				maxLength = length
			}
			b.FilteredLines++
		}
		lastHit = to
		patternMatch = false
		return false
	})

	return maxLength
}
