package engine

import (
	"github.com/alexhude/PeculiarLog/internal/block"
	"github.com/alexhude/PeculiarLog/internal/scanner"
	"github.com/alexhude/PeculiarLog/internal/seerrors"
)

// virtualLines is the number of result rows block i contributes once
// matches and any borrowed context are accounted for.
func (e *Engine) virtualLines(i int) uint32 {
	b := &e.blocks[i]
	return b.FilteredLines + b.BorrowHeadLines + b.BorrowTailLines
}

// GetLine returns the row at absolute result index number: the
// number'th matching-or-context line when filtered, or simply the
// number'th line of the file otherwise. Grounded on
// HyperscanEngine.cpp's getLine, including its predictive cursor
// (m_predictedLineNum/m_predictedLinePos) that makes sequential access
// amortized O(1) per line without changing the result of a
// non-sequential jump.
func (e *Engine) GetLine(number uint32) (LineInfo, error) {
	if len(e.blocks) == 0 {
		return LineInfo{}, seerrors.New(seerrors.InvalidContext, "engine not initialized")
	}
	if !e.filtered {
		return e.getLineUnfiltered(number)
	}
	return e.getLineFiltered(number)
}

func (e *Engine) getLineUnfiltered(number uint32) (LineInfo, error) {
	blockIdx := 0
	var lineOffset uint32
	if e.cur.recentBlock >= 0 && number > e.cur.recentLineOffset {
		blockIdx = e.cur.recentBlock
		lineOffset = e.cur.recentLineOffset
	} else {
		lineOffset = e.blocks[0].Lines
	}

	var currentLine uint32
	for number >= lineOffset {
		currentLine = lineOffset
		blockIdx++
		if blockIdx >= len(e.blocks) {
			return LineInfo{}, seerrors.New(seerrors.BadArgument, "line %d out of range", number)
		}
		lineOffset += e.blocks[blockIdx].Lines
	}

	if blockIdx != e.cur.recentBlock {
		e.cur.invalidate()
	}

	basePos := e.blocks[blockIdx].ByteOffset
	pos := basePos
	if e.cur.predictionValid && number == e.cur.predictedLineNum {
		currentLine = e.cur.predictedLineNum
		pos = e.cur.predictedLinePos
	}

	scanSize := e.blocks[blockIdx].Size - (pos - basePos)
	region := e.data[pos : pos+scanSize]

	var lastHit uint64
	var length uint32
	found := false
	e.eolDB.Scan(region, 0, func(id scanner.MatchID, from, to uint64) bool {
		if currentLine == number {
			length = uint32(to - lastHit - 1)
			found = true
			return true
		}
		lastHit = to
		currentLine++
		return false
	})
	if !found {
		return LineInfo{}, seerrors.New(seerrors.UnknownError, "line %d not found", number)
	}

	lineStart := pos + lastHit
	line := e.data[lineStart : lineStart+uint64(length)]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}

	e.cur.predictedLinePos = pos + lastHit + uint64(length) + 1
	e.cur.predictedLineNum = number + 1
	e.cur.predictionValid = true
	e.cur.recentBlock = blockIdx
	e.cur.recentLineOffset = lineOffset

	return LineInfo{Line: line, Number: number, Scope: false}, nil
}

func (e *Engine) getLineFiltered(number uint32) (LineInfo, error) {
	blockIdx := 0
	var lineOffset, absLineOffset, absNumber uint32
	if e.cur.recentBlock >= 0 && number > e.cur.recentLineOffset {
		blockIdx = e.cur.recentBlock
		lineOffset = e.cur.recentLineOffset
		absLineOffset = e.cur.recentAbsLineOffset
	} else {
		lineOffset = e.virtualLines(0)
		absLineOffset = e.blocks[0].Lines
	}

	var currentLine uint32
	for number >= lineOffset {
		currentLine = lineOffset
		absNumber = absLineOffset
		blockIdx++
		if blockIdx >= len(e.blocks) {
			return LineInfo{}, seerrors.New(seerrors.BadArgument, "line %d out of range", number)
		}
		lineOffset += e.virtualLines(blockIdx)
		absLineOffset += e.blocks[blockIdx].Lines
	}
	baseLine := currentLine

	if blockIdx != e.cur.recentBlock {
		e.beforeTrackers[blockIdx].Reset()
		e.afterTrackers[blockIdx].Reset()
		e.cur.invalidate()
	}

	b := &e.blocks[blockIdx]
	basePos := b.ByteOffset
	searchPos := basePos
	if e.cur.predictionValid && number == e.cur.predictedLineNum {
		absNumber = e.cur.predictedAbsNum
		currentLine = e.cur.predictedLineNum
		searchPos = e.cur.predictedLinePos
	} else {
		e.beforeTrackers[blockIdx].Reset()
		e.afterTrackers[blockIdx].Reset()
		e.cur.invalidate()
	}

	scanSize := b.Size - (searchPos - basePos)

	var lastHit uint64
	var length uint32
	var isScope bool
	var err error

	if e.scopeBefore > 0 || e.scopeAfter > 0 {
		if b.FilteredLines > 0 {
			lastHit, length, isScope, currentLine, absNumber, err = e.getLineScopeMatched(
				b, blockIdx, number, currentLine, absNumber, baseLine, lineOffset, searchPos, scanSize)
		} else {
			lastHit, length, isScope, currentLine, absNumber, err = e.getLineScopeBorrowed(
				b, blockIdx, number, currentLine, absNumber, baseLine, lineOffset, searchPos, scanSize)
		}
	} else {
		lastHit, length, isScope, currentLine, absNumber, err = e.getLineNoScope(
			number, currentLine, absNumber, searchPos, scanSize)
	}
	if err != nil {
		return LineInfo{}, err
	}

	lineStart := searchPos + lastHit
	line := e.data[lineStart : lineStart+uint64(length)]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}

	e.cur.predictedLinePos = searchPos + lastHit + uint64(length) + 1
	e.cur.predictedAbsNum = absNumber + 1
	e.cur.predictedLineNum = number + 1
	e.cur.predictionValid = true
	e.cur.recentBlock = blockIdx
	e.cur.recentLineOffset = lineOffset
	e.cur.recentAbsLineOffset = absLineOffset

	return LineInfo{Line: line, Number: absNumber, Scope: isScope}, nil
}

// getLineScopeMatched handles a block that contains at least one
// pattern match itself, returning either a match row or one of its
// before/after context rows.
func (e *Engine) getLineScopeMatched(
	b *block.Block, blockIdx int, number, currentLine, absNumber, baseLine, lineOffset uint32, searchPos, scanSize uint64,
) (lastHit uint64, length uint32, isScope bool, outLine, outAbs uint32, err error) {
	btracker := e.beforeTrackers[blockIdx]
	atracker := e.afterTrackers[blockIdx]
	borrowTailLines := b.BorrowTailLines
	borrowHeadLines := b.BorrowHeadLines

	lineFound := false

	if btracker.HasBaseLine() {
		if !btracker.IsEmpty() {
			_, l, _ := btracker.PopScope()
			length = l
			isScope = true
			lineFound = true
		} else {
			_, l, _ := btracker.PopBaseLine()
			length = l
			isScope = false
			lineFound = true
			btracker.Reset()
		}
	} else if currentLine > lineOffset-borrowHeadLines {
		if btracker.GetCount() > 0 {
			pos, l, _ := btracker.PopScope()
			lastHit = pos - searchPos
			length = l
			isScope = true
			lineFound = true
		}
	}

	if !lineFound {
		region := e.data[searchPos : searchPos+scanSize]
		var patternMatch bool
		stopped := false

		e.filterDB.Scan(region, 0, func(id scanner.MatchID, from, to uint64) bool {
			if id == scanner.PatternID {
				patternMatch = true
				return false
			}

			if patternMatch {
				scopeBaseLine := currentLine + uint32(btracker.GetCount())
				atracker.Reset()
				atracker.PushBaseLine(scopeBaseLine, lastHit+searchPos, uint32(to-lastHit-1))
				btracker.PushBaseLine(scopeBaseLine, lastHit+searchPos, uint32(to-lastHit-1))

				if btracker.GetCount() > 0 {
					absNumber -= uint32(btracker.GetCount())
					pos, l, ok := btracker.PopScope()
					for ok {
						length = l
						if currentLine == number {
							lastHit = pos - searchPos
							isScope = true
							stopped = true
							return true
						}
						pos, l, ok = btracker.PopScope()
						currentLine++
						absNumber++
					}
				}
				btracker.Reset()

				if currentLine == number {
					length = uint32(to - lastHit - 1)
					isScope = false
					stopped = true
					return true
				}
				currentLine++
			} else {
				lineLen := uint32(to - lastHit - 1)
				if atracker.HasBaseLine() {
					if !atracker.IsFull() {
						if !atracker.PushScope(lastHit+searchPos, lineLen) {
							atracker.Reset()
						}
						if currentLine == number {
							length = lineLen
							isScope = true
							stopped = true
							return true
						}
						currentLine++
					} else {
						btracker.PushScope(lastHit+searchPos, lineLen)
					}
				} else if currentLine < baseLine+borrowTailLines {
					if currentLine == number {
						length = uint32(to - lastHit - 1)
						isScope = true
						stopped = true
						return true
					}
					currentLine++
				} else {
					btracker.PushScope(lastHit+searchPos, lineLen)
				}
			}

			lastHit = to
			absNumber++
			patternMatch = false
			return false
		})

		if !stopped && borrowHeadLines > 0 {
			if btracker.GetCount() > 0 {
				absNumber -= uint32(btracker.GetCount())
				pos, l, _ := btracker.PopScope()
				lastHit = pos - searchPos
				length = l
				isScope = true
			}
		}
	}

	return lastHit, length, isScope, currentLine, absNumber, nil
}

// getLineScopeBorrowed handles a block with no match of its own,
// serving only lines it borrowed from a neighboring block's context.
func (e *Engine) getLineScopeBorrowed(
	b *block.Block, blockIdx int, number, currentLine, absNumber, baseLine, lineOffset uint32, searchPos, scanSize uint64,
) (lastHit uint64, length uint32, isScope bool, outLine, outAbs uint32, err error) {
	btracker := e.beforeTrackers[blockIdx]
	borrowTailLines := b.BorrowTailLines
	borrowHeadLines := b.BorrowHeadLines

	lineFound := false
	if currentLine > lineOffset-borrowHeadLines {
		if btracker.GetCount() > 0 {
			pos, l, _ := btracker.PopScope()
			lastHit = pos - searchPos
			length = l
			isScope = true
			lineFound = true
		}
	}

	if !lineFound {
		region := e.data[searchPos : searchPos+scanSize]
		stopped := false
		e.eolDB.Scan(region, 0, func(id scanner.MatchID, from, to uint64) bool {
			lineLen := uint32(to - lastHit - 1)
			if currentLine < baseLine+borrowTailLines {
				if currentLine == number {
					length = lineLen
					isScope = true
					stopped = true
					return true
				}
				currentLine++
			}
			if borrowHeadLines > 0 {
				btracker.PushScope(lastHit+searchPos, lineLen)
			}
			lastHit = to
			absNumber++
			return false
		})
		if !stopped && borrowHeadLines > 0 {
			if btracker.GetCount() > 0 {
				absNumber -= uint32(btracker.GetCount())
				pos, l, _ := btracker.PopScope()
				lastHit = pos - searchPos
				length = l
				isScope = true
			}
		}
	}

	return lastHit, length, isScope, currentLine, absNumber, nil
}

// getLineNoScope is the optimized path used when no before/after
// context is configured: a line either matches the pattern or is
// skipped entirely.
func (e *Engine) getLineNoScope(
	number, currentLine, absNumber uint32, searchPos, scanSize uint64,
) (lastHit uint64, length uint32, isScope bool, outLine, outAbs uint32, err error) {
	region := e.data[searchPos : searchPos+scanSize]
	var patternMatch bool

	e.filterDB.Scan(region, 0, func(id scanner.MatchID, from, to uint64) bool {
		if id == scanner.PatternID {
			patternMatch = true
			return false
		}
		if patternMatch {
			if currentLine == number {
				length = uint32(to - lastHit - 1)
				return true
			}
			currentLine++
		}
		lastHit = to
		absNumber++
		patternMatch = false
		return false
	})

	return lastHit, length, false, currentLine, absNumber, nil
}
