// Package engine implements the parallel, filter-and-scope-aware line
// indexer over a memory-mapped file: partitioning into blocks,
// per-block newline/pattern scanning, cross-block scope
// reconciliation, and random-access line lookup.
//
// Grounded on original_source/PeculiarLog/SearchEngine/SearchEngine.{hpp,cpp}
// and HyperscanEngine.{hpp,cpp}; the Go port collapses the C ABI's
// se_init/se_fetch/.../se_destroy functions and the SearchEngine/
// HyperscanEngine class split into a single Engine type with plain
// methods, since there is no second backend and no host-language
// barrier to cross.
package engine

import (
	"github.com/alexhude/PeculiarLog/internal/block"
	"github.com/alexhude/PeculiarLog/internal/constants"
	"github.com/alexhude/PeculiarLog/internal/mmapfile"
	"github.com/alexhude/PeculiarLog/internal/scanner"
	"github.com/alexhude/PeculiarLog/internal/scope"
	"github.com/alexhude/PeculiarLog/internal/seerrors"
)

// LineInfo describes one line returned by GetLine: its bytes (a
// zero-copy slice into the mapped file), its absolute line number, and
// whether it is a context line rather than a direct pattern match.
type LineInfo struct {
	Line   []byte
	Number uint32
	Scope  bool
}

// cursor caches the most recent GetLine result so sequential scans
// (the common case: a viewer paging forward) don't re-scan each block
// from its start. A zero cursor has no prediction; predictionValid tracks that
// explicitly instead of relying on an out-of-band sentinel value,
// per the no-unsigned-wraparound-sentinels convention used throughout
// this port.
type cursor struct {
	recentBlock         int
	recentLineOffset    uint32
	recentAbsLineOffset uint32

	predictionValid  bool
	predictedLineNum uint32
	predictedAbsNum  uint32
	predictedLinePos uint64
}

func (c *cursor) invalidate() {
	c.predictionValid = false
}

// Engine is a single mapped file's line index. It is not safe for
// concurrent use across Fetch/Filter/MergeScope/GetLine calls from
// different goroutines without external synchronization beyond what
// each method documents (Fetch/Filter may run concurrently across
// distinct block indices; MergeScope/GetLine/Close must be serialized
// by the caller, mirroring the C API's single-threaded
// se_merge_scope/se_get_line/se_destroy contract).
type Engine struct {
	file *mmapfile.File
	data []byte

	blocks []block.Block

	eolDB scanner.Database

	filtered   bool
	ignoreCase bool
	pattern    string
	filterDB   scanner.Database

	scopeBefore uint32
	scopeAfter  uint32

	beforeTrackers []*scope.Tracker
	afterTrackers  []*scope.Tracker

	totalFilteredLines uint32

	cur cursor
}

// Open memory-maps path and prepares an Engine for Init.
func Open(path string) (*Engine, error) {
	f, err := mmapfile.Open(path)
	if err != nil {
		return nil, err
	}
	return &Engine{file: f, data: f.Bytes(), eolDB: scanner.NewEOLDatabase()}, nil
}

// Init partitions the mapped file into blocks, using concurrencyHint
// as the target block count for files above the one-block threshold.
// Grounded on SearchEngine::init + formatBlocks.
func (e *Engine) Init(concurrencyHint int) int {
	e.blocks = block.Partition(e.data, concurrencyHint)
	e.beforeTrackers = make([]*scope.Tracker, len(e.blocks))
	e.afterTrackers = make([]*scope.Tracker, len(e.blocks))
	for i := range e.blocks {
		e.beforeTrackers[i] = scope.New(constants.MaxScopeBefore, scope.Ring)
		e.afterTrackers[i] = scope.New(constants.MaxScopeAfter, scope.Fixed)
	}
	e.cur.recentBlock = -1
	return len(e.blocks)
}

// BlockCount returns how many blocks Init produced.
func (e *Engine) BlockCount() int { return len(e.blocks) }

// TotalBytes returns the mapped file's size.
func (e *Engine) TotalBytes() uint64 { return e.file.Size() }

// IsFiltered reports whether a non-empty pattern is active.
func (e *Engine) IsFiltered() bool { return e.filtered }

// Fetch counts lines and the longest line width in block blockIdx.
// Safe to call concurrently across distinct indices.
func (e *Engine) Fetch(blockIdx int) (lines uint32, maxLength uint32, err error) {
	if blockIdx < 0 || blockIdx >= len(e.blocks) {
		return 0, 0, seerrors.New(seerrors.BadArgument, "block index %d out of range", blockIdx)
	}
	b := &e.blocks[blockIdx]
	if !b.Active {
		return 0, 0, seerrors.New(seerrors.BadArgument, "block %d inactive", blockIdx)
	}
	lines, maxLength = fetchBlock(e.data, b, e.eolDB)
	return lines, maxLength, nil
}

// SetIgnoreCase toggles case-insensitive pattern matching for the next
// SetPattern call.
func (e *Engine) SetIgnoreCase(ignoreCase bool) {
	e.ignoreCase = ignoreCase
}

// SetScope configures before/after context line counts, clamped to
// constants.MaxScopeBefore/After, and resizes every block's trackers
// accordingly. Grounded on HyperscanEngine::setScope.
func (e *Engine) SetScope(before, after uint32) {
	if before > constants.MaxScopeBefore {
		before = constants.MaxScopeBefore
	}
	if after > constants.MaxScopeAfter {
		after = constants.MaxScopeAfter
	}
	e.scopeBefore = before
	e.scopeAfter = after
	for i := range e.blocks {
		e.beforeTrackers[i].SetSize(int(before))
		e.afterTrackers[i].SetSize(int(after))
	}
}

// SetPattern compiles pattern as the active filter. An empty pattern
// disables filtering. Grounded on HyperscanEngine::setPattern.
func (e *Engine) SetPattern(pattern string) error {
	e.filtered = pattern != ""
	e.pattern = pattern
	e.cur.invalidate()

	if !e.filtered {
		e.filterDB = nil
		return nil
	}

	re, err := scanner.BuildPattern(pattern, e.ignoreCase)
	if err != nil {
		return seerrors.Wrap(seerrors.BadArgument, err, "compile pattern")
	}
	e.filterDB = scanner.NewFilterDatabase(re)

	for i := range e.blocks {
		e.blocks[i].FilteredLines = 0
		e.blocks[i].ScopeLines = 0
		e.blocks[i].HeadLines = 0
		e.blocks[i].TailLines = 0
		e.blocks[i].BorrowHeadLines = 0
		e.blocks[i].BorrowTailLines = 0
		e.beforeTrackers[i].Reset()
		e.afterTrackers[i].Reset()
	}
	e.totalFilteredLines = 0
	return nil
}

// Filter scans block blockIdx for pattern matches (and scope context,
// if configured), updating its counters. Safe to call concurrently
// across distinct indices. A no-op returning (0, 0, nil) if no pattern
// is active.
func (e *Engine) Filter(blockIdx int) (lines uint32, maxLength uint32, err error) {
	if !e.filtered {
		return 0, 0, nil
	}
	if blockIdx < 0 || blockIdx >= len(e.blocks) {
		return 0, 0, seerrors.New(seerrors.BadArgument, "block index %d out of range", blockIdx)
	}
	b := &e.blocks[blockIdx]
	if !b.Active {
		return 0, 0, seerrors.New(seerrors.BadArgument, "block %d inactive", blockIdx)
	}

	if e.scopeBefore > 0 || e.scopeAfter > 0 {
		maxLength = filterBlock(e.data, b, e.filterDB, e.beforeTrackers[blockIdx], e.afterTrackers[blockIdx], e.scopeBefore, e.scopeAfter)
	} else {
		maxLength = filterBlockNoScope(e.data, b, e.filterDB)
	}

	return b.FilteredLines, maxLength, nil
}

// MergeScope reconciles scope context across block boundaries once
// every block has been filtered, and returns the total number of
// result lines (matches plus context) across the whole file.
func (e *Engine) MergeScope() (uint32, error) {
	if len(e.blocks) == 0 {
		return 0, seerrors.New(seerrors.InvalidContext, "engine not initialized")
	}

	var total uint32
	for i := range e.blocks {
		total += e.blocks[i].FilteredLines
	}
	e.totalFilteredLines = mergeScope(e.blocks, e.beforeTrackers, e.afterTrackers, total)
	return e.totalFilteredLines, nil
}

// GetRowForAbsLine is the inverse of GetLine: given an absolute file
// line number, it would return the result-row index that line
// currently occupies. The original engine never implemented this
// direction (there is no reverse index from an absolute line number
// back to a filtered/scoped row), so this mirrors the C API's
// allowance and reports NotSupported. Grounded on
// SearchEngine.hpp/.cpp's get_row_for_abs_line, which spec.md §6 notes
// "may return NotSupported".
func (e *Engine) GetRowForAbsLine(absLine uint32) (uint32, error) {
	return 0, seerrors.New(seerrors.NotSupported, "get_row_for_abs_line %d", absLine)
}

// Close releases the mapped file.
func (e *Engine) Close() error {
	return e.file.Close()
}
