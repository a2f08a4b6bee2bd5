// Package scope implements the bounded context-line tracker used by the
// block filter and line locator to remember candidate "before" context
// lines and pending "after" context lines across a scan.
//
// Grounded on original_source/PeculiarLog/SearchEngine/ScopeTracker.hpp:
// a fixed-capacity ring of (position, length) entries plus a single
// "base line" slot remembering the match line whose context is being
// replayed.
package scope

import "math"

// Policy controls what pushScope does when the tracker is full.
type Policy int

const (
	// Ring evicts the oldest entry and accepts the new one, returning
	// true. Used for "before" trackers: we only ever care about the most
	// recent scopeBefore candidates.
	Ring Policy = iota
	// Fixed rejects the push once full, returning false. Used for
	// "after" trackers: once scopeAfter trailing lines are queued, any
	// further non-match line is not after-context for this match.
	Fixed
)

// noPos is the sentinel for "no entry"/"no base line", standing in for
// the original C++'s reliance on signed-wraparound -1. We use an
// explicit constant instead of overflowing an unsigned type (see
// SPEC_FULL.md §9 Design Notes on sentinels).
const noPos uint64 = math.MaxUint64

// entry is a single tracked context line: its byte offset and length.
type entry struct {
	pos    uint64
	length uint32
}

// Tracker is a bounded FIFO of context-line candidates plus one base
// line slot, parameterised by a maximum capacity and an overflow
// Policy.
type Tracker struct {
	maxSize int
	policy  Policy

	size       int
	entries    []entry
	start, end int
	count      int

	hasBase       bool
	baseLine      uint32
	basePos       uint64
	baseLength    uint32
}

// New creates a Tracker with the given maximum capacity and overflow
// policy. Capacity may be grown later with SetSize, up to maxSize.
func New(maxSize int, policy Policy) *Tracker {
	return &Tracker{
		maxSize: maxSize,
		policy:  policy,
		size:    maxSize,
		entries: make([]entry, maxSize),
	}
}

func (t *Tracker) wrap(idx int) int {
	if t.size == 0 {
		return 0
	}
	return idx % t.size
}

// SetSize changes the effective capacity. A size above the maxSize
// passed to New is clamped to maxSize. Changing the capacity resets
// the tracker; setting the current capacity again leaves it untouched.
func (t *Tracker) SetSize(size int) {
	if size > t.maxSize {
		size = t.maxSize
	}
	if size == t.size {
		return
	}
	t.size = size
	if len(t.entries) < size {
		grown := make([]entry, size)
		copy(grown, t.entries)
		t.entries = grown
	}
	t.Reset()
}

// GetSize returns the current effective capacity.
func (t *Tracker) GetSize() int { return t.size }

// IsEmpty reports whether the tracker holds no entries.
func (t *Tracker) IsEmpty() bool { return t.count == 0 }

// IsFull reports whether the tracker is at capacity.
func (t *Tracker) IsFull() bool { return t.size > 0 && t.count == t.size }

// GetCount returns the number of entries currently held.
func (t *Tracker) GetCount() int { return t.count }

// GetMaxLength returns the maximum line length across all held entries.
func (t *Tracker) GetMaxLength() uint32 {
	var max uint32
	idx := t.start
	for n := t.count; n > 0; n-- {
		if t.entries[idx].length > max {
			max = t.entries[idx].length
		}
		idx = t.wrap(idx + 1)
	}
	return max
}

// HasBaseLine reports whether a base line is currently held.
func (t *Tracker) HasBaseLine() bool { return t.hasBase }

// GetTopScopeLine returns the absolute line number of the oldest
// held scope entry, derived from the base line and current count.
func (t *Tracker) GetTopScopeLine() uint32 {
	return t.baseLine - uint32(t.count)
}

// PushBaseLine records the match line whose context is being tracked.
func (t *Tracker) PushBaseLine(line uint32, pos uint64, length uint32) {
	if t.size == 0 {
		return
	}
	t.hasBase = true
	t.baseLine = line
	t.basePos = pos
	t.baseLength = length
}

// PopBaseLine removes and returns the base line's position and length.
// Returns (noPos, 0, false) if no base line is held.
func (t *Tracker) PopBaseLine() (pos uint64, length uint32, ok bool) {
	if t.size == 0 || !t.hasBase {
		return noPos, 0, false
	}
	pos, length = t.basePos, t.baseLength
	t.hasBase = false
	return pos, length, true
}

// PushScope records a context-line candidate. Returns false if the
// tracker uses the Fixed policy and is already full (the push is then
// a no-op); true otherwise, including when the Ring policy silently
// evicted the oldest entry to make room.
func (t *Tracker) PushScope(pos uint64, length uint32) bool {
	if t.size == 0 {
		return false
	}
	if t.policy == Fixed && t.count == t.size {
		return false
	}

	t.entries[t.end] = entry{pos: pos, length: length}
	if t.count == t.size {
		// Ring overflow: advance start to evict the oldest entry.
		t.start = t.wrap(t.start + 1)
		t.end = t.start
	} else {
		t.end = t.wrap(t.end + 1)
		t.count++
	}
	return true
}

// PopScope removes and returns the oldest tracked entry in FIFO order.
// Returns (noPos, 0, false) when empty.
func (t *Tracker) PopScope() (pos uint64, length uint32, ok bool) {
	if t.size == 0 || t.count == 0 {
		return noPos, 0, false
	}
	t.count--
	idx := t.start
	t.start = t.wrap(t.start + 1)
	e := t.entries[idx]
	return e.pos, e.length, true
}

// Reset clears all held entries and the base line.
func (t *Tracker) Reset() {
	t.count = 0
	t.start = 0
	t.end = 0
	t.hasBase = false
	t.baseLine = 0
	t.basePos = noPos
	t.baseLength = 0
}
