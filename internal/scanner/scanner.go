// Package scanner implements the engine's ByteScanner capability: a
// pluggable interface over a regex engine, used to locate line
// terminators and pattern matches within a byte region.
//
// Grounded on original_source/PeculiarLog/SearchEngine/HyperscanEngine.cpp,
// which drives Hyperscan's block-mode scan with a visitor callback that
// can request early termination. coregex (github.com/coregx/coregex)
// has no such streaming callback, so the Filter database here scans a
// bounded region up front and replays the combined EOL+pattern matches
// through the visitor in order, honoring early termination only at
// replay time. The EOL-only path keeps true early termination via a
// hand-rolled byte scan, since that is the hot path for unfiltered
// sequential access (see SPEC_FULL.md §4.B).
package scanner

import (
	"bytes"
	"sort"

	"github.com/coregx/coregex"
)

// MatchID identifies which database matched: either the end-of-line
// sentinel or a user-supplied filter pattern.
type MatchID uint32

const (
	// EOLID marks a newline match, mirroring the original's EOL_ID.
	EOLID MatchID = 0x5EE0
	// PatternID marks a user pattern match, mirroring PATTERN_ID.
	PatternID MatchID = 0x5EAA
)

// Visitor is invoked once per match found during a scan, in ascending
// order of match end offset. Returning true requests early
// termination: no further matches are reported for this Scan call.
type Visitor func(id MatchID, from, to uint64) (stop bool)

// Database is a compiled scanner ready to run against byte regions.
// Two concrete kinds exist: an EOL-only database (NewEOLDatabase) and
// a filter database combining EOL detection with one user pattern
// (NewFilterDatabase).
type Database interface {
	// Scan reports every match in data[0:len(data)] (data is itself
	// assumed to already be the region of interest; base is added to
	// reported offsets so callers can work in whole-file coordinates),
	// in ascending order, to visitor, stopping early if visitor returns
	// true.
	Scan(data []byte, base uint64, visitor Visitor)
}

// eolDatabase finds line terminators only. Scan is a true
// early-terminating linear byte scan: no regex engine involvement.
type eolDatabase struct{}

// NewEOLDatabase returns a Database that reports only newline matches.
func NewEOLDatabase() Database { return eolDatabase{} }

func (eolDatabase) Scan(data []byte, base uint64, visitor Visitor) {
	off := 0
	for {
		idx := bytes.IndexByte(data[off:], '\n')
		if idx < 0 {
			break
		}
		pos := off + idx
		if visitor(EOLID, base+uint64(pos), base+uint64(pos+1)) {
			return
		}
		off = pos + 1
		if off >= len(data) {
			return
		}
	}
	if off < len(data) {
		// No trailing '\n': treat end-of-data as an implicit line
		// terminator so the final, unterminated line is still reported.
		visitor(EOLID, base+uint64(len(data)), base+uint64(len(data))+1)
	}
}

// filterDatabase finds both newlines and occurrences of a compiled
// user pattern. coregex exposes no multi-pattern streaming callback,
// so Scan gathers both match streams over the full data slice, merges
// them by end offset, and replays the merged list to visitor.
type filterDatabase struct {
	pattern *coregex.Regex
}

// NewFilterDatabase wraps pattern (already compiled with its
// case-sensitivity and line-anchoring flags by the caller, see
// BuildPattern) and returns a Database reporting both EOLID and
// PatternID matches.
func NewFilterDatabase(pattern *coregex.Regex) Database {
	return filterDatabase{pattern: pattern}
}

type rawMatch struct {
	id       MatchID
	from, to int
}

func (f filterDatabase) Scan(data []byte, base uint64, visitor Visitor) {
	var matches []rawMatch

	off := 0
	for {
		idx := bytes.IndexByte(data[off:], '\n')
		if idx < 0 {
			break
		}
		pos := off + idx
		matches = append(matches, rawMatch{id: EOLID, from: pos, to: pos + 1})
		off = pos + 1
		if off >= len(data) {
			break
		}
	}
	if off < len(data) {
		matches = append(matches, rawMatch{id: EOLID, from: len(data), to: len(data) + 1})
	}

	pos := 0
	for pos <= len(data) {
		loc := f.pattern.FindIndex(data[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		matches = append(matches, rawMatch{id: PatternID, from: start, to: end})
		if end > pos {
			pos = end
		} else {
			pos++
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].to != matches[j].to {
			return matches[i].to < matches[j].to
		}
		// EOL sorts after a pattern match ending at the same offset, so
		// a match's EOL is always seen no earlier than the match itself.
		return matches[i].id == PatternID
	})

	for _, m := range matches {
		if visitor(m.id, base+uint64(m.from), base+uint64(m.to)) {
			return
		}
	}
}

// BuildPattern compiles a user-supplied pattern, applying the inline
// flags coregex supports for the ignoreCase toggle and for grep-style
// line anchoring. Patterns are compiled with (?m) so '^'/'$' bind to
// line boundaries within the scanned block rather than only to the
// block's own start/end: a block is an arbitrary file-offset slice,
// not a single line, so without (?m) "^err" could only ever match a
// pattern match occurring at byte 0 of a block, never at the start of
// an arbitrary line. Unlike the original HyperscanEngine, which set
// HS_FLAG_DOTALL so '.' could cross the scanned block's embedded
// newlines, filterDatabase.Scan always matches the pattern against the
// whole block in one pass and then attributes each hit to the line
// whose span contains it, so dot is left matching its normal
// single-line meaning here.
func BuildPattern(pattern string, ignoreCase bool) (*coregex.Regex, error) {
	flags := "(?m)"
	if ignoreCase {
		flags += "(?i)"
	}
	return coregex.Compile(flags + pattern)
}
