package scanner

import "testing"

func TestEOLDatabaseFindsAllNewlines(t *testing.T) {
	data := []byte("abc\ndef\nghi\n")
	var got []uint64
	NewEOLDatabase().Scan(data, 0, func(id MatchID, from, to uint64) bool {
		if id != EOLID {
			t.Fatalf("unexpected id %v", id)
		}
		got = append(got, from)
		return false
	})
	want := []uint64{3, 7, 11}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestEOLDatabaseEarlyTermination(t *testing.T) {
	data := []byte("a\nb\nc\nd\n")
	count := 0
	NewEOLDatabase().Scan(data, 0, func(id MatchID, from, to uint64) bool {
		count++
		return count == 2
	})
	if count != 2 {
		t.Fatalf("expected scan to stop after 2 matches, got %d", count)
	}
}

func TestEOLDatabaseBaseOffset(t *testing.T) {
	data := []byte("x\n")
	NewEOLDatabase().Scan(data, 1000, func(id MatchID, from, to uint64) bool {
		if from != 1001 || to != 1002 {
			t.Fatalf("expected base-adjusted offsets, got %d %d", from, to)
		}
		return false
	})
}

func TestFilterDatabaseMergesPatternAndEOL(t *testing.T) {
	re, err := BuildPattern("ERROR", false)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	db := NewFilterDatabase(re)
	data := []byte("ok\nERROR bad\nok\nERROR worse\n")

	type hit struct {
		id   MatchID
		from uint64
	}
	var hits []hit
	db.Scan(data, 0, func(id MatchID, from, to uint64) bool {
		hits = append(hits, hit{id, from})
		return false
	})

	patternHits := 0
	eolHits := 0
	for _, h := range hits {
		switch h.id {
		case PatternID:
			patternHits++
		case EOLID:
			eolHits++
		}
	}
	if patternHits != 2 {
		t.Fatalf("expected 2 pattern hits, got %d", patternHits)
	}
	if eolHits != 4 {
		t.Fatalf("expected 4 EOL hits, got %d", eolHits)
	}

	for i := 1; i < len(hits); i++ {
		if hits[i].from < hits[i-1].from {
			t.Fatalf("hits not monotonically ordered: %v", hits)
		}
	}
}

func TestFilterDatabaseIgnoreCase(t *testing.T) {
	re, err := BuildPattern("error", true)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	db := NewFilterDatabase(re)
	data := []byte("ERROR here\n")
	found := false
	db.Scan(data, 0, func(id MatchID, from, to uint64) bool {
		if id == PatternID {
			found = true
		}
		return false
	})
	if !found {
		t.Fatalf("expected case-insensitive match to be found")
	}
}

func TestFilterDatabaseEarlyTermination(t *testing.T) {
	re, err := BuildPattern("x", false)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	db := NewFilterDatabase(re)
	data := []byte("x\nx\nx\nx\n")
	count := 0
	db.Scan(data, 0, func(id MatchID, from, to uint64) bool {
		count++
		return count == 1
	})
	if count != 1 {
		t.Fatalf("expected early termination after 1 match, got %d", count)
	}
}
