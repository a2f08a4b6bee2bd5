package scope

import "testing"

func TestRingEvictsOldest(t *testing.T) {
	tr := New(2, Ring)
	if !tr.IsEmpty() {
		t.Fatalf("expected empty tracker")
	}
	if ok := tr.PushScope(10, 5); !ok {
		t.Fatalf("push 1 should succeed")
	}
	if ok := tr.PushScope(20, 6); !ok {
		t.Fatalf("push 2 should succeed")
	}
	if !tr.IsFull() {
		t.Fatalf("expected full tracker after 2 pushes into size-2 ring")
	}
	if ok := tr.PushScope(30, 7); !ok {
		t.Fatalf("ring push should evict, not reject")
	}
	if tr.GetCount() != 2 {
		t.Fatalf("expected count 2, got %d", tr.GetCount())
	}

	pos, length, ok := tr.PopScope()
	if !ok || pos != 20 || length != 6 {
		t.Fatalf("expected oldest surviving entry (20,6), got (%d,%d,%v)", pos, length, ok)
	}
	pos, length, ok = tr.PopScope()
	if !ok || pos != 30 || length != 7 {
		t.Fatalf("expected (30,7), got (%d,%d,%v)", pos, length, ok)
	}
	if _, _, ok = tr.PopScope(); ok {
		t.Fatalf("expected empty tracker after draining")
	}
}

func TestFixedRejectsOnceFull(t *testing.T) {
	tr := New(2, Fixed)
	if ok := tr.PushScope(1, 1); !ok {
		t.Fatalf("push 1 should succeed")
	}
	if ok := tr.PushScope(2, 2); !ok {
		t.Fatalf("push 2 should succeed")
	}
	if ok := tr.PushScope(3, 3); ok {
		t.Fatalf("fixed tracker should reject push once full")
	}
	if tr.GetCount() != 2 {
		t.Fatalf("expected count to remain 2, got %d", tr.GetCount())
	}
}

func TestBaseLineRoundTrip(t *testing.T) {
	tr := New(4, Ring)
	if tr.HasBaseLine() {
		t.Fatalf("expected no base line initially")
	}
	tr.PushBaseLine(42, 1000, 20)
	if !tr.HasBaseLine() {
		t.Fatalf("expected base line to be held")
	}
	pos, length, ok := tr.PopBaseLine()
	if !ok || pos != 1000 || length != 20 {
		t.Fatalf("unexpected base line values: %d %d %v", pos, length, ok)
	}
	if tr.HasBaseLine() {
		t.Fatalf("expected base line cleared after pop")
	}
	if _, _, ok = tr.PopBaseLine(); ok {
		t.Fatalf("popping an empty base line should fail")
	}
}

func TestGetMaxLength(t *testing.T) {
	tr := New(3, Ring)
	tr.PushScope(1, 5)
	tr.PushScope(2, 12)
	tr.PushScope(3, 3)
	if got := tr.GetMaxLength(); got != 12 {
		t.Fatalf("expected max length 12, got %d", got)
	}
}

func TestSetSizeResets(t *testing.T) {
	tr := New(4, Ring)
	tr.PushScope(1, 1)
	tr.PushScope(2, 2)
	tr.SetSize(2)
	if !tr.IsEmpty() {
		t.Fatalf("expected SetSize to reset the tracker")
	}
	if tr.GetSize() != 2 {
		t.Fatalf("expected size 2, got %d", tr.GetSize())
	}
	tr.PushScope(1, 1)
	tr.PushScope(2, 2)
	if !tr.IsFull() {
		t.Fatalf("expected full at new capacity")
	}
}

func TestZeroSizeTrackerIsInert(t *testing.T) {
	tr := New(0, Ring)
	if ok := tr.PushScope(1, 1); ok {
		t.Fatalf("zero-size tracker should never accept a push")
	}
	if tr.IsFull() {
		t.Fatalf("zero-size tracker should never report full")
	}
}
