package document

import "testing"

func TestSetDocument_ReplacesState(t *testing.T) {
	s := New()
	doc := s.SetDocument("a.go", "go", "package a\n", 3)
	if doc.Version != 3 || doc.Text != "package a\n" {
		t.Fatalf("got %+v", doc)
	}
	cur, ok := s.Current()
	if !ok || cur.Version != 3 {
		t.Fatalf("Current() = %+v, %v", cur, ok)
	}
}

func TestApplyDelta_NoDocument(t *testing.T) {
	s := New()
	_, err := s.ApplyDelta(1, nil)
	if err != ErrNoDocument {
		t.Fatalf("got %v, want ErrNoDocument", err)
	}
}

func TestApplyDelta_VersionMismatchLeavesStateUnchanged(t *testing.T) {
	s := New()
	s.SetDocument("a.go", "go", "hello\n", 5)
	_, err := s.ApplyDelta(7, []Change{{StartLine: 0, StartChar: 0, EndLine: 0, EndChar: 5, NewText: "bye"}})
	if err == nil {
		t.Fatal("expected a version mismatch error")
	}
	cur, _ := s.Current()
	if cur.Text != "hello\n" || cur.Version != 5 {
		t.Fatalf("state changed despite failure: %+v", cur)
	}
}

func TestApplyDelta_SingleLineReplace(t *testing.T) {
	s := New()
	s.SetDocument("a.go", "go", "hello world\n", 1)
	doc, err := s.ApplyDelta(2, []Change{{StartLine: 0, StartChar: 6, EndLine: 0, EndChar: 11, NewText: "there"}})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Text != "hello there\n" {
		t.Fatalf("got %q", doc.Text)
	}
	if doc.Version != 2 {
		t.Fatalf("version = %d, want 2", doc.Version)
	}
}

func TestApplyDelta_MultiLineReplace(t *testing.T) {
	s := New()
	s.SetDocument("a.go", "go", "one\ntwo\nthree\n", 1)
	// Replace from mid-line1 through mid-line2 with a single new line.
	doc, err := s.ApplyDelta(2, []Change{{StartLine: 0, StartChar: 1, EndLine: 1, EndChar: 2, NewText: "X"}})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Text != "oXo\nthree\n" {
		t.Fatalf("got %q", doc.Text)
	}
}

func TestApplyDelta_InsertionHasEqualStartAndEnd(t *testing.T) {
	s := New()
	s.SetDocument("a.go", "go", "ac\n", 1)
	doc, err := s.ApplyDelta(2, []Change{{StartLine: 0, StartChar: 1, EndLine: 0, EndChar: 1, NewText: "b"}})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Text != "abc\n" {
		t.Fatalf("got %q", doc.Text)
	}
}

func TestApplyDelta_SequentialChangesApplyAgainstPriorResult(t *testing.T) {
	s := New()
	s.SetDocument("a.go", "go", "abcdef\n", 1)
	doc, err := s.ApplyDelta(2, []Change{
		{StartLine: 0, StartChar: 0, EndLine: 0, EndChar: 1, NewText: "A"}, // Abcdef
		{StartLine: 0, StartChar: 1, EndLine: 0, EndChar: 2, NewText: "B"}, // ABcdef
	})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Text != "ABcdef\n" {
		t.Fatalf("got %q", doc.Text)
	}
}

func TestApplyDelta_OutOfRangeLineFails(t *testing.T) {
	s := New()
	s.SetDocument("a.go", "go", "one\n", 1)
	_, err := s.ApplyDelta(2, []Change{{StartLine: 5, StartChar: 0, EndLine: 5, EndChar: 0, NewText: "x"}})
	if err == nil {
		t.Fatal("expected an out-of-range error")
	}
	cur, _ := s.Current()
	if cur.Version != 1 {
		t.Fatalf("version changed despite failure: %d", cur.Version)
	}
}

func TestApplyDelta_EndBeforeStartFails(t *testing.T) {
	s := New()
	s.SetDocument("a.go", "go", "abc\n", 1)
	_, err := s.ApplyDelta(2, []Change{{StartLine: 0, StartChar: 2, EndLine: 0, EndChar: 1, NewText: "x"}})
	if err == nil {
		t.Fatal("expected an end-before-start error")
	}
}

func TestApplyDelta_EmptyChangesRoundTrips(t *testing.T) {
	s := New()
	s.SetDocument("a.go", "go", "same\n", 4)
	doc, err := s.ApplyDelta(5, nil)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Text != "same\n" || doc.Version != 5 {
		t.Fatalf("got %+v", doc)
	}
}
