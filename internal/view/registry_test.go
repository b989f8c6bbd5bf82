package view

import "testing"

func TestOpenCloseTopLevel(t *testing.T) {
	r := NewRegistry()
	a := r.Open("a", TypeEdit, NewScratchBuffer())
	b := r.Open("b", TypeEdit, NewScratchBuffer())
	if r.Len() != 2 {
		t.Fatalf("expected 2 views, got %d", r.Len())
	}
	if r.Active() != b {
		t.Fatalf("expected b active after open")
	}
	if r.NextTop(a) != b || r.NextTop(b) != a {
		t.Fatalf("expected a/b to cycle in top list")
	}

	next := r.Close(b)
	if next != a {
		t.Fatalf("expected a to become active after closing b, got %v", next)
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 view left, got %d", r.Len())
	}
}

func TestSplitChildPromotedOnParentClose(t *testing.T) {
	r := NewRegistry()
	parent := r.Open("parent", TypeEdit, NewScratchBuffer())
	child := r.OpenSplit(parent, "child", NewScratchBuffer())

	if child.IsTopLevel() {
		t.Fatalf("split child should not be top-level")
	}
	if r.active != child {
		t.Fatalf("expected split child active after OpenSplit")
	}

	next := r.Close(parent)
	if next != child {
		t.Fatalf("expected split child promoted, got %v", next)
	}
	if !child.IsTopLevel() {
		t.Fatalf("expected promoted child to become top-level")
	}
}

func TestCloseSplitChildReturnsToParent(t *testing.T) {
	r := NewRegistry()
	parent := r.Open("parent", TypeEdit, NewScratchBuffer())
	child := r.OpenSplit(parent, "child", NewScratchBuffer())

	next := r.Close(child)
	if next != parent {
		t.Fatalf("expected parent active after closing its only split child, got %v", next)
	}
	if parent.splitChild != nil {
		t.Fatalf("expected parent.splitChild cleared")
	}
}

func TestAllViewsRingIncludesSplits(t *testing.T) {
	r := NewRegistry()
	a := r.Open("a", TypeEdit, NewScratchBuffer())
	b := r.OpenSplit(a, "b", NewScratchBuffer())
	c := r.Open("c", TypeEdit, NewScratchBuffer())

	all := r.AllViews()
	if len(all) != 3 {
		t.Fatalf("expected 3 views in ring, got %d", len(all))
	}
	seen := map[*View]bool{}
	for _, v := range all {
		seen[v] = true
	}
	if !seen[a] || !seen[b] || !seen[c] {
		t.Fatalf("ring missing a view: %+v", all)
	}
}

func TestSetActiveRejectsClosedView(t *testing.T) {
	r := NewRegistry()
	a := r.Open("a", TypeEdit, NewScratchBuffer())
	r.Close(a)
	if err := r.SetActive(a); err == nil {
		t.Fatalf("expected error activating a closed view")
	}
}
