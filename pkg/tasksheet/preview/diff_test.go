package preview

import (
	"testing"
)

func TestDiffRows(t *testing.T) {
	before := [][]string{
		{"ID", "Status"},
		{"T-1", "Open"},
		{"T-2", "Open"},
		{"T-3", "Open"},
	}
	after := [][]string{
		{"ID", "Status"},
		{"T-1", "Done"},
		{"T-3", "Open"},
		{"T-4", "New"},
	}

	lines := Diff(before, after)
	if !Changed(lines) {
		t.Fatal("expected a change")
	}

	var added, removed []string
	for _, l := range lines {
		switch l.Type {
		case LineAdded:
			added = append(added, l.Text)
		case LineRemoved:
			removed = append(removed, l.Text)
		}
	}
	wantAdded := []string{"T-1\tDone", "T-4\tNew"}
	wantRemoved := []string{"T-1\tOpen", "T-2\tOpen"}
	if len(added) != len(wantAdded) || added[0] != wantAdded[0] || added[1] != wantAdded[1] {
		t.Errorf("added = %q, expected %q", added, wantAdded)
	}
	if len(removed) != len(wantRemoved) || removed[0] != wantRemoved[0] || removed[1] != wantRemoved[1] {
		t.Errorf("removed = %q, expected %q", removed, wantRemoved)
	}
}

func TestDiffUnchanged(t *testing.T) {
	grid := [][]string{{"a"}, {"b"}}
	lines := Diff(grid, grid)
	if Changed(lines) {
		t.Errorf("expected no change, got %+v", lines)
	}
	if got := Unified(lines, 1); got != "" {
		t.Errorf("Unified = %q, expected empty", got)
	}
}

func TestUnifiedContext(t *testing.T) {
	lines := []Line{
		{Type: LineContext, Text: "h"},
		{Type: LineContext, Text: "r1"},
		{Type: LineContext, Text: "r2"},
		{Type: LineRemoved, Text: "r3"},
		{Type: LineAdded, Text: "r3x"},
		{Type: LineContext, Text: "r4"},
		{Type: LineContext, Text: "r5"},
	}
	want := "  r2\n- r3\n+ r3x\n  r4\n"
	if got := Unified(lines, 1); got != want {
		t.Errorf("Unified = %q, expected %q", got, want)
	}
}
