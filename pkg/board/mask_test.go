package board

import (
	"errors"
	"testing"
)

func TestParseMaskRoundTrip(t *testing.T) {
	rows := []string{
		"..##..",
		".####.",
		"..##..",
	}
	m, err := ParseMask(rows)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.String(); got != "..##..\n.####.\n..##.." {
		t.Errorf("round trip mismatch:\n%s", got)
	}
	if m.Count() != 8 {
		t.Errorf("expected 8 foreground cells, got %d", m.Count())
	}
}

func TestParseMaskErrors(t *testing.T) {
	cases := [][]string{
		{},
		{"##", "#"},
		{"#x"},
	}
	for i, rows := range cases {
		if _, err := ParseMask(rows); !errors.Is(err, ErrValidation) {
			t.Errorf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestRemoveSmallComponents(t *testing.T) {
	m, err := ParseMask([]string{
		"###..#",
		"###...",
		".....#",
	})
	if err != nil {
		t.Fatal(err)
	}
	out := RemoveSmallComponents(m, 2)
	if out.Count() != 6 {
		t.Fatalf("expected only the 6-cell block to survive, got %d cells", out.Count())
	}
	// The input is untouched.
	if m.Count() != 8 {
		t.Errorf("input mask mutated: %d cells", m.Count())
	}
}

func TestRemoveSmallComponentsKeepsLargest(t *testing.T) {
	m, err := ParseMask([]string{"#."})
	if err != nil {
		t.Fatal(err)
	}
	out := RemoveSmallComponents(m, 5)
	if out.Count() != 1 {
		t.Error("the largest component must survive regardless of size")
	}
}
