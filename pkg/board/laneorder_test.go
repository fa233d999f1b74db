package board

import (
	"errors"
	"testing"
)

func TestBackwardPlaceOrderHollowRing(t *testing.T) {
	// 5x5 ring with one interior cell at (2,2).
	m, err := ParseMask([]string{
		"#####",
		"#...#",
		"#.#.#",
		"#...#",
		"#####",
	})
	if err != nil {
		t.Fatal(err)
	}
	backward, err := GenerateBackwardPlaceOrder(m)
	if err != nil {
		t.Fatal(err)
	}
	if len(backward) != 17 {
		t.Fatalf("expected 17 placements, got %d", len(backward))
	}
	seen := map[Pos]bool{}
	for _, p := range backward {
		if seen[p] {
			t.Fatalf("position %v appears twice", p)
		}
		seen[p] = true
		if !m[p.Y][p.X] {
			t.Fatalf("position %v is background", p)
		}
	}
	forward := make([]Pos, len(backward))
	for i, p := range backward {
		forward[len(backward)-1-i] = p
	}
	if err := VerifyForwardRemoveOrder(m, forward); err != nil {
		t.Fatalf("forward order does not verify: %v", err)
	}
	// The interior cell is shielded on every lane until a border cell on
	// its row or column goes away, so it can never be the first removal.
	if forward[0] == (Pos{X: 2, Y: 2}) {
		t.Error("interior cell removed first despite being shielded")
	}
}

func TestBackwardPlaceOrderFullRectangle(t *testing.T) {
	m, err := ParseMask([]string{
		"####",
		"####",
		"####",
	})
	if err != nil {
		t.Fatal(err)
	}
	backward, err := GenerateBackwardPlaceOrder(m)
	if err != nil {
		t.Fatal(err)
	}
	if len(backward) != 12 {
		t.Fatalf("expected 12 placements, got %d", len(backward))
	}
}

func TestBackwardPlaceOrderDeterministic(t *testing.T) {
	m, err := ParseMask([]string{
		".##.",
		"####",
		"##..",
	})
	if err != nil {
		t.Fatal(err)
	}
	a, err := GenerateBackwardPlaceOrder(m)
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateBackwardPlaceOrder(m)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatal("length mismatch between runs")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("step %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestBackwardPlaceOrderErrors(t *testing.T) {
	if _, err := GenerateBackwardPlaceOrder(Mask{}); !errors.Is(err, ErrValidation) {
		t.Errorf("empty mask: expected validation error, got %v", err)
	}
	allBG, _ := ParseMask([]string{"..", ".."})
	if _, err := GenerateBackwardPlaceOrder(allBG); !errors.Is(err, ErrValidation) {
		t.Errorf("background-only mask: expected validation error, got %v", err)
	}
}

func TestVerifyForwardRemoveOrderRejects(t *testing.T) {
	m, _ := ParseMask([]string{"###"})

	// Removing the middle cell first: it is a column extremum (single
	// row), so a 1-row mask cannot produce a failure; use two rows.
	m2, _ := ParseMask([]string{
		"###",
		"###",
	})
	// (1,0) is shielded in its row by (0,0) and (2,0) but exposed in its
	// column; removing (1,1) after it leaves (1,1) exposed, so build a
	// genuinely illegal case instead: remove an absent cell.
	if err := VerifyForwardRemoveOrder(m, []Pos{{X: 0, Y: 0}, {X: 0, Y: 0}}); !errors.Is(err, ErrValidation) {
		t.Errorf("double removal: expected validation error, got %v", err)
	}
	// Ending early.
	if err := VerifyForwardRemoveOrder(m2, []Pos{{X: 0, Y: 0}}); !errors.Is(err, ErrValidation) {
		t.Errorf("early end: expected validation error, got %v", err)
	}
	// A non-exposed removal: center of a 3x3 block is shielded on all
	// four lanes.
	m3, _ := ParseMask([]string{
		"###",
		"###",
		"###",
	})
	if err := VerifyForwardRemoveOrder(m3, []Pos{{X: 1, Y: 1}}); !errors.Is(err, ErrValidation) {
		t.Errorf("shielded removal: expected validation error, got %v", err)
	}
}

func TestMaskDepths(t *testing.T) {
	m, _ := ParseMask([]string{
		"#####",
		"#####",
		"#####",
	})
	d := maskDepths(m)
	if d[0][0] != 1 {
		t.Errorf("corner depth %d, want 1", d[0][0])
	}
	if d[1][2] != 2 {
		t.Errorf("center depth %d, want 2", d[1][2])
	}
}
