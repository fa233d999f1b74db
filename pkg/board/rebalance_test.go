package board

import "testing"

func TestRebalanceMakesDerangementFeasible(t *testing.T) {
	// Color 0 holds 12 of 20 cells; derangement is infeasible as-is. One
	// interior seam through the 4x3 block is enough to tip the share.
	top := gridFromRows(t, [][]int{
		{0, 0, 0, 0, 1},
		{0, 0, 0, 0, 1},
		{0, 0, 0, 0, 1},
		{2, 2, 2, 2, 1},
	})
	if _, err := DeriveSlots(top, SlotsDerangement); err == nil {
		t.Fatal("expected the raw grid to be infeasible")
	}

	res, err := RebalanceTopForDerangement(top, RebalanceOptions{PaletteSize: 3})
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK {
		t.Fatalf("rebalance gave up after %d iterations at share %.2f", res.Iterations, res.DominantShare)
	}
	if res.Iterations == 0 {
		t.Error("expected at least one seam cut")
	}
	if res.DominantShare > 0.5 {
		t.Errorf("dominant share still %.2f", res.DominantShare)
	}
	if _, err := DeriveSlots(res.Cells, SlotsDerangement); err != nil {
		t.Fatalf("derangement still infeasible after rebalance: %v", err)
	}
	// Occupancy is untouched; only colors move.
	if occupancy(res.Cells) != occupancy(top) {
		t.Error("rebalance changed occupancy")
	}
	// The input grid is not mutated.
	if top[1][1] != 0 || histogramOf(top)[0] != 12 {
		t.Error("input grid mutated")
	}
}

func TestRebalanceNoopWhenBalanced(t *testing.T) {
	top := gridFromRows(t, [][]int{
		{0, 0, 1, 1},
	})
	res, err := RebalanceTopForDerangement(top, RebalanceOptions{PaletteSize: 2})
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK || res.Iterations != 0 {
		t.Fatalf("balanced grid must pass untouched, got %+v", res)
	}
	if res.DominantShare != 0.5 {
		t.Errorf("dominant share %.2f, want 0.50", res.DominantShare)
	}
}

func TestRebalanceEmptyGrid(t *testing.T) {
	top := gridFromRows(t, [][]int{{-1, -1}})
	res, err := RebalanceTopForDerangement(top, RebalanceOptions{PaletteSize: 2})
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK || res.DominantColor != Empty {
		t.Errorf("empty grid: %+v", res)
	}
}

func TestRebalanceGivesUpAtIterationCap(t *testing.T) {
	// On a 1-wide column every vertical seam recolors the whole
	// component, so dominance just flips back and forth until the cap.
	top := gridFromRows(t, [][]int{
		{0}, {0}, {0}, {0}, {0}, {0}, {0}, {0}, {1},
	})
	res, err := RebalanceTopForDerangement(top, RebalanceOptions{PaletteSize: 2, MaxIters: 2})
	if err != nil {
		t.Fatal(err)
	}
	if res.OK {
		t.Fatal("expected the cap to trigger on an oscillating grid")
	}
	if res.Iterations != 2 {
		t.Errorf("expected to stop at the 2-iteration cap, got %d", res.Iterations)
	}
}
