package board

import (
	"fmt"
	"sort"
)

// RebalanceOptions configures RebalanceTopForDerangement. Zero values take
// the defaults noted on each field.
type RebalanceOptions struct {
	PaletteSize      int
	MaxDominantShare float64 // default 0.5
	MaxIters         int     // default 6
	SplitMode        SplitMode
	CutThickness     int // default 2
}

// RebalanceResult reports the rewritten grid and whether the dominant
// color's share is at or below the target.
type RebalanceResult struct {
	Cells         [][]Cell
	OK            bool
	Iterations    int
	DominantColor Cell
	DominantShare float64
}

// RebalanceTopForDerangement rewrites the top grid minimally until the
// derangement becomes feasible: while a single color holds more than
// MaxDominantShare of the occupied cells, one thin seam is cut through
// that color's largest component (SplitCuts restricted to the dominant
// color, splits forced to 2), then counts are refreshed. The input grid
// is not modified.
func RebalanceTopForDerangement(topCells [][]Cell, opt RebalanceOptions) (RebalanceResult, error) {
	if opt.MaxDominantShare == 0 {
		opt.MaxDominantShare = 0.5
	}
	if opt.MaxDominantShare < 0 || opt.MaxDominantShare > 1 {
		return RebalanceResult{}, fmt.Errorf("%w: max dominant share must be in (0, 1], got %v", ErrValidation, opt.MaxDominantShare)
	}
	if opt.MaxIters == 0 {
		opt.MaxIters = 6
	}
	if opt.SplitMode == "" {
		opt.SplitMode = SplitCuts
	}
	if opt.CutThickness == 0 {
		opt.CutThickness = 2
	}
	if _, _, err := cellDims(topCells); err != nil {
		return RebalanceResult{}, err
	}

	cells := CloneCells(topCells)
	occ, counts := colorCounts(cells)
	if occ == 0 {
		return RebalanceResult{Cells: cells, OK: true, DominantColor: Empty}, nil
	}

	iters := 0
	for {
		dcol, dcnt := dominantColor(counts)
		share := float64(dcnt) / float64(occ)
		if share <= opt.MaxDominantShare {
			return RebalanceResult{Cells: cells, OK: true, Iterations: iters, DominantColor: dcol, DominantShare: share}, nil
		}
		if iters >= opt.MaxIters {
			return RebalanceResult{Cells: cells, OK: false, Iterations: iters, DominantColor: dcol, DominantShare: share}, nil
		}

		sizes := componentSizesForColor(cells, dcol)
		if len(sizes) == 0 {
			return RebalanceResult{Cells: cells, OK: false, Iterations: iters, DominantColor: dcol, DominantShare: share}, nil
		}
		// Setting the size threshold to the second-largest component makes
		// the splitter touch only the strictly-largest one.
		maxSize := 0
		if len(sizes) > 1 {
			maxSize = sizes[1]
		}
		if maxSize <= 0 {
			maxSize = sizes[0] / 2
			if maxSize < 1 {
				maxSize = 1
			}
		}

		if err := SplitLargeComponents(cells, SplitOptions{
			PaletteSize:      opt.PaletteSize,
			MaxComponentSize: maxSize,
			Mode:             opt.SplitMode,
			CutThickness:     opt.CutThickness,
			MaxSplits:        2, // exactly one cut per iteration
			OnlyColor:        dcol,
		}); err != nil {
			return RebalanceResult{}, err
		}

		occ, counts = colorCounts(cells)
		iters++
	}
}

// colorCounts returns the occupied cell count and the per-color histogram.
func colorCounts(cells [][]Cell) (int, map[Cell]int) {
	occ := 0
	by := map[Cell]int{}
	for _, row := range cells {
		for _, c := range row {
			if c == Empty {
				continue
			}
			occ++
			by[c]++
		}
	}
	return occ, by
}

// dominantColor picks the color with the highest count, smallest color
// index on ties.
func dominantColor(counts map[Cell]int) (Cell, int) {
	colors := make([]Cell, 0, len(counts))
	for c := range counts {
		colors = append(colors, c)
	}
	sort.Slice(colors, func(i, j int) bool { return colors[i] < colors[j] })
	best, bestN := colors[0], counts[colors[0]]
	for _, c := range colors[1:] {
		if counts[c] > bestN {
			best, bestN = c, counts[c]
		}
	}
	return best, bestN
}

// componentSizesForColor returns the color's component sizes, largest first.
func componentSizesForColor(cells [][]Cell, color Cell) []int {
	var sizes []int
	for _, comp := range ComponentsByColor(cells) {
		if comp.Color == color {
			sizes = append(sizes, len(comp.Cells))
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
	return sizes
}
