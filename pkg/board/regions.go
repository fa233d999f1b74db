package board

import (
	"fmt"
	"sort"
)

// ColorRegionStats summarizes the regions of a single palette color.
type ColorRegionStats struct {
	ColorIndex Cell
	Regions    int
	TotalCells int
	Largest    int
	Smallest   int
}

// GridRegionStats is the deterministic region analysis of a color grid.
type GridRegionStats struct {
	OccupiedCells int
	EmptyCells    int
	TotalRegions  int
	Colors        []ColorRegionStats // sorted by ColorIndex
}

// Fragmentation is regions per occupied cell; lower is better. An empty
// grid reports 0.
func (s GridRegionStats) Fragmentation() float64 {
	if s.OccupiedCells <= 0 {
		return 0
	}
	return float64(s.TotalRegions) / float64(s.OccupiedCells)
}

// AnalyzeGridRegions computes per-color region counts over the
// 4-neighborhood components of cells.
func AnalyzeGridRegions(cells [][]Cell) (GridRegionStats, error) {
	w, h, err := cellDims(cells)
	if err != nil {
		return GridRegionStats{}, err
	}
	if w == 0 || h == 0 {
		return GridRegionStats{}, nil
	}

	empty := 0
	for _, row := range cells {
		for _, c := range row {
			if c == Empty {
				empty++
			}
		}
	}

	comps := ComponentsByColor(cells)
	byColor := map[Cell][]int{}
	for _, comp := range comps {
		byColor[comp.Color] = append(byColor[comp.Color], len(comp.Cells))
	}

	colors := make([]Cell, 0, len(byColor))
	for c := range byColor {
		colors = append(colors, c)
	}
	sort.Slice(colors, func(i, j int) bool { return colors[i] < colors[j] })

	stats := GridRegionStats{
		OccupiedCells: w*h - empty,
		EmptyCells:    empty,
		TotalRegions:  len(comps),
	}
	for _, c := range colors {
		sizes := byColor[c]
		sort.Ints(sizes)
		total := 0
		for _, n := range sizes {
			total += n
		}
		stats.Colors = append(stats.Colors, ColorRegionStats{
			ColorIndex: c,
			Regions:    len(sizes),
			TotalCells: total,
			Largest:    sizes[len(sizes)-1],
			Smallest:   sizes[0],
		})
	}
	return stats, nil
}

// RegionThresholds gates a grid on its region statistics. Zero-valued
// fields are not enforced.
type RegionThresholds struct {
	MinLargestRegion int
	MaxTotalRegions  int
	MaxFragmentation float64
	MinOccupiedCells int
}

// ValidationReport is the outcome of ValidateGridRegions. OK is true iff
// Reasons is empty.
type ValidationReport struct {
	OK      bool
	Reasons []string
	Stats   GridRegionStats
}

// ValidateGridRegions analyzes cells and collects one reason per violated
// threshold. It is the gate that keeps "confetti" boards out of the
// pipeline.
func ValidateGridRegions(cells [][]Cell, th RegionThresholds) (ValidationReport, error) {
	stats, err := AnalyzeGridRegions(cells)
	if err != nil {
		return ValidationReport{}, err
	}

	var reasons []string
	if th.MinOccupiedCells > 0 && stats.OccupiedCells < th.MinOccupiedCells {
		reasons = append(reasons, fmt.Sprintf("occupied_cells %d < min_occupied_cells %d", stats.OccupiedCells, th.MinOccupiedCells))
	}
	if th.MaxTotalRegions > 0 && stats.TotalRegions > th.MaxTotalRegions {
		reasons = append(reasons, fmt.Sprintf("total_regions %d > max_total_regions %d", stats.TotalRegions, th.MaxTotalRegions))
	}
	if th.MaxFragmentation > 0 && stats.Fragmentation() > th.MaxFragmentation {
		reasons = append(reasons, fmt.Sprintf("fragmentation %.4f > max_fragmentation %.4f", stats.Fragmentation(), th.MaxFragmentation))
	}
	if th.MinLargestRegion > 0 {
		// Per-color gate; colors not present in the grid are not checked.
		for _, cs := range stats.Colors {
			if cs.Largest < th.MinLargestRegion {
				reasons = append(reasons, fmt.Sprintf("color %d: largest_region %d < min_largest_region %d", cs.ColorIndex, cs.Largest, th.MinLargestRegion))
			}
		}
	}

	return ValidationReport{OK: len(reasons) == 0, Reasons: reasons, Stats: stats}, nil
}
