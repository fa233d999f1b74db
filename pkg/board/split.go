package board

import (
	"fmt"
	"math"
	"sort"
)

// SplitMode selects how an oversized component is partitioned.
type SplitMode string

const (
	SplitSectors  SplitMode = "sectors"
	SplitStripesX SplitMode = "stripes_x"
	SplitStripesY SplitMode = "stripes_y"
	SplitCuts     SplitMode = "cuts"
)

// SplitOptions configures SplitLargeComponents.
type SplitOptions struct {
	PaletteSize      int
	MaxComponentSize int
	Mode             SplitMode
	CutThickness     int
	MaxSplits        int
	// OnlyColor restricts splitting to one color. Set it to Empty to
	// cover all colors; the zero value targets palette index 0.
	OnlyColor Cell
}

// SplitLargeComponents recolors parts of every component larger than
// MaxComponentSize so the result reads as several smaller regions. The
// mutation is in place and purely deterministic: no cells are added or
// removed, only palette indices reassigned along a fixed color cycle that
// starts with the component's original color.
func SplitLargeComponents(cells [][]Cell, opt SplitOptions) error {
	if opt.MaxComponentSize <= 0 {
		return fmt.Errorf("%w: max component size must be positive", ErrValidation)
	}
	if opt.CutThickness <= 0 {
		opt.CutThickness = 1
	}
	if opt.MaxSplits <= 0 {
		opt.MaxSplits = 12
	}
	if opt.PaletteSize < 2 {
		return nil
	}
	w, h, err := cellDims(cells)
	if err != nil {
		return err
	}
	if w == 0 || h == 0 {
		return nil
	}
	if opt.Mode != SplitSectors && opt.Mode != SplitStripesX && opt.Mode != SplitStripesY && opt.Mode != SplitCuts {
		return fmt.Errorf("%w: unknown split mode %q", ErrValidation, opt.Mode)
	}

	for _, comp := range ComponentsByColor(cells) {
		if opt.OnlyColor != Empty && comp.Color != opt.OnlyColor {
			continue
		}
		n := len(comp.Cells)
		if n <= opt.MaxComponentSize {
			continue
		}

		splits := (n + opt.MaxComponentSize - 1) / opt.MaxComponentSize
		if splits < 2 {
			splits = 2
		}
		if splits > opt.MaxSplits {
			splits = opt.MaxSplits
		}

		cycle := colorCycle(comp.Color, opt.PaletteSize)
		switch opt.Mode {
		case SplitSectors:
			splitSectors(cells, comp.Cells, splits, cycle)
		case SplitStripesX:
			splitStripes(cells, comp.Cells, splits, cycle, true)
		case SplitStripesY:
			splitStripes(cells, comp.Cells, splits, cycle, false)
		case SplitCuts:
			splitCuts(cells, comp.Cells, splits, cycle, opt.CutThickness)
		}
	}
	return nil
}

// colorCycle is [original, then the remaining palette indices ascending].
func colorCycle(original Cell, paletteSize int) []Cell {
	cycle := []Cell{original}
	for i := 0; i < paletteSize; i++ {
		if Cell(i) != original {
			cycle = append(cycle, Cell(i))
		}
	}
	return cycle
}

// splitSectors buckets cells by angle around the component centroid.
func splitSectors(cells [][]Cell, pts []Pos, splits int, cycle []Cell) {
	n := float64(len(pts))
	var cx, cy float64
	for _, p := range pts {
		cx += float64(p.X)
		cy += float64(p.Y)
	}
	cx /= n
	cy /= n
	for _, p := range pts {
		theta := math.Atan2(float64(p.Y)-cy, float64(p.X)-cx) // [-pi, pi]
		t := (theta + math.Pi) / (2 * math.Pi)                // [0, 1]
		b := int(t * float64(splits))
		if b >= splits {
			b = splits - 1
		}
		cells[p.Y][p.X] = cycle[b%len(cycle)]
	}
}

// splitStripes buckets cells by x (byX) or y extent over the component
// bounding box.
func splitStripes(cells [][]Cell, pts []Pos, splits int, cycle []Cell, byX bool) {
	coord := func(p Pos) int {
		if byX {
			return p.X
		}
		return p.Y
	}
	lo, hi := coord(pts[0]), coord(pts[0])
	for _, p := range pts[1:] {
		c := coord(p)
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	span := hi - lo + 1
	if span < 1 {
		span = 1
	}
	for _, p := range pts {
		t := float64(coord(p)-lo) / float64(span)
		b := int(t * float64(splits))
		if b >= splits {
			b = splits - 1
		}
		cells[p.Y][p.X] = cycle[b%len(cycle)]
	}
}

// splitCuts inserts splits-1 thin seams, alternating vertical and
// horizontal. Each seam recolors cutThickness adjacent lines, restricted to
// interior cells (all four neighbors inside the component) when the
// component has an interior, so the silhouette outline stays intact.
func splitCuts(cells [][]Cell, pts []Pos, splits int, cycle []Cell, cutThickness int) {
	inComp := make(map[Pos]bool, len(pts))
	for _, p := range pts {
		inComp[p] = true
	}
	isBoundary := func(p Pos) bool {
		for _, d := range neighbors4 {
			if !inComp[Pos{X: p.X + d[0], Y: p.Y + d[1]}] {
				return true
			}
		}
		return false
	}

	var usePts []Pos
	for _, p := range pts {
		if !isBoundary(p) {
			usePts = append(usePts, p)
		}
	}
	if len(usePts) == 0 {
		usePts = pts
	}
	useSet := make(map[Pos]bool, len(usePts))
	for _, p := range usePts {
		useSet[p] = true
	}

	xs := make([]int, len(usePts))
	ys := make([]int, len(usePts))
	for i, p := range usePts {
		xs[i] = p.X
		ys[i] = p.Y
	}
	sort.Ints(xs)
	sort.Ints(ys)
	minX, maxX := xs[0], xs[len(xs)-1]
	minY, maxY := ys[0], ys[len(ys)-1]

	for cut := 0; cut < splits-1; cut++ {
		sepColor := cycle[(1+cut)%len(cycle)]
		vertical := cut%2 == 0

		// Pick the line holding the most usable cells, searching outward
		// from the median so the seam lands near the middle of the shape.
		var lo, hi, mid int
		if vertical {
			lo, hi, mid = minX, maxX, xs[len(xs)/2]
		} else {
			lo, hi, mid = minY, maxY, ys[len(ys)/2]
		}
		bestLine, bestCnt := -1, -1
		for d := 0; d <= hi-lo; d++ {
			for _, line := range [2]int{mid - d, mid + d} {
				if line < lo || line > hi {
					continue
				}
				cnt := 0
				for _, p := range usePts {
					if (vertical && p.X == line) || (!vertical && p.Y == line) {
						cnt++
					}
				}
				if cnt > bestCnt {
					bestCnt = cnt
					bestLine = line
				}
			}
			if bestCnt >= 3 {
				break
			}
		}
		if bestLine < 0 || bestCnt <= 0 {
			continue
		}
		for t := 0; t < cutThickness; t++ {
			line := bestLine + (t - cutThickness/2)
			for _, p := range pts {
				on := (vertical && p.X == line) || (!vertical && p.Y == line)
				if on && useSet[p] {
					cells[p.Y][p.X] = sepColor
				}
			}
		}
	}
}
