package board

import "fmt"

// Lane-reachability ordering.
//
// The game clears slots by shooting along rows and columns from the four
// board sides, so the only removable cell on a lane is the occupied cell
// nearest an edge. A cell is "exposed" under the current occupancy when it
// is the min or max x in its row, or the min or max y in its column.
// Removing exposed cells outer-to-inner yields a forward removal order;
// its reverse is a legal constructive placement order.

// laneExtrema holds per-row and per-column occupancy extrema. A value of -1
// means the lane has no occupied cell.
type laneExtrema struct {
	rowMin, rowMax []int // indexed by y
	colMin, colMax []int // indexed by x
}

func newLaneExtrema(w, h int) *laneExtrema {
	e := &laneExtrema{
		rowMin: make([]int, h),
		rowMax: make([]int, h),
		colMin: make([]int, w),
		colMax: make([]int, w),
	}
	e.reset()
	return e
}

func (e *laneExtrema) reset() {
	for i := range e.rowMin {
		e.rowMin[i], e.rowMax[i] = -1, -1
	}
	for i := range e.colMin {
		e.colMin[i], e.colMax[i] = -1, -1
	}
}

func (e *laneExtrema) add(x, y int) {
	if e.rowMin[y] < 0 || x < e.rowMin[y] {
		e.rowMin[y] = x
	}
	if x > e.rowMax[y] {
		e.rowMax[y] = x
	}
	if e.colMin[x] < 0 || y < e.colMin[x] {
		e.colMin[x] = y
	}
	if y > e.colMax[x] {
		e.colMax[x] = y
	}
}

// recompute rebuilds the extrema from a present matrix.
func (e *laneExtrema) recompute(present [][]bool) {
	e.reset()
	for y, row := range present {
		for x, v := range row {
			if v {
				e.add(x, y)
			}
		}
	}
}

func (e *laneExtrema) exposed(x, y int) bool {
	return e.rowMin[y] == x || e.rowMax[y] == x || e.colMin[x] == y || e.colMax[x] == y
}

// maskDepths computes, per foreground cell, the Manhattan distance along
// the mask to the nearest empty cell or boundary in the four cardinal
// directions. Depth 1 is an edge cell; higher is more interior. Background
// cells get depth 0.
func maskDepths(m Mask) [][]int {
	w, h := m.Dims()
	depth := make([][]int, h)
	for y := 0; y < h; y++ {
		depth[y] = make([]int, w)
		for x := 0; x < w; x++ {
			if !m[y][x] {
				continue
			}
			best := w + h // larger than any possible run
			for _, d := range neighbors4 {
				steps := 0
				xx, yy := x, y
				for {
					xx += d[0]
					yy += d[1]
					steps++
					if xx < 0 || xx >= w || yy < 0 || yy >= h || !m[yy][xx] {
						break
					}
				}
				if steps < best {
					best = steps
				}
			}
			depth[y][x] = best
		}
	}
	return depth
}

// GenerateBackwardPlaceOrder produces the deterministic reverse-time
// placement order for a mask: the reverse of a forward removal order in
// which every step removes a currently-exposed cell, outermost first
// (lowest depth, then smallest y, then smallest x). The mask must be
// rectangular with at least one foreground cell.
func GenerateBackwardPlaceOrder(m Mask) ([]Pos, error) {
	w, h := m.Dims()
	if h == 0 || w == 0 {
		return nil, fmt.Errorf("%w: mask must be non-empty", ErrValidation)
	}
	for y, row := range m {
		if len(row) != w {
			return nil, fmt.Errorf("%w: mask row %d has width %d, expected %d", ErrValidation, y, len(row), w)
		}
	}

	present := make([][]bool, h)
	remaining := 0
	for y := range m {
		present[y] = append([]bool(nil), m[y]...)
		for _, v := range m[y] {
			if v {
				remaining++
			}
		}
	}
	if remaining == 0 {
		return nil, fmt.Errorf("%w: mask has no foreground cells", ErrValidation)
	}

	depth := maskDepths(m)
	extrema := newLaneExtrema(w, h)

	forward := make([]Pos, 0, remaining)
	for remaining > 0 {
		extrema.recompute(present)

		// Pick the exposed cell minimizing (depth, y, x). Any non-empty
		// present set has a row extremum, so a candidate always exists.
		bestX, bestY := -1, -1
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if !present[y][x] || !extrema.exposed(x, y) {
					continue
				}
				if bestX < 0 || less3(depth[y][x], y, x, depth[bestY][bestX], bestY, bestX) {
					bestX, bestY = x, y
				}
			}
		}
		if bestX < 0 {
			return nil, fmt.Errorf("%w: no exposed cell found for non-empty present set", ErrInternal)
		}
		forward = append(forward, Pos{X: bestX, Y: bestY})
		present[bestY][bestX] = false
		remaining--
	}

	if err := VerifyForwardRemoveOrder(m, forward); err != nil {
		return nil, err
	}

	backward := make([]Pos, len(forward))
	for i, p := range forward {
		backward[len(forward)-1-i] = p
	}
	return backward, nil
}

// less3 compares (a1,a2,a3) < (b1,b2,b3) lexicographically.
func less3(a1, a2, a3, b1, b2, b3 int) bool {
	if a1 != b1 {
		return a1 < b1
	}
	if a2 != b2 {
		return a2 < b2
	}
	return a3 < b3
}

// VerifyForwardRemoveOrder replays a forward removal order against the mask
// and errors on the first step that removes an absent or non-exposed cell,
// or if foreground cells remain at the end.
func VerifyForwardRemoveOrder(m Mask, forward []Pos) error {
	w, h := m.Dims()
	present := make([][]bool, h)
	remaining := 0
	for y := range m {
		present[y] = append([]bool(nil), m[y]...)
		for _, v := range m[y] {
			if v {
				remaining++
			}
		}
	}

	extrema := newLaneExtrema(w, h)
	for i, p := range forward {
		if p.X < 0 || p.X >= w || p.Y < 0 || p.Y >= h || !present[p.Y][p.X] {
			return fmt.Errorf("%w: step %d removes a cell not present at (%d,%d)", ErrValidation, i, p.X, p.Y)
		}
		extrema.recompute(present)
		if !extrema.exposed(p.X, p.Y) {
			return fmt.Errorf("%w: step %d removes a cell not exposed at removal time: (%d,%d)", ErrValidation, i, p.X, p.Y)
		}
		present[p.Y][p.X] = false
		remaining--
	}
	if remaining != 0 {
		return fmt.Errorf("%w: forward order ended early, %d cells remain", ErrValidation, remaining)
	}
	return nil
}
