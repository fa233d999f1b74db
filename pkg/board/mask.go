package board

import (
	"fmt"
	"sort"
	"strings"
)

// Mask is a rectangular boolean grid: true is foreground (occupied).
type Mask [][]bool

// Dims returns (w, h). An empty mask reports (0, 0).
func (m Mask) Dims() (int, int) {
	h := len(m)
	if h == 0 {
		return 0, 0
	}
	return len(m[0]), h
}

// Clone deep-copies the mask.
func (m Mask) Clone() Mask {
	out := make(Mask, len(m))
	for y, row := range m {
		out[y] = append([]bool(nil), row...)
	}
	return out
}

// Count returns the number of foreground cells.
func (m Mask) Count() int {
	n := 0
	for _, row := range m {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}

// String renders the mask in the text format: '#' foreground, '.' background.
func (m Mask) String() string {
	var b strings.Builder
	for y, row := range m {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, v := range row {
			if v {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
	}
	return b.String()
}

// ParseMask parses rows of the mask text format. Rows must be non-empty and
// all the same width; any character other than '#' or '.' is an error.
func ParseMask(rows []string) (Mask, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: mask rows empty", ErrValidation)
	}
	w := len(rows[0])
	if w == 0 {
		return nil, fmt.Errorf("%w: mask rows empty", ErrValidation)
	}
	out := make(Mask, len(rows))
	for y, r := range rows {
		if len(r) != w {
			return nil, fmt.Errorf("%w: mask row %d has width %d, expected %d", ErrValidation, y, len(r), w)
		}
		row := make([]bool, w)
		for x := 0; x < w; x++ {
			switch r[x] {
			case '#':
				row[x] = true
			case '.':
			default:
				return nil, fmt.Errorf("%w: invalid mask character %q at (%d,%d)", ErrValidation, r[x], x, y)
			}
		}
		out[y] = row
	}
	return out, nil
}

// ParseMaskString splits a blob on newlines (dropping blank lines) and
// parses it as a mask.
func ParseMaskString(s string) (Mask, error) {
	var rows []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}
	return ParseMask(rows)
}

// RemoveSmallComponents turns foreground specks smaller than minSize into
// background. The largest component is always kept, so a mask never comes
// back entirely empty. Ties between equal-size components are broken by the
// component whose first cell comes earliest in scan order.
func RemoveSmallComponents(m Mask, minSize int) Mask {
	if minSize <= 1 {
		return m
	}
	comps := MaskComponents(m)
	if len(comps) == 0 {
		return m
	}
	order := make([]int, len(comps))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ca, cb := comps[order[a]], comps[order[b]]
		if len(ca) != len(cb) {
			return len(ca) > len(cb)
		}
		pa, pb := topLeft(ca), topLeft(cb)
		if pa.Y != pb.Y {
			return pa.Y < pb.Y
		}
		return pa.X < pb.X
	})
	out := m.Clone()
	for _, i := range order[1:] {
		if len(comps[i]) < minSize {
			for _, p := range comps[i] {
				out[p.Y][p.X] = false
			}
		}
	}
	return out
}

// topLeft returns the top-leftmost position of a non-empty cell list:
// smallest y, then smallest x within that row.
func topLeft(pts []Pos) Pos {
	best := pts[0]
	for _, p := range pts[1:] {
		if p.Y < best.Y || (p.Y == best.Y && p.X < best.X) {
			best = p
		}
	}
	return best
}
