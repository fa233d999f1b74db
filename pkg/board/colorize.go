package board

import "fmt"

// ColorMode selects the deterministic mask coloring scheme.
type ColorMode string

const (
	ColorSolid           ColorMode = "solid"
	ColorVerticalStripes ColorMode = "vertical_stripes"
	ColorQuadrants       ColorMode = "quadrants"
)

// ColorizeMask assigns palette indices to the foreground cells of a mask.
// It stands in for image quantization on text- and template-driven levels.
// The palette is the built-in DefaultPalette truncated to paletteSize.
func ColorizeMask(m Mask, paletteSize int, mode ColorMode) ([]string, Grid, error) {
	w, h := m.Dims()
	if w == 0 || h == 0 {
		return nil, Grid{}, fmt.Errorf("%w: mask must be non-empty", ErrValidation)
	}
	for y, row := range m {
		if len(row) != w {
			return nil, Grid{}, fmt.Errorf("%w: mask row %d has width %d, expected %d", ErrValidation, y, len(row), w)
		}
	}
	if paletteSize <= 0 {
		return nil, Grid{}, fmt.Errorf("%w: palette size must be positive", ErrValidation)
	}

	k := paletteSize
	if k > len(DefaultPalette) {
		k = len(DefaultPalette)
	}
	palette := append([]string(nil), DefaultPalette[:k]...)

	g, _ := NewGrid(w, h)
	switch mode {
	case ColorSolid:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if m[y][x] {
					g.Cells[y][x] = 0
				}
			}
		}
	case ColorVerticalStripes:
		// Wide stripes keep regions contiguous, unlike a checkerboard.
		den := k
		if den < 2 {
			den = 2
		}
		stripeW := w / den
		if stripeW < 1 {
			stripeW = 1
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if m[y][x] {
					g.Cells[y][x] = Cell((x / stripeW) % k)
				}
			}
		}
	case ColorQuadrants:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if !m[y][x] {
					continue
				}
				q := 0
				if y >= h/2 {
					q += 2
				}
				if x >= w/2 {
					q++
				}
				g.Cells[y][x] = Cell(q % k)
			}
		}
	default:
		return nil, Grid{}, fmt.Errorf("%w: unknown color mode %q", ErrValidation, mode)
	}

	return palette, g, nil
}

// ColorizeMaskFilled is ColorizeMask with no empty cells: background cells
// take backgroundIndex and foreground cells cycle over the remaining
// palette indices.
func ColorizeMaskFilled(m Mask, paletteSize int, mode ColorMode, backgroundIndex int) ([]string, Grid, error) {
	w, h := m.Dims()
	if w == 0 || h == 0 {
		return nil, Grid{}, fmt.Errorf("%w: mask must be non-empty", ErrValidation)
	}
	if paletteSize <= 0 {
		return nil, Grid{}, fmt.Errorf("%w: palette size must be positive", ErrValidation)
	}

	k := paletteSize
	if k > len(DefaultPalette) {
		k = len(DefaultPalette)
	}
	palette := append([]string(nil), DefaultPalette[:k]...)
	if backgroundIndex < 0 || backgroundIndex >= k {
		return nil, Grid{}, fmt.Errorf("%w: background index %d out of range for palette of %d", ErrValidation, backgroundIndex, k)
	}

	var fg []Cell
	for i := 0; i < k; i++ {
		if i != backgroundIndex {
			fg = append(fg, Cell(i))
		}
	}

	g, _ := NewGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Cells[y][x] = Cell(backgroundIndex)
		}
	}
	if len(fg) == 0 {
		return palette, g, nil
	}

	switch mode {
	case ColorSolid:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if m[y][x] {
					g.Cells[y][x] = fg[0]
				}
			}
		}
	case ColorVerticalStripes:
		den := len(fg)
		if den < 2 {
			den = 2
		}
		stripeW := w / den
		if stripeW < 1 {
			stripeW = 1
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if m[y][x] {
					g.Cells[y][x] = fg[(x/stripeW)%len(fg)]
				}
			}
		}
	case ColorQuadrants:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if !m[y][x] {
					continue
				}
				q := 0
				if y >= h/2 {
					q += 2
				}
				if x >= w/2 {
					q++
				}
				g.Cells[y][x] = fg[q%len(fg)]
			}
		}
	default:
		return nil, Grid{}, fmt.Errorf("%w: unknown color mode %q", ErrValidation, mode)
	}

	return palette, g, nil
}
