package level

import (
	"fmt"
	"strings"

	"github.com/Fepozopo/gridshot/pkg/board"
)

// PreviewView selects the ASCII preview rendering.
type PreviewView string

const (
	// ViewMask shows occupancy only: '#' occupied, '.' empty.
	ViewMask PreviewView = "mask"
	// ViewIdx shows palette indices: 0-9 then A-Z, '.' empty.
	ViewIdx PreviewView = "idx"
)

// idxChar renders a palette index as a single character.
func idxChar(i int) byte {
	if i >= 0 && i <= 9 {
		return byte('0' + i)
	}
	if j := i - 10; j >= 0 && j < 26 {
		return byte('A' + j)
	}
	return '?'
}

// Preview renders the slots layer as ASCII, followed by a palette legend
// with per-color counts.
func (l *Level) Preview(name string, view PreviewView) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%dx%d)\n", name, l.W, l.H)

	switch view {
	case ViewMask:
		for _, row := range l.Slots {
			for _, c := range row {
				if c == board.Empty {
					b.WriteByte('.')
				} else {
					b.WriteByte('#')
				}
			}
			b.WriteByte('\n')
		}
	case ViewIdx:
		for _, row := range l.Slots {
			for _, c := range row {
				if c == board.Empty {
					b.WriteByte('.')
				} else {
					b.WriteByte(idxChar(int(c)))
				}
			}
			b.WriteByte('\n')
		}
	default:
		return "", fmt.Errorf("%w: unknown preview view %q", board.ErrValidation, view)
	}

	counts := map[board.Cell]int{}
	empty := 0
	for _, row := range l.Slots {
		for _, c := range row {
			if c == board.Empty {
				empty++
			} else {
				counts[c]++
			}
		}
	}

	b.WriteString("\npalette:\n")
	for i, hx := range l.Palette {
		fmt.Fprintf(&b, "  %2d %c %s  count=%d\n", i, idxChar(i), hx, counts[board.Cell(i)])
	}
	fmt.Fprintf(&b, "\nempty(null) cells: %d\n", empty)
	return b.String(), nil
}
