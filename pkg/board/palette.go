package board

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// DefaultPalette is the built-in level palette used by mask-only sources.
var DefaultPalette = []string{
	"#E63946", // red
	"#457B9D", // blue
	"#2A9D8F", // teal
	"#F4A261", // orange
	"#8D99AE", // gray-blue
}

// MaxPaletteSize bounds the palette length of a level.
const MaxPaletteSize = 256

// NormalizePalette canonicalizes hex colors to uppercase "#RRGGBB" form.
// Input is case-insensitive and a missing leading '#' is tolerated; blank
// entries are dropped. The result must have between 1 and MaxPaletteSize
// entries.
func NormalizePalette(palette []string) ([]string, error) {
	var out []string
	for _, hx := range palette {
		s := strings.TrimSpace(hx)
		if s == "" {
			continue
		}
		if !strings.HasPrefix(s, "#") {
			s = "#" + s
		}
		s = strings.ToUpper(s)
		if len(s) != 7 {
			return nil, fmt.Errorf("%w: invalid hex color %q (expected '#RRGGBB')", ErrValidation, hx)
		}
		for _, ch := range s[1:] {
			if !strings.ContainsRune("0123456789ABCDEF", ch) {
				return nil, fmt.Errorf("%w: invalid hex color %q (expected '#RRGGBB')", ErrValidation, hx)
			}
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: palette must contain at least one color", ErrValidation)
	}
	if len(out) > MaxPaletteSize {
		return nil, fmt.Errorf("%w: palette has %d colors, max %d", ErrValidation, len(out), MaxPaletteSize)
	}
	return out, nil
}

// HexToRGB parses "#RRGGBB" (case-insensitive, '#' optional).
func HexToRGB(hx string) (r, g, b uint8, err error) {
	s := strings.TrimSpace(hx)
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("%w: invalid hex color %q", ErrValidation, hx)
	}
	var rv, gv, bv int
	if _, err := fmt.Sscanf(strings.ToUpper(s), "%02X%02X%02X", &rv, &gv, &bv); err != nil {
		return 0, 0, 0, fmt.Errorf("%w: invalid hex color %q", ErrValidation, hx)
	}
	return uint8(rv), uint8(gv), uint8(bv), nil
}

// Luma709 is the Rec. 709 luminance of an RGB triple.
func Luma709(r, g, b uint8) float64 {
	return 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
}

// NearestPaletteIndex maps an RGB triple to the closest palette entry by
// squared RGB distance. Ties break to the lowest palette index.
func NearestPaletteIndex(r, g, b uint8, paletteRGB [][3]uint8) int {
	best := 0
	bestD := int64(1) << 62
	for i, p := range paletteRGB {
		dr := int64(r) - int64(p[0])
		dg := int64(g) - int64(p[1])
		db := int64(b) - int64(p[2])
		d := dr*dr + dg*dg + db*db
		if d < bestD {
			bestD = d
			best = i
		}
	}
	return best
}

// PaletteOrderByLuma returns the palette indices sorted by ascending
// Rec. 709 luminance, ties broken by the lower index.
func PaletteOrderByLuma(paletteRGB [][3]uint8) []int {
	order := make([]int, len(paletteRGB))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		la := Luma709(paletteRGB[order[a]][0], paletteRGB[order[a]][1], paletteRGB[order[a]][2])
		lb := Luma709(paletteRGB[order[b]][0], paletteRGB[order[b]][1], paletteRGB[order[b]][2])
		if la != lb {
			return la < lb
		}
		return order[a] < order[b]
	})
	return order
}

// LumaBucketPaletteIndex maps a pixel to a palette entry by bucketing its
// luminance over [minL, maxL] across the luma-sorted palette. The result
// is an index into the original palette order. A degenerate range falls
// back to the entry closest in luminance, lowest index on ties.
func LumaBucketPaletteIndex(r, g, b uint8, paletteRGB [][3]uint8, paletteByLuma []int, minL, maxL float64) int {
	k := len(paletteRGB)
	if k <= 1 {
		return 0
	}
	l := Luma709(r, g, b)
	if maxL <= minL {
		best := 0
		bestD := math.MaxFloat64
		for i, p := range paletteRGB {
			d := math.Abs(Luma709(p[0], p[1], p[2]) - l)
			if d < bestD {
				bestD = d
				best = i
			}
		}
		return best
	}

	t := (l - minL) / (maxL - minL)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	bucket := int(t*float64(k-1) + 1e-9)
	if bucket < 0 {
		bucket = 0
	}
	if bucket >= k {
		bucket = k - 1
	}
	return paletteByLuma[bucket]
}
