package board

import (
	"errors"
	"testing"
)

func TestNormalizePalette(t *testing.T) {
	got, err := NormalizePalette([]string{"#e63946", "457b9d", "  #2A9D8F  ", ""})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"#E63946", "#457B9D", "#2A9D8F"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNormalizePaletteErrors(t *testing.T) {
	for _, in := range [][]string{
		{},
		{"#12345"},
		{"#12345G"},
		{"#1234567"},
	} {
		if _, err := NormalizePalette(in); !errors.Is(err, ErrValidation) {
			t.Errorf("%v: expected validation error, got %v", in, err)
		}
	}
}

func TestHexToRGB(t *testing.T) {
	r, g, b, err := HexToRGB("#E63946")
	if err != nil {
		t.Fatal(err)
	}
	if r != 0xE6 || g != 0x39 || b != 0x46 {
		t.Errorf("got %02X%02X%02X", r, g, b)
	}
	if _, _, _, err := HexToRGB("nope"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestNearestPaletteIndex(t *testing.T) {
	palette := [][3]uint8{{255, 0, 0}, {0, 0, 255}}
	if i := NearestPaletteIndex(200, 10, 10, palette); i != 0 {
		t.Errorf("reddish pixel mapped to %d", i)
	}
	if i := NearestPaletteIndex(10, 10, 200, palette); i != 1 {
		t.Errorf("bluish pixel mapped to %d", i)
	}
	// Equidistant ties break to the lower index.
	equal := [][3]uint8{{10, 10, 10}, {10, 10, 10}}
	if i := NearestPaletteIndex(0, 0, 0, equal); i != 0 {
		t.Errorf("tie broke to %d", i)
	}
}

func TestPaletteOrderByLuma(t *testing.T) {
	palette := [][3]uint8{
		{255, 255, 255}, // brightest
		{0, 0, 0},       // darkest
		{128, 128, 128},
	}
	order := PaletteOrderByLuma(palette)
	if order[0] != 1 || order[1] != 2 || order[2] != 0 {
		t.Errorf("order %v", order)
	}
	// Equal-luma entries keep index order.
	dup := [][3]uint8{{50, 50, 50}, {50, 50, 50}}
	order = PaletteOrderByLuma(dup)
	if order[0] != 0 || order[1] != 1 {
		t.Errorf("tie order %v", order)
	}
}

func TestLumaBucketPaletteIndex(t *testing.T) {
	palette := [][3]uint8{
		{255, 255, 255},
		{0, 0, 0},
		{128, 128, 128},
	}
	byLuma := PaletteOrderByLuma(palette)

	// Dark pixels land in the darkest bucket, bright in the brightest,
	// and the result indexes the original palette order.
	if i := LumaBucketPaletteIndex(0, 0, 0, palette, byLuma, 0, 255); i != 1 {
		t.Errorf("dark pixel mapped to %d", i)
	}
	if i := LumaBucketPaletteIndex(255, 255, 255, palette, byLuma, 0, 255); i != 0 {
		t.Errorf("bright pixel mapped to %d", i)
	}
	if i := LumaBucketPaletteIndex(128, 128, 128, palette, byLuma, 0, 255); i != 2 {
		t.Errorf("mid pixel mapped to %d", i)
	}

	// Degenerate range falls back to the closest-luma entry.
	if i := LumaBucketPaletteIndex(10, 10, 10, palette, byLuma, 100, 100); i != 1 {
		t.Errorf("degenerate range mapped to %d", i)
	}
	// Single-entry palettes always map to 0.
	if i := LumaBucketPaletteIndex(9, 9, 9, [][3]uint8{{1, 2, 3}}, []int{0}, 0, 255); i != 0 {
		t.Errorf("single-entry palette mapped to %d", i)
	}
}
