package level

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Fepozopo/gridshot/pkg/board"
)

// testImage paints a red left half and blue right half on a transparent
// 32x32 canvas, leaving a transparent border.
func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 4; y < 28; y++ {
		for x := 4; x < 28; x++ {
			var c color.NRGBA
			if x < 16 {
				c = color.NRGBA{220, 30, 30, 255}
			} else {
				c = color.NRGBA{30, 30, 220, 255}
			}
			i := img.PixOffset(x, y)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
		}
	}
	return img
}

func TestImageToGrid(t *testing.T) {
	palette, grid, err := imageToGrid(testImage(), ImageOptions{
		W: 8, H: 8, Colors: 2, AlphaThreshold: 16, MinComponentSize: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(palette) != 2 {
		t.Fatalf("palette %v", palette)
	}
	occupiedCells := 0
	for _, row := range grid.Cells {
		for _, c := range row {
			if c != board.Empty {
				occupiedCells++
			}
		}
	}
	if occupiedCells == 0 {
		t.Fatal("no occupied cells survived quantization")
	}
	// The transparent border downsamples to empty corners.
	if grid.Cells[0][0] != board.Empty {
		t.Error("transparent corner mapped to a color")
	}
}

func TestFromImageEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, testImage()); err != nil {
		t.Fatal(err)
	}
	f.Close()

	lvl, err := FromImage(path, ImageOptions{W: 8, H: 8, Colors: 2})
	if err != nil {
		t.Fatal(err)
	}
	if ok, reasons := lvl.Validate(); !ok {
		t.Fatalf("level invalid: %v", reasons)
	}
	if len(lvl.Palette) == 0 || lvl.W != 8 || lvl.H != 8 {
		t.Errorf("level %dx%d palette %v", lvl.W, lvl.H, lvl.Palette)
	}
}

func TestImageToGridPaletteMapNearest(t *testing.T) {
	// The supplied palette order is authoritative: blue first, red second.
	_, grid, err := imageToGrid(testImage(), ImageOptions{
		W: 8, H: 8, AlphaThreshold: 16, MinComponentSize: 2,
		RecolorMode:    RecolorPaletteMap,
		RecolorPalette: []string{"#0000FF", "#FF0000"},
		PaletteMapMode: PaletteMapNearest,
	})
	if err != nil {
		t.Fatal(err)
	}
	if grid.Cells[2][2] != 1 {
		t.Errorf("red half mapped to %d", grid.Cells[2][2])
	}
	if grid.Cells[2][5] != 0 {
		t.Errorf("blue half mapped to %d", grid.Cells[2][5])
	}
}

func TestImageToGridPaletteMapLumaBuckets(t *testing.T) {
	// Rec. 709 puts the red half above the blue half, so the buckets
	// split the two regions along the supplied palette's luma order.
	palette, grid, err := imageToGrid(testImage(), ImageOptions{
		W: 8, H: 8, AlphaThreshold: 16, MinComponentSize: 2,
		RecolorMode:    RecolorPaletteMap,
		RecolorPalette: []string{"#0000FF", "#FF0000"},
		PaletteMapMode: PaletteMapLumaBuckets,
	})
	if err != nil {
		t.Fatal(err)
	}
	if palette[0] != "#0000FF" || palette[1] != "#FF0000" {
		t.Fatalf("palette %v", palette)
	}
	if grid.Cells[2][2] != 1 {
		t.Errorf("brighter red half mapped to %d", grid.Cells[2][2])
	}
	if grid.Cells[2][5] != 0 {
		t.Errorf("darker blue half mapped to %d", grid.Cells[2][5])
	}
}

func TestImageToGridPaletteMapErrors(t *testing.T) {
	_, _, err := imageToGrid(testImage(), ImageOptions{
		W: 8, H: 8, AlphaThreshold: 16, MinComponentSize: 2,
		RecolorMode: RecolorPaletteMap,
	})
	if err == nil {
		t.Error("expected error for a missing recolor palette")
	}
	_, _, err = imageToGrid(testImage(), ImageOptions{
		W: 8, H: 8, AlphaThreshold: 16, MinComponentSize: 2,
		RecolorMode:    RecolorPaletteMap,
		RecolorPalette: []string{"#0000FF", "#FF0000"},
		PaletteMapMode: PaletteMapMode("bogus"),
	})
	if err == nil {
		t.Error("expected error for an unknown palette map mode")
	}
	_, _, err = imageToGrid(testImage(), ImageOptions{
		W: 8, H: 8, AlphaThreshold: 16, MinComponentSize: 2,
		RecolorMode: RecolorMode("bogus"),
	})
	if err == nil {
		t.Error("expected error for an unknown recolor mode")
	}
}

func TestFromImagePaletteMapEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, testImage()); err != nil {
		t.Fatal(err)
	}
	f.Close()

	lvl, err := FromImage(path, ImageOptions{
		W: 8, H: 8,
		RecolorMode:    RecolorPaletteMap,
		RecolorPalette: []string{"#0000ff", "#ff0000"},
		PaletteMapMode: PaletteMapLumaBuckets,
	})
	if err != nil {
		t.Fatal(err)
	}
	if ok, reasons := lvl.Validate(); !ok {
		t.Fatalf("level invalid: %v", reasons)
	}
	// The palette is canonicalized to uppercase.
	if lvl.Palette[0] != "#0000FF" || lvl.Palette[1] != "#FF0000" {
		t.Errorf("palette %v", lvl.Palette)
	}
	if lvl.Meta["recolor_mode"] != "palette_map" {
		t.Errorf("meta %v", lvl.Meta)
	}
}

func TestLoadImageRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "not-an-image.txt")
	if err := os.WriteFile(path, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadImage(path); err == nil {
		t.Fatal("expected error for non-image file")
	}
	if _, err := loadImage(filepath.Join(dir, "missing.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
