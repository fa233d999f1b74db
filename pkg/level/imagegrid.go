package level

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sort"

	xdraw "golang.org/x/image/draw"

	"github.com/Fepozopo/gridshot/pkg/board"
)

// RecolorMode selects where the cell colors of an image level come from.
type RecolorMode string

const (
	// RecolorSource quantizes the image's own colors into the palette.
	RecolorSource RecolorMode = "source"
	// RecolorPaletteMap maps pixels onto a caller-supplied palette.
	RecolorPaletteMap RecolorMode = "palette_map"
)

// PaletteMapMode selects how RecolorPaletteMap assigns palette entries.
type PaletteMapMode string

const (
	PaletteMapNearest     PaletteMapMode = "nearest"
	PaletteMapLumaBuckets PaletteMapMode = "luma_buckets"
)

// ImageOptions configures FromImage.
type ImageOptions struct {
	W, H             int
	Colors           int // palette size to quantize to, default 5
	AlphaThreshold   int // alpha below this is background, default 16
	MinComponentSize int // foreground speck removal, default 2
	FillBackground   bool
	BackgroundHex    string // used with FillBackground, default #000000
	RecolorMode      RecolorMode
	RecolorPalette   []string // required with RecolorPaletteMap
	PaletteMapMode   PaletteMapMode
	SlotsMode        board.SlotsMode
}

// FromImage decodes an image file, downsamples it to the board grid,
// colors the opaque cells per the recolor mode, and compiles the result.
func FromImage(path string, opt ImageOptions) (*Level, error) {
	if opt.W == 0 {
		opt.W = 16
	}
	if opt.H == 0 {
		opt.H = 16
	}
	if opt.Colors == 0 {
		opt.Colors = 5
	}
	if opt.AlphaThreshold == 0 {
		opt.AlphaThreshold = 16
	}
	if opt.MinComponentSize == 0 {
		opt.MinComponentSize = 2
	}
	if opt.BackgroundHex == "" {
		opt.BackgroundHex = "#000000"
	}
	if opt.RecolorMode == "" {
		opt.RecolorMode = RecolorSource
	}
	if opt.PaletteMapMode == "" {
		opt.PaletteMapMode = PaletteMapNearest
	}

	img, err := loadImage(path)
	if err != nil {
		return nil, err
	}

	palette, top, err := imageToGrid(img, opt)
	if err != nil {
		return nil, err
	}

	meta := map[string]any{
		"source":             map[string]any{"type": "image", "path": path},
		"alpha_threshold":    opt.AlphaThreshold,
		"min_component_size": opt.MinComponentSize,
		"fill_background":    opt.FillBackground,
		"recolor_mode":       string(opt.RecolorMode),
	}
	return Compile(palette, top, CompileOptions{SlotsMode: opt.SlotsMode}, meta)
}

// loadImage reads a PNG, JPEG or GIF file. Format is sniffed from magic
// bytes before handing off to image.Decode so an unsupported file fails
// with a clear error instead of a decoder guess.
func loadImage(path string) (image.Image, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	known := (len(b) >= 3 && bytes.Equal(b[:3], []byte{0xFF, 0xD8, 0xFF})) ||
		(len(b) >= 8 && bytes.Equal(b[:8], []byte("\x89PNG\r\n\x1a\n"))) ||
		(len(b) >= 6 && (bytes.Equal(b[:6], []byte("GIF87a")) || bytes.Equal(b[:6], []byte("GIF89a"))))
	if !known {
		return nil, fmt.Errorf("%w: %s is not a PNG, JPEG or GIF", board.ErrValidation, path)
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", board.ErrValidation, path, err)
	}
	return img, nil
}

// imageToGrid downsamples the image to (W,H), derives the occupancy mask
// from the alpha channel, and colors the occupied cells. RecolorSource
// buckets the image's own colors (4 bits per channel, most popular buckets
// win) and maps each cell to its nearest entry; RecolorPaletteMap maps
// cells onto the supplied palette instead, by nearest RGB or by luminance
// bucket. Tiny foreground specks are removed before compiling.
func imageToGrid(img image.Image, opt ImageOptions) ([]string, board.Grid, error) {
	small := image.NewNRGBA(image.Rect(0, 0, opt.W, opt.H))
	xdraw.ApproxBiLinear.Scale(small, small.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	mask := make(board.Mask, opt.H)
	for y := 0; y < opt.H; y++ {
		mask[y] = make([]bool, opt.W)
		for x := 0; x < opt.W; x++ {
			mask[y][x] = int(small.Pix[small.PixOffset(x, y)+3]) >= opt.AlphaThreshold
		}
	}
	mask = board.RemoveSmallComponents(mask, opt.MinComponentSize)
	if mask.Count() == 0 {
		return nil, board.Grid{}, fmt.Errorf("%w: image has no opaque pixels above the alpha threshold", board.ErrValidation)
	}

	palette, mapCell, err := cellMapper(small, mask, opt)
	if err != nil {
		return nil, board.Grid{}, err
	}

	var bgIdx board.Cell = board.Empty
	if opt.FillBackground {
		r, g, b, err := board.HexToRGB(opt.BackgroundHex)
		if err != nil {
			return nil, board.Grid{}, err
		}
		palette = append(palette, fmt.Sprintf("#%02X%02X%02X", r, g, b))
		bgIdx = board.Cell(len(palette) - 1)
	}

	grid, _ := board.NewGrid(opt.W, opt.H)
	for y := 0; y < opt.H; y++ {
		for x := 0; x < opt.W; x++ {
			if !mask[y][x] {
				grid.Cells[y][x] = bgIdx
				continue
			}
			grid.Cells[y][x] = mapCell(x, y)
		}
	}
	return palette, grid, nil
}

// cellMapper resolves the recolor mode into a palette and a per-cell color
// function over the downsampled image.
func cellMapper(small *image.NRGBA, mask board.Mask, opt ImageOptions) ([]string, func(x, y int) board.Cell, error) {
	pixel := func(x, y int) (uint8, uint8, uint8) {
		i := small.PixOffset(x, y)
		return small.Pix[i], small.Pix[i+1], small.Pix[i+2]
	}

	switch opt.RecolorMode {
	case RecolorSource, "":
		palette, paletteRGB := quantizePalette(small, mask, opt.Colors)
		return palette, func(x, y int) board.Cell {
			r, g, b := pixel(x, y)
			return board.Cell(board.NearestPaletteIndex(r, g, b, paletteRGB))
		}, nil

	case RecolorPaletteMap:
		if len(opt.RecolorPalette) == 0 {
			return nil, nil, fmt.Errorf("%w: recolor palette is required with recolor mode %q", board.ErrValidation, RecolorPaletteMap)
		}
		palette, err := board.NormalizePalette(opt.RecolorPalette)
		if err != nil {
			return nil, nil, err
		}
		paletteRGB := make([][3]uint8, len(palette))
		for i, hx := range palette {
			r, g, b, err := board.HexToRGB(hx)
			if err != nil {
				return nil, nil, err
			}
			paletteRGB[i] = [3]uint8{r, g, b}
		}

		switch opt.PaletteMapMode {
		case PaletteMapNearest, "":
			return palette, func(x, y int) board.Cell {
				r, g, b := pixel(x, y)
				return board.Cell(board.NearestPaletteIndex(r, g, b, paletteRGB))
			}, nil
		case PaletteMapLumaBuckets:
			byLuma := board.PaletteOrderByLuma(paletteRGB)
			// Luminance range of the occupied pixels anchors the buckets.
			minL, maxL := 0.0, 0.0
			first := true
			w, h := mask.Dims()
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					if !mask[y][x] {
						continue
					}
					r, g, b := pixel(x, y)
					l := board.Luma709(r, g, b)
					if first || l < minL {
						minL = l
					}
					if first || l > maxL {
						maxL = l
					}
					first = false
				}
			}
			return palette, func(x, y int) board.Cell {
				r, g, b := pixel(x, y)
				return board.Cell(board.LumaBucketPaletteIndex(r, g, b, paletteRGB, byLuma, minL, maxL))
			}, nil
		default:
			return nil, nil, fmt.Errorf("%w: unknown palette map mode %q", board.ErrValidation, opt.PaletteMapMode)
		}

	default:
		return nil, nil, fmt.Errorf("%w: unknown recolor mode %q", board.ErrValidation, opt.RecolorMode)
	}
}

// quantizePalette buckets the foreground pixels to 4 bits per channel and
// keeps the `colors` most popular buckets, averaging each bucket's members
// into its palette entry. Ties break on the smaller bucket key so the
// result is stable.
func quantizePalette(img *image.NRGBA, mask board.Mask, colors int) ([]string, [][3]uint8) {
	type bucket struct {
		count   int
		r, g, b int
	}
	buckets := map[int]*bucket{}
	w, h := mask.Dims()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !mask[y][x] {
				continue
			}
			i := img.PixOffset(x, y)
			r, g, b := int(img.Pix[i]), int(img.Pix[i+1]), int(img.Pix[i+2])
			key := (r>>4)<<8 | (g>>4)<<4 | (b >> 4)
			bk := buckets[key]
			if bk == nil {
				bk = &bucket{}
				buckets[key] = bk
			}
			bk.count++
			bk.r += r
			bk.g += g
			bk.b += b
		}
	}

	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := buckets[keys[i]], buckets[keys[j]]
		if a.count != b.count {
			return a.count > b.count
		}
		return keys[i] < keys[j]
	})
	if len(keys) > colors {
		keys = keys[:colors]
	}

	palette := make([]string, 0, len(keys))
	paletteRGB := make([][3]uint8, 0, len(keys))
	for _, k := range keys {
		bk := buckets[k]
		r := uint8(bk.r / bk.count)
		g := uint8(bk.g / bk.count)
		b := uint8(bk.b / bk.count)
		palette = append(palette, fmt.Sprintf("#%02X%02X%02X", r, g, b))
		paletteRGB = append(paletteRGB, [3]uint8{r, g, b})
	}
	return palette, paletteRGB
}
