package level

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Fepozopo/gridshot/pkg/board"
)

// RenderTextBitmap rasterizes text with the built-in basicfont face and
// thresholds the result into a boolean bitmap. The bitmap is cropped to
// the inked glyph area; an empty or whitespace string yields a 1x1
// background bitmap.
func RenderTextBitmap(text string) board.Mask {
	text = strings.TrimSpace(text)
	if text == "" {
		return board.Mask{{false}}
	}

	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	height := face.Metrics().Height.Ceil()
	if width <= 0 {
		width = 1
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{255, 255, 255, 255}),
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: face.Metrics().Ascent},
	}
	d.DrawString(text)

	full := make(board.Mask, height)
	minX, minY, maxX, maxY := width, height, -1, -1
	for y := 0; y < height; y++ {
		row := make([]bool, width)
		for x := 0; x < width; x++ {
			if img.Pix[img.PixOffset(x, y)+3] >= 128 {
				row[x] = true
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
		full[y] = row
	}
	if maxX < 0 {
		return board.Mask{{false}}
	}

	out := make(board.Mask, maxY-minY+1)
	for y := range out {
		out[y] = append([]bool(nil), full[minY+y][minX:maxX+1]...)
	}
	return out
}

// ScaleBitmapToGrid fits a source bitmap into a w x h grid with
// nearest-neighbor sampling, preserving aspect ratio, centered, leaving
// padding cells of margin where possible.
func ScaleBitmapToGrid(src board.Mask, w, h, padding int) (board.Mask, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: target grid must be positive, got %dx%d", board.ErrValidation, w, h)
	}
	srcW, srcH := src.Dims()
	out := make(board.Mask, h)
	for y := range out {
		out[y] = make([]bool, w)
	}
	if srcW == 0 || srcH == 0 {
		return out, nil
	}

	aw := w - 2*padding
	if aw < 1 {
		aw = 1
	}
	ah := h - 2*padding
	if ah < 1 {
		ah = 1
	}

	scale := float64(aw) / float64(srcW)
	if sy := float64(ah) / float64(srcH); sy < scale {
		scale = sy
	}
	dstW := int(float64(srcW)*scale + 0.5)
	if dstW < 1 {
		dstW = 1
	}
	dstH := int(float64(srcH)*scale + 0.5)
	if dstH < 1 {
		dstH = 1
	}

	offX := (w - dstW) / 2
	offY := (h - dstH) / 2
	for dy := 0; dy < dstH; dy++ {
		sy := int(float64(dy) / scale)
		if sy >= srcH {
			sy = srcH - 1
		}
		for dx := 0; dx < dstW; dx++ {
			sx := int(float64(dx) / scale)
			if sx >= srcW {
				sx = srcW - 1
			}
			if src[sy][sx] {
				out[offY+dy][offX+dx] = true
			}
		}
	}
	return out, nil
}
