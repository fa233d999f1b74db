package level

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/Fepozopo/gridshot/pkg/board"
)

// Layer names a renderable level layer.
type Layer string

const (
	LayerSlots Layer = "slots"
	LayerTop   Layer = "top"
)

// RenderPNG draws one layer of the level as an image: each occupied cell
// becomes a scale x scale square of its palette color over a transparent
// background, with light grid lines when drawGrid is set and the cells are
// big enough to carry them.
func (l *Level) RenderPNG(layer Layer, scale int, drawGrid bool) (*image.NRGBA, error) {
	var cells [][]board.Cell
	switch layer {
	case LayerSlots:
		cells = l.Slots
	case LayerTop:
		cells = l.Top
	default:
		return nil, fmt.Errorf("%w: unknown layer %q", board.ErrValidation, layer)
	}
	if scale < 1 {
		scale = 1
	}

	rgb := make([]color.NRGBA, len(l.Palette))
	for i, hx := range l.Palette {
		r, g, b, err := board.HexToRGB(hx)
		if err != nil {
			return nil, err
		}
		rgb[i] = color.NRGBA{R: r, G: g, B: b, A: 255}
	}

	img := image.NewNRGBA(image.Rect(0, 0, l.W*scale, l.H*scale))
	for y := 0; y < l.H; y++ {
		for x := 0; x < l.W; x++ {
			c := cells[y][x]
			if c == board.Empty {
				continue
			}
			rect := image.Rect(x*scale, y*scale, (x+1)*scale, (y+1)*scale)
			draw.Draw(img, rect, image.NewUniform(rgb[int(c)]), image.Point{}, draw.Src)
		}
	}

	if drawGrid && scale >= 6 {
		line := color.NRGBA{A: 40}
		for x := 0; x <= l.W; x++ {
			xx := x * scale
			if xx >= img.Bounds().Dx() {
				xx = img.Bounds().Dx() - 1
			}
			for y := 0; y < l.H*scale; y++ {
				blend(img, xx, y, line)
			}
		}
		for y := 0; y <= l.H; y++ {
			yy := y * scale
			if yy >= img.Bounds().Dy() {
				yy = img.Bounds().Dy() - 1
			}
			for x := 0; x < l.W*scale; x++ {
				blend(img, x, yy, line)
			}
		}
	}
	return img, nil
}

// blend draws a translucent pixel over the image.
func blend(img *image.NRGBA, x, y int, c color.NRGBA) {
	i := img.PixOffset(x, y)
	a := int(c.A)
	img.Pix[i+0] = uint8((int(img.Pix[i+0])*(255-a) + int(c.R)*a) / 255)
	img.Pix[i+1] = uint8((int(img.Pix[i+1])*(255-a) + int(c.G)*a) / 255)
	img.Pix[i+2] = uint8((int(img.Pix[i+2])*(255-a) + int(c.B)*a) / 255)
	if int(img.Pix[i+3]) < a {
		img.Pix[i+3] = uint8(a)
	}
}

// WritePNG renders a layer and writes it to path.
func (l *Level) WritePNG(path string, layer Layer, scale int, drawGrid bool) error {
	img, err := l.RenderPNG(layer, scale, drawGrid)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
