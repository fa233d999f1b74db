package level

import (
	"github.com/Fepozopo/gridshot/pkg/board"
)

// BuildOptions configures the mask-driven builders (text, word, prompt).
type BuildOptions struct {
	W, H            int
	PaletteSize     int
	ColorMode       board.ColorMode
	Padding         int
	FillBackground  bool
	BackgroundIndex int
	SlotsMode       board.SlotsMode // default derangement
}

func (o *BuildOptions) defaults() {
	if o.W == 0 {
		o.W = 16
	}
	if o.H == 0 {
		o.H = 16
	}
	if o.PaletteSize == 0 {
		o.PaletteSize = 4
	}
	if o.ColorMode == "" {
		o.ColorMode = board.ColorVerticalStripes
	}
}

// FromText renders a string into a silhouette mask and compiles it.
func FromText(text string, opt BuildOptions) (*Level, error) {
	opt.defaults()
	bitmap := RenderTextBitmap(text)
	mask, err := ScaleBitmapToGrid(bitmap, opt.W, opt.H, opt.Padding)
	if err != nil {
		return nil, err
	}
	return fromMask(mask, opt, map[string]any{
		"source": map[string]any{"type": "text", "text": text},
	})
}

// FromWord compiles a built-in silhouette template (e.g. CAT).
func FromWord(word string, opt BuildOptions) (*Level, error) {
	opt.defaults()
	mask, err := RenderWordTemplateMask(word, opt.W, opt.H, opt.Padding)
	if err != nil {
		return nil, err
	}
	return fromMask(mask, opt, map[string]any{
		"source": map[string]any{"type": "word", "word": word},
	})
}

// fromMask colorizes a mask and runs the shared compile pipeline.
func fromMask(mask board.Mask, opt BuildOptions, meta map[string]any) (*Level, error) {
	var palette []string
	var top board.Grid
	var err error
	if opt.FillBackground {
		palette, top, err = board.ColorizeMaskFilled(mask, opt.PaletteSize, opt.ColorMode, opt.BackgroundIndex)
	} else {
		palette, top, err = board.ColorizeMask(mask, opt.PaletteSize, opt.ColorMode)
	}
	if err != nil {
		return nil, err
	}

	meta["color_mode"] = string(opt.ColorMode)
	meta["padding"] = opt.Padding
	meta["fill_background"] = opt.FillBackground
	return Compile(palette, top, CompileOptions{SlotsMode: opt.SlotsMode}, meta)
}
