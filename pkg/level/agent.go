package level

import (
	"fmt"
	"strings"

	"github.com/Fepozopo/gridshot/pkg/board"
)

// PromptRequest configures FromPrompt.
type PromptRequest struct {
	Prompt         string
	W, H           int
	Colors         int
	ColorMode      board.ColorMode
	Padding        int
	Provider       string // "offline" or "openai"
	Model          string
	CacheDir       string
	MinFGComponent int
	Candidates     int
	SlotsMode      board.SlotsMode
}

func (r *PromptRequest) defaults() {
	if r.W == 0 {
		r.W = 24
	}
	if r.H == 0 {
		r.H = 24
	}
	if r.Colors == 0 {
		r.Colors = 5
	}
	if r.ColorMode == "" {
		r.ColorMode = board.ColorVerticalStripes
	}
	if r.Provider == "" {
		r.Provider = "offline"
	}
	if r.Model == "" {
		r.Model = "gpt-4o-mini"
	}
	if r.MinFGComponent == 0 {
		r.MinFGComponent = 2
	}
	if r.Candidates == 0 {
		r.Candidates = 6
	}
}

// FromPrompt builds a level from a free-form prompt.
//
// The offline provider is a deterministic router: a prompt matching a
// built-in template word uses that silhouette, anything else falls back to
// rendering the literal text. The openai provider asks the model for N
// mask candidates, scores them deterministically and compiles the best.
func FromPrompt(req PromptRequest) (*Level, error) {
	req.defaults()

	if req.Provider == "openai" {
		return fromPromptModel(req)
	}
	if req.Provider != "offline" {
		return nil, fmt.Errorf("%w: unknown prompt provider %q", board.ErrValidation, req.Provider)
	}

	opt := BuildOptions{
		W: req.W, H: req.H,
		PaletteSize: req.Colors,
		ColorMode:   req.ColorMode,
		Padding:     req.Padding,
		SlotsMode:   req.SlotsMode,
	}
	for _, kw := range promptKeywords(req.Prompt) {
		if HasTemplate(kw) {
			return FromWord(kw, opt)
		}
	}
	return FromText(req.Prompt, opt)
}

// fromPromptModel fetches candidate masks from the model provider, scores
// them and compiles the winner.
func fromPromptModel(req PromptRequest) (*Level, error) {
	cands, err := generateMaskCandidates(req)
	if err != nil {
		return nil, err
	}
	if len(cands) == 0 {
		return nil, fmt.Errorf("%w: no valid mask candidates returned", board.ErrValidation)
	}

	keywords := promptKeywords(req.Prompt)
	bestIdx := -1
	bestScore := 0.0
	var bestMask board.Mask
	for i, cand := range cands {
		m, err := board.ParseMask(cand.Mask)
		if err != nil {
			continue
		}
		m = board.RemoveSmallComponents(m, req.MinFGComponent)
		s := scoreMask(m, keywords)
		if bestIdx < 0 || s > bestScore {
			bestIdx, bestScore, bestMask = i, s, m
		}
	}
	if bestIdx < 0 {
		return nil, fmt.Errorf("%w: no valid mask candidates returned", board.ErrValidation)
	}

	palette, top, err := board.ColorizeMask(bestMask, req.Colors, req.ColorMode)
	if err != nil {
		return nil, err
	}
	meta := map[string]any{
		"source": map[string]any{
			"type": "prompt", "provider": "openai",
			"prompt": req.Prompt, "model": req.Model,
		},
		"min_fg_component":       req.MinFGComponent,
		"candidate_count":        len(cands),
		"picked_candidate_index": bestIdx,
		"picked_candidate_notes": cands[bestIdx].Notes,
		"picked_candidate_score": bestScore,
	}
	return Compile(palette, top, CompileOptions{SlotsMode: req.SlotsMode}, meta)
}

// promptKeywords lowercases and splits the prompt on non-alphanumerics.
func promptKeywords(prompt string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return ' '
	}, prompt)
	return strings.Fields(cleaned)
}

// scoreMask ranks a candidate silhouette: compactness of the foreground
// within its bounding box, symmetry about the vertical center, a penalty
// for touching the board edge, and keyword-specific bonuses. An empty mask
// scores the minimum.
func scoreMask(m board.Mask, keywords []string) float64 {
	w, h := m.Dims()
	minX, minY, maxX, maxY := w, h, -1, -1
	area := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !m[y][x] {
				continue
			}
			area++
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
	if area == 0 {
		return -1e9
	}
	bboxArea := (maxX - minX + 1) * (maxY - minY + 1)
	compact := float64(area) / float64(bboxArea)

	sym, total := 0, 0
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			total++
			if m[y][x] == m[y][w-1-x] {
				sym++
			}
		}
	}
	symScore := 0.0
	if total > 0 {
		symScore = float64(sym) / float64(total)
	}

	touch := 0
	for x := 0; x < w; x++ {
		if m[0][x] || m[h-1][x] {
			touch++
		}
	}
	for y := 0; y < h; y++ {
		if m[y][0] || m[y][w-1] {
			touch++
		}
	}
	touchPen := float64(touch) / float64(2*w+2*h)

	s := 3.0*compact + 2.0*symScore - 2.0*touchPen

	if hasKeyword(keywords, "cat") || hasKeyword(keywords, "kitten") {
		s += catEarBonus(m, w, h)
	}
	return s
}

func hasKeyword(keywords []string, kw string) bool {
	for _, k := range keywords {
		if k == kw {
			return true
		}
	}
	return false
}

// catEarBonus looks for two ear-ish bumps on the first inked row of the
// top quarter: two segments score best, three some, anything else a
// penalty.
func catEarBonus(m board.Mask, w, h int) float64 {
	topH := h / 4
	if topH < 2 {
		topH = 2
	}
	earRow := -1
	for y := 0; y < topH && y < h; y++ {
		for x := 0; x < w; x++ {
			if m[y][x] {
				earRow = y
				break
			}
		}
		if earRow >= 0 {
			break
		}
	}
	if earRow < 0 {
		return 0
	}
	segs := 0
	inSeg := false
	for x := 0; x < w; x++ {
		if m[earRow][x] {
			if !inSeg {
				segs++
				inSeg = true
			}
		} else {
			inSeg = false
		}
	}
	switch segs {
	case 2:
		return 2.0
	case 3:
		return 1.0
	default:
		return -1.0
	}
}
