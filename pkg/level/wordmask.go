package level

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Fepozopo/gridshot/pkg/board"
)

// Built-in silhouette templates, keyed by uppercase word. Intentionally
// simple icon shapes; '.' is background, '#' is foreground.
var wordTemplates = map[string][]string{
	"CAT": {
		"........................",
		"......##........##......",
		".....####......####.....",
		"....######....######....",
		"...########..########...",
		"..####################..",
		"..####################..",
		"..####################..",
		"..####################..",
		"..####################..",
		"..####################..",
		"..####################..",
		"...##################...",
		"...##################...",
		"....################....",
		".....##############.....",
		"......############......",
		".......##########.......",
		"........########........",
		".........######.........",
		"..........####..........",
		"...........##...........",
		"........................",
		"........................",
	},
	"HEART": {
		"....................",
		"...####......####...",
		"..######....######..",
		".########..########.",
		".##################.",
		".##################.",
		".##################.",
		"..################..",
		"...##############...",
		"....############....",
		".....##########.....",
		"......########......",
		".......######.......",
		"........####........",
		".........##.........",
		"....................",
	},
	"RING": {
		"....########....",
		"..############..",
		".####......####.",
		".###........###.",
		"####........####",
		"###..........###",
		"###..........###",
		"###..........###",
		"###..........###",
		"####........####",
		".###........###.",
		".####......####.",
		"..############..",
		"....########....",
	},
}

// TemplateWords lists the available template names in sorted order.
func TemplateWords() []string {
	words := make([]string, 0, len(wordTemplates))
	for w := range wordTemplates {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// HasTemplate reports whether a built-in silhouette exists for the word.
func HasTemplate(word string) bool {
	_, ok := wordTemplates[strings.ToUpper(strings.TrimSpace(word))]
	return ok
}

// RenderWordTemplateMask scales the named template silhouette into a
// w x h mask with the given padding.
func RenderWordTemplateMask(word string, w, h, padding int) (board.Mask, error) {
	rows, ok := wordTemplates[strings.ToUpper(strings.TrimSpace(word))]
	if !ok {
		return nil, fmt.Errorf("%w: unknown word template %q (available: %s)",
			board.ErrValidation, word, strings.Join(TemplateWords(), ", "))
	}
	src, err := board.ParseMask(rows)
	if err != nil {
		return nil, err
	}
	return ScaleBitmapToGrid(src, w, h, padding)
}
