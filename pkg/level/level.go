// Package level assembles playable levels from silhouette masks and
// persists them as stable JSON. A level couples a colored top layer, a
// deranged slots layer, and a reverse-time placement plan that certifies
// lane reachability.
package level

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Fepozopo/gridshot/pkg/board"
)

// Version is the persisted level format version.
const Version = 1

// Level is the persistence model. Field order is alphabetical so the JSON
// encoder emits keys in sorted order, which keeps serialized levels
// byte-stable across runs.
type Level struct {
	BackwardPlaceOrder []board.Pos    `json:"backward_place_order"`
	ForwardRemoveOrder []board.Pos    `json:"forward_remove_order"`
	H                  int            `json:"h"`
	Meta               map[string]any `json:"meta"`
	Palette            []string       `json:"palette"`
	Slots              [][]board.Cell `json:"slots"`
	Top                [][]board.Cell `json:"top"`
	Version            int            `json:"version"`
	W                  int            `json:"w"`
}

// CompileOptions tunes the mask-to-level pipeline.
type CompileOptions struct {
	SlotsMode        board.SlotsMode // default derangement
	MaxDominantShare float64         // rebalance target, default 0.5
	RebalanceIters   int             // default 6
}

// Compile runs the standard pipeline over a colored top grid: in
// derangement mode, rebalance the top until the derangement is feasible;
// then derive the slots layer and produce the verified backward placement
// order. Rotate and same modes use the top grid as given. The palette must
// already be canonicalized.
func Compile(palette []string, top board.Grid, opt CompileOptions, meta map[string]any) (*Level, error) {
	if opt.SlotsMode == "" {
		opt.SlotsMode = board.SlotsDerangement
	}

	topCells := top.Cells
	if opt.SlotsMode == board.SlotsDerangement {
		reb, err := board.RebalanceTopForDerangement(topCells, board.RebalanceOptions{
			PaletteSize:      len(palette),
			MaxDominantShare: opt.MaxDominantShare,
			MaxIters:         opt.RebalanceIters,
		})
		if err != nil {
			return nil, err
		}
		topCells = reb.Cells
		if meta == nil {
			meta = map[string]any{}
		}
		meta["rebalance"] = map[string]any{
			"ok":             reb.OK,
			"iterations":     reb.Iterations,
			"dominant_share": reb.DominantShare,
		}
	}

	slots, err := board.DeriveSlots(topCells, opt.SlotsMode)
	if err != nil {
		return nil, err
	}

	mask := board.Grid{W: top.W, H: top.H, Cells: topCells}.Mask()
	backward, err := board.GenerateBackwardPlaceOrder(mask)
	if err != nil {
		return nil, err
	}
	forward := reversePos(backward)
	if err := board.VerifyForwardRemoveOrder(mask, forward); err != nil {
		return nil, fmt.Errorf("%w: %v", board.ErrInternal, err)
	}

	return &Level{
		BackwardPlaceOrder: backward,
		ForwardRemoveOrder: forward,
		H:                  top.H,
		Meta:               meta,
		Palette:            palette,
		Slots:              slots.Cells,
		Top:                topCells,
		Version:            Version,
		W:                  top.W,
	}, nil
}

func reversePos(ps []board.Pos) []board.Pos {
	out := make([]board.Pos, len(ps))
	for i, p := range ps {
		out[len(ps)-1-i] = p
	}
	return out
}

// Encode renders the level as indented JSON with a trailing newline.
func (l *Level) Encode() ([]byte, error) {
	b, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Decode parses and structurally validates a serialized level.
func Decode(data []byte) (*Level, error) {
	var l Level
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("%w: %v", board.ErrValidation, err)
	}
	if err := l.checkShape(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Load reads and decodes a level JSON file.
func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// checkShape validates dimensions, palette format, and palette index range.
func (l *Level) checkShape() error {
	if l.Version != Version {
		return fmt.Errorf("%w: unsupported level version %d", board.ErrValidation, l.Version)
	}
	if l.W <= 0 || l.H <= 0 {
		return fmt.Errorf("%w: invalid dimensions %dx%d", board.ErrValidation, l.W, l.H)
	}
	if _, err := board.NormalizePalette(l.Palette); err != nil {
		return err
	}
	grids := []struct {
		name string
		g    [][]board.Cell
	}{{"top", l.Top}, {"slots", l.Slots}}
	for _, entry := range grids {
		name, g := entry.name, entry.g
		if len(g) != l.H {
			return fmt.Errorf("%w: %s has %d rows, expected %d", board.ErrValidation, name, len(g), l.H)
		}
		for y, row := range g {
			if len(row) != l.W {
				return fmt.Errorf("%w: %s row %d has %d cells, expected %d", board.ErrValidation, name, y, len(row), l.W)
			}
			for x, c := range row {
				if c != board.Empty && (c < 0 || int(c) >= len(l.Palette)) {
					return fmt.Errorf("%w: %s cell (%d,%d) has palette index %d out of range", board.ErrValidation, name, x, y, c)
				}
			}
		}
	}
	return nil
}

// Validate re-checks the level invariants: top and slots share an occupancy
// mask, their per-color histograms agree, no occupied cell keeps its top
// color in slots, and the placement order replays cleanly. Returns all
// violated invariants as reasons; ok iff none.
func (l *Level) Validate() (bool, []string) {
	var reasons []string
	if err := l.checkShape(); err != nil {
		return false, []string{err.Error()}
	}

	topHist := map[board.Cell]int{}
	slotsHist := map[board.Cell]int{}
	sameCells := 0
	for y := 0; y < l.H; y++ {
		for x := 0; x < l.W; x++ {
			t, s := l.Top[y][x], l.Slots[y][x]
			if (t == board.Empty) != (s == board.Empty) {
				reasons = append(reasons, fmt.Sprintf("occupancy mismatch at (%d,%d)", x, y))
				continue
			}
			if t == board.Empty {
				continue
			}
			topHist[t]++
			slotsHist[s]++
			if t == s {
				sameCells++
			}
		}
	}
	if !histEqual(topHist, slotsHist) {
		reasons = append(reasons, "per-color histogram of slots differs from top")
	}
	if sameCells > 0 {
		reasons = append(reasons, fmt.Sprintf("%d occupied cells keep their top color in slots", sameCells))
	}

	mask := board.Grid{W: l.W, H: l.H, Cells: l.Top}.Mask()
	occupied := mask.Count()
	if len(l.BackwardPlaceOrder) != occupied {
		reasons = append(reasons, fmt.Sprintf("backward_place_order has %d entries, expected %d", len(l.BackwardPlaceOrder), occupied))
	} else {
		forward := reversePos(l.BackwardPlaceOrder)
		if !posEqual(forward, l.ForwardRemoveOrder) {
			reasons = append(reasons, "forward_remove_order is not the reverse of backward_place_order")
		}
		if err := board.VerifyForwardRemoveOrder(mask, forward); err != nil {
			reasons = append(reasons, strings.TrimSpace(err.Error()))
		}
	}

	return len(reasons) == 0, reasons
}

func histEqual(a, b map[board.Cell]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func posEqual(a, b []board.Pos) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
