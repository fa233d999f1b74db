package game

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Fepozopo/gridshot/pkg/board"
)

// ActionKind is a solver decision at one tick boundary.
type ActionKind string

const (
	ActionTap  ActionKind = "tap"
	ActionWait ActionKind = "wait"
)

// Action is one step of a solution: tap the component whose top-leftmost
// cell is (X,Y), or wait a tick.
type Action struct {
	Kind ActionKind
	X    int
	Y    int
}

// SolveReason explains why the solver stopped.
type SolveReason string

const (
	ReasonAlreadyClear    SolveReason = "already_clear"
	ReasonSolved          SolveReason = "solved"
	ReasonSearchExhausted SolveReason = "search_exhausted"
	ReasonMaxExpanded     SolveReason = "max_expanded"
)

// SolveResult is the outcome of Solve. Steps and Solution are meaningful
// only when Solvable is true.
type SolveResult struct {
	Solvable bool
	Steps    int
	Expanded int
	Reason   SolveReason
	Solution []Action
}

// SolveOptions bounds the search. Zero values take the defaults noted.
type SolveOptions struct {
	MaxExpanded int  // default 50000
	MaxSteps    int  // default 80
	AllowWait   bool // emit the wait action in addition to taps
}

// searchState is a decoded BFS node plus its canonical key.
type searchState struct {
	top      [][]board.Cell
	slots    [][]board.Cell
	shooters []Shooter
	key      string
}

type prevEntry struct {
	parent string
	action Action
	hasAct bool
	depth  int
}

// Solve runs a breadth-first search over (top, slots, shooters) states.
// At each expanded state it enumerates one tap per top component (largest
// first, then top-leftmost cell) and optionally a wait, applies one Tick
// after the action, and stops on the first state with empty slots. States
// are deduplicated by a canonical encoding: grids flattened row-major with
// empty as -1, shooters as a sorted (pos, color, ammo) tuple.
func Solve(top, slots [][]board.Cell, w, h int, cfg Config, opt SolveOptions) SolveResult {
	if opt.MaxExpanded <= 0 {
		opt.MaxExpanded = 50000
	}
	if opt.MaxSteps <= 0 {
		opt.MaxSteps = 80
	}

	if IsWin(slots) {
		return SolveResult{Solvable: true, Steps: 0, Reason: ReasonAlreadyClear, Solution: []Action{}}
	}

	start := searchState{top: top, slots: slots, shooters: nil}
	start.key = encodeState(start.top, start.slots, start.shooters)

	queue := []searchState{start}
	prev := map[string]prevEntry{start.key: {depth: 0}}

	expanded := 0
	for len(queue) > 0 {
		st := queue[0]
		queue = queue[1:]
		depth := prev[st.key].depth
		if depth >= opt.MaxSteps {
			continue
		}
		if IsDeadlock(st.slots, st.shooters, w, h, cfg) {
			continue
		}

		actions := enumerateActions(st.top, opt.AllowWait)
		for _, act := range actions {
			nTop, nSlots, nShooters := st.top, st.slots, st.shooters
			if act.Kind == ActionTap {
				var ok bool
				nTop, nSlots, nShooters, ok = Tap(st.top, st.slots, st.shooters, act.X, act.Y, cfg)
				if !ok {
					continue
				}
			}
			nTop, nSlots, nShooters, _ = Tick(nTop, nSlots, nShooters, w, h, cfg)

			next := searchState{top: nTop, slots: nSlots, shooters: nShooters}
			next.key = encodeState(nTop, nSlots, nShooters)

			if IsWin(nSlots) {
				if _, seen := prev[next.key]; !seen {
					prev[next.key] = prevEntry{parent: st.key, action: act, hasAct: true, depth: depth + 1}
				}
				return SolveResult{
					Solvable: true,
					Steps:    depth + 1,
					Expanded: expanded,
					Reason:   ReasonSolved,
					Solution: reconstruct(prev, next.key),
				}
			}
			if _, seen := prev[next.key]; seen {
				continue
			}
			prev[next.key] = prevEntry{parent: st.key, action: act, hasAct: true, depth: depth + 1}
			queue = append(queue, next)
		}

		expanded++
		if expanded >= opt.MaxExpanded {
			return SolveResult{Expanded: expanded, Reason: ReasonMaxExpanded}
		}
	}

	return SolveResult{Expanded: expanded, Reason: ReasonSearchExhausted}
}

// enumerateActions lists one tap per top component in deterministic order
// (largest first, then top-leftmost cell), then wait if allowed. Taps
// precede waits so solutions bias toward progress.
func enumerateActions(top [][]board.Cell, allowWait bool) []Action {
	comps := board.ComponentsByColor(top)
	type entry struct {
		size int
		tl   board.Pos
	}
	entries := make([]entry, 0, len(comps))
	for _, c := range comps {
		entries = append(entries, entry{size: len(c.Cells), tl: topLeftOf(c.Cells)})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].size != entries[j].size {
			return entries[i].size > entries[j].size
		}
		if entries[i].tl.Y != entries[j].tl.Y {
			return entries[i].tl.Y < entries[j].tl.Y
		}
		return entries[i].tl.X < entries[j].tl.X
	})

	actions := make([]Action, 0, len(entries)+1)
	for _, e := range entries {
		actions = append(actions, Action{Kind: ActionTap, X: e.tl.X, Y: e.tl.Y})
	}
	if allowWait {
		actions = append(actions, Action{Kind: ActionWait, X: -1, Y: -1})
	}
	return actions
}

func topLeftOf(pts []board.Pos) board.Pos {
	best := pts[0]
	for _, p := range pts[1:] {
		if p.Y < best.Y || (p.Y == best.Y && p.X < best.X) {
			best = p
		}
	}
	return best
}

// encodeState flattens a state to a canonical string key. Grid cells are
// written row-major with -1 for empty; shooters are sorted so the key is
// independent of arrival order.
func encodeState(top, slots [][]board.Cell, shooters []Shooter) string {
	var b strings.Builder
	writeGrid := func(g [][]board.Cell) {
		for _, row := range g {
			for _, c := range row {
				b.WriteString(strconv.Itoa(int(c)))
				b.WriteByte(',')
			}
		}
	}
	writeGrid(top)
	b.WriteByte('|')
	writeGrid(slots)
	b.WriteByte('|')

	sorted := append([]Shooter(nil), shooters...)
	sort.Slice(sorted, func(i, j int) bool {
		a, s := sorted[i], sorted[j]
		if a.Pos != s.Pos {
			return a.Pos < s.Pos
		}
		if a.Color != s.Color {
			return a.Color < s.Color
		}
		return a.Ammo < s.Ammo
	})
	for _, sh := range sorted {
		b.WriteString(strconv.Itoa(sh.Pos))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(int(sh.Color)))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(sh.Ammo))
		b.WriteByte(';')
	}
	return b.String()
}

// reconstruct walks the prev map from the end state back to the root and
// returns the actions in play order.
func reconstruct(prev map[string]prevEntry, end string) []Action {
	var path []Action
	cur := end
	for {
		e := prev[cur]
		if !e.hasAct {
			break
		}
		path = append(path, e.action)
		cur = e.parent
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
