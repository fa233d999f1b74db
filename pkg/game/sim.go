// Package game implements the perimeter-shooter simulator and the BFS
// solver that certifies a level admits a winning action sequence.
//
// The simulator is purely functional: Tap and Tick consume grids and a
// shooter list and return new snapshots, so the solver can fan out states
// without defensive copying.
package game

import (
	"fmt"
	"sort"

	"github.com/Fepozopo/gridshot/pkg/board"
)

// Shooter is a colored ammo carrier on the perimeter rail.
type Shooter struct {
	Color board.Cell
	Ammo  int
	Pos   int // perimeter index in [0, L)
}

// Config holds the game rules that vary per level.
type Config struct {
	ConveyorCapacity int
	EntrancePos      int  // perimeter index where new shooters spawn
	MoveThenFire     bool // tick ordering
}

// DefaultConfig mirrors the shipped game rules.
func DefaultConfig() Config {
	return Config{ConveyorCapacity: 5, EntrancePos: 0, MoveThenFire: true}
}

// Side names one of the four board edges.
type Side int

const (
	SideTop Side = iota
	SideRight
	SideBottom
	SideLeft
)

func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideRight:
		return "right"
	case SideBottom:
		return "bottom"
	case SideLeft:
		return "left"
	}
	return fmt.Sprintf("side(%d)", int(s))
}

// PerimeterLen is the length of the clockwise perimeter cycle.
func PerimeterLen(w, h int) int {
	return 2*w + 2*h
}

// PosToSideLane maps a perimeter index to its side and lane. The walk is
// clockwise from the top-left corner: top lane x=0..w-1, right lane
// y=0..h-1, bottom lane x=w-1..0, left lane y=h-1..0.
func PosToSideLane(pos, w, h int) (Side, int, error) {
	l := PerimeterLen(w, h)
	if pos < 0 || pos >= l {
		return 0, 0, fmt.Errorf("%w: perimeter pos %d out of range [0,%d)", board.ErrValidation, pos, l)
	}
	if pos < w {
		return SideTop, pos, nil
	}
	pos -= w
	if pos < h {
		return SideRight, pos, nil
	}
	pos -= h
	if pos < w {
		return SideBottom, (w - 1) - pos, nil
	}
	pos -= w
	return SideLeft, (h - 1) - pos, nil
}

// extrema caches per-row and per-column occupancy extrema of the slots
// grid; -1 means the lane is clear. It is recomputed after every shot,
// since a removal can expose a deeper cell on the same lane.
type extrema struct {
	rowMin, rowMax []int
	colMin, colMax []int
}

func computeExtrema(slots [][]board.Cell, w, h int) extrema {
	e := extrema{
		rowMin: make([]int, h),
		rowMax: make([]int, h),
		colMin: make([]int, w),
		colMax: make([]int, w),
	}
	for i := range e.rowMin {
		e.rowMin[i], e.rowMax[i] = -1, -1
	}
	for i := range e.colMin {
		e.colMin[i], e.colMax[i] = -1, -1
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if slots[y][x] == board.Empty {
				continue
			}
			if e.rowMin[y] < 0 || x < e.rowMin[y] {
				e.rowMin[y] = x
			}
			if x > e.rowMax[y] {
				e.rowMax[y] = x
			}
			if e.colMin[x] < 0 || y < e.colMin[x] {
				e.colMin[x] = y
			}
			if y > e.colMax[x] {
				e.colMax[x] = y
			}
		}
	}
	return e
}

// target returns the lane's shootable cell, if any: the occupied cell
// nearest the shooter's edge.
func (e extrema) target(side Side, lane int) (board.Pos, bool) {
	switch side {
	case SideLeft:
		if x := e.rowMin[lane]; x >= 0 {
			return board.Pos{X: x, Y: lane}, true
		}
	case SideRight:
		if x := e.rowMax[lane]; x >= 0 {
			return board.Pos{X: x, Y: lane}, true
		}
	case SideTop:
		if y := e.colMin[lane]; y >= 0 {
			return board.Pos{X: lane, Y: y}, true
		}
	case SideBottom:
		if y := e.colMax[lane]; y >= 0 {
			return board.Pos{X: lane, Y: y}, true
		}
	}
	return board.Pos{}, false
}

// Tap converts the connected top component at (x0,y0) into a new shooter at
// the entrance position: the component is removed from top and the shooter
// carries its color with ammo equal to its size. Returns ok=false when the
// conveyor is full or the tapped cell is empty; slots are never touched.
func Tap(top, slots [][]board.Cell, shooters []Shooter, x0, y0 int, cfg Config) (newTop, newSlots [][]board.Cell, newShooters []Shooter, ok bool) {
	if len(shooters) >= cfg.ConveyorCapacity {
		return nil, nil, nil, false
	}
	pts := board.ConnectedComponentAt(top, x0, y0)
	if len(pts) == 0 {
		return nil, nil, nil, false
	}
	color := top[y0][x0]

	newTop = board.CloneCells(top)
	for _, p := range pts {
		newTop[p.Y][p.X] = board.Empty
	}
	newShooters = append(append([]Shooter(nil), shooters...), Shooter{Color: color, Ammo: len(pts), Pos: cfg.EntrancePos})
	return newTop, slots, newShooters, true
}

// Tick advances the simulation one step and returns the new snapshots plus
// the number of shots fired. With MoveThenFire, shooters advance one
// perimeter step first; they are then processed in (pos, color, ammo)
// order, and each may fire at most once: if its lane target exists and
// matches its color, the slot cell and the corresponding top cell are
// removed and ammo drops by one. Dry shooters (ammo 0) leave the rail.
// Without MoveThenFire, the survivors advance after firing instead.
func Tick(top, slots [][]board.Cell, shooters []Shooter, w, h int, cfg Config) (newTop, newSlots [][]board.Cell, newShooters []Shooter, shots int) {
	l := PerimeterLen(w, h)
	if l <= 0 {
		return top, slots, shooters, 0
	}

	newTop = board.CloneCells(top)
	newSlots = board.CloneCells(slots)

	moved := append([]Shooter(nil), shooters...)
	if cfg.MoveThenFire {
		for i := range moved {
			moved[i].Pos = (moved[i].Pos + 1) % l
		}
	}
	sort.Slice(moved, func(i, j int) bool {
		a, b := moved[i], moved[j]
		if a.Pos != b.Pos {
			return a.Pos < b.Pos
		}
		if a.Color != b.Color {
			return a.Color < b.Color
		}
		return a.Ammo < b.Ammo
	})

	e := computeExtrema(newSlots, w, h)
	out := make([]Shooter, 0, len(moved))
	for _, sh := range moved {
		side, lane, err := PosToSideLane(sh.Pos, w, h)
		if err != nil {
			out = append(out, sh)
			continue
		}
		tgt, found := e.target(side, lane)
		if !found || newSlots[tgt.Y][tgt.X] != sh.Color {
			out = append(out, sh)
			continue
		}

		newSlots[tgt.Y][tgt.X] = board.Empty
		newTop[tgt.Y][tgt.X] = board.Empty
		shots++
		e = computeExtrema(newSlots, w, h)

		sh.Ammo--
		if sh.Ammo > 0 {
			out = append(out, sh)
		}
	}

	if !cfg.MoveThenFire {
		for i := range out {
			out[i].Pos = (out[i].Pos + 1) % l
		}
	}
	return newTop, newSlots, out, shots
}

// IsWin reports whether every slot cell is cleared.
func IsWin(slots [][]board.Cell) bool {
	for _, row := range slots {
		for _, c := range row {
			if c != board.Empty {
				return false
			}
		}
	}
	return true
}

// AnyShotPossible reports whether some shooter color matches a currently
// exposed slot color on any lane. Nothing changes without a shot, so a
// false result means none of the given shooters will ever fire again.
func AnyShotPossible(slots [][]board.Cell, shooters []Shooter, w, h int) bool {
	if len(shooters) == 0 {
		return false
	}
	e := computeExtrema(slots, w, h)
	exposedColors := map[board.Cell]bool{}
	for y := 0; y < h; y++ {
		if x := e.rowMin[y]; x >= 0 {
			exposedColors[slots[y][x]] = true
		}
		if x := e.rowMax[y]; x >= 0 {
			exposedColors[slots[y][x]] = true
		}
	}
	for x := 0; x < w; x++ {
		if y := e.colMin[x]; y >= 0 {
			exposedColors[slots[y][x]] = true
		}
		if y := e.colMax[x]; y >= 0 {
			exposedColors[slots[y][x]] = true
		}
	}
	for _, sh := range shooters {
		if exposedColors[sh.Color] {
			return true
		}
	}
	return false
}

// IsDeadlock reports a lost state: the conveyor is full and no shooter can
// ever fire again.
func IsDeadlock(slots [][]board.Cell, shooters []Shooter, w, h int, cfg Config) bool {
	return len(shooters) >= cfg.ConveyorCapacity && !AnyShotPossible(slots, shooters, w, h)
}
