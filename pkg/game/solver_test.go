package game

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/Fepozopo/gridshot/pkg/board"
)

// replay applies a solution against the initial state and returns the
// number of ticks until the slots cleared, or -1 if they never did.
func replay(top, slots [][]board.Cell, w, h int, cfg Config, solution []Action) int {
	var shooters []Shooter
	for i, act := range solution {
		if act.Kind == ActionTap {
			var ok bool
			top, slots, shooters, ok = Tap(top, slots, shooters, act.X, act.Y, cfg)
			if !ok {
				return -1
			}
		}
		top, slots, shooters, _ = Tick(top, slots, shooters, w, h, cfg)
		if IsWin(slots) {
			return i + 1
		}
	}
	return -1
}

func TestSolve(t *testing.T) {
	cfg := DefaultConfig()

	Convey("Given a 1x1 level with matching top and slot colors", t, func() {
		top := cells(t, [][]int{{0}})
		slots := cells(t, [][]int{{0}})

		Convey("the solver finds a tap-first solution", func() {
			res := Solve(top, slots, 1, 1, cfg, SolveOptions{AllowWait: true})
			So(res.Solvable, ShouldBeTrue)
			So(res.Reason, ShouldEqual, ReasonSolved)
			So(res.Steps, ShouldBeGreaterThanOrEqualTo, 1)
			So(len(res.Solution), ShouldBeGreaterThan, 0)
			So(res.Solution[0], ShouldResemble, Action{Kind: ActionTap, X: 0, Y: 0})

			Convey("and replaying it clears the slots in exactly Steps ticks", func() {
				So(replay(top, slots, 1, 1, cfg, res.Solution), ShouldEqual, res.Steps)
			})
		})
	})

	Convey("Given a 1x1 level with an empty top", t, func() {
		top := cells(t, [][]int{{-1}})
		slots := cells(t, [][]int{{0}})

		Convey("no shooter can ever spawn and the search exhausts", func() {
			res := Solve(top, slots, 1, 1, cfg, SolveOptions{AllowWait: true})
			So(res.Solvable, ShouldBeFalse)
			So(res.Reason, ShouldBeIn, []SolveReason{ReasonSearchExhausted, ReasonMaxExpanded})
		})
	})

	Convey("Given already-clear slots", t, func() {
		top := cells(t, [][]int{{0}})
		slots := cells(t, [][]int{{-1}})
		res := Solve(top, slots, 1, 1, cfg, SolveOptions{})
		So(res.Solvable, ShouldBeTrue)
		So(res.Steps, ShouldEqual, 0)
		So(res.Reason, ShouldEqual, ReasonAlreadyClear)
		So(res.Solution, ShouldBeEmpty)
	})

	Convey("Given a 2x2 deranged level", t, func() {
		top := cells(t, [][]int{
			{0, 0},
			{1, 1},
		})
		slots := cells(t, [][]int{
			{1, 1},
			{0, 0},
		})

		Convey("the solver clears it and the solution replays", func() {
			res := Solve(top, slots, 2, 2, cfg, SolveOptions{AllowWait: true})
			So(res.Solvable, ShouldBeTrue)
			So(replay(top, slots, 2, 2, cfg, res.Solution), ShouldEqual, res.Steps)
		})

		Convey("two runs produce identical results", func() {
			a := Solve(top, slots, 2, 2, cfg, SolveOptions{AllowWait: true})
			b := Solve(top, slots, 2, 2, cfg, SolveOptions{AllowWait: true})
			So(a, ShouldResemble, b)
		})
	})

	Convey("Given a tiny expansion budget", t, func() {
		top := cells(t, [][]int{
			{0, 1},
			{2, 3},
		})
		slots := cells(t, [][]int{
			{3, 2},
			{1, 0},
		})
		res := Solve(top, slots, 2, 2, cfg, SolveOptions{MaxExpanded: 1, MaxSteps: 80, AllowWait: true})
		So(res.Solvable, ShouldBeFalse)
		So(res.Reason, ShouldEqual, ReasonMaxExpanded)
	})
}

func TestEnumerateActionsOrder(t *testing.T) {
	top := cells(t, [][]int{
		{0, -1, 1, 1},
	})
	actions := enumerateActions(top, true)
	if len(actions) != 3 {
		t.Fatalf("expected 2 taps + wait, got %d actions", len(actions))
	}
	// Largest component first.
	if actions[0] != (Action{Kind: ActionTap, X: 2, Y: 0}) {
		t.Errorf("first action %+v", actions[0])
	}
	if actions[1] != (Action{Kind: ActionTap, X: 0, Y: 0}) {
		t.Errorf("second action %+v", actions[1])
	}
	if actions[2].Kind != ActionWait {
		t.Errorf("last action %+v", actions[2])
	}
}

func TestEncodeStateCanonical(t *testing.T) {
	top := cells(t, [][]int{{0, -1}})
	slots := cells(t, [][]int{{1, -1}})
	a := encodeState(top, slots, []Shooter{{Color: 1, Ammo: 2, Pos: 3}, {Color: 0, Ammo: 1, Pos: 1}})
	b := encodeState(top, slots, []Shooter{{Color: 0, Ammo: 1, Pos: 1}, {Color: 1, Ammo: 2, Pos: 3}})
	if a != b {
		t.Error("shooter order must not affect the canonical key")
	}
	c := encodeState(top, slots, []Shooter{{Color: 0, Ammo: 1, Pos: 1}})
	if a == c {
		t.Error("different shooter sets must differ")
	}
}
