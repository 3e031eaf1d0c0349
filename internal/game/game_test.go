package game

import (
	"errors"
	"testing"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

func TestPlay(t *testing.T) {
	g := New(nil)

	if err := g.PlayString("e2e4"); err != nil {
		t.Fatalf("e2e4: %v", err)
	}
	if g.Turn() != board.Black {
		t.Errorf("turn = %v, want Black", g.Turn())
	}
	if p, _ := g.At(board.E4); p != board.WhitePawn {
		t.Errorf("e4 = %v, want P", p)
	}

	tests := []struct {
		name string
		move string
		want error
	}{
		{"wrong side", "d2d4", ErrWrongSide},
		{"white pawn", "e4e5", ErrWrongSide},
		{"nothing there", "d5d4", board.ErrEmptySource},
		{"not a pawn move", "e7e4", ErrIllegalMove},
		{"own piece", "d8d7", ErrIllegalMove},
		{"bad text", "e7", board.ErrInvalidMove},
		{"bad square", "e9e8", board.ErrSquareOutOfRange},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := g.PlayString(tc.move); !errors.Is(err, tc.want) {
				t.Errorf("PlayString(%q) = %v, want %v", tc.move, err, tc.want)
			}
		})
	}

	if len(g.History()) != 1 {
		t.Errorf("history has %d moves, want 1", len(g.History()))
	}
}

func TestUndo(t *testing.T) {
	g := New(nil)
	for _, m := range []string{"e2e4", "d7d5", "e4d5"} {
		if err := g.PlayString(m); err != nil {
			t.Fatalf("%s: %v", m, err)
		}
	}

	h := g.History()
	if h[2].Captured != board.BlackPawn {
		t.Errorf("captured = %v, want p", h[2].Captured)
	}

	for range h {
		if err := g.Undo(); err != nil {
			t.Fatalf("Undo: %v", err)
		}
	}
	if g.Layout() != board.StartLayout() || g.Turn() != board.White {
		t.Error("undo did not return to the start")
	}
	if err := g.Undo(); !errors.Is(err, ErrNoHistory) {
		t.Errorf("Undo on empty history = %v", err)
	}
}

func TestKingCaptureEndsGame(t *testing.T) {
	g, err := FromFEN("k7/8/8/8/8/8/8/R6K w", nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := g.PlayString("a1a8"); err != nil {
		t.Fatalf("a1a8: %v", err)
	}
	if g.Outcome() != WhiteWins {
		t.Errorf("outcome = %v, want 1-0", g.Outcome())
	}
	if err := g.PlayString("h1h2"); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after the end = %v, want ErrGameOver", err)
	}
}

func TestEngineMove(t *testing.T) {
	eng := engine.NewEngine()
	if err := eng.SetDepth(1); err != nil {
		t.Fatal(err)
	}
	g := New(eng)

	res, err := g.EngineMove()
	if err != nil {
		t.Fatalf("EngineMove: %v", err)
	}
	if res.Status != engine.StatusMove {
		t.Fatalf("status = %v", res.Status)
	}
	if g.Turn() != board.Black || len(g.History()) != 1 {
		t.Error("engine move was not played")
	}
	t.Logf("engine played %s", res.Move)
}

func TestEngineNoMove(t *testing.T) {
	g, err := FromFEN("8/8/8/8/8/8/8/K7 b", nil)
	if err != nil {
		t.Fatal(err)
	}

	res, err := g.EngineMove()
	if err != nil {
		t.Fatalf("EngineMove: %v", err)
	}
	if res.Status != engine.StatusNoMove {
		t.Errorf("status = %v, want no move", res.Status)
	}
	if g.Outcome() != WhiteWins {
		t.Errorf("outcome = %v, want 1-0", g.Outcome())
	}
}

func TestEditing(t *testing.T) {
	g := New(nil)
	if err := g.PlayString("e2e4"); err != nil {
		t.Fatal(err)
	}

	if err := g.Clear(board.E4); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := g.Set(board.A1, board.BlackQueen); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if p, _ := g.At(board.A1); p != board.BlackQueen {
		t.Errorf("a1 = %v", p)
	}
	if len(g.History()) != 0 {
		t.Error("editing should clear the history")
	}

	if err := g.Set(board.Square(64), board.WhitePawn); !errors.Is(err, board.ErrSquareOutOfRange) {
		t.Errorf("Set(64) = %v", err)
	}
	if _, err := g.At(board.Square(99)); !errors.Is(err, board.ErrSquareOutOfRange) {
		t.Errorf("At(99) = %v", err)
	}
}

func TestSetTurn(t *testing.T) {
	g := New(nil)
	if err := g.PlayString("e2e4"); err != nil {
		t.Fatal(err)
	}

	g.SetTurn(board.White)
	if g.Turn() != board.White || len(g.History()) != 0 {
		t.Errorf("turn %v history %d", g.Turn(), len(g.History()))
	}
	if err := g.PlayString("d2d4"); err != nil {
		t.Errorf("White to move after SetTurn: %v", err)
	}
}

func TestSnapshotRestore(t *testing.T) {
	g := New(nil)
	for _, m := range []string{"e2e4", "d7d5", "e4d5", "d8d5"} {
		if err := g.PlayString(m); err != nil {
			t.Fatalf("%s: %v", m, err)
		}
	}

	s := g.Snapshot()
	start := board.StartLayout()
	if s.Start != start.String() {
		t.Errorf("start = %s", s.Start)
	}
	if s.Turn != "w" || len(s.Moves) != 4 {
		t.Errorf("snapshot = %+v", s)
	}

	r, err := Restore(s, nil)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if r.Layout() != g.Layout() || r.Turn() != g.Turn() {
		t.Error("restored game differs")
	}

	s.Moves = append(s.Moves, "a1a1")
	if _, err := Restore(s, nil); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("Restore with a bad move = %v", err)
	}
}
