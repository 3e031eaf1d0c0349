package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

var testPlacements = []string{
	board.StartPlacement,
	"r1bqk2r/pp2bppp/2n1pn2/3p4/2PP4/2N1PN2/PP1B1PPP/R2QKB1R",
	"8/4k3/2p5/1p6/5P2/6P1/4K3/8",
	"4k3/8/8/3n4/8/2B5/8/4K2R",
}

func mustLayout(t *testing.T, placement string) board.Layout {
	t.Helper()
	l, err := board.ParsePlacement(placement)
	if err != nil {
		t.Fatalf("ParsePlacement(%q): %v", placement, err)
	}
	return l
}

// plainNegamax searches the full tree without pruning on board copies.
func plainNegamax(gen *board.MoveGenerator, lists []*board.MoveList, l board.Layout, depth, sign int) int {
	if depth == 0 {
		return Evaluate(&l) * sign
	}
	ml := lists[depth]
	gen.Generate(&l, board.ColorFromSign(sign), ml)

	best := -Infinity
	for _, m := range ml.Slice() {
		child := l
		if _, err := child.Apply(m); err != nil {
			panic(err)
		}
		if score := -plainNegamax(gen, lists, child, depth-1, -sign); score > best {
			best = score
		}
	}
	return best
}

func plainRoot(l board.Layout, side board.Color, depth int) (board.Move, int) {
	gen := board.NewMoveGenerator(nil)
	lists := make([]*board.MoveList, depth+1)
	for i := range lists {
		lists[i] = board.NewMoveList()
	}

	bestMove, bestScore := board.NoMove, -Infinity
	for _, m := range gen.Moves(&l, side).Slice() {
		child := l
		if _, err := child.Apply(m); err != nil {
			panic(err)
		}
		if score := -plainNegamax(gen, lists, child, depth, -side.Sign()); score > bestScore {
			bestMove, bestScore = m, score
		}
	}
	return bestMove, bestScore
}

func TestAlphaBetaMatchesPlainNegamax(t *testing.T) {
	eng := NewEngine()

	for _, p := range testPlacements {
		for _, side := range []board.Color{board.White, board.Black} {
			t.Run(p+" "+side.String(), func(t *testing.T) {
				l := mustLayout(t, p)

				res := eng.SearchDepth(&l, side, 2)
				move, score := plainRoot(l, side, 2)

				if res.Move != move || res.Score != score {
					t.Errorf("alpha-beta %s (%d), plain negamax %s (%d)", res.Move, res.Score, move, score)
				}
			})
		}
	}
}

func TestPruningSavesNodes(t *testing.T) {
	l := mustLayout(t, testPlacements[1])
	s := NewSearcher(nil, nil)

	s.Negamax(&l, 3, -Infinity, Infinity, 1)
	pruned := s.Nodes()

	// A window that can never close visits every node.
	var full uint64 = 1
	var count func(l *board.Layout, side board.Color, depth int)
	gen := board.NewMoveGenerator(nil)
	count = func(l *board.Layout, side board.Color, depth int) {
		if depth == 0 {
			return
		}
		for _, m := range gen.Moves(l, side).Slice() {
			child := *l
			child.Apply(m)
			full++
			count(&child, side.Other(), depth-1)
		}
	}
	count(&l, board.White, 3)

	if pruned >= full {
		t.Errorf("alpha-beta visited %d nodes, full tree has %d", pruned, full)
	}
	t.Logf("nodes: alpha-beta %d, full %d", pruned, full)
}

func TestSearchBasic(t *testing.T) {
	l := board.StartLayout()
	eng := NewEngine()

	res := eng.Search(&l, board.White)
	if res.Status != StatusMove {
		t.Fatalf("status = %v, want move", res.Status)
	}
	if !board.NewMoveGenerator(nil).Moves(&l, board.White).Contains(res.Move) {
		t.Errorf("%s is not a generated move", res.Move)
	}
	if l != board.StartLayout() {
		t.Error("search left the layout modified")
	}
	if res.Nodes == 0 {
		t.Error("no nodes counted")
	}
	t.Logf("Best move: %s score %d nodes %d", res.Move, res.Score, res.Nodes)
}

func TestSearchTakesFreePiece(t *testing.T) {
	// Black queen on d5 hangs to the e4 pawn.
	l := mustLayout(t, "4k3/8/8/3q4/4P3/8/8/4K3")

	res := NewEngine().SearchDepth(&l, board.White, 1)
	want := board.NewMove(board.E4, board.NewSquare(3, 4), board.Pawn)
	if res.Move != want {
		t.Errorf("got %s, want %s", res.Move, want)
	}
}

func TestSearchNoMove(t *testing.T) {
	l := mustLayout(t, "8/8/8/8/8/8/8/K7")

	res := NewEngine().Search(&l, board.Black)
	if res.Status != StatusNoMove {
		t.Errorf("status = %v, want no move", res.Status)
	}
	if !res.Move.IsNone() {
		t.Errorf("move = %s, want none", res.Move)
	}
	if res.Score != -Infinity {
		t.Errorf("score = %d, want -Infinity", res.Score)
	}
}

func TestSearchStalemateReply(t *testing.T) {
	// Taking the last black piece leaves Black with no moves.
	l := mustLayout(t, "k7/8/8/8/8/8/8/R6K")

	res := NewEngine().SearchDepth(&l, board.White, 1)
	want := board.NewMove(board.A1, board.A8, board.Rook)
	if res.Move != want || res.Score != Infinity {
		t.Errorf("got %s (%d), want %s (%d)", res.Move, res.Score, want, Infinity)
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	serial := NewEngine()
	parallel := NewEngine()
	parallel.SetWorkers(3)

	for _, p := range testPlacements {
		t.Run(p, func(t *testing.T) {
			l := mustLayout(t, p)
			before := l

			want := serial.SearchDepth(&l, board.White, 2)
			got, err := parallel.SearchParallel(context.Background(), &l, board.White, 2)
			if err != nil {
				t.Fatalf("SearchParallel: %v", err)
			}
			if got != want {
				t.Errorf("parallel %+v, serial %+v", got, want)
			}
			if l != before {
				t.Error("layout modified")
			}
		})
	}
}

func TestParallelCancelled(t *testing.T) {
	eng := NewEngine()
	eng.SetWorkers(2)
	l := board.StartLayout()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := eng.SearchParallel(ctx, &l, board.White, 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if res.Status != StatusNotSearched {
		t.Errorf("status = %v, want not searched", res.Status)
	}
}

func TestOnInfo(t *testing.T) {
	eng := NewEngine()
	l := board.StartLayout()

	var calls int
	eng.OnInfo = func(info SearchInfo) {
		calls++
		if info.Depth != 1 {
			t.Errorf("depth = %d, want 1", info.Depth)
		}
	}
	eng.SearchDepth(&l, board.White, 1)

	if calls != 20 {
		t.Errorf("OnInfo called %d times, want 20", calls)
	}
}

func TestPerft(t *testing.T) {
	eng := NewEngine()
	l := board.StartLayout()

	for depth, want := range []uint64{1, 20, 400, 8902} {
		if got := eng.Perft(&l, board.White, depth); got != want {
			t.Errorf("perft(%d) = %d, want %d", depth, got, want)
		}
	}
}

func TestSetDepth(t *testing.T) {
	eng := NewEngine()
	if eng.Depth() != DefaultDepth {
		t.Errorf("default depth = %d, want %d", eng.Depth(), DefaultDepth)
	}
	if err := eng.SetDepth(5); err != nil || eng.Depth() != 5 {
		t.Errorf("SetDepth(5): %v, depth %d", err, eng.Depth())
	}
	for _, d := range []int{-1, MaxPly} {
		if err := eng.SetDepth(d); !errors.Is(err, ErrInvalidDepth) {
			t.Errorf("SetDepth(%d) = %v, want ErrInvalidDepth", d, err)
		}
	}
}

func TestSearchDepthOutOfRange(t *testing.T) {
	eng := NewEngine()
	l := board.StartLayout()

	for _, d := range []int{-1, -5, MaxPly - 1} {
		done := make(chan Result, 1)
		go func() { done <- eng.SearchDepth(&l, board.White, d) }()

		select {
		case res := <-done:
			if res.Status != StatusNotSearched || res.Move != board.NoMove {
				t.Errorf("SearchDepth(%d) = %+v, want not searched", d, res)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("SearchDepth(%d) did not return", d)
		}
	}
	if l != board.StartLayout() {
		t.Error("layout changed")
	}

	eng.SetWorkers(2)
	res, err := eng.SearchParallel(context.Background(), &l, board.White, -1)
	if !errors.Is(err, ErrInvalidDepth) || res.Status != StatusNotSearched {
		t.Errorf("SearchParallel(-1) = %v, %v", res.Status, err)
	}
	if res := eng.SearchDepth(&l, board.White, -1); res.Status != StatusNotSearched {
		t.Errorf("parallel SearchDepth(-1) status = %v", res.Status)
	}

	s := NewSearcher(board.DefaultAttacks(), NewEvaluator())
	if got, want := s.Negamax(&l, -3, -Infinity, Infinity, 1), Evaluate(&l); got != want {
		t.Errorf("Negamax at negative depth = %d, want static %d", got, want)
	}
}

func TestScoreToString(t *testing.T) {
	tests := map[int]string{
		0:         "0.00",
		125:       "1.25",
		-5:        "-0.05",
		900:       "9.00",
		Infinity:  "+inf",
		-Infinity: "-inf",
	}
	for score, want := range tests {
		if got := ScoreToString(score); got != want {
			t.Errorf("ScoreToString(%d) = %q, want %q", score, got, want)
		}
	}
}
