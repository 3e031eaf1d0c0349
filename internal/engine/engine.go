package engine

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// SearchInfo is reported once per scored root move.
type SearchInfo struct {
	Depth int
	Move  board.Move
	Score int
	Nodes uint64
	Time  time.Duration
}

// ErrInvalidDepth is returned when a depth outside 0..MaxPly-2 is configured.
var ErrInvalidDepth = fmt.Errorf("depth must be between 0 and %d", MaxPly-2)

// Engine is the chess AI engine. It owns the shared read-only tables and
// a searcher, and drives fixed-depth searches over a caller's layout.
type Engine struct {
	attacks  *board.Attacks
	eval     *Evaluator
	searcher *Searcher
	depth    int
	workers  int

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine over the shared attack tables and evaluator.
func NewEngine() *Engine {
	attacks := board.DefaultAttacks()
	return &Engine{
		attacks:  attacks,
		eval:     defaultEvaluator,
		searcher: NewSearcher(attacks, defaultEvaluator),
		depth:    DefaultDepth,
		workers:  1,
	}
}

// SetDepth sets the number of plies searched below each root move.
func (e *Engine) SetDepth(depth int) error {
	if err := checkDepth(depth); err != nil {
		return err
	}
	e.depth = depth
	return nil
}

func checkDepth(depth int) error {
	if depth < 0 || depth > MaxPly-2 {
		return fmt.Errorf("%w: got %d", ErrInvalidDepth, depth)
	}
	return nil
}

// Depth returns the configured depth.
func (e *Engine) Depth() int {
	return e.depth
}

// SetWorkers sets how many goroutines Search splits the root moves across.
// Values below 1 are treated as 1.
func (e *Engine) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	e.workers = n
}

// Workers returns the configured worker count.
func (e *Engine) Workers() int {
	return e.workers
}

// Search finds the best move for side at the configured depth.
// l is mutated during the search and restored before Search returns.
func (e *Engine) Search(l *board.Layout, side board.Color) Result {
	return e.SearchDepth(l, side, e.depth)
}

// SearchDepth is Search with an explicit depth. A depth outside
// 0..MaxPly-2 is not searched and yields StatusNotSearched.
func (e *Engine) SearchDepth(l *board.Layout, side board.Color, depth int) Result {
	if checkDepth(depth) != nil {
		return Result{Move: board.NoMove, Status: StatusNotSearched}
	}
	if e.workers > 1 {
		res, err := e.SearchParallel(context.Background(), l, side, depth)
		if err == nil {
			return res
		}
	}

	startTime := time.Now()
	e.searcher.Reset()
	if e.OnInfo != nil {
		e.searcher.OnRootMove = func(m board.Move, score int) {
			e.OnInfo(SearchInfo{
				Depth: depth,
				Move:  m,
				Score: score,
				Nodes: e.searcher.Nodes(),
				Time:  time.Since(startTime),
			})
		}
		defer func() { e.searcher.OnRootMove = nil }()
	}

	return e.searcher.SearchRoot(l, side, depth)
}

// Perft counts the leaf nodes of the pseudo-legal move tree.
func (e *Engine) Perft(l *board.Layout, side board.Color, depth int) uint64 {
	s := e.searcher
	mark := s.undo.Len()
	defer s.undo.Rewind(l, mark)
	return s.perft(l, 0, side, depth)
}

func (s *Searcher) perft(l *board.Layout, ply int, side board.Color, depth int) uint64 {
	if depth <= 0 {
		return 1
	}

	ml := s.list(ply)
	s.gen.Generate(l, side, ml)
	if depth == 1 {
		return uint64(ml.Len())
	}

	var nodes uint64
	for i := 0; i < ml.Len(); i++ {
		s.undo.Make(l, ml.Get(i))
		nodes += s.perft(l, ply+1, side.Other(), depth-1)
		s.undo.Unmake(l)
	}
	return nodes
}

// Evaluate returns the static evaluation of a layout, positive for White.
func (e *Engine) Evaluate(l *board.Layout) int {
	return e.eval.Evaluate(l)
}

// Moves returns the pseudo-legal moves of side.
func (e *Engine) Moves(l *board.Layout, side board.Color) []board.Move {
	return e.searcher.gen.Moves(l, side).Slice()
}

// ScoreToString converts a score to pawns (e.g., "-1.25").
func ScoreToString(score int) string {
	if score >= Infinity {
		return "+inf"
	}
	if score <= -Infinity {
		return "-inf"
	}

	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100

	cp := strconv.Itoa(centipawns)
	if centipawns < 10 {
		cp = "0" + cp
	}
	return sign + strconv.Itoa(pawns) + "." + cp
}
