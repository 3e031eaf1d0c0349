package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Search constants
const (
	// Infinity bounds every score. It must exceed any evaluation, and a
	// layout may hold up to 64 pieces, so it sits well above 64*KingValue.
	Infinity = 1 << 20

	// MaxPly is the deepest search a Searcher supports.
	MaxPly = 64

	// DefaultDepth is the number of plies searched below each root move.
	DefaultDepth = 3
)

// Status says what a search produced.
type Status int

const (
	StatusNotSearched Status = iota // no search has run
	StatusMove                      // Result.Move is the chosen move
	StatusNoMove                    // the side to move has nothing better than -Infinity
)

func (s Status) String() string {
	switch s {
	case StatusNotSearched:
		return "not searched"
	case StatusMove:
		return "move"
	case StatusNoMove:
		return "no move"
	}
	return "unknown"
}

// Result is the outcome of a root search.
type Result struct {
	Move   board.Move
	Score  int // from the mover's point of view
	Status Status
	Nodes  uint64
}

// Searcher performs the alpha-beta search over one mutable layout.
// A Searcher is not safe for concurrent use; parallel searches give each
// worker its own Searcher and its own copy of the layout.
type Searcher struct {
	gen   *board.MoveGenerator
	eval  *Evaluator
	undo  *board.UndoStack
	lists []*board.MoveList // one per ply, grown on demand
	nodes uint64

	// OnRootMove, if set, is called after each root move has been scored.
	OnRootMove func(m board.Move, score int)
}

// NewSearcher creates a searcher. Nil arguments select the shared defaults.
func NewSearcher(attacks *board.Attacks, eval *Evaluator) *Searcher {
	if eval == nil {
		eval = defaultEvaluator
	}
	return &Searcher{
		gen:  board.NewMoveGenerator(attacks),
		eval: eval,
		undo: board.NewUndoStack(MaxPly),
	}
}

// Nodes returns the number of nodes searched since the last Reset.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Reset clears the node counter.
func (s *Searcher) Reset() {
	s.nodes = 0
}

func (s *Searcher) list(ply int) *board.MoveList {
	for len(s.lists) <= ply {
		s.lists = append(s.lists, board.NewMoveList())
	}
	return s.lists[ply]
}

// Negamax returns the score of l for the side given by sign (+1 White,
// -1 Black), searched depth plies deep. l is restored before returning.
func (s *Searcher) Negamax(l *board.Layout, depth, alpha, beta, sign int) int {
	mark := s.undo.Len()
	defer s.undo.Rewind(l, mark)
	return s.negamax(l, 0, depth, alpha, beta, sign)
}

func (s *Searcher) negamax(l *board.Layout, ply, depth, alpha, beta, sign int) int {
	s.nodes++

	if depth <= 0 {
		return s.eval.Evaluate(l) * sign
	}

	ml := s.list(ply)
	s.gen.Generate(l, board.ColorFromSign(sign), ml)

	best := -Infinity
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)

		s.undo.Make(l, m)
		score := -s.negamax(l, ply+1, depth-1, -beta, -alpha, -sign)
		s.undo.Unmake(l)

		if score > best {
			best = score
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			break
		}
	}

	return best
}

// SearchRoot scores every move of side with a full window and returns the
// best. Ties keep the move generated first. If no move scores above
// -Infinity the result has StatusNoMove.
func (s *Searcher) SearchRoot(l *board.Layout, side board.Color, depth int) Result {
	mark := s.undo.Len()
	defer s.undo.Rewind(l, mark)

	s.nodes++
	ml := s.list(0)
	s.gen.Generate(l, side, ml)

	res := Result{Move: board.NoMove, Score: -Infinity, Status: StatusNoMove}
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		score := s.scoreRootMove(l, m, depth, side.Sign())

		if s.OnRootMove != nil {
			s.OnRootMove(m, score)
		}
		res.consider(m, score)
	}

	res.Nodes = s.nodes
	return res
}

// scoreRootMove plays m and searches the reply tree with a full window.
func (s *Searcher) scoreRootMove(l *board.Layout, m board.Move, depth, sign int) int {
	s.undo.Make(l, m)
	score := -s.negamax(l, 1, depth, -Infinity, Infinity, -sign)
	s.undo.Unmake(l)
	return score
}

// consider keeps m if it beats the best so far. Callers feed moves in
// generator order, so the first of equal scores wins.
func (r *Result) consider(m board.Move, score int) {
	if score > r.Score {
		r.Move = m
		r.Score = score
		r.Status = StatusMove
	}
}
