// Package engine implements the evaluator and the fixed-depth search.
package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Evaluation constants
const (
	PawnValue   = 100
	KnightValue = 300
	BishopValue = 400
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 2000
)

// Piece values array for quick lookup
var pieceValues = [6]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue}

// Piece-Square Tables (PST) for positional evaluation.
// Laid out as seen from White, rank 8 first: White reads pst[sq^56],
// Black reads pst[sq] with the sign flipped.

// Pawn PST - encourages central control and advancement
var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

// Knight PST - encourages central positioning
var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

// Bishop PST - encourages central diagonals
var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

// Rook PST - encourages 7th rank and central files
var rookPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

// Queen PST - slight central preference
var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

// King PST - keeps the king home
var kingPST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

// All PSTs combined for easy lookup, indexed by piece type
var psts = [6]*[64]int{
	&pawnPST, &knightPST, &bishopPST, &rookPST, &queenPST, &kingPST,
}

// Evaluator scores a layout by material and piece placement.
// Material and PST are folded into one table at construction; the table is
// never written afterwards, so an Evaluator may be shared between searches.
type Evaluator struct {
	table [board.NoPiece][64]int
}

// NewEvaluator builds the combined piece-square table.
func NewEvaluator() *Evaluator {
	e := &Evaluator{}
	for pt := board.Pawn; pt <= board.King; pt++ {
		pst := psts[pt]
		value := pieceValues[pt]
		white := board.NewPiece(pt, board.White)
		black := board.NewPiece(pt, board.Black)
		for sq := board.A1; sq <= board.H8; sq++ {
			e.table[white][sq] = value + pst[sq.Mirror()]
			e.table[black][sq] = -(value + pst[sq])
		}
	}
	return e
}

var defaultEvaluator = NewEvaluator()

// Evaluate returns the static evaluation of a layout, positive for White.
func (e *Evaluator) Evaluate(l *board.Layout) int {
	score := 0
	for sq, p := range l {
		if p < board.NoPiece {
			score += e.table[p][sq]
		}
	}
	return score
}

// Value returns what a single piece on sq contributes.
func (e *Evaluator) Value(p board.Piece, sq board.Square) int {
	if p >= board.NoPiece {
		return 0
	}
	return e.table[p][sq]
}

// Evaluate scores l with the shared evaluator.
func Evaluate(l *board.Layout) int {
	return defaultEvaluator.Evaluate(l)
}

// EvaluateMaterial returns the material balance only.
func EvaluateMaterial(l *board.Layout) int {
	score := 0
	for _, p := range l {
		if p >= board.NoPiece {
			continue
		}
		if p.Color() == board.White {
			score += pieceValues[p.Type()]
		} else {
			score -= pieceValues[p.Type()]
		}
	}
	return score
}
