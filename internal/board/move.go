package board

import "fmt"

// Move is a pseudo-legal move: origin, destination and the kind of piece
// that moves. Moves are plain values; nothing in a Move refers back to a board.
type Move struct {
	From  Square
	To    Square
	Piece PieceType
}

// NoMove represents the absence of a move.
var NoMove = Move{From: NoSquare, To: NoSquare, Piece: NoPieceType}

// NewMove creates a move.
func NewMove(from, to Square, pt PieceType) Move {
	return Move{From: from, To: to, Piece: pt}
}

// IsNone reports whether m is NoMove.
func (m Move) IsNone() bool {
	return m == NoMove
}

// String returns the coordinate form of the move (e.g., "e2e4").
func (m Move) String() string {
	if m.IsNone() {
		return "0000"
	}
	return m.From.String() + m.To.String()
}

// ParseMove parses a coordinate move and takes the piece kind from the layout.
func ParseMove(s string, l *Layout) (Move, error) {
	if len(s) != 4 {
		return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	piece := l.At(from)
	if piece == NoPiece {
		return NoMove, fmt.Errorf("%w: %s", ErrEmptySource, from)
	}

	return NewMove(from, to, piece.Type()), nil
}

// MaxMoves bounds the pseudo-legal moves of any layout, including ones no
// game could reach: n own pieces have at most 64-n targets each, and
// n*(64-n) <= 32*32.
const MaxMoves = 1024

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [MaxMoves]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice. The slice aliases the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}
