package board

import (
	"fmt"
	"strings"
)

// Layout is the flat board description: one Piece per square, a1 first.
// It is the authoritative board state; Occupancy masks are a cache rebuilt
// from it. Note that the zero Layout is not empty (Piece 0 is WhitePawn);
// start from EmptyLayout or one of the parse functions.
type Layout [64]Piece

// EmptyLayout returns a layout with every square empty.
func EmptyLayout() Layout {
	var l Layout
	for i := range l {
		l[i] = NoPiece
	}
	return l
}

// StartLayout returns the standard initial arrangement.
func StartLayout() Layout {
	l, err := ParsePlacement(StartPlacement)
	if err != nil {
		panic(err)
	}
	return l
}

// ParseLayout parses the 64-symbol text form produced by String.
func ParseLayout(s string) (Layout, error) {
	l := EmptyLayout()
	if len(s) != 64 {
		return l, &ParseError{Input: s, Reason: fmt.Sprintf("need 64 symbols, got %d", len(s)), Err: ErrInvalidLayout}
	}
	for i := 0; i < 64; i++ {
		p, ok := PieceFromSymbol(s[i])
		if !ok {
			return EmptyLayout(), &ParseError{Input: s, Reason: fmt.Sprintf("unknown symbol %q at %s", s[i], Square(i)), Err: ErrInvalidLayout}
		}
		l[i] = p
	}
	return l, nil
}

// String returns the 64-symbol text form, a1 first.
func (l *Layout) String() string {
	var sb strings.Builder
	sb.Grow(64)
	for _, p := range l {
		sb.WriteByte(p.Symbol())
	}
	return sb.String()
}

// At returns the piece on sq.
func (l *Layout) At(sq Square) Piece {
	return l[sq]
}

// Set places p on sq, replacing any occupant.
func (l *Layout) Set(sq Square, p Piece) {
	l[sq] = p
}

// Clear empties sq.
func (l *Layout) Clear(sq Square) {
	l[sq] = NoPiece
}

// Apply moves the piece on m.From to m.To, bounds-checking both squares.
// It returns the captured piece (NoPiece if the destination was empty).
// Search code uses UndoStack instead; Apply is for one-off application by
// callers holding an untrusted move.
func (l *Layout) Apply(m Move) (Piece, error) {
	if !m.From.IsValid() || !m.To.IsValid() {
		return NoPiece, fmt.Errorf("%w: %d -> %d", ErrSquareOutOfRange, m.From, m.To)
	}
	mover := l[m.From]
	if mover == NoPiece {
		return NoPiece, fmt.Errorf("%w: %s", ErrEmptySource, m.From)
	}
	if m.Piece != NoPieceType && mover.Type() != m.Piece {
		return NoPiece, fmt.Errorf("%w: %s holds %s, move says %s", ErrInvalidMove, m.From, mover.Type(), m.Piece)
	}
	captured := l[m.To]
	l[m.To] = mover
	l[m.From] = NoPiece
	return captured, nil
}

// Mirror returns the color-reversed board: ranks flipped and every piece
// handed to the other side.
func (l *Layout) Mirror() Layout {
	var m Layout
	for sq := A1; sq <= H8; sq++ {
		m[sq.Mirror()] = l[sq].Flip()
	}
	return m
}

// Count returns the number of occupied squares.
func (l *Layout) Count() int {
	n := 0
	for _, p := range l {
		if p != NoPiece {
			n++
		}
	}
	return n
}

// Pretty returns a rank-8-first diagram for logs and the "d" command.
func (l *Layout) Pretty() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			p := l[NewSquare(file, rank)]
			if p == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(p.String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n")
	return sb.String()
}
