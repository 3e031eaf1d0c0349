package board

// Occupancy is the bitboard view of a Layout.
// Pieces holds the twelve disjoint piece masks; Colors, All and Empty are
// derived from them by derive and are never written anywhere else.
type Occupancy struct {
	Pieces [2][6]Bitboard
	Colors [2]Bitboard
	All    Bitboard
	Empty  Bitboard
}

// Decode builds the occupancy masks for a layout.
func Decode(l *Layout) Occupancy {
	var o Occupancy
	o.Load(l)
	return o
}

// Load overwrites o with the masks for l.
func (o *Occupancy) Load(l *Layout) {
	o.Pieces = [2][6]Bitboard{}
	for sq, p := range l {
		if p >= NoPiece {
			continue
		}
		o.Pieces[p.Color()][p.Type()] |= 1 << uint(sq)
	}
	o.derive()
}

// derive recomputes the union and complement masks.
func (o *Occupancy) derive() {
	for c := White; c <= Black; c++ {
		var all Bitboard
		for pt := Pawn; pt <= King; pt++ {
			all |= o.Pieces[c][pt]
		}
		o.Colors[c] = all
	}
	o.All = o.Colors[White] | o.Colors[Black]
	o.Empty = ^o.All
}

// Encode rebuilds the flat layout from the piece masks.
func (o *Occupancy) Encode() Layout {
	l := EmptyLayout()
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := o.Pieces[c][pt]
			for bb != 0 {
				l[bb.PopLSB()] = NewPiece(pt, c)
			}
		}
	}
	return l
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (o *Occupancy) PieceAt(sq Square) Piece {
	bb := SquareBB(sq)
	if o.All&bb == 0 {
		return NoPiece
	}

	c := White
	if o.Colors[Black]&bb != 0 {
		c = Black
	}

	for pt := Pawn; pt <= King; pt++ {
		if o.Pieces[c][pt]&bb != 0 {
			return NewPiece(pt, c)
		}
	}
	return NoPiece
}

// Disjoint reports whether no square appears in two piece masks.
func (o *Occupancy) Disjoint() bool {
	var seen Bitboard
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			if seen&o.Pieces[c][pt] != 0 {
				return false
			}
			seen |= o.Pieces[c][pt]
		}
	}
	return true
}
