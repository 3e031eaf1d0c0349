package board

import "sync"

// Attacks holds the precomputed attack data for every piece kind. It is built
// once by NewAttacks and never mutated afterwards, so a single instance can be
// shared by any number of concurrent searches.
type Attacks struct {
	knight [64]Bitboard
	king   [64]Bitboard

	bishop [64]Magic
	rook   [64]Magic
	table  []Bitboard // bishop entries first, then rook entries
}

var (
	knightOffsets = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingOffsets   = [8][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

var (
	defaultOnce    sync.Once
	defaultAttacks *Attacks
)

// DefaultAttacks returns the process-wide attack tables, building them on
// first use. The tables are read-only and are released with the process.
func DefaultAttacks() *Attacks {
	defaultOnce.Do(func() {
		defaultAttacks = NewAttacks()
	})
	return defaultAttacks
}

// NewAttacks builds a private set of attack tables.
func NewAttacks() *Attacks {
	a := &Attacks{
		table: make([]Bitboard, bishopTableSize+rookTableSize),
	}
	for sq := A1; sq <= H8; sq++ {
		a.knight[sq] = offsetAttacks(sq, knightOffsets[:])
		a.king[sq] = offsetAttacks(sq, kingOffsets[:])
	}
	a.initMagics()
	return a
}

// offsetAttacks collects every destination reachable by a single jump,
// discarding anything that leaves the 8x8 grid.
func offsetAttacks(sq Square, offsets [][2]int) Bitboard {
	var attacks Bitboard
	file, rank := sq.File(), sq.Rank()
	for _, off := range offsets {
		f, r := file+off[0], rank+off[1]
		if f < 0 || f > 7 || r < 0 || r > 7 {
			continue
		}
		attacks |= SquareBB(NewSquare(f, r))
	}
	return attacks
}

// KnightAttacks returns the knight attack bitboard for a square.
func (a *Attacks) KnightAttacks(sq Square) Bitboard {
	return a.knight[sq]
}

// KingAttacks returns the king attack bitboard for a square.
func (a *Attacks) KingAttacks(sq Square) Bitboard {
	return a.king[sq]
}

// BishopAttacks returns the bishop attack bitboard for a square with given occupancy.
// Each ray stops at, and includes, the first occupied square.
func (a *Attacks) BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &a.bishop[sq]
	return a.table[m.Offset+uint32(m.index(occupied))]
}

// RookAttacks returns the rook attack bitboard for a square with given occupancy.
func (a *Attacks) RookAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &a.rook[sq]
	return a.table[m.Offset+uint32(m.index(occupied))]
}

// QueenAttacks returns the queen attack bitboard for a square with given occupancy.
func (a *Attacks) QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return a.BishopAttacks(sq, occupied) | a.RookAttacks(sq, occupied)
}

// SlidingAttacks dispatches on the piece kind. Non-sliding kinds return Empty.
func (a *Attacks) SlidingAttacks(sq Square, occupied Bitboard, pt PieceType) Bitboard {
	switch pt {
	case Bishop:
		return a.BishopAttacks(sq, occupied)
	case Rook:
		return a.RookAttacks(sq, occupied)
	case Queen:
		return a.QueenAttacks(sq, occupied)
	default:
		return Empty
	}
}
