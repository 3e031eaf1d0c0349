package board

import "math/bits"

// Magic bitboard implementation for sliding piece attacks.
// Magic multipliers are searched for at construction time with a fixed-seed
// PRNG, so the tables are identical on every run.

// Magic holds the magic bitboard data for a single square.
type Magic struct {
	Mask   Bitboard // Relevant occupancy mask (excludes edges)
	Magic  uint64   // Magic multiplier
	Shift  uint8    // Bits to shift right
	Offset uint32   // Index into attack table
}

const (
	bishopTableSize = 5248
	rookTableSize   = 102400

	magicSeed = 0x98F107A2BEEF1234
)

func (m *Magic) index(occupied Bitboard) uint64 {
	return (uint64(occupied&m.Mask) * m.Magic) >> m.Shift
}

// Simple PRNG for reproducible magic candidates
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

// sparse returns a candidate with few set bits; those make good magics.
func (p *prng) sparse() uint64 {
	return p.next() & p.next() & p.next()
}

func (a *Attacks) initMagics() {
	rng := newPRNG(magicSeed)

	var offset uint32
	for sq := A1; sq <= H8; sq++ {
		offset += fillMagic(&a.bishop[sq], sq, bishopMask(sq), bishopAttacksSlow, offset, a.table, rng)
	}
	for sq := A1; sq <= H8; sq++ {
		offset += fillMagic(&a.rook[sq], sq, rookMask(sq), rookAttacksSlow, offset, a.table, rng)
	}
}

// fillMagic finds a collision-free multiplier for sq, writes the attack sets
// into table[offset:] and returns the number of entries used.
func fillMagic(m *Magic, sq Square, mask Bitboard, slow func(Square, Bitboard) Bitboard,
	offset uint32, table []Bitboard, rng *prng) uint32 {
	n := mask.PopCount()
	size := 1 << n

	occupancies := make([]Bitboard, size)
	reference := make([]Bitboard, size)
	for i := 0; i < size; i++ {
		occupancies[i] = indexToOccupancy(i, n, mask)
		reference[i] = slow(sq, occupancies[i])
	}

	entries := table[offset : offset+uint32(size)]
	epoch := make([]int, size)

	for attempt := 1; ; attempt++ {
		magic := rng.sparse()
		if bits.OnesCount64((uint64(mask)*magic)&0xFF00000000000000) < 6 {
			continue
		}

		ok := true
		for i := 0; i < size; i++ {
			idx := (uint64(occupancies[i]) * magic) >> (64 - n)
			if epoch[idx] < attempt {
				epoch[idx] = attempt
				entries[idx] = reference[i]
			} else if entries[idx] != reference[i] {
				ok = false
				break
			}
		}

		if ok {
			*m = Magic{
				Mask:   mask,
				Magic:  magic,
				Shift:  uint8(64 - n),
				Offset: offset,
			}
			return uint32(size)
		}
	}
}

// bishopMask returns the relevant occupancy mask for bishop at square.
// Excludes edge squares since they don't affect the result.
func bishopMask(sq Square) Bitboard {
	return bishopAttacksSlow(sq, 0) & ^(Rank1 | Rank8 | FileA | FileH)
}

// rookMask returns the relevant occupancy mask for rook at square.
func rookMask(sq Square) Bitboard {
	file := sq.File()
	rank := sq.Rank()

	var mask Bitboard

	for f := 1; f < 7; f++ {
		if f != file {
			mask |= SquareBB(NewSquare(f, rank))
		}
	}

	for r := 1; r < 7; r++ {
		if r != rank {
			mask |= SquareBB(NewSquare(file, r))
		}
	}

	return mask
}

// indexToOccupancy converts an index to an occupancy bitboard.
func indexToOccupancy(index, n int, mask Bitboard) Bitboard {
	var occ Bitboard
	for i := 0; i < n; i++ {
		sq := mask.PopLSB()
		if index&(1<<i) != 0 {
			occ |= SquareBB(sq)
		}
	}
	return occ
}

var (
	bishopDirections = [4][2]int{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
	rookDirections   = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
)

// bishopAttacksSlow computes bishop attacks by ray casting.
func bishopAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(sq, occupied, bishopDirections[:])
}

// rookAttacksSlow computes rook attacks by ray casting.
func rookAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(sq, occupied, rookDirections[:])
}

// rayAttacks walks each direction until the board edge, including the first
// occupied square and stopping there.
func rayAttacks(sq Square, occupied Bitboard, directions [][2]int) Bitboard {
	var attacks Bitboard
	file, rank := sq.File(), sq.Rank()

	for _, d := range directions {
		for f, r := file+d[0], rank+d[1]; f >= 0 && f <= 7 && r >= 0 && r <= 7; f, r = f+d[0], r+d[1] {
			s := SquareBB(NewSquare(f, r))
			attacks |= s
			if occupied&s != 0 {
				break
			}
		}
	}

	return attacks
}
