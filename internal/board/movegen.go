package board

// MoveGenerator produces pseudo-legal moves from a layout. It keeps a
// scratch Occupancy, so one generator must not be shared between goroutines;
// the Attacks it points to may be.
type MoveGenerator struct {
	attacks *Attacks
	occ     Occupancy
}

// NewMoveGenerator creates a generator over the given attack tables.
// A nil attacks uses DefaultAttacks.
func NewMoveGenerator(attacks *Attacks) *MoveGenerator {
	if attacks == nil {
		attacks = DefaultAttacks()
	}
	return &MoveGenerator{attacks: attacks}
}

// Generate clears ml and fills it with the pseudo-legal moves of side.
//
// Order is fixed and doubles as the search's move ordering: knights, pawns
// (single pushes, double pushes, left captures, right captures), king,
// bishops, rooks, queens; ascending squares within each group.
// There is no self-check filter, no castling, no en passant and no promotion.
func (g *MoveGenerator) Generate(l *Layout, side Color, ml *MoveList) {
	ml.Clear()
	g.occ.Load(l)
	o := &g.occ

	own := o.Colors[side]
	notOwn := ^own
	enemies := o.Colors[side.Other()]

	g.generateJumps(ml, o.Pieces[side][Knight], notOwn, Knight)
	generatePawnMoves(ml, o.Pieces[side][Pawn], o.Empty, enemies, side)
	g.generateJumps(ml, o.Pieces[side][King], notOwn, King)
	g.generateSliders(ml, o.Pieces[side][Bishop], o.All, notOwn, Bishop)
	g.generateSliders(ml, o.Pieces[side][Rook], o.All, notOwn, Rook)
	g.generateSliders(ml, o.Pieces[side][Queen], o.All, notOwn, Queen)
}

// Moves is a convenience wrapper returning a fresh list.
func (g *MoveGenerator) Moves(l *Layout, side Color) *MoveList {
	ml := NewMoveList()
	g.Generate(l, side, ml)
	return ml
}

func (g *MoveGenerator) generateJumps(ml *MoveList, pieces, targets Bitboard, pt PieceType) {
	for pieces != 0 {
		from := pieces.PopLSB()
		var attacks Bitboard
		if pt == Knight {
			attacks = g.attacks.KnightAttacks(from)
		} else {
			attacks = g.attacks.KingAttacks(from)
		}
		addTargets(ml, from, attacks&targets, pt)
	}
}

func (g *MoveGenerator) generateSliders(ml *MoveList, pieces, occupied, targets Bitboard, pt PieceType) {
	for pieces != 0 {
		from := pieces.PopLSB()
		addTargets(ml, from, g.attacks.SlidingAttacks(from, occupied, pt)&targets, pt)
	}
}

func addTargets(ml *MoveList, from Square, targets Bitboard, pt PieceType) {
	for targets != 0 {
		ml.Add(NewMove(from, targets.PopLSB(), pt))
	}
}

// generatePawnMoves generates all pawn moves with set-wise shifts.
// The edge file is masked off before a diagonal shift so captures never wrap
// around the board; each destination then maps back to exactly one source.
func generatePawnMoves(ml *MoveList, pawns, empty, enemies Bitboard, us Color) {
	if pawns == 0 {
		return
	}

	var push1, push2, attackL, attackR Bitboard
	var pushDir, leftDir, rightDir int

	if us == White {
		push1 = (pawns << 8) & empty
		push2 = ((push1 & Rank3) << 8) & empty
		attackL = ((pawns & NotFileA) << 7) & enemies
		attackR = ((pawns & NotFileH) << 9) & enemies
		pushDir, leftDir, rightDir = 8, 7, 9
	} else {
		push1 = (pawns >> 8) & empty
		push2 = ((push1 & Rank6) >> 8) & empty
		attackL = ((pawns & NotFileA) >> 9) & enemies
		attackR = ((pawns & NotFileH) >> 7) & enemies
		pushDir, leftDir, rightDir = -8, -9, -7
	}

	addShifted(ml, push1, pushDir)
	addShifted(ml, push2, 2*pushDir)
	addShifted(ml, attackL, leftDir)
	addShifted(ml, attackR, rightDir)
}

func addShifted(ml *MoveList, targets Bitboard, shift int) {
	for targets != 0 {
		to := targets.PopLSB()
		ml.Add(NewMove(Square(int(to)-shift), to, Pawn))
	}
}
