package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// Sign returns +1 for White and -1 for Black. Scores are White-positive, so
// multiplying by the sign gives the score from c's point of view.
func (c Color) Sign() int {
	if c == Black {
		return -1
	}
	return 1
}

// ColorFromSign is the inverse of Sign.
func ColorFromSign(sign int) Color {
	if sign < 0 {
		return Black
	}
	return White
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PieceType represents the type of a chess piece.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Piece combines PieceType and Color into a single value.
// Encoded as: pieceType + color*6
type Piece uint8

const (
	WhitePawn   Piece = Piece(Pawn) + Piece(White)*6
	WhiteKnight Piece = Piece(Knight) + Piece(White)*6
	WhiteBishop Piece = Piece(Bishop) + Piece(White)*6
	WhiteRook   Piece = Piece(Rook) + Piece(White)*6
	WhiteQueen  Piece = Piece(Queen) + Piece(White)*6
	WhiteKing   Piece = Piece(King) + Piece(White)*6
	BlackPawn   Piece = Piece(Pawn) + Piece(Black)*6
	BlackKnight Piece = Piece(Knight) + Piece(Black)*6
	BlackBishop Piece = Piece(Bishop) + Piece(Black)*6
	BlackRook   Piece = Piece(Rook) + Piece(Black)*6
	BlackQueen  Piece = Piece(Queen) + Piece(Black)*6
	BlackKing   Piece = Piece(King) + Piece(Black)*6
	NoPiece     Piece = 12
)

// EmptySymbol is the layout symbol of an empty square.
const EmptySymbol = '0'

const pieceSymbols = "PNBRQKpnbrqk"

// NewPiece creates a Piece from PieceType and Color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	return Piece(pt) + Piece(c)*6
}

// Type returns the PieceType of the piece.
func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

// Color returns the Color of the piece.
func (p Piece) Color() Color {
	if p >= NoPiece {
		return NoColor
	}
	return Color(p / 6)
}

// Symbol returns the layout symbol for the piece.
// Uppercase for white, lowercase for black, EmptySymbol for NoPiece.
func (p Piece) Symbol() byte {
	if p >= NoPiece {
		return EmptySymbol
	}
	return pieceSymbols[p]
}

// String returns the symbol as a string.
func (p Piece) String() string {
	return string(p.Symbol())
}

// Flip returns the same piece type with the opposite color.
func (p Piece) Flip() Piece {
	if p >= NoPiece {
		return NoPiece
	}
	return NewPiece(p.Type(), p.Color().Other())
}

// PieceFromSymbol converts a layout or FEN character to a Piece.
// EmptySymbol maps to NoPiece; any other unknown character reports false.
func PieceFromSymbol(c byte) (Piece, bool) {
	if c == EmptySymbol {
		return NoPiece, true
	}
	for i := 0; i < len(pieceSymbols); i++ {
		if pieceSymbols[i] == c {
			return Piece(i), true
		}
	}
	return NoPiece, false
}
