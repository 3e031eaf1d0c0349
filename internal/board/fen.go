package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartPlacement is the piece-placement field of the starting position.
const StartPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

// StartFEN is the FEN string for the starting position.
const StartFEN = StartPlacement + " w - - 0 1"

// ParseFEN parses a FEN string. Only the placement field is required; the
// side to move defaults to White. Castling, en passant and clock fields are
// checked for shape and otherwise ignored, since the core has no rules for them.
func ParseFEN(fen string) (Layout, Color, error) {
	parts := strings.Fields(fen)
	if len(parts) == 0 || len(parts) > 6 {
		return EmptyLayout(), NoColor, &ParseError{Input: fen, Reason: fmt.Sprintf("need 1 to 6 fields, got %d", len(parts)), Err: ErrInvalidPlacement}
	}

	l, err := ParsePlacement(parts[0])
	if err != nil {
		return EmptyLayout(), NoColor, err
	}

	side := White
	if len(parts) > 1 {
		switch parts[1] {
		case "w":
			side = White
		case "b":
			side = Black
		default:
			return EmptyLayout(), NoColor, &ParseError{Input: fen, Reason: "invalid side to move " + parts[1], Err: ErrInvalidPlacement}
		}
	}

	if len(parts) > 2 && !onlyChars(parts[2], "-KQkq") {
		return EmptyLayout(), NoColor, &ParseError{Input: fen, Reason: "invalid castling field " + parts[2], Err: ErrInvalidPlacement}
	}
	if len(parts) > 3 && !onlyChars(parts[3], "-abcdefgh12345678") {
		return EmptyLayout(), NoColor, &ParseError{Input: fen, Reason: "invalid en passant field " + parts[3], Err: ErrInvalidPlacement}
	}
	for _, clock := range parts[min(len(parts), 4):] {
		if _, err := strconv.ParseUint(clock, 10, 32); err != nil {
			return EmptyLayout(), NoColor, &ParseError{Input: fen, Reason: "invalid move clock " + clock, Err: ErrInvalidPlacement}
		}
	}

	return l, side, nil
}

// ParsePlacement parses the piece placement section of a FEN string.
func ParsePlacement(placement string) (Layout, error) {
	l := EmptyLayout()

	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return EmptyLayout(), &ParseError{Input: placement, Reason: fmt.Sprintf("need 8 ranks, got %d", len(ranks)), Err: ErrInvalidPlacement}
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if file > 7 {
				return EmptyLayout(), &ParseError{Input: placement, Reason: fmt.Sprintf("too many squares in rank %d", rank+1), Err: ErrInvalidPlacement}
			}

			if c >= '1' && c <= '8' {
				if j > 0 && rankStr[j-1] >= '1' && rankStr[j-1] <= '8' {
					return EmptyLayout(), &ParseError{Input: placement, Reason: fmt.Sprintf("adjacent digits in rank %d", rank+1), Err: ErrInvalidPlacement}
				}
				file += int(c - '0')
				continue
			}

			piece, ok := PieceFromSymbol(c)
			if !ok || piece == NoPiece {
				return EmptyLayout(), &ParseError{Input: placement, Reason: fmt.Sprintf("invalid piece character %q", c), Err: ErrInvalidPlacement}
			}
			l[NewSquare(file, rank)] = piece
			file++
		}

		if file != 8 {
			return EmptyLayout(), &ParseError{Input: placement, Reason: fmt.Sprintf("rank %d has %d squares", rank+1, file), Err: ErrInvalidPlacement}
		}
	}

	return l, nil
}

func onlyChars(s, allowed string) bool {
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(allowed, s[i]) < 0 {
			return false
		}
	}
	return s != ""
}

// Placement returns the FEN piece-placement field for the layout.
func (l *Layout) Placement() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := l[NewSquare(file, rank)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(piece.Symbol())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	return sb.String()
}

// FEN returns a full FEN string. Castling and en passant are always "-".
func (l *Layout) FEN(side Color) string {
	stm := "w"
	if side == Black {
		stm = "b"
	}
	return l.Placement() + " " + stm + " - - 0 1"
}
