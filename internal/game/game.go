// Package game keeps the state around the search core: the board, whose
// turn it is, and the moves played so far.
package game

import (
	"errors"
	"fmt"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrWrongSide   = errors.New("piece belongs to the other side")
	ErrGameOver    = errors.New("game is over")
	ErrNoHistory   = errors.New("no move to take back")
)

// Outcome is the state of a game.
type Outcome int

const (
	Ongoing Outcome = iota
	WhiteWins
	BlackWins
)

func (o Outcome) String() string {
	switch o {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	}
	return "*"
}

// winner returns the outcome in which c has won.
func winner(c board.Color) Outcome {
	if c == board.White {
		return WhiteWins
	}
	return BlackWins
}

// Record is one played move and what it captured.
type Record struct {
	Move     board.Move
	Captured board.Piece
}

// Game holds a layout and the turn. Moves are checked against the
// pseudo-legal generator; a game ends when a king is taken or when the
// side to move has no move.
type Game struct {
	layout  board.Layout
	turn    board.Color
	history []Record
	outcome Outcome

	gen    *board.MoveGenerator
	engine *engine.Engine
}

// New starts a game from the initial position. A nil engine gets a
// default one.
func New(eng *engine.Engine) *Game {
	return FromLayout(board.StartLayout(), board.White, eng)
}

// FromLayout starts a game from an arbitrary layout.
func FromLayout(l board.Layout, turn board.Color, eng *engine.Engine) *Game {
	if eng == nil {
		eng = engine.NewEngine()
	}
	return &Game{
		layout: l,
		turn:   turn,
		gen:    board.NewMoveGenerator(nil),
		engine: eng,
	}
}

// FromFEN starts a game from a FEN string.
func FromFEN(fen string, eng *engine.Engine) (*Game, error) {
	l, turn, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return FromLayout(l, turn, eng), nil
}

// Engine returns the engine used by EngineMove.
func (g *Game) Engine() *engine.Engine {
	return g.engine
}

// Layout returns a copy of the current layout.
func (g *Game) Layout() board.Layout {
	return g.layout
}

// Turn returns the side to move.
func (g *Game) Turn() board.Color {
	return g.turn
}

// Outcome returns the result so far.
func (g *Game) Outcome() Outcome {
	return g.outcome
}

// History returns the moves played, oldest first.
func (g *Game) History() []Record {
	return append([]Record(nil), g.history...)
}

// At returns the piece on sq.
func (g *Game) At(sq board.Square) (board.Piece, error) {
	if !sq.IsValid() {
		return board.NoPiece, fmt.Errorf("%w: %d", board.ErrSquareOutOfRange, sq)
	}
	return g.layout.At(sq), nil
}

// Set places p on sq. Editing the board clears the history and the outcome.
func (g *Game) Set(sq board.Square, p board.Piece) error {
	if !sq.IsValid() {
		return fmt.Errorf("%w: %d", board.ErrSquareOutOfRange, sq)
	}
	if p > board.NoPiece {
		return fmt.Errorf("%w: piece %d", board.ErrInvalidLayout, p)
	}
	g.layout.Set(sq, p)
	g.edited()
	return nil
}

// Clear empties sq.
func (g *Game) Clear(sq board.Square) error {
	return g.Set(sq, board.NoPiece)
}

// SetTurn hands the move to c. Like any edit it clears the history.
func (g *Game) SetTurn(c board.Color) {
	g.turn = c
	g.edited()
}

func (g *Game) edited() {
	g.history = g.history[:0]
	g.outcome = Ongoing
}

// Moves returns the moves available to the side to move.
func (g *Game) Moves() []board.Move {
	return g.gen.Moves(&g.layout, g.turn).Slice()
}

// Play validates m against the side to move and applies it.
func (g *Game) Play(m board.Move) error {
	if g.outcome != Ongoing {
		return ErrGameOver
	}
	if !m.From.IsValid() || !m.To.IsValid() {
		return fmt.Errorf("%w: %s", board.ErrSquareOutOfRange, m)
	}

	mover := g.layout.At(m.From)
	if mover == board.NoPiece {
		return fmt.Errorf("%w: %s", board.ErrEmptySource, m.From)
	}
	if mover.Color() != g.turn {
		return fmt.Errorf("%w: %s on %s", ErrWrongSide, mover, m.From)
	}
	if m.Piece == board.NoPieceType {
		m.Piece = mover.Type()
	}
	if !g.gen.Moves(&g.layout, g.turn).Contains(m) {
		return fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}

	captured, err := g.layout.Apply(m)
	if err != nil {
		return err
	}
	g.history = append(g.history, Record{Move: m, Captured: captured})

	if captured != board.NoPiece && captured.Type() == board.King {
		g.outcome = winner(g.turn)
	}
	g.turn = g.turn.Other()
	return nil
}

// PlayString parses a coordinate move ("e2e4") and plays it.
func (g *Game) PlayString(s string) error {
	m, err := board.ParseMove(s, &g.layout)
	if err != nil {
		return err
	}
	return g.Play(m)
}

// Undo takes back the last move.
func (g *Game) Undo() error {
	n := len(g.history)
	if n == 0 {
		return ErrNoHistory
	}
	r := g.history[n-1]
	g.history = g.history[:n-1]

	g.layout.Set(r.Move.From, g.layout.At(r.Move.To))
	g.layout.Set(r.Move.To, r.Captured)
	g.turn = g.turn.Other()
	g.outcome = Ongoing
	return nil
}

// EngineMove searches for the side to move and plays the result.
// If the engine finds no move, the game ends with the other side winning
// and the returned Result carries StatusNoMove.
func (g *Game) EngineMove() (engine.Result, error) {
	if g.outcome != Ongoing {
		return engine.Result{Move: board.NoMove}, ErrGameOver
	}

	res := g.engine.Search(&g.layout, g.turn)
	if res.Status != engine.StatusMove {
		g.outcome = winner(g.turn.Other())
		return res, nil
	}
	return res, g.Play(res.Move)
}
