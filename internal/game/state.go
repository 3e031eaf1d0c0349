package game

import (
	"fmt"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

// State is the serialisable form of a game. Start is the layout the moves
// were played from, so a restored game can still take moves back.
type State struct {
	Start string   `json:"start"`
	Turn  string   `json:"turn"`
	Moves []string `json:"moves"`
}

// Snapshot captures the game for storage.
func (g *Game) Snapshot() State {
	start := g.layout
	turn := g.turn
	for i := len(g.history) - 1; i >= 0; i-- {
		r := g.history[i]
		start.Set(r.Move.From, start.At(r.Move.To))
		start.Set(r.Move.To, r.Captured)
		turn = turn.Other()
	}

	moves := make([]string, len(g.history))
	for i, r := range g.history {
		moves[i] = r.Move.String()
	}
	side := "w"
	if turn == board.Black {
		side = "b"
	}
	return State{Start: start.String(), Turn: side, Moves: moves}
}

// Restore rebuilds a game from a snapshot by replaying its moves.
func Restore(s State, eng *engine.Engine) (*Game, error) {
	l, err := board.ParseLayout(s.Start)
	if err != nil {
		return nil, err
	}

	var turn board.Color
	switch s.Turn {
	case "w":
		turn = board.White
	case "b":
		turn = board.Black
	default:
		return nil, fmt.Errorf("%w: side %q", board.ErrInvalidPlacement, s.Turn)
	}

	g := FromLayout(l, turn, eng)
	for i, m := range s.Moves {
		if err := g.PlayString(m); err != nil {
			return nil, fmt.Errorf("replaying move %d: %w", i+1, err)
		}
	}
	return g, nil
}
