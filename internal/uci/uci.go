// Package uci implements a UCI-style text protocol around the engine,
// with extra commands for inspecting, saving and drawing positions.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/diagram"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/storage"
)

// UCI implements the protocol over a reader and a writer.
type UCI struct {
	engine *engine.Engine
	game   *game.Game
	store  *storage.Storage // nil disables save, load and stats

	in  io.Reader
	out io.Writer

	diagram diagram.Options

	// CPU profiling
	profileFile *os.File
}

// New creates a protocol handler. store may be nil.
func New(eng *engine.Engine, store *storage.Storage, in io.Reader, out io.Writer) *UCI {
	return &UCI{
		engine:  eng,
		game:    game.New(eng),
		store:   store,
		in:      in,
		out:     out,
		diagram: diagram.DefaultOptions(),
	}
}

// Game returns the current game.
func (u *UCI) Game() *game.Game {
	return u.game
}

// Run reads commands until "quit" or end of input.
func (u *UCI) Run() error {
	scanner := bufio.NewScanner(u.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			// Searches are synchronous; by the time stop is read the search is done.
		case "quit":
			u.handleQuit()
			return nil
		case "setoption":
			u.handleSetOption(args)
		case "play":
			u.handlePlay(args)
		case "undo":
			if err := u.game.Undo(); err != nil {
				u.infoString("%v", err)
			}
		// Debug commands
		case "d":
			u.handleDisplay()
		case "moves":
			u.handleMoves()
		case "eval":
			u.handleEval()
		case "perft":
			u.handlePerft(args)
		// Board editing
		case "put":
			u.handlePut(args)
		case "clear":
			u.handleClear(args)
		case "side":
			u.handleSide(args)
		// Storage commands
		case "save":
			u.handleSave(args)
		case "load":
			u.handleLoad(args)
		case "games":
			u.handleGames()
		case "stats":
			u.handleStats()
		case "diagram":
			u.handleDiagram(args)
		default:
			u.infoString("unknown command: %s", cmd)
		}
	}

	return scanner.Err()
}

func (u *UCI) println(a ...any) {
	fmt.Fprintln(u.out, a...)
}

func (u *UCI) printf(format string, a ...any) {
	fmt.Fprintf(u.out, format, a...)
}

// infoString reports a diagnostic the way UCI GUIs expect them.
func (u *UCI) infoString(format string, a ...any) {
	u.printf("info string "+format+"\n", a...)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name ChessCore")
	u.println("id author ChessCore Team")
	u.println()
	u.printf("option name Depth type spin default %d min 0 max %d\n", engine.DefaultDepth, engine.MaxPly-2)
	u.println("option name Threads type spin default 1 min 1 max 64")
	u.println("option name CPUProfile type string default <empty>")
	u.println("uciok")
}

// handleNewGame records the finished game, if any, and starts over.
func (u *UCI) handleNewGame() {
	if u.store != nil && len(u.game.History()) > 0 {
		if err := u.store.RecordGame(u.game.Outcome()); err != nil {
			log.Printf("record game: %v", err)
		}
	}
	u.game = game.New(u.engine)
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	// Find "moves" keyword
	fenEnd, moveStart := len(args), len(args)
	for i, arg := range args {
		if arg == "moves" {
			fenEnd, moveStart = i, i+1
			break
		}
	}

	var g *game.Game
	switch args[0] {
	case "startpos":
		g = game.New(u.engine)
	case "fen":
		var err error
		g, err = game.FromFEN(strings.Join(args[1:fenEnd], " "), u.engine)
		if err != nil {
			u.infoString("Invalid FEN: %v", err)
			return
		}
	default:
		u.infoString("Invalid position: %s", args[0])
		return
	}

	for _, moveStr := range args[moveStart:] {
		if err := g.PlayString(moveStr); err != nil {
			u.infoString("Invalid move %s: %v", moveStr, err)
			return
		}
	}

	u.game = g
}

// handleGo searches the current position and reports the best move.
// Only "depth N" is honoured; the search always runs to a fixed depth.
func (u *UCI) handleGo(args []string) {
	depth := u.engine.Depth()
	for i := 0; i < len(args); i++ {
		if args[i] == "depth" && i+1 < len(args) {
			d, err := strconv.Atoi(args[i+1])
			if err != nil || d < 0 || d > engine.MaxPly-2 {
				u.infoString("Invalid depth: %s", args[i+1])
				return
			}
			depth = d
			i++
		}
	}

	u.engine.OnInfo = u.sendInfo
	defer func() { u.engine.OnInfo = nil }()

	l := u.game.Layout()
	res := u.engine.SearchDepth(&l, u.game.Turn(), depth)

	if res.Status != engine.StatusMove {
		u.println("bestmove 0000")
		return
	}
	u.printf("bestmove %s\n", res.Move)
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	var parts []string

	parts = append(parts, fmt.Sprintf("depth %d", info.Depth))
	parts = append(parts, "currmove "+info.Move.String())

	// Score
	switch {
	case info.Score >= engine.Infinity:
		parts = append(parts, "score mate 1")
	case info.Score <= -engine.Infinity:
		parts = append(parts, "score mate -1")
	default:
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))

	// NPS
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	u.printf("info %s\n", strings.Join(parts, " "))
}

// handlePlay plays a move and lets the engine answer: "play e2e4".
// Without an argument the engine moves for the side to play.
func (u *UCI) handlePlay(args []string) {
	if len(args) > 0 {
		if err := u.game.PlayString(args[0]); err != nil {
			u.infoString("Invalid move %s: %v", args[0], err)
			return
		}
		if u.game.Outcome() != game.Ongoing {
			u.printf("result %s\n", u.game.Outcome())
			return
		}
	}

	res, err := u.game.EngineMove()
	if err != nil {
		u.infoString("%v", err)
		return
	}
	if res.Status != engine.StatusMove {
		u.printf("result %s\n", u.game.Outcome())
		return
	}
	u.printf("engine %s\n", res.Move)
	if u.game.Outcome() != game.Ongoing {
		u.printf("result %s\n", u.game.Outcome())
	}
}

func (u *UCI) handleDisplay() {
	l := u.game.Layout()
	u.println(l.Pretty())
	u.printf("Layout: %s\n", l.String())
	u.printf("Fen: %s\n", l.FEN(u.game.Turn()))
}

func (u *UCI) handleMoves() {
	var moves []string
	for _, m := range u.game.Moves() {
		moves = append(moves, m.String())
	}
	u.printf("moves %s\n", strings.Join(moves, " "))
}

// handlePut places a piece: "put e4 N". The symbol 0 empties the square.
func (u *UCI) handlePut(args []string) {
	if len(args) != 2 || len(args[1]) != 1 {
		u.infoString("usage: put SQUARE PIECE")
		return
	}
	sq, err := board.ParseSquare(args[0])
	if err != nil {
		u.infoString("%v", err)
		return
	}
	p, ok := board.PieceFromSymbol(args[1][0])
	if !ok {
		u.infoString("Invalid piece %q", args[1])
		return
	}
	if err := u.game.Set(sq, p); err != nil {
		u.infoString("%v", err)
	}
}

func (u *UCI) handleClear(args []string) {
	if len(args) != 1 {
		u.infoString("usage: clear SQUARE")
		return
	}
	sq, err := board.ParseSquare(args[0])
	if err != nil {
		u.infoString("%v", err)
		return
	}
	if err := u.game.Clear(sq); err != nil {
		u.infoString("%v", err)
	}
}

// handleSide sets the side to move: "side w" or "side b".
func (u *UCI) handleSide(args []string) {
	if len(args) != 1 {
		u.infoString("usage: side w|b")
		return
	}
	switch args[0] {
	case "w":
		u.game.SetTurn(board.White)
	case "b":
		u.game.SetTurn(board.Black)
	default:
		u.infoString("Invalid side %q", args[0])
	}
}

func (u *UCI) handleEval() {
	l := u.game.Layout()
	score := u.engine.Evaluate(&l)
	u.printf("eval cp %d (%s, white positive)\n", score, engine.ScoreToString(score))
}

// handleQuit stops profiling if active.
func (u *UCI) handleQuit() {
	if u.profileFile != nil {
		pprof.StopCPUProfile()
		u.profileFile.Close()
		u.profileFile = nil
		log.Printf("CPU profile saved")
	}
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	// Handle options
	switch strings.ToLower(name) {
	case "depth":
		depth, err := strconv.Atoi(value)
		if err == nil {
			err = u.engine.SetDepth(depth)
		}
		if err != nil {
			u.infoString("Invalid depth %q: %v", value, err)
			return
		}
		u.savePreferences()
	case "threads":
		workers, err := strconv.Atoi(value)
		if err != nil || workers < 1 {
			u.infoString("Invalid thread count %q", value)
			return
		}
		u.engine.SetWorkers(workers)
		u.savePreferences()
	case "cpuprofile":
		// Stop existing profile if any
		if u.profileFile != nil {
			pprof.StopCPUProfile()
			u.profileFile.Close()
			u.infoString("CPU profile stopped")
			u.profileFile = nil
		}
		// Start new profile if path provided
		if value != "" && value != "stop" {
			f, err := os.Create(value)
			if err != nil {
				u.infoString("Failed to create profile: %v", err)
				return
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				f.Close()
				u.infoString("Failed to start profile: %v", err)
				return
			}
			u.profileFile = f
			u.infoString("CPU profiling to %s", value)
		}
	default:
		u.infoString("Unknown option: %s", name)
	}
}

// savePreferences persists the engine settings.
func (u *UCI) savePreferences() {
	if u.store == nil {
		return
	}
	prefs := &storage.Preferences{Depth: u.engine.Depth(), Workers: u.engine.Workers()}
	if err := u.store.SavePreferences(prefs); err != nil {
		log.Printf("save preferences: %v", err)
	}
}

// handlePerft runs a perft test.
func (u *UCI) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 0 || d > engine.MaxPly-2 {
			u.infoString("Invalid depth: %s", args[0])
			return
		}
		depth = d
	}

	l := u.game.Layout()
	start := time.Now()
	nodes := u.engine.Perft(&l, u.game.Turn(), depth)
	elapsed := time.Since(start)

	u.printf("Nodes: %d\n", nodes)
	u.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		u.printf("NPS: %.0f\n", nps)
	}
}

func (u *UCI) needStore() bool {
	if u.store == nil {
		u.infoString("storage is not available")
		return false
	}
	return true
}

func (u *UCI) handleSave(args []string) {
	if len(args) != 1 {
		u.infoString("usage: save NAME")
		return
	}
	if !u.needStore() {
		return
	}
	if err := u.store.SaveGame(args[0], u.game); err != nil {
		u.infoString("save failed: %v", err)
		return
	}
	u.printf("saved %s\n", args[0])
}

func (u *UCI) handleLoad(args []string) {
	if len(args) != 1 {
		u.infoString("usage: load NAME")
		return
	}
	if !u.needStore() {
		return
	}
	g, err := u.store.LoadGame(args[0], u.engine)
	if err != nil {
		u.infoString("load failed: %v", err)
		return
	}
	u.game = g
	u.printf("loaded %s\n", args[0])
}

func (u *UCI) handleGames() {
	if !u.needStore() {
		return
	}
	names, err := u.store.ListGames()
	if err != nil {
		u.infoString("list failed: %v", err)
		return
	}
	u.printf("games %s\n", strings.Join(names, " "))
}

func (u *UCI) handleStats() {
	if !u.needStore() {
		return
	}
	stats, err := u.store.LoadStats()
	if err != nil {
		u.infoString("stats failed: %v", err)
		return
	}
	u.printf("stats played %d white %d black %d unfinished %d score %.1f\n",
		stats.GamesPlayed, stats.WhiteWins, stats.BlackWins, stats.Unfinished, stats.WhiteScore())
}

// handleDiagram writes the current board as SVG or PNG: "diagram board.svg".
func (u *UCI) handleDiagram(args []string) {
	if len(args) != 1 {
		u.infoString("usage: diagram PATH")
		return
	}
	l := u.game.Layout()
	opts := u.diagram
	opts.Flip = u.game.Turn() == board.Black
	if err := diagram.Save(args[0], &l, opts); err != nil {
		u.infoString("diagram failed: %v", err)
		return
	}
	u.printf("diagram %s\n", args[0])
}
