// Package storage persists engine preferences, saved games and results.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
	prefixGame     = "game/"
)

// ErrNotFound is returned when a saved game does not exist.
var ErrNotFound = errors.New("not found")

// Preferences stores engine settings between runs.
type Preferences struct {
	Depth      int       `json:"depth"`
	Workers    int       `json:"workers"`
	LastPlayed time.Time `json:"last_played"`
}

// DefaultPreferences returns default preferences
func DefaultPreferences() *Preferences {
	return &Preferences{
		Depth:   engine.DefaultDepth,
		Workers: 1,
	}
}

// GameStats stores results of finished games
type GameStats struct {
	GamesPlayed int `json:"games_played"`
	WhiteWins   int `json:"white_wins"`
	BlackWins   int `json:"black_wins"`
	Unfinished  int `json:"unfinished"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{}
}

// SavedGame is a stored game with its save time.
type SavedGame struct {
	Name    string     `json:"name"`
	State   game.State `json:"state"`
	SavedAt time.Time  `json:"saved_at"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in DatabaseDir
func NewStorage() (*Storage, error) {
	dbDir, err := DatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (or creates) a database in dir
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens a database that lives only as long as the Storage
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	var firstLaunch bool = true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if err == badger.ErrKeyNotFound {
			firstLaunch = true
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// putJSON stores v under key
func (s *Storage) putJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// getJSON loads key into v. It reports whether the key existed.
func (s *Storage) getJSON(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}

// SavePreferences saves preferences
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()
	return s.putJSON(keyPreferences, prefs)
}

// LoadPreferences loads preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	_, err := s.getJSON(keyPreferences, prefs)
	return prefs, err
}

// SaveGame stores g under name, replacing any earlier save
func (s *Storage) SaveGame(name string, g *game.Game) error {
	if name == "" || strings.ContainsAny(name, "/ ") {
		return fmt.Errorf("invalid game name %q", name)
	}
	return s.putJSON(prefixGame+name, SavedGame{
		Name:    name,
		State:   g.Snapshot(),
		SavedAt: time.Now(),
	})
}

// LoadGame loads the saved game called name
func (s *Storage) LoadGame(name string, eng *engine.Engine) (*game.Game, error) {
	var saved SavedGame
	found, err := s.getJSON(prefixGame+name, &saved)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("game %q: %w", name, ErrNotFound)
	}
	return game.Restore(saved.State, eng)
}

// DeleteGame removes a saved game
func (s *Storage) DeleteGame(name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(prefixGame + name)
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return fmt.Errorf("game %q: %w", name, ErrNotFound)
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// ListGames returns the names of all saved games, sorted
func (s *Storage) ListGames() ([]string, error) {
	var names []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefixGame)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			names = append(names, strings.TrimPrefix(key, prefixGame))
		}
		return nil
	})

	sort.Strings(names)
	return names, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.putJSON(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	_, err := s.getJSON(keyStats, stats)
	return stats, err
}

// RecordGame records a game's outcome and updates statistics
func (s *Storage) RecordGame(outcome game.Outcome) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	switch outcome {
	case game.WhiteWins:
		stats.WhiteWins++
	case game.BlackWins:
		stats.BlackWins++
	default:
		stats.Unfinished++
	}

	return s.SaveStats(stats)
}

// WhiteScore returns White's share of decided games as a percentage (0-100)
func (s *GameStats) WhiteScore() float64 {
	decided := s.WhiteWins + s.BlackWins
	if decided == 0 {
		return 0
	}
	return float64(s.WhiteWins) / float64(decided) * 100
}
