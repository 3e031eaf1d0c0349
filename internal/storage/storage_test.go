package storage

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPreferences(t *testing.T) {
	s := openTest(t)

	t.Run("Defaults", func(t *testing.T) {
		prefs, err := s.LoadPreferences()
		if err != nil {
			t.Fatalf("LoadPreferences: %v", err)
		}
		if prefs.Depth != engine.DefaultDepth || prefs.Workers != 1 {
			t.Errorf("defaults = %+v", prefs)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		if err := s.SavePreferences(&Preferences{Depth: 5, Workers: 4}); err != nil {
			t.Fatalf("SavePreferences: %v", err)
		}
		prefs, err := s.LoadPreferences()
		if err != nil {
			t.Fatalf("LoadPreferences: %v", err)
		}
		if prefs.Depth != 5 || prefs.Workers != 4 {
			t.Errorf("loaded %+v", prefs)
		}
		if prefs.LastPlayed.IsZero() {
			t.Error("LastPlayed not set")
		}
	})
}

func TestFirstLaunch(t *testing.T) {
	s := openTest(t)

	first, err := s.IsFirstLaunch()
	if err != nil || !first {
		t.Fatalf("IsFirstLaunch = %v, %v", first, err)
	}
	if err := s.MarkFirstLaunchComplete(); err != nil {
		t.Fatal(err)
	}
	if first, _ := s.IsFirstLaunch(); first {
		t.Error("still first launch after marking")
	}
}

func TestSavedGames(t *testing.T) {
	s := openTest(t)

	g := game.New(nil)
	for _, m := range []string{"e2e4", "e7e5", "g1f3"} {
		if err := g.PlayString(m); err != nil {
			t.Fatalf("%s: %v", m, err)
		}
	}

	if err := s.SaveGame("opening", g); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	if err := s.SaveGame("start", game.New(nil)); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	if err := s.SaveGame("bad name", g); err == nil {
		t.Error("expected an error for a name with a space")
	}

	loaded, err := s.LoadGame("opening", nil)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if loaded.Layout() != g.Layout() || loaded.Turn() != g.Turn() || len(loaded.History()) != 3 {
		t.Error("loaded game differs from the saved one")
	}

	names, err := s.ListGames()
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(names) != 2 || names[0] != "opening" || names[1] != "start" {
		t.Errorf("ListGames = %v", names)
	}

	if err := s.DeleteGame("start"); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}
	if _, err := s.LoadGame("start", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadGame after delete = %v, want ErrNotFound", err)
	}
	if err := s.DeleteGame("start"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteGame twice = %v, want ErrNotFound", err)
	}
}

func TestRecordGame(t *testing.T) {
	s := openTest(t)

	for _, o := range []game.Outcome{game.WhiteWins, game.WhiteWins, game.BlackWins, game.Ongoing} {
		if err := s.RecordGame(o); err != nil {
			t.Fatalf("RecordGame: %v", err)
		}
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 4 || stats.WhiteWins != 2 || stats.BlackWins != 1 || stats.Unfinished != 1 {
		t.Errorf("stats = %+v", stats)
	}

	score := stats.WhiteScore()
	if score < 66 || score > 67 {
		t.Errorf("WhiteScore = %.2f", score)
	}
	if NewGameStats().WhiteScore() != 0 {
		t.Error("empty stats should score 0")
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.SaveGame("persisted", game.New(nil)); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	if _, err := s.LoadGame("persisted", nil); err != nil {
		t.Errorf("LoadGame after reopen: %v", err)
	}
}

func TestDataPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_DATA_HOME", home)
	t.Setenv(DBEnv, "")

	dataDir, err := DataDir("chesscore-test")
	if err != nil {
		t.Fatalf("DataDir failed: %v", err)
	}
	if filepath.Base(dataDir) != "chesscore-test" {
		t.Errorf("DataDir = %s", dataDir)
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	dbDir, err := DatabaseDir()
	if err != nil {
		t.Fatalf("DatabaseDir failed: %v", err)
	}
	if runtime.GOOS == "linux" && dbDir != filepath.Join(home, AppName, "db") {
		t.Errorf("DatabaseDir = %s", dbDir)
	}

	override := filepath.Join(t.TempDir(), "elsewhere")
	t.Setenv(DBEnv, override)
	dbDir, err = DatabaseDir()
	if err != nil {
		t.Fatalf("DatabaseDir with %s: %v", DBEnv, err)
	}
	if dbDir != override {
		t.Errorf("DatabaseDir = %s, want %s", dbDir, override)
	}
	if _, err := os.Stat(override); err != nil {
		t.Errorf("override not created: %v", err)
	}
}
