package storage

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user data directory.
const AppName = "chesscore"

// DBEnv overrides the database directory when set.
const DBEnv = "CHESSCORE_DB"

// DataDir returns app's data directory under the platform's per-user data
// root, creating it if needed:
//   - macOS: ~/Library/Application Support/<app>
//   - Windows: %APPDATA%\<app>
//   - elsewhere: $XDG_DATA_HOME/<app>, or ~/.local/share/<app>
func DataDir(app string) (string, error) {
	root, err := dataRoot()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(root, app)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

func dataRoot() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	case "windows":
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "AppData", "Roaming"), nil
	}

	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share"), nil
}

// DatabaseDir returns the BadgerDB directory: $CHESSCORE_DB if set,
// otherwise "db" inside the chesscore data directory.
func DatabaseDir() (string, error) {
	dir := os.Getenv(DBEnv)
	if dir == "" {
		dataDir, err := DataDir(AppName)
		if err != nil {
			return "", err
		}
		dir = filepath.Join(dataDir, "db")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	log.Printf("Database directory: %s", dir)
	return dir, nil
}
