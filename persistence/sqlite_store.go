package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"breach-tactics/server/models"
)

// SQLiteStore handles save games in an embedded SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS saved_games (
		name TEXT PRIMARY KEY,
		level TEXT NOT NULL,
		state TEXT NOT NULL,
		turn INTEGER NOT NULL,
		saved_at TEXT NOT NULL
	);`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SaveGame stores a save, replacing any save with the same name
func (s *SQLiteStore) SaveGame(save *models.SavedGame) error {
	_, err := s.db.Exec(`INSERT INTO saved_games (name, level, state, turn, saved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			level = excluded.level, state = excluded.state,
			turn = excluded.turn, saved_at = excluded.saved_at`,
		save.Name, save.Level, save.State, save.Turn, save.SavedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	return nil
}

// LoadGame loads a save by name
func (s *SQLiteStore) LoadGame(name string) (*models.SavedGame, error) {
	var (
		save    models.SavedGame
		savedAt string
	)
	err := s.db.QueryRow(`SELECT name, level, state, turn, saved_at FROM saved_games WHERE name = ?`, name).
		Scan(&save.Name, &save.Level, &save.State, &save.Turn, &savedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%q: %w", name, ErrSaveNotFound)
		}
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	save.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return nil, fmt.Errorf("save %q: bad timestamp: %w", name, err)
	}
	return &save, nil
}

// ListGames returns the names of every save, sorted
func (s *SQLiteStore) ListGames() ([]string, error) {
	return listNames(s.db, `SELECT name FROM saved_games ORDER BY name`)
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
