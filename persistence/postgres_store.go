package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"breach-tactics/server/models"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresStore handles save games using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL storage manager
func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema initializes the database schema
func (ps *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saved_games (
		name TEXT PRIMARY KEY,
		level TEXT NOT NULL,
		state TEXT NOT NULL,
		turn INTEGER NOT NULL,
		saved_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	);
	`

	_, err := ps.db.Exec(schema)
	return err
}

// SaveGame stores a save, replacing any save with the same name
func (ps *PostgresStore) SaveGame(save *models.SavedGame) error {
	query := `
	INSERT INTO saved_games (name, level, state, turn, saved_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (name)
	DO UPDATE SET
		level = $2, state = $3, turn = $4, saved_at = $5
	`

	_, err := ps.db.Exec(query, save.Name, save.Level, save.State, save.Turn, save.SavedAt)
	if err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}

	return nil
}

// LoadGame loads a save by name
func (ps *PostgresStore) LoadGame(name string) (*models.SavedGame, error) {
	query := `SELECT name, level, state, turn, saved_at FROM saved_games WHERE name = $1`

	var save models.SavedGame
	err := ps.db.QueryRow(query, name).Scan(
		&save.Name, &save.Level, &save.State, &save.Turn, &save.SavedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%q: %w", name, ErrSaveNotFound)
		}
		return nil, fmt.Errorf("failed to load game: %w", err)
	}

	return &save, nil
}

// ListGames returns the names of every save, sorted
func (ps *PostgresStore) ListGames() ([]string, error) {
	return listNames(ps.db, `SELECT name FROM saved_games ORDER BY name`)
}

// Close closes the database connection
func (ps *PostgresStore) Close() error {
	log.Println("Closing database connection...")
	return ps.db.Close()
}

func listNames(db *sql.DB, query string) ([]string, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan game name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
