package persistence

import (
	"errors"

	"breach-tactics/server/models"
)

// ErrSaveNotFound is returned when no save exists under a name
var ErrSaveNotFound = errors.New("save not found")

// Storage defines the interface for save game persistence
type Storage interface {
	SaveGame(save *models.SavedGame) error
	LoadGame(name string) (*models.SavedGame, error)
	ListGames() ([]string, error)
	Close() error
}
