package models

import "time"

// SavedGame is a named snapshot of a game in scenario text form
type SavedGame struct {
	Name    string    `json:"name"`
	Level   string    `json:"level"`
	State   string    `json:"state"`
	Turn    int       `json:"turn"`
	SavedAt time.Time `json:"saved_at"`
}
