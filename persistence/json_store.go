package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"breach-tactics/server/models"
)

// JSONStore handles save games in a local JSON file
type JSONStore struct {
	filePath string
	mutex    sync.RWMutex
	data     *JSONData
}

// JSONData represents the structure of the JSON file
type JSONData struct {
	Saves map[string]*models.SavedGame `json:"saves"`
}

// NewJSONStore creates a new JSON storage manager
func NewJSONStore(filePath string) (*JSONStore, error) {
	store := &JSONStore{
		filePath: filePath,
		data: &JSONData{
			Saves: make(map[string]*models.SavedGame),
		},
	}

	// Load existing data if file exists
	if _, err := os.Stat(filePath); err == nil {
		if err := store.loadFromFile(); err != nil {
			return nil, fmt.Errorf("failed to load JSON store: %w", err)
		}
	} else {
		store.mutex.Lock()
		err := store.saveToFile()
		store.mutex.Unlock()
		if err != nil {
			return nil, fmt.Errorf("failed to create JSON store file: %w", err)
		}
	}

	return store, nil
}

// loadFromFile loads data from the JSON file
func (js *JSONStore) loadFromFile() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	file, err := os.ReadFile(js.filePath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(file, js.data); err != nil {
		return err
	}
	if js.data.Saves == nil {
		js.data.Saves = make(map[string]*models.SavedGame)
	}
	return nil
}

// saveToFile writes the data to a temporary file and renames it over the
// store. The caller must hold the write lock.
func (js *JSONStore) saveToFile() error {
	data, err := json.MarshalIndent(js.data, "", "  ")
	if err != nil {
		return err
	}

	tmp := js.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, js.filePath)
}

// SaveGame stores a save, replacing any save with the same name
func (js *JSONStore) SaveGame(save *models.SavedGame) error {
	cp := *save
	js.mutex.Lock()
	defer js.mutex.Unlock()

	js.data.Saves[save.Name] = &cp
	return js.saveToFile()
}

// LoadGame loads a save by name
func (js *JSONStore) LoadGame(name string) (*models.SavedGame, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	save, exists := js.data.Saves[name]
	if !exists {
		return nil, fmt.Errorf("%q: %w", name, ErrSaveNotFound)
	}

	cp := *save
	return &cp, nil
}

// ListGames returns the names of every save, sorted
func (js *JSONStore) ListGames() ([]string, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	names := make([]string, 0, len(js.data.Saves))
	for name := range js.data.Saves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Close closes the store (no-op for JSON store)
func (js *JSONStore) Close() error {
	return nil
}
