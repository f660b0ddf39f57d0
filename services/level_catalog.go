package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrLevelNotFound is returned for a level name with no file behind it
var ErrLevelNotFound = errors.New("level not found")

const levelExt = ".txt"

// LevelCatalog serves level source text from a directory, caching each level
// after its first read
type LevelCatalog struct {
	dir    string
	levels map[string]string
	mutex  sync.RWMutex
}

// NewLevelCatalog creates a catalog over dir
func NewLevelCatalog(dir string) *LevelCatalog {
	return &LevelCatalog{
		dir:    dir,
		levels: make(map[string]string),
	}
}

// Get returns the source text of the named level
func (lc *LevelCatalog) Get(name string) (string, error) {
	lc.mutex.RLock()
	text, exists := lc.levels[name]
	lc.mutex.RUnlock()

	if exists {
		return text, nil
	}
	return lc.load(name)
}

func (lc *LevelCatalog) load(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return "", fmt.Errorf("%q: %w", name, ErrLevelNotFound)
	}

	lc.mutex.Lock()
	defer lc.mutex.Unlock()

	// Check again if another goroutine loaded it
	if text, exists := lc.levels[name]; exists {
		return text, nil
	}

	raw, err := os.ReadFile(filepath.Join(lc.dir, name+levelExt))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%q: %w", name, ErrLevelNotFound)
		}
		return "", err
	}

	text := string(raw)
	lc.levels[name] = text
	return text, nil
}

// List returns the names of every level in the directory, sorted
func (lc *LevelCatalog) List() ([]string, error) {
	entries, err := os.ReadDir(lc.dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != levelExt {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), levelExt))
	}
	sort.Strings(names)
	return names, nil
}
