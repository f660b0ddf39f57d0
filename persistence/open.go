package persistence

import (
	"fmt"
	"log"
	"strings"

	"breach-tactics/server/config"
)

// Open creates the storage backend named by cfg.Driver
func Open(cfg config.StorageConfig) (Storage, error) {
	switch strings.ToLower(cfg.Driver) {
	case "postgres":
		log.Println("Using PostgreSQL persistence")
		return NewPostgresStore(cfg.DSN)
	case "sqlite":
		log.Println("Using SQLite persistence")
		return NewSQLiteStore(cfg.Path)
	case "json", "":
		log.Println("Using JSON persistence")
		return NewJSONStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
