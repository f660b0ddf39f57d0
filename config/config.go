package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"breach-tactics/server/models"
)

// Config is the server configuration
type Config struct {
	Addr         string        `yaml:"addr"`
	LevelsDir    string        `yaml:"levels_dir"`
	DefaultLevel string        `yaml:"default_level"`
	Storage      StorageConfig `yaml:"storage"`
	Rules        models.Rules  `yaml:"rules"`
}

// StorageConfig selects and configures the save game backend
type StorageConfig struct {
	// Driver is one of "json", "postgres" or "sqlite".
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	Path   string `yaml:"path"`
}

// Defaults returns the configuration used when no file is given
func Defaults() Config {
	return Config{
		Addr:         ":8080",
		LevelsDir:    "levels",
		DefaultLevel: "level1",
		Storage: StorageConfig{
			Driver: "json",
			Path:   "saves.json",
		},
		Rules: models.DefaultRules(),
	}
}

// Load reads a YAML file over the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides settings from the environment
func (c *Config) ApplyEnv(getenv func(string) string) {
	if port := getenv("PORT"); port != "" {
		c.Addr = ":" + port
	}
	if dbType := getenv("DB_TYPE"); dbType != "" {
		c.Storage.Driver = dbType
	}
	if dsn := getenv("DATABASE_URL"); dsn != "" {
		c.Storage.DSN = dsn
	}
	if file := getenv("DB_FILE"); file != "" {
		c.Storage.Path = file
	}
	if dir := getenv("LEVELS_DIR"); dir != "" {
		c.LevelsDir = dir
	}
}

// Validate checks the settings the server cannot start without
func (c *Config) Validate() error {
	switch strings.ToLower(c.Storage.Driver) {
	case "json", "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for driver %q", c.Storage.Driver)
		}
	case "postgres":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for driver postgres")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Rules.TankRange < 0 || c.Rules.ScorpionRange < 0 || c.Rules.FireflyRange < 0 {
		return fmt.Errorf("rule ranges must not be negative")
	}
	return nil
}
