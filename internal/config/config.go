package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/bughunt.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../web/dist"`

	// ProblemsPerLevel is how many problems each session draws per
	// difficulty level, index 0 being level 1.
	ProblemsPerLevel []int `env:"PROBLEMS_PER_LEVEL" envDefault:"3,2,1"`
	GameTimeSeconds  int   `env:"GAME_TIME_SECONDS" envDefault:"60"`
	AllFoundBonus    int   `env:"ALL_FOUND_BONUS" envDefault:"3"`

	// Seed admin for first run. No admin is created when the password
	// is left empty.
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@bughunt.local"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if len(cfg.ProblemsPerLevel) == 0 {
		return nil, fmt.Errorf("PROBLEMS_PER_LEVEL must name at least one level")
	}
	if cfg.GameTimeSeconds <= 0 {
		return nil, fmt.Errorf("GAME_TIME_SECONDS must be positive, got %d", cfg.GameTimeSeconds)
	}
	return &cfg, nil
}

// PerLevel converts the flat slice into the level->count map the pool
// builder consumes.
func (c *Config) PerLevel() map[int]int {
	m := make(map[int]int, len(c.ProblemsPerLevel))
	for i, n := range c.ProblemsPerLevel {
		m[i+1] = n
	}
	return m
}
