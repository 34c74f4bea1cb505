// Package config loads the engine's tunables from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config holds the evolution loop tunables.
type Config struct {
	Population    int
	Generations   int
	TurnBudget    time.Duration
	Workers       int
	Seed          int64
	CheckpointDir string
	MigrationDir  string
	MigrationTail int
}

// FromEnv loads configuration from environment variables, reading a .env
// file first if present (existing env vars win).
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	c := Config{
		Population:    16,
		Generations:   100,
		TurnBudget:    time.Second,
		Workers:       4,
		Seed:          time.Now().UnixNano(),
		CheckpointDir: "checkpoints",
	}

	var err error
	if c.Population, err = intEnv("EVO_POPULATION", c.Population); err != nil {
		return Config{}, err
	}
	if c.Generations, err = intEnv("EVO_GENERATIONS", c.Generations); err != nil {
		return Config{}, err
	}
	if ms, err := intEnv("EVO_TURN_BUDGET_MS", int(c.TurnBudget/time.Millisecond)); err != nil {
		return Config{}, err
	} else {
		c.TurnBudget = time.Duration(ms) * time.Millisecond
	}
	if c.Workers, err = intEnv("EVO_WORKERS", c.Workers); err != nil {
		return Config{}, err
	}
	if s := os.Getenv("EVO_SEED"); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Config{}, errors.Wrapf(err, "config: invalid EVO_SEED %q", s)
		}
		c.Seed = seed
	}
	if dir := os.Getenv("EVO_CHECKPOINT_DIR"); dir != "" {
		c.CheckpointDir = dir
	}
	c.MigrationDir = os.Getenv("EVO_MIGRATION_DIR")
	if c.MigrationTail, err = intEnv("EVO_MIGRATION_TAIL", 0); err != nil {
		return Config{}, err
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// MustLoad is FromEnv that panics, for command mains.
func MustLoad() Config {
	c, err := FromEnv()
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return c
}

// Validate checks the tunables are runnable.
func (c Config) Validate() error {
	if c.Population < 2 || c.Population%2 != 0 {
		return errors.Errorf("config: population %d must be even and at least 2", c.Population)
	}
	if c.Generations < 1 {
		return errors.Errorf("config: generations %d must be positive", c.Generations)
	}
	if c.TurnBudget <= 0 {
		return errors.Errorf("config: turn budget %v must be positive", c.TurnBudget)
	}
	if c.Workers < 1 {
		return errors.Errorf("config: workers %d must be positive", c.Workers)
	}
	if c.MigrationTail < 0 || c.MigrationTail >= c.Population {
		return errors.Errorf("config: migration tail %d must be in [0, population)", c.MigrationTail)
	}
	return nil
}

func intEnv(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "config: invalid %s %q", key, s)
	}
	return v, nil
}
