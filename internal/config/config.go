package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/saeidalz13/battleship-solo/internal/cache"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const (
	StageDev  = "dev"
	StageProd = "prod"

	DefaultEnvFile = ".env"
)

type Config struct {
	Stage                    string        `env:"STAGE,required"`
	Port                     int           `env:"PORT" envDefault:"8000"`
	CacheBackend             string        `env:"CACHE_BACKEND" envDefault:"memory"`
	DatabaseURL              string        `env:"DATABASE_URL"`
	SQLitePath               string        `env:"SQLITE_PATH" envDefault:"battleship.db"`
	SessionTTL               time.Duration `env:"SESSION_TTL" envDefault:"60m"`
	CacheCleanupInterval     time.Duration `env:"CACHE_CLEANUP_INTERVAL" envDefault:"20m"`
	WsSessionCleanupInterval time.Duration `env:"WS_SESSION_CLEANUP_INTERVAL" envDefault:"20m"`
}

// Load reads envFile unless running in prod, then parses the environment.
// A missing env file is fine; the process environment may carry it all.
func Load(envFile string) (Config, error) {
	if os.Getenv("STAGE") != StageProd {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

func MustLoad(envFile string) Config {
	cfg, err := Load(envFile)
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c Config) Validate() error {
	if c.Stage != StageDev && c.Stage != StageProd {
		return cerr.ErrInvalidStage(c.Stage)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}

	backends := []string{cache.BackendMemory, cache.BackendPostgres, cache.BackendSQLite}
	if !slices.Contains(backends, c.CacheBackend) {
		return cerr.ErrUnknownCacheBackend(c.CacheBackend)
	}
	if c.CacheBackend == cache.BackendPostgres && c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required for the postgres cache backend")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got: %s", c.SessionTTL)
	}
	return nil
}
