package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultDBPath            = "./dev.db"
	defaultPort              = "8080"
	defaultMigrationsDir     = "migrations"
	defaultMaxContractMonths = 60
	defaultEnv               = "development"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Port              string
	DBPath            string
	MigrationsDir     string
	BenchmarksFile    string
	LogLevel          slog.Level
	MaxContractMonths int
	Env               string
}

// Load reads ./.env when present, then the environment.
func Load() Config {
	return LoadFrom(".env")
}

// LoadFrom reads the dotenv file at path when present, then the environment. Variables
// already set in the environment win over the file.
func LoadFrom(path string) Config {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("dotenv file not loaded", "path", path, "err", err)
	}

	cfg := Config{
		Port:              envOr("PORT", defaultPort),
		DBPath:            envOr("DB_PATH", defaultDBPath),
		MigrationsDir:     envOr("MIGRATIONS_DIR", defaultMigrationsDir),
		BenchmarksFile:    os.Getenv("BENCHMARKS_FILE"),
		LogLevel:          slog.LevelInfo,
		MaxContractMonths: defaultMaxContractMonths,
		Env:               envOr("APP_ENV", defaultEnv),
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			slog.Warn("ignoring LOG_LEVEL", "value", v, "err", err)
			cfg.LogLevel = slog.LevelInfo
		}
	}
	if v := os.Getenv("MAX_CONTRACT_MONTHS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			slog.Warn("ignoring MAX_CONTRACT_MONTHS", "value", v)
		} else {
			cfg.MaxContractMonths = n
		}
	}

	return cfg
}

// IsDev reports whether the service runs in the development environment.
func (c Config) IsDev() bool {
	return c.Env == defaultEnv
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
