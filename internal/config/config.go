package config

import (
	"fmt"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Addr           string
	DatabaseDriver string
	DatabaseURL    string
	StaticDir      string
}

// LoadFromEnv reads the server configuration. A .env file in the working
// directory is loaded first; variables already set in the environment win.
func LoadFromEnv() (Config, error) {
	cfg := Config{
		Addr:           strings.TrimSpace(os.Getenv("SKAT_ADDR")),
		DatabaseDriver: strings.TrimSpace(os.Getenv("DATABASE_DRIVER")),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		StaticDir:      strings.TrimSpace(os.Getenv("STATIC_DIR")),
	}
	if cfg.Addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			cfg.Addr = ":" + port
		} else {
			cfg.Addr = ":8080"
		}
	}
	if cfg.DatabaseDriver == "" {
		cfg.DatabaseDriver = "sqlite3"
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = "web/static"
	}

	switch cfg.DatabaseDriver {
	case "sqlite3":
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = "./skat.db"
		}
	case "pgx":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required when DATABASE_DRIVER=pgx")
		}
	default:
		return Config{}, fmt.Errorf("invalid DATABASE_DRIVER=%q, use sqlite3 or pgx", cfg.DatabaseDriver)
	}

	return cfg, nil
}
