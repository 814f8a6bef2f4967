// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port         int           `env:"PORT" envDefault:"3318"`
	DatabaseURL  string        `env:"DATABASE_URL"`
	DatabaseType string        `env:"DATABASE_TYPE" envDefault:"sqlite"`
	SamplesDir   string        `env:"SAMPLES_DIR" envDefault:"./samples"`
	JWTSecret    string        `env:"JWT_SECRET"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// Optional admin bootstrap
	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// ParseFlags loads .env, reads environment variables and applies CLI
// overrides on top. CLI flags take precedence over the environment.
func ParseFlags(args []string) (Config, error) {
	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("pq-toolkit-api", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.SamplesDir, "samples", cfg.SamplesDir, "Directory holding audio samples")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Token signing secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, errors.New("invalid port")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
	if cfg.SamplesDir == "" {
		return Config{}, errors.New("samples directory required")
	}

	// Secrets - MUST be provided
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, errors.New("TOKEN_TTL must be positive")
	}
	if (cfg.AdminUsername == "") != (cfg.AdminPassword == "") {
		return Config{}, errors.New("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}

	return cfg, nil
}
