// Package config reads process settings from the environment.
package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	ServiceName     string
	Env             string
	LogLevel        string
	LogFile         string
	HTTPAddr        string
	DataDir         string
	SeedFile        string
	EmailDomain     string
	ShutdownTimeout time.Duration
}

// Load reads the environment, falling back to defaults for unset variables.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		ServiceName: get("SERVICE_NAME", "procurement"),
		Env:         get("ENV", "dev"),
		LogLevel:    get("LOG_LEVEL", "info"),
		LogFile:     get("LOG_FILE", ""),
		HTTPAddr:    get("HTTP_ADDR", ":8080"),
		DataDir:     get("DATA_DIR", ""),
		SeedFile:    get("SEED_FILE", ""),
		EmailDomain: get("AUTH_EMAIL_DOMAIN", "@um6p.ma"),
	}

	timeout, err := time.ParseDuration(get("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("config: SHUTDOWN_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return Config{}, fmt.Errorf("config: SHUTDOWN_TIMEOUT must be positive, got %s", timeout)
	}
	cfg.ShutdownTimeout = timeout
	return cfg, nil
}
