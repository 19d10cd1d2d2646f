// Package config loads converter settings from an optional YAML file,
// an optional .env file and MIZAN_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/insightdelivered/trial-balance-converter/internal/parser"
)

// Config is the top-level converter configuration.
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Store   StoreConfig    `yaml:"store"`
	Output  OutputConfig   `yaml:"output"`
	Markers parser.Markers `yaml:"markers"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	StaticDir   string `yaml:"static_dir"`
	BodyLimitMB int    `yaml:"body_limit_mb"`
}

// StoreConfig points at the SQLite archive. An empty path disables it.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig sets CLI output defaults.
type OutputConfig struct {
	Format string `yaml:"format"` // csv | xlsx | text
}

// Load reads the YAML file at path (skipped when empty), then envFile
// (skipped when empty or missing), then applies environment overrides
// and defaults.
func Load(path, envFile string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %q: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env file %q: %w", envFile, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = getEnv("MIZAN_ADDR", c.Server.Addr)
	c.Server.StaticDir = getEnv("MIZAN_STATIC_DIR", c.Server.StaticDir)
	c.Server.BodyLimitMB = getEnvAsInt("MIZAN_BODY_LIMIT_MB", c.Server.BodyLimitMB)
	c.Store.Path = getEnv("MIZAN_DB", c.Store.Path)
	c.Output.Format = getEnv("MIZAN_FORMAT", c.Output.Format)
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.BodyLimitMB <= 0 {
		c.Server.BodyLimitMB = 32
	}
	if c.Output.Format == "" {
		c.Output.Format = "csv"
	}
	c.Markers = c.Markers.WithDefaults()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
