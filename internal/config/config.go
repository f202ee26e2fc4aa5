// Package config provides layered configuration loading for the research
// service. A base TOML file is merged with an optional environment overlay
// (config.<env>.toml selected by SERVICE_ENV), then environment variables,
// then validated.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/deepresearch-labs/deep-research/pkg/logging"
	"github.com/deepresearch-labs/deep-research/pkg/pagination"
)

// EnvServiceEnv selects the overlay configuration file.
const EnvServiceEnv = "SERVICE_ENV"

// Config is the root configuration for the service and CLI.
type Config struct {
	Server     ServerConfig      `toml:"server"`
	Database   DatabaseConfig    `toml:"database"`
	CORS       CORSConfig        `toml:"cors"`
	RateLimit  RateLimitConfig   `toml:"rate_limit"`
	OpenAI     OpenAIConfig      `toml:"openai"`
	Search     SearchConfig      `toml:"search"`
	Memory     MemoryConfig      `toml:"memory"`
	Research   ResearchConfig    `toml:"research"`
	Logging    logging.Config    `toml:"logging"`
	Pagination pagination.Config `toml:"pagination"`
}

// Load reads the base configuration file, applies the environment overlay
// if present, and finalizes every section.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if err := readFile(path, cfg); err != nil {
		return nil, err
	}

	if env := os.Getenv(EnvServiceEnv); env != "" {
		overlayPath := overlayFor(path, env)
		if _, err := os.Stat(overlayPath); err == nil {
			overlay := &Config{}
			if err := readFile(overlayPath, overlay); err != nil {
				return nil, err
			}
			cfg.Merge(overlay)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Finalize applies defaults, environment overrides, and validation to
// every section.
func (c *Config) Finalize() error {
	finalizers := []struct {
		name string
		fn   func() error
	}{
		{"server", c.Server.Finalize},
		{"database", c.Database.Finalize},
		{"cors", c.CORS.Finalize},
		{"rate_limit", c.RateLimit.Finalize},
		{"openai", c.OpenAI.Finalize},
		{"search", c.Search.Finalize},
		{"memory", c.Memory.Finalize},
		{"research", c.Research.Finalize},
		{"pagination", c.Pagination.Finalize},
		{"logging", c.Logging.Finalize},
	}

	for _, f := range finalizers {
		if err := f.fn(); err != nil {
			return fmt.Errorf("config section %s: %w", f.name, err)
		}
	}

	return nil
}

// Merge applies non-zero overlay values onto the receiver, section by section.
func (c *Config) Merge(overlay *Config) {
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.CORS.Merge(&overlay.CORS)
	c.RateLimit.Merge(&overlay.RateLimit)
	c.OpenAI.Merge(&overlay.OpenAI)
	c.Search.Merge(&overlay.Search)
	c.Memory.Merge(&overlay.Memory)
	c.Research.Merge(&overlay.Research)
	c.Logging.Merge(&overlay.Logging)
	c.Pagination.Merge(&overlay.Pagination)
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func overlayFor(path, env string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, fmt.Sprintf("%s.%s%s", name, env, ext))
}
