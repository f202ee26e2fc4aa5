package config

import (
	"fmt"
	"os"
	"strings"
)

// Environment variable names for CORS and rate limiting.
const (
	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"
	EnvRateLimitRPS       = "RATE_LIMIT_RPS"
)

// CORSConfig holds cross-origin resource sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
	AllowedMethods []string `toml:"allowed_methods"`
	AllowedHeaders []string `toml:"allowed_headers"`
}

// Finalize applies defaults and loads environment overrides.
func (c *CORSConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return nil
}

// Merge applies non-empty overlay values onto the receiver.
func (c *CORSConfig) Merge(overlay *CORSConfig) {
	if len(overlay.AllowedOrigins) > 0 {
		c.AllowedOrigins = overlay.AllowedOrigins
	}
	if len(overlay.AllowedMethods) > 0 {
		c.AllowedMethods = overlay.AllowedMethods
	}
	if len(overlay.AllowedHeaders) > 0 {
		c.AllowedHeaders = overlay.AllowedHeaders
	}
}

// AllowsOrigin reports whether the origin is permitted. A "*" entry
// allows any origin.
func (c *CORSConfig) AllowsOrigin(origin string) bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

func (c *CORSConfig) loadDefaults() {
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Content-Type", "Authorization"}
	}
}

func (c *CORSConfig) loadEnv() {
	if v := os.Getenv(EnvCORSAllowedOrigins); v != "" {
		c.AllowedOrigins = splitAndTrim(v)
	}
}

// RateLimitConfig holds request throttling settings.
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// Finalize applies defaults, loads environment overrides, and validates.
func (c *RateLimitConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies non-zero overlay values onto the receiver.
func (c *RateLimitConfig) Merge(overlay *RateLimitConfig) {
	if overlay.Enabled {
		c.Enabled = true
	}
	if overlay.RequestsPerSecond != 0 {
		c.RequestsPerSecond = overlay.RequestsPerSecond
	}
	if overlay.Burst != 0 {
		c.Burst = overlay.Burst
	}
}

func (c *RateLimitConfig) loadDefaults() {
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = 20
	}
	if c.Burst == 0 {
		c.Burst = 40
	}
}

func (c *RateLimitConfig) loadEnv() {
	if v := os.Getenv(EnvRateLimitRPS); v != "" {
		var rps float64
		if _, err := fmt.Sscanf(v, "%f", &rps); err == nil && rps > 0 {
			c.RequestsPerSecond = rps
		}
	}
}

func (c *RateLimitConfig) validate() error {
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second cannot be negative")
	}
	if c.Burst < 0 {
		return fmt.Errorf("burst cannot be negative")
	}
	return nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
