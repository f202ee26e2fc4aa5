package config

import "fmt"

// MemoryConfig holds settings for the session and persistent memory stores.
type MemoryConfig struct {
	MinRelevanceScore    float64 `toml:"min_relevance_score"`
	DefaultLimit         int     `toml:"default_limit"`
	MaxEntriesPerSession int     `toml:"max_entries_per_session"`
	SummaryMaxChars      int     `toml:"summary_max_chars"`
}

// Finalize applies defaults and validates the configuration.
func (c *MemoryConfig) Finalize() error {
	c.loadDefaults()
	return c.validate()
}

// Merge applies non-zero overlay values onto the receiver.
func (c *MemoryConfig) Merge(overlay *MemoryConfig) {
	if overlay.MinRelevanceScore != 0 {
		c.MinRelevanceScore = overlay.MinRelevanceScore
	}
	if overlay.DefaultLimit != 0 {
		c.DefaultLimit = overlay.DefaultLimit
	}
	if overlay.MaxEntriesPerSession != 0 {
		c.MaxEntriesPerSession = overlay.MaxEntriesPerSession
	}
	if overlay.SummaryMaxChars != 0 {
		c.SummaryMaxChars = overlay.SummaryMaxChars
	}
}

func (c *MemoryConfig) loadDefaults() {
	if c.MinRelevanceScore == 0 {
		c.MinRelevanceScore = 0.3
	}
	if c.DefaultLimit == 0 {
		c.DefaultLimit = 5
	}
	if c.MaxEntriesPerSession == 0 {
		c.MaxEntriesPerSession = 1000
	}
	if c.SummaryMaxChars == 0 {
		c.SummaryMaxChars = 1000
	}
}

func (c *MemoryConfig) validate() error {
	if c.MinRelevanceScore < 0 || c.MinRelevanceScore > 1 {
		return fmt.Errorf("min_relevance_score must be between 0 and 1")
	}
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be positive")
	}
	return nil
}
