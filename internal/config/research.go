package config

import (
	"fmt"
	"time"
)

// ResearchConfig holds settings for the research task executor and the
// agent pipeline.
type ResearchConfig struct {
	Workers          int    `toml:"workers"`
	QueueSize        int    `toml:"queue_size"`
	TaskTimeout      string `toml:"task_timeout"`
	ParallelTimeout  string `toml:"parallel_timeout"`
	ToolTimeout      string `toml:"tool_timeout"`
	MaxHistory       int    `toml:"max_history"`
	EnableStreaming  bool   `toml:"enable_streaming"`
	EnableTranslator bool   `toml:"enable_translator"`
	TargetLanguage   string `toml:"target_language"`

	SupportedLanguages []string `toml:"supported_languages"`

	taskTimeout     time.Duration
	parallelTimeout time.Duration
	toolTimeout     time.Duration
}

// Finalize applies defaults and validates the configuration.
func (c *ResearchConfig) Finalize() error {
	c.loadDefaults()
	return c.validate()
}

// Merge applies non-zero overlay values onto the receiver.
func (c *ResearchConfig) Merge(overlay *ResearchConfig) {
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.QueueSize != 0 {
		c.QueueSize = overlay.QueueSize
	}
	if overlay.TaskTimeout != "" {
		c.TaskTimeout = overlay.TaskTimeout
	}
	if overlay.ParallelTimeout != "" {
		c.ParallelTimeout = overlay.ParallelTimeout
	}
	if overlay.ToolTimeout != "" {
		c.ToolTimeout = overlay.ToolTimeout
	}
	if overlay.MaxHistory != 0 {
		c.MaxHistory = overlay.MaxHistory
	}
	if overlay.EnableStreaming {
		c.EnableStreaming = true
	}
	if overlay.EnableTranslator {
		c.EnableTranslator = true
	}
	if overlay.TargetLanguage != "" {
		c.TargetLanguage = overlay.TargetLanguage
	}
	if len(overlay.SupportedLanguages) > 0 {
		c.SupportedLanguages = overlay.SupportedLanguages
	}
}

// TaskTimeoutDuration returns the parsed per-task timeout.
func (c *ResearchConfig) TaskTimeoutDuration() time.Duration { return c.taskTimeout }

// ParallelTimeoutDuration returns the parsed timeout for the parallel
// researcher stage.
func (c *ResearchConfig) ParallelTimeoutDuration() time.Duration { return c.parallelTimeout }

// ToolTimeoutDuration returns the parsed per-tool-call timeout.
func (c *ResearchConfig) ToolTimeoutDuration() time.Duration { return c.toolTimeout }

func (c *ResearchConfig) loadDefaults() {
	if c.Workers == 0 {
		c.Workers = 2
	}
	if c.QueueSize == 0 {
		c.QueueSize = 32
	}
	if c.TaskTimeout == "" {
		c.TaskTimeout = "10m"
	}
	if c.ParallelTimeout == "" {
		c.ParallelTimeout = "5m"
	}
	if c.ToolTimeout == "" {
		c.ToolTimeout = "60s"
	}
	if c.MaxHistory == 0 {
		c.MaxHistory = 40
	}
	if c.TargetLanguage == "" {
		c.TargetLanguage = "English"
	}
	if len(c.SupportedLanguages) == 0 {
		c.SupportedLanguages = []string{"en", "ja"}
	}
}

func (c *ResearchConfig) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("queue_size must be positive")
	}

	var err error
	if c.taskTimeout, err = time.ParseDuration(c.TaskTimeout); err != nil {
		return fmt.Errorf("invalid task_timeout: %w", err)
	}
	if c.parallelTimeout, err = time.ParseDuration(c.ParallelTimeout); err != nil {
		return fmt.Errorf("invalid parallel_timeout: %w", err)
	}
	if c.toolTimeout, err = time.ParseDuration(c.ToolTimeout); err != nil {
		return fmt.Errorf("invalid tool_timeout: %w", err)
	}

	return nil
}
