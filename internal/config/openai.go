package config

import (
	"fmt"
	"os"
)

// Environment variable names for OpenAI configuration.
const (
	EnvOpenAIAPIKey  = "OPENAI_API_KEY"
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
)

// OpenAIConfig holds model provider settings shared by the chat and
// embedding clients.
type OpenAIConfig struct {
	APIKey              string `toml:"api_key"`
	BaseURL             string `toml:"base_url"`
	ChatModel           string `toml:"chat_model"`
	EmbeddingModel      string `toml:"embedding_model"`
	EmbeddingDimensions int    `toml:"embedding_dimensions"`
	MaxCompletionTokens int    `toml:"max_completion_tokens"`
}

// Finalize applies defaults, loads environment overrides, and validates.
func (c *OpenAIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies non-zero overlay values onto the receiver.
func (c *OpenAIConfig) Merge(overlay *OpenAIConfig) {
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.ChatModel != "" {
		c.ChatModel = overlay.ChatModel
	}
	if overlay.EmbeddingModel != "" {
		c.EmbeddingModel = overlay.EmbeddingModel
	}
	if overlay.EmbeddingDimensions != 0 {
		c.EmbeddingDimensions = overlay.EmbeddingDimensions
	}
	if overlay.MaxCompletionTokens != 0 {
		c.MaxCompletionTokens = overlay.MaxCompletionTokens
	}
}

func (c *OpenAIConfig) loadDefaults() {
	if c.ChatModel == "" {
		c.ChatModel = "gpt-4o"
	}
	if c.EmbeddingModel == "" {
		c.EmbeddingModel = "text-embedding-3-small"
	}
	if c.EmbeddingDimensions == 0 {
		c.EmbeddingDimensions = 1536
	}
	if c.MaxCompletionTokens == 0 {
		c.MaxCompletionTokens = 4096
	}
}

func (c *OpenAIConfig) loadEnv() {
	if v := os.Getenv(EnvOpenAIAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvOpenAIBaseURL); v != "" {
		c.BaseURL = v
	}
}

func (c *OpenAIConfig) validate() error {
	if c.EmbeddingDimensions < 1 {
		return fmt.Errorf("embedding_dimensions must be positive")
	}
	if c.MaxCompletionTokens < 1 {
		return fmt.Errorf("max_completion_tokens must be positive")
	}
	return nil
}
