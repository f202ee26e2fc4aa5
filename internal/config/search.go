package config

import (
	"fmt"
	"os"
)

// Environment variable names for search configuration.
const (
	EnvMilvusAddress = "MILVUS_ADDRESS"
	EnvWebSearchKey  = "WEB_SEARCH_API_KEY"
)

// SearchConfig holds settings for the vector and web search providers.
type SearchConfig struct {
	Milvus        MilvusConfig    `toml:"milvus"`
	Web           WebSearchConfig `toml:"web"`
	DefaultLimit  int             `toml:"default_limit"`
	MaxLimit      int             `toml:"max_limit"`
	DocumentTypes []string        `toml:"document_types"`
}

// MilvusConfig holds vector database settings.
type MilvusConfig struct {
	Address     string `toml:"address"`
	Collection  string `toml:"collection"`
	VectorField string `toml:"vector_field"`
	TextField   string `toml:"text_field"`
}

// WebSearchConfig holds web search provider settings.
type WebSearchConfig struct {
	Endpoint string `toml:"endpoint"`
	APIKey   string `toml:"api_key"`
	Timeout  string `toml:"timeout"`
}

// Finalize applies defaults, loads environment overrides, and validates.
func (c *SearchConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies non-zero overlay values onto the receiver.
func (c *SearchConfig) Merge(overlay *SearchConfig) {
	if overlay.Milvus.Address != "" {
		c.Milvus.Address = overlay.Milvus.Address
	}
	if overlay.Milvus.Collection != "" {
		c.Milvus.Collection = overlay.Milvus.Collection
	}
	if overlay.Milvus.VectorField != "" {
		c.Milvus.VectorField = overlay.Milvus.VectorField
	}
	if overlay.Milvus.TextField != "" {
		c.Milvus.TextField = overlay.Milvus.TextField
	}
	if overlay.Web.Endpoint != "" {
		c.Web.Endpoint = overlay.Web.Endpoint
	}
	if overlay.Web.APIKey != "" {
		c.Web.APIKey = overlay.Web.APIKey
	}
	if overlay.Web.Timeout != "" {
		c.Web.Timeout = overlay.Web.Timeout
	}
	if overlay.DefaultLimit != 0 {
		c.DefaultLimit = overlay.DefaultLimit
	}
	if overlay.MaxLimit != 0 {
		c.MaxLimit = overlay.MaxLimit
	}
	if len(overlay.DocumentTypes) > 0 {
		c.DocumentTypes = overlay.DocumentTypes
	}
}

func (c *SearchConfig) loadDefaults() {
	if c.Milvus.Address == "" {
		c.Milvus.Address = "localhost:19530"
	}
	if c.Milvus.Collection == "" {
		c.Milvus.Collection = "documents"
	}
	if c.Milvus.VectorField == "" {
		c.Milvus.VectorField = "text_embedding"
	}
	if c.Milvus.TextField == "" {
		c.Milvus.TextField = "text"
	}
	if c.Web.Endpoint == "" {
		c.Web.Endpoint = "https://api.tavily.com/search"
	}
	if c.Web.Timeout == "" {
		c.Web.Timeout = "20s"
	}
	if c.DefaultLimit == 0 {
		c.DefaultLimit = 10
	}
	if c.MaxLimit == 0 {
		c.MaxLimit = 50
	}
	if len(c.DocumentTypes) == 0 {
		c.DocumentTypes = []string{"article", "paper", "report", "webpage", "documentation"}
	}
}

func (c *SearchConfig) loadEnv() {
	if v := os.Getenv(EnvMilvusAddress); v != "" {
		c.Milvus.Address = v
	}
	if v := os.Getenv(EnvWebSearchKey); v != "" {
		c.Web.APIKey = v
	}
}

func (c *SearchConfig) validate() error {
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be positive")
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit cannot be less than default_limit")
	}
	return nil
}
