// Copyright 2026 The Relay Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the YAML configuration for a relay session and the
// load/defaults/validate pipeline applied to it.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM       *LLMConfig       `yaml:"llm"`
	Embedder  *EmbedderConfig  `yaml:"embedder,omitempty"`
	Knowledge *KnowledgeConfig `yaml:"knowledge,omitempty"`
	WebSearch *WebSearchConfig `yaml:"web_search,omitempty"`
	Logging   LoggingConfig    `yaml:"logging,omitempty"`
}

// LLMConfig configures the language-model provider. Required.
type LLMConfig struct {
	Type        string  `yaml:"type"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key,omitempty"`
	Host        string  `yaml:"host,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty"`
	MaxTokens   int     `yaml:"max_tokens,omitempty"`
	Timeout     int     `yaml:"timeout,omitempty"`
	MaxRetries  int     `yaml:"max_retries,omitempty"`
	RetryDelay  int     `yaml:"retry_delay,omitempty"`
}

func (c *LLMConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = "openai"
	}
	switch c.Type {
	case "openai":
		if c.Host == "" {
			c.Host = "https://api.openai.com"
		}
		if c.Model == "" {
			c.Model = "gpt-4o"
		}
	case "ollama":
		if c.Host == "" {
			c.Host = "http://localhost:11434"
		}
		if c.Model == "" {
			c.Model = "llama3"
		}
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 2000
	}
	if c.Timeout == 0 {
		c.Timeout = 120
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = 2
	}
}

func (c *LLMConfig) Validate() error {
	switch c.Type {
	case "openai", "ollama":
	default:
		return fmt.Errorf("unsupported LLM type: %s (supported: openai, ollama)", c.Type)
	}
	if c.Type == "openai" && c.APIKey == "" {
		return fmt.Errorf("api_key is required for openai LLM provider")
	}
	return nil
}

// EmbedderConfig configures the embedding provider used by vector-backed
// knowledge stores.
type EmbedderConfig struct {
	Type      string `yaml:"type"`
	Model     string `yaml:"model,omitempty"`
	APIKey    string `yaml:"api_key,omitempty"`
	Host      string `yaml:"host,omitempty"`
	Dimension int    `yaml:"dimension,omitempty"`
	Timeout   int    `yaml:"timeout,omitempty"`
}

func (c *EmbedderConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = "openai"
	}
	switch c.Type {
	case "openai":
		if c.Host == "" {
			c.Host = "https://api.openai.com"
		}
		if c.Model == "" {
			c.Model = "text-embedding-3-small"
		}
		if c.Dimension == 0 {
			c.Dimension = 1536
		}
	case "ollama":
		if c.Host == "" {
			c.Host = "http://localhost:11434"
		}
		if c.Model == "" {
			c.Model = "nomic-embed-text"
		}
		if c.Dimension == 0 {
			c.Dimension = 768
		}
	}
	if c.Timeout == 0 {
		c.Timeout = 60
	}
}

func (c *EmbedderConfig) Validate() error {
	switch c.Type {
	case "openai", "ollama":
	default:
		return fmt.Errorf("unsupported embedder type: %s (supported: openai, ollama)", c.Type)
	}
	if c.Type == "openai" && c.APIKey == "" {
		return fmt.Errorf("api_key is required for openai embedder")
	}
	return nil
}

// KnowledgeConfig configures the local knowledge store.
type KnowledgeConfig struct {
	Type         string `yaml:"type"`
	Path         string `yaml:"path,omitempty"`
	Host         string `yaml:"host,omitempty"`
	Port         int    `yaml:"port,omitempty"`
	APIKey       string `yaml:"api_key,omitempty"`
	UseTLS       bool   `yaml:"use_tls,omitempty"`
	Collection   string `yaml:"collection,omitempty"`
	DefaultLimit int    `yaml:"default_limit,omitempty"`
}

func (c *KnowledgeConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = "chromem"
	}
	if c.Collection == "" {
		c.Collection = "relay_knowledge"
	}
	if c.DefaultLimit == 0 {
		c.DefaultLimit = 5
	}
	if c.Type == "qdrant" {
		if c.Host == "" {
			c.Host = "localhost"
		}
		if c.Port == 0 {
			c.Port = 6334
		}
	}
}

func (c *KnowledgeConfig) Validate() error {
	switch c.Type {
	case "chromem", "qdrant":
	default:
		return fmt.Errorf("unsupported knowledge store type: %s (supported: chromem, qdrant)", c.Type)
	}
	return nil
}

// WebSearchConfig configures the web-search provider. Optional: when absent
// the search tool's web leg fails fast instead of attempting a call.
type WebSearchConfig struct {
	Provider   string `yaml:"provider,omitempty"`
	Endpoint   string `yaml:"endpoint,omitempty"`
	MaxResults int    `yaml:"max_results,omitempty"`
	Timeout    int    `yaml:"timeout,omitempty"`
}

func (c *WebSearchConfig) SetDefaults() {
	if c.Provider == "" {
		c.Provider = "duckduckgo"
	}
	if c.Endpoint == "" {
		c.Endpoint = "https://api.duckduckgo.com"
	}
	if c.MaxResults == 0 {
		c.MaxResults = 5
	}
	if c.Timeout == 0 {
		c.Timeout = 10
	}
}

func (c *WebSearchConfig) Validate() error {
	if c.Provider != "duckduckgo" {
		return fmt.Errorf("unsupported web search provider: %s (supported: duckduckgo)", c.Provider)
	}
	return nil
}

type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// SetDefaults fills in every section's defaults.
func (c *Config) SetDefaults() {
	if c.LLM == nil {
		c.LLM = &LLMConfig{}
	}
	c.LLM.SetDefaults()
	if c.Embedder != nil {
		c.Embedder.SetDefaults()
	}
	if c.Knowledge != nil {
		c.Knowledge.SetDefaults()
	}
	if c.WebSearch != nil {
		c.WebSearch.SetDefaults()
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "simple"
	}
}

func (c *Config) Validate() error {
	if c.LLM == nil {
		return fmt.Errorf("llm configuration is required")
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if c.Embedder != nil {
		if err := c.Embedder.Validate(); err != nil {
			return fmt.Errorf("embedder: %w", err)
		}
	}
	if c.Knowledge != nil {
		if err := c.Knowledge.Validate(); err != nil {
			return fmt.Errorf("knowledge: %w", err)
		}
		if c.Knowledge.Type == "qdrant" && c.Embedder == nil {
			return fmt.Errorf("knowledge: qdrant store requires an embedder section")
		}
	}
	if c.WebSearch != nil {
		if err := c.WebSearch.Validate(); err != nil {
			return fmt.Errorf("web_search: %w", err)
		}
	}
	return nil
}

// ProcessConfigPipeline applies defaults then validates.
func ProcessConfigPipeline(cfg *Config) (*Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

// Load reads a YAML config file, substitutes ${VAR} environment references,
// and runs the defaults/validation pipeline.
func Load(path string) (*Config, error) {
	LoadDotEnv()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return ProcessConfigPipeline(&cfg)
}
