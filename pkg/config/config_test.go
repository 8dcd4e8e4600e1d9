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

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProcessConfigPipeline_Defaults(t *testing.T) {
	cfg, err := ProcessConfigPipeline(&Config{
		LLM:       &LLMConfig{Type: "ollama"},
		Knowledge: &KnowledgeConfig{},
		WebSearch: &WebSearchConfig{},
	})
	if err != nil {
		t.Fatalf("ProcessConfigPipeline() error = %v", err)
	}

	if cfg.LLM.Host != "http://localhost:11434" {
		t.Errorf("LLM.Host = %q", cfg.LLM.Host)
	}
	if cfg.LLM.Model != "llama3" {
		t.Errorf("LLM.Model = %q", cfg.LLM.Model)
	}
	if cfg.Knowledge.Type != "chromem" {
		t.Errorf("Knowledge.Type = %q", cfg.Knowledge.Type)
	}
	if cfg.Knowledge.DefaultLimit != 5 {
		t.Errorf("Knowledge.DefaultLimit = %d", cfg.Knowledge.DefaultLimit)
	}
	if cfg.WebSearch.Provider != "duckduckgo" {
		t.Errorf("WebSearch.Provider = %q", cfg.WebSearch.Provider)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestProcessConfigPipeline_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"nil config", nil},
		{"unknown llm type", &Config{LLM: &LLMConfig{Type: "mystery"}}},
		{"openai without key", &Config{LLM: &LLMConfig{Type: "openai"}}},
		{
			"qdrant without embedder",
			&Config{
				LLM:       &LLMConfig{Type: "ollama"},
				Knowledge: &KnowledgeConfig{Type: "qdrant"},
			},
		},
		{
			"unknown knowledge type",
			&Config{
				LLM:       &LLMConfig{Type: "ollama"},
				Knowledge: &KnowledgeConfig{Type: "postgres"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ProcessConfigPipeline(tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("RELAY_TEST_KEY", "sk-test-123")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
llm:
  type: openai
  api_key: ${RELAY_TEST_KEY}
  model: ${RELAY_TEST_MODEL:-gpt-4o-mini}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLM.APIKey != "sk-test-123" {
		t.Errorf("APIKey = %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want default applied", cfg.LLM.Model)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("RELAY_HOST", "example.com")

	tests := []struct {
		in   string
		want string
	}{
		{"host: ${RELAY_HOST}", "host: example.com"},
		{"host: ${RELAY_UNSET:-fallback}", "host: fallback"},
		{"host: ${RELAY_UNSET}", "host: "},
		{"plain text", "plain text"},
		{"cost: $5", "cost: $5"},
	}
	for _, tt := range tests {
		if got := ExpandEnv(tt.in); got != tt.want {
			t.Errorf("ExpandEnv(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
