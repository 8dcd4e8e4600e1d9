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

// Package llms provides language-model providers behind a single Provider
// interface. Providers stream token-by-token when given an onToken callback
// and fall back to a single batch request otherwise.
package llms

import (
	"context"
	"fmt"

	"github.com/relayagent/relay/pkg/config"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Response is the completed model output for one request.
type Response struct {
	Content string
	Tokens  int
}

// Provider generates completions. When onToken is non-nil it is called with
// each content fragment as it arrives; the returned Response always carries
// the full accumulated content either way.
type Provider interface {
	SendMessages(ctx context.Context, messages []Message, onToken func(string)) (*Response, error)
	ModelName() string
	Close() error
}

// NewProvider builds a provider from config.
func NewProvider(cfg *config.LLMConfig) (Provider, error) {
	switch cfg.Type {
	case "openai":
		return NewOpenAIProvider(cfg)
	case "ollama":
		return NewOllamaProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM type: %s", cfg.Type)
	}
}
