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

// Package utils provides small shared helpers for the relay core.
package utils

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter counts tokens for a specific model using tiktoken encodings.
type TokenCounter struct {
	encoding *tiktoken.Tiktoken
	model    string
}

var (
	// Encodings are expensive to build; cache them per model.
	encodingCache = make(map[string]*tiktoken.Tiktoken)
	cacheMu       sync.Mutex
)

func NewTokenCounter(model string) (*TokenCounter, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached, exists := encodingCache[model]; exists {
		return &TokenCounter{encoding: cached, model: model}, nil
	}

	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		// cl100k_base covers GPT-4/3.5 era models and is a fair
		// approximation for everything else.
		encoding, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("failed to get encoding: %w", err)
		}
	}

	encodingCache[model] = encoding
	return &TokenCounter{encoding: encoding, model: model}, nil
}

func (tc *TokenCounter) Count(text string) int {
	return len(tc.encoding.Encode(text, nil, nil))
}

func (tc *TokenCounter) GetModel() string {
	return tc.model
}

var (
	defaultCounter     *TokenCounter
	defaultCounterOnce sync.Once
)

// EstimateTokens estimates the token cost of text when re-injected into a
// model context. Uses the cl100k_base encoding when available and falls back
// to the rough 4-characters-per-token heuristic otherwise.
func EstimateTokens(text string) int {
	defaultCounterOnce.Do(func() {
		defaultCounter, _ = NewTokenCounter("gpt-4")
	})
	if defaultCounter == nil {
		return len(text) / 4
	}
	return defaultCounter.Count(text)
}
