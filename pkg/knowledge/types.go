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

// Package knowledge provides the local knowledge store used as the memory
// source during retrieval. Two backends are supported: chromem (embedded,
// zero external services) and qdrant (external vector database).
package knowledge

import (
	"context"
	"fmt"

	"github.com/relayagent/relay/pkg/config"
	"github.com/relayagent/relay/pkg/embedders"
)

// Document is one stored knowledge entry.
type Document struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Title     string         `json:"title,omitempty"`
	SourceURL string         `json:"source_url,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ScoredDocument is a search hit with its similarity score.
type ScoredDocument struct {
	Document
	Score float32 `json:"score"`
}

// SearchOptions tunes a store query.
type SearchOptions struct {
	Limit int
	// Mode selects the retrieval strategy. Both current backends only do
	// semantic similarity and ignore it.
	Mode    string
	Filters map[string]string
}

// Store is the persistence interface for knowledge documents.
type Store interface {
	Add(ctx context.Context, doc Document) error
	Search(ctx context.Context, query string, opts SearchOptions) ([]ScoredDocument, error)
	Close() error
}

// NewStore builds a store from config. The embedder may be nil only for the
// chromem backend, which then falls back to its built-in embedding function.
func NewStore(cfg *config.KnowledgeConfig, embedder embedders.Provider) (Store, error) {
	switch cfg.Type {
	case "chromem":
		return NewChromemStore(cfg, embedder)
	case "qdrant":
		if embedder == nil {
			return nil, fmt.Errorf("qdrant store requires an embedder")
		}
		return NewQdrantStore(cfg, embedder)
	default:
		return nil, fmt.Errorf("unsupported knowledge store type: %s", cfg.Type)
	}
}
