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

package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/philippgille/chromem-go"

	"github.com/relayagent/relay/pkg/config"
	"github.com/relayagent/relay/pkg/embedders"
)

// ChromemStore is an embedded vector store backed by chromem-go. It needs no
// external services and optionally persists to disk as a gob file.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	config     *config.KnowledgeConfig
	mu         sync.Mutex
}

func NewChromemStore(cfg *config.KnowledgeConfig, embedder embedders.Provider) (*ChromemStore, error) {
	var db *chromem.DB
	var err error

	if cfg.Path != "" {
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create persist directory: %w", err)
		}
		db, err = chromem.NewPersistentDB(cfg.Path, true)
		if err != nil {
			return nil, fmt.Errorf("failed to open vector database: %w", err)
		}
		slog.Info("opened persistent vector database", "path", cfg.Path)
	} else {
		db = chromem.NewDB()
		slog.Info("created in-memory vector database (no persistence)")
	}

	// A nil embedding func makes chromem fall back to its OpenAI default,
	// driven by the OPENAI_API_KEY environment variable.
	var embedFunc chromem.EmbeddingFunc
	if embedder != nil {
		embedFunc = func(ctx context.Context, text string) ([]float32, error) {
			return embedder.Embed(ctx, text)
		}
	}

	col, err := db.GetOrCreateCollection(cfg.Collection, nil, embedFunc)
	if err != nil {
		return nil, fmt.Errorf("failed to get/create collection %q: %w", cfg.Collection, err)
	}

	return &ChromemStore{
		db:         db,
		collection: col,
		config:     cfg,
	}, nil
}

func (s *ChromemStore) Add(ctx context.Context, doc Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document ID cannot be empty")
	}
	if doc.Content == "" {
		return fmt.Errorf("document content cannot be empty")
	}

	metadata := make(map[string]string, len(doc.Metadata)+2)
	for k, v := range doc.Metadata {
		metadata[k] = fmt.Sprint(v)
	}
	if doc.Title != "" {
		metadata["title"] = doc.Title
	}
	if doc.SourceURL != "" {
		metadata["source_url"] = doc.SourceURL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.collection.AddDocuments(ctx, []chromem.Document{{
		ID:       doc.ID,
		Content:  doc.Content,
		Metadata: metadata,
	}}, runtime.NumCPU())
	if err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}
	return nil
}

func (s *ChromemStore) Search(ctx context.Context, query string, opts SearchOptions) ([]ScoredDocument, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = s.config.DefaultLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// chromem rejects queries asking for more results than stored documents.
	if count := s.collection.Count(); count < limit {
		if count == 0 {
			return nil, nil
		}
		limit = count
	}

	var where map[string]string
	if len(opts.Filters) > 0 {
		where = opts.Filters
	}

	results, err := s.collection.Query(ctx, query, limit, where, nil)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	docs := make([]ScoredDocument, 0, len(results))
	for _, r := range results {
		docs = append(docs, ScoredDocument{
			Document: documentFromMetadata(r.ID, r.Content, r.Metadata),
			Score:    r.Similarity,
		})
	}
	return docs, nil
}

func documentFromMetadata(id, content string, metadata map[string]string) Document {
	doc := Document{ID: id, Content: content}
	if len(metadata) == 0 {
		return doc
	}

	doc.Metadata = make(map[string]any, len(metadata))
	for k, v := range metadata {
		switch k {
		case "title":
			doc.Title = v
		case "source_url":
			doc.SourceURL = v
		default:
			doc.Metadata[k] = v
		}
	}
	if len(doc.Metadata) == 0 {
		doc.Metadata = nil
	}
	return doc
}

func (s *ChromemStore) Close() error {
	return nil
}

var _ Store = (*ChromemStore)(nil)
