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
	"strings"

	"github.com/qdrant/go-client/qdrant"

	"github.com/relayagent/relay/pkg/config"
	"github.com/relayagent/relay/pkg/embedders"
)

// QdrantStore persists documents in an external Qdrant instance. Vectors are
// computed through the configured embedder on both write and query paths.
type QdrantStore struct {
	client   *qdrant.Client
	embedder embedders.Provider
	config   *config.KnowledgeConfig
}

func NewQdrantStore(cfg *config.KnowledgeConfig, embedder embedders.Provider) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantStore{
		client:   client,
		embedder: embedder,
		config:   cfg,
	}, nil
}

func (s *QdrantStore) ensureCollection(ctx context.Context, vectorSize int) error {
	exists, err := s.client.CollectionExists(ctx, s.config.Collection)
	if err != nil {
		return fmt.Errorf("failed to check if collection exists: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.config.Collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(vectorSize),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

func (s *QdrantStore) Add(ctx context.Context, doc Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document ID cannot be empty")
	}
	if doc.Content == "" {
		return fmt.Errorf("document content cannot be empty")
	}

	vector, err := s.embedder.Embed(ctx, doc.Content)
	if err != nil {
		return fmt.Errorf("failed to embed document: %w", err)
	}

	if err := s.ensureCollection(ctx, len(vector)); err != nil {
		return err
	}

	payload := map[string]any{"content": doc.Content}
	if doc.Title != "" {
		payload["title"] = doc.Title
	}
	if doc.SourceURL != "" {
		payload["source_url"] = doc.SourceURL
	}
	for k, v := range doc.Metadata {
		payload[k] = v
	}

	qdrantPayload := make(map[string]*qdrant.Value, len(payload))
	for k, v := range payload {
		val, err := qdrant.NewValue(v)
		if err != nil {
			return fmt.Errorf("failed to convert metadata value for key %s: %w", k, err)
		}
		qdrantPayload[k] = val
	}

	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.config.Collection,
		Points: []*qdrant.PointStruct{{
			Id:      qdrant.NewID(doc.ID),
			Vectors: qdrant.NewVectors(vector...),
			Payload: qdrantPayload,
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}
	return nil
}

func (s *QdrantStore) Search(ctx context.Context, query string, opts SearchOptions) ([]ScoredDocument, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = s.config.DefaultLimit
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	exists, err := s.client.CollectionExists(ctx, s.config.Collection)
	if err != nil {
		return nil, fmt.Errorf("failed to check if collection exists: %w", err)
	}
	if !exists {
		return nil, nil
	}

	var filter *qdrant.Filter
	if len(opts.Filters) > 0 {
		conditions := make([]*qdrant.Condition, 0, len(opts.Filters))
		for k, v := range opts.Filters {
			conditions = append(conditions, qdrant.NewMatch(k, v))
		}
		filter = &qdrant.Filter{Must: conditions}
	}

	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.config.Collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		Filter:         filter,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search points: %w", err)
	}

	docs := make([]ScoredDocument, 0, len(points))
	for _, point := range points {
		docs = append(docs, ScoredDocument{
			Document: documentFromPayload(pointID(point.Id), point.Payload),
			Score:    point.Score,
		})
	}
	return docs, nil
}

func pointID(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	switch v := id.PointIdOptions.(type) {
	case *qdrant.PointId_Uuid:
		return v.Uuid
	case *qdrant.PointId_Num:
		return fmt.Sprintf("%d", v.Num)
	default:
		return ""
	}
}

func documentFromPayload(id string, payload map[string]*qdrant.Value) Document {
	doc := Document{ID: id}
	if len(payload) == 0 {
		return doc
	}

	doc.Metadata = make(map[string]any)
	for k, value := range payload {
		var v any
		switch kind := value.Kind.(type) {
		case *qdrant.Value_StringValue:
			v = kind.StringValue
		case *qdrant.Value_IntegerValue:
			v = kind.IntegerValue
		case *qdrant.Value_DoubleValue:
			v = kind.DoubleValue
		case *qdrant.Value_BoolValue:
			v = kind.BoolValue
		default:
			continue
		}

		switch k {
		case "content":
			if s, ok := v.(string); ok {
				doc.Content = s
			}
		case "title":
			if s, ok := v.(string); ok {
				doc.Title = s
			}
		case "source_url":
			if s, ok := v.(string); ok {
				doc.SourceURL = s
			}
		default:
			doc.Metadata[k] = v
		}
	}
	if len(doc.Metadata) == 0 {
		doc.Metadata = nil
	}
	return doc
}

func (s *QdrantStore) Close() error {
	return s.client.Close()
}

var _ Store = (*QdrantStore)(nil)
