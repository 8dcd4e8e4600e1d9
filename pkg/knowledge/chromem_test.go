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
	"strings"
	"testing"

	"github.com/relayagent/relay/pkg/config"
)

// stubEmbedder maps text onto a fixed two-axis space so similarity is
// predictable without a real embedding model.
type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.Contains(strings.ToLower(text), "fox") {
		return []float32{1, 0.05}, nil
	}
	return []float32{0.05, 1}, nil
}

func (stubEmbedder) Dimension() int { return 2 }
func (stubEmbedder) Close() error   { return nil }

func newTestStore(t *testing.T) *ChromemStore {
	t.Helper()
	cfg := &config.KnowledgeConfig{Type: "chromem", Collection: "test", DefaultLimit: 5}
	store, err := NewChromemStore(cfg, stubEmbedder{})
	if err != nil {
		t.Fatalf("NewChromemStore() error = %v", err)
	}
	return store
}

func TestChromemStore_AddAndSearch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	docs := []Document{
		{ID: "1", Content: "The quick brown fox jumps over the lazy dog", Title: "Fox Facts", SourceURL: "kb://animals/fox"},
		{ID: "2", Content: "Go channels coordinate goroutines", Title: "Go Notes"},
	}
	for _, d := range docs {
		if err := store.Add(ctx, d); err != nil {
			t.Fatalf("Add(%s) error = %v", d.ID, err)
		}
	}

	results, err := store.Search(ctx, "fox jumping", SearchOptions{Limit: 2})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].ID != "1" {
		t.Errorf("top result = %s, want doc 1", results[0].ID)
	}
	if results[0].Title != "Fox Facts" {
		t.Errorf("Title = %q", results[0].Title)
	}
	if results[0].SourceURL != "kb://animals/fox" {
		t.Errorf("SourceURL = %q", results[0].SourceURL)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("scores not descending: %v, %v", results[0].Score, results[1].Score)
	}
}

func TestChromemStore_SearchEmpty(t *testing.T) {
	store := newTestStore(t)

	results, err := store.Search(context.Background(), "anything", SearchOptions{Limit: 3})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}

func TestChromemStore_LimitClampedToCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Add(ctx, Document{ID: "only", Content: "single fox document"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	results, err := store.Search(ctx, "fox", SearchOptions{Limit: 10})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Errorf("len(results) = %d, want 1", len(results))
	}
}

func TestChromemStore_AddValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Add(ctx, Document{Content: "no id"}); err == nil {
		t.Error("expected error for empty ID")
	}
	if err := store.Add(ctx, Document{ID: "x"}); err == nil {
		t.Error("expected error for empty content")
	}
}
