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

// Package synthesis combines knowledge-store and web retrieval into one
// cited, model-generated answer.
package synthesis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/relayagent/relay/pkg/knowledge"
	"github.com/relayagent/relay/pkg/llms"
	"github.com/relayagent/relay/pkg/websearch"
)

// NoRelevantInformation is the fixed answer returned when both sources come
// back empty. No model call is made in that case.
const NoRelevantInformation = "No relevant information found in the knowledge base or on the web."

// conflictDisclaimer is attached when both sources contributed, since the
// model may have had to reconcile disagreeing excerpts.
const conflictDisclaimer = "This answer combines stored knowledge with live web results; where they disagree, the knowledge base excerpts were presented first."

// Result is the complete outcome of one synthesis run.
type Result struct {
	Answer             string                     `json:"answer"`
	MemoryResults      []knowledge.ScoredDocument `json:"memory_results,omitempty"`
	WebResults         []websearch.Result         `json:"web_results,omitempty"`
	Citations          []Citation                 `json:"citations,omitempty"`
	ConflictDisclaimer string                     `json:"conflict_disclaimer,omitempty"`
}

// Synthesizer queries its two retrieval collaborators in parallel and asks
// the model for a cited answer. Either collaborator may be nil, in which case
// that source contributes nothing.
type Synthesizer struct {
	llm         llms.Provider
	store       knowledge.Store
	searcher    websearch.Searcher
	memoryLimit int
	webLimit    int
}

type Option func(*Synthesizer)

func WithMemoryLimit(limit int) Option {
	return func(s *Synthesizer) {
		s.memoryLimit = limit
	}
}

func WithWebLimit(limit int) Option {
	return func(s *Synthesizer) {
		s.webLimit = limit
	}
}

func New(llm llms.Provider, store knowledge.Store, searcher websearch.Searcher, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		llm:         llm,
		store:       store,
		searcher:    searcher,
		memoryLimit: 5,
		webLimit:    5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize retrieves from both sources, builds citations, and produces the
// answer. Retrieval failures degrade to empty results per source; only a
// model failure aborts the operation.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, onToken func(string)) (*Result, error) {
	memory, web := s.retrieve(ctx, query)
	citations := BuildCitations(memory, web)

	if len(memory) == 0 && len(web) == 0 {
		return &Result{Answer: NoRelevantInformation}, nil
	}

	response, err := s.llm.SendMessages(ctx, buildPrompt(query, memory, web), onToken)
	if err != nil {
		return nil, fmt.Errorf("synthesis model call failed: %w", err)
	}

	result := &Result{
		Answer:        response.Content,
		MemoryResults: memory,
		WebResults:    web,
		Citations:     citations,
	}
	if len(memory) > 0 && len(web) > 0 {
		result.ConflictDisclaimer = conflictDisclaimer
	}
	return result, nil
}

// retrieve issues the memory and web queries concurrently. Each source is
// best-effort: a failure is logged and that source returns empty.
func (s *Synthesizer) retrieve(ctx context.Context, query string) ([]knowledge.ScoredDocument, []websearch.Result) {
	var memory []knowledge.ScoredDocument
	var web []websearch.Result

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if s.store == nil {
			return nil
		}
		docs, err := s.store.Search(gctx, query, knowledge.SearchOptions{
			Limit:   s.memoryLimit,
			Filters: map[string]string{"type": "content"},
		})
		if err != nil {
			slog.Warn("knowledge store search failed, continuing without memory results",
				"query", query, "error", err)
			return nil
		}
		memory = docs
		return nil
	})

	g.Go(func() error {
		if s.searcher == nil {
			return nil
		}
		results, err := s.searcher.Search(gctx, query, s.webLimit)
		if err != nil {
			slog.Warn("web search failed, continuing without web results",
				"query", query, "error", err)
			return nil
		}
		web = results
		return nil
	})

	// Both goroutines swallow their errors, Wait only joins them.
	_ = g.Wait()

	return memory, web
}

// buildPrompt numbers the excerpts to match citation indices: memory first,
// then web.
func buildPrompt(query string, memory []knowledge.ScoredDocument, web []websearch.Result) []llms.Message {
	var sb strings.Builder

	sb.WriteString("Answer the question using only the numbered sources below. ")
	sb.WriteString("Reference sources inline by their index, e.g. [1].\n\n")

	index := 1
	if len(memory) > 0 {
		sb.WriteString("Knowledge base sources:\n")
		for _, doc := range memory {
			sb.WriteString(fmt.Sprintf("[%d] %s\n%s\n\n", index, doc.Title, doc.Content))
			index++
		}
	}
	if len(web) > 0 {
		sb.WriteString("Web sources:\n")
		for _, r := range web {
			sb.WriteString(fmt.Sprintf("[%d] %s\n%s\n\n", index, r.Title, r.Snippet))
			index++
		}
	}

	sb.WriteString("Question: ")
	sb.WriteString(query)

	return []llms.Message{
		{Role: llms.RoleSystem, Content: "You synthesize concise, citation-annotated answers from provided sources."},
		{Role: llms.RoleUser, Content: sb.String()},
	}
}
