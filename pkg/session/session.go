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

// Package session wires the tool registry, executor, request lifecycle and
// retrieval collaborators into one agent-facing object. All shared state is
// owned per session instance; nothing is process-global.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/relayagent/relay/pkg/config"
	"github.com/relayagent/relay/pkg/embedders"
	"github.com/relayagent/relay/pkg/knowledge"
	"github.com/relayagent/relay/pkg/llms"
	"github.com/relayagent/relay/pkg/protocol"
	"github.com/relayagent/relay/pkg/request"
	"github.com/relayagent/relay/pkg/schema"
	"github.com/relayagent/relay/pkg/synthesis"
	"github.com/relayagent/relay/pkg/tools"
	"github.com/relayagent/relay/pkg/websearch"
)

// Session owns one agent conversation's tool surface and collaborators.
type Session struct {
	config   *config.Config
	registry *tools.Registry
	executor *tools.Executor
	requests *request.Manager

	llm      llms.Provider
	embedder embedders.Provider
	store    knowledge.Store
	searcher websearch.Searcher
	synth    *synthesis.Synthesizer
}

// New builds a session and all collaborators from config.
func New(cfg *config.Config) (*Session, error) {
	llm, err := llms.NewProvider(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}

	var embedder embedders.Provider
	if cfg.Embedder != nil {
		embedder, err = embedders.NewProvider(cfg.Embedder)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedder: %w", err)
		}
	}

	var store knowledge.Store
	if cfg.Knowledge != nil {
		store, err = knowledge.NewStore(cfg.Knowledge, embedder)
		if err != nil {
			return nil, fmt.Errorf("failed to create knowledge store: %w", err)
		}
	}

	var searcher websearch.Searcher
	if cfg.WebSearch != nil {
		searcher = websearch.NewDuckDuckGo(cfg.WebSearch)
	}

	return NewWithCollaborators(cfg, llm, embedder, store, searcher)
}

// NewWithCollaborators builds a session around pre-built collaborators.
func NewWithCollaborators(cfg *config.Config, llm llms.Provider, embedder embedders.Provider, store knowledge.Store, searcher websearch.Searcher) (*Session, error) {
	if llm == nil {
		return nil, fmt.Errorf("LLM provider is required")
	}

	var synthOpts []synthesis.Option
	if cfg.Knowledge != nil && cfg.Knowledge.DefaultLimit > 0 {
		synthOpts = append(synthOpts, synthesis.WithMemoryLimit(cfg.Knowledge.DefaultLimit))
	}
	if cfg.WebSearch != nil && cfg.WebSearch.MaxResults > 0 {
		synthOpts = append(synthOpts, synthesis.WithWebLimit(cfg.WebSearch.MaxResults))
	}

	s := &Session{
		config:   cfg,
		registry: tools.NewRegistry(),
		requests: request.NewManager(),
		llm:      llm,
		embedder: embedder,
		store:    store,
		searcher: searcher,
		synth:    synthesis.New(llm, store, searcher, synthOpts...),
	}
	s.executor = tools.NewExecutor(s.registry)

	if err := s.registerBuiltins(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) registerBuiltins() error {
	searchSchema := tools.ToolSchema{
		Name:        "search",
		Description: "Search the knowledge base and the web, returning a synthesized answer with citations",
		Parameters: &schema.ParameterSchema{
			Type:     schema.TypeObject,
			Required: []string{"query"},
			Properties: map[string]*schema.ParameterSchema{
				"query": {Type: schema.TypeString, Description: "The search query"},
			},
		},
		Examples: []tools.ToolExample{
			{Input: map[string]any{"query": "current Go release"}, Description: "look something up"},
		},
	}
	if err := s.registry.RegisterTool(searchSchema, s.handleSearch); err != nil {
		return err
	}

	rememberSchema := tools.ToolSchema{
		Name:        "remember",
		Description: "Store a piece of information in the knowledge base for later retrieval",
		Parameters: &schema.ParameterSchema{
			Type:     schema.TypeObject,
			Required: []string{"content"},
			Properties: map[string]*schema.ParameterSchema{
				"content":    {Type: schema.TypeString, Description: "The text to remember"},
				"title":      {Type: schema.TypeString, Description: "Short title for the entry"},
				"source_url": {Type: schema.TypeString, Description: "Where the information came from"},
			},
		},
	}
	return s.registry.RegisterTool(rememberSchema, s.handleRemember)
}

// handleSearch is the registered handler behind the "search" tool. A missing
// web-search configuration fails fast here rather than degrading, because
// search is the sole operation of this tool; per-source degradation only
// applies to transport failures of configured collaborators.
func (s *Session) handleSearch(ctx context.Context, params map[string]any) (any, error) {
	if s.searcher == nil {
		return nil, fmt.Errorf("%w: set the web_search section in the config", websearch.ErrNotConfigured)
	}

	query, _ := params["query"].(string)
	result, err := s.synth.Synthesize(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"answer":    result.Answer,
		"citations": synthesis.FormatCitations(result.Citations),
	}, nil
}

func (s *Session) handleRemember(ctx context.Context, params map[string]any) (any, error) {
	if s.store == nil {
		return nil, fmt.Errorf("knowledge store is not configured")
	}

	content, _ := params["content"].(string)
	title, _ := params["title"].(string)
	sourceURL, _ := params["source_url"].(string)

	doc := knowledge.Document{
		ID:        uuid.NewString(),
		Content:   content,
		Title:     title,
		SourceURL: sourceURL,
		Metadata:  map[string]any{"type": "content"},
	}
	if err := s.store.Add(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	return map[string]any{"id": doc.ID, "stored": true}, nil
}

// HandleModelOutput scans free-form model output for an embedded tool call
// and executes it. The second return value reports whether a call was
// present; absence is not an error.
func (s *Session) HandleModelOutput(ctx context.Context, text string) (tools.ToolResult, bool) {
	call, ok := protocol.Parse(text)
	if !ok {
		return tools.ToolResult{}, false
	}

	slog.Debug("executing tool call", "tool", call.Name)
	return s.executor.Execute(ctx, call), true
}

// Ask runs one cancellable synthesis request end to end. The request is
// tracked in the lifecycle manager for its whole duration and removed on
// every exit path.
func (s *Session) Ask(ctx context.Context, query string, onToken func(string)) (*synthesis.Result, error) {
	return s.AskTracked(ctx, query, nil, onToken)
}

// AskTracked is Ask with the tracked request ID reported through onStart
// before retrieval begins, so a UI can target this request with
// Requests().Cancel(id) while it is in flight.
func (s *Session) AskTracked(ctx context.Context, query string, onStart func(requestID string), onToken func(string)) (*synthesis.Result, error) {
	handle := s.requests.Create(ctx)
	defer s.requests.Complete(handle.ID)

	if onStart != nil {
		onStart(handle.ID)
	}

	return s.synth.Synthesize(handle.Context(), query, onToken)
}

// Requests exposes the lifecycle manager so callers can cancel in-flight
// work by request ID.
func (s *Session) Requests() *request.Manager {
	return s.requests
}

// Registry exposes the tool registry for introspection and custom tools.
func (s *Session) Registry() *tools.Registry {
	return s.registry
}

// Synthesizer exposes the underlying synthesizer for direct use.
func (s *Session) Synthesizer() *synthesis.Synthesizer {
	return s.synth
}

// Store exposes the knowledge store, nil when not configured.
func (s *Session) Store() knowledge.Store {
	return s.store
}

// Close cancels all in-flight requests and releases collaborators.
func (s *Session) Close() error {
	s.requests.CancelAll()

	var firstErr error
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			firstErr = err
		}
	}
	if s.embedder != nil {
		if err := s.embedder.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := s.llm.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
