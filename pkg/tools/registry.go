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

package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/relayagent/relay/pkg/protocol"
	"github.com/relayagent/relay/pkg/registry"
	"github.com/relayagent/relay/pkg/schema"
)

// ToolEntry pairs a declared schema with its handler.
type ToolEntry struct {
	Schema  ToolSchema
	Handler Handler
}

// Registry holds schema+handler pairs keyed by tool name. Re-registering a
// name overwrites the prior entry.
type Registry struct {
	*registry.BaseRegistry[ToolEntry]
}

func NewRegistry() *Registry {
	return &Registry{
		BaseRegistry: registry.NewBaseRegistry[ToolEntry](),
	}
}

// RegisterTool validates the declaration and stores it. Fails fast on an
// empty name or description, a missing or non-object parameter schema, or a
// nil handler.
func (r *Registry) RegisterTool(s ToolSchema, handler Handler) error {
	if s.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if s.Description == "" {
		return fmt.Errorf("tool description cannot be empty")
	}
	if s.Parameters == nil || s.Parameters.Type != schema.TypeObject {
		return fmt.Errorf("tool parameters must be an object schema")
	}
	if handler == nil {
		return fmt.Errorf("tool handler cannot be nil")
	}
	return r.Register(s.Name, ToolEntry{Schema: s, Handler: handler})
}

// Unregister removes a tool; removing an unknown name is a no-op.
func (r *Registry) Unregister(name string) {
	_ = r.Remove(name)
}

// GetSchema returns the declared schema for name.
func (r *Registry) GetSchema(name string) (ToolSchema, bool) {
	entry, exists := r.Get(name)
	if !exists {
		return ToolSchema{}, false
	}
	return entry.Schema, true
}

// ListSchemas returns all registered schemas sorted by name for consistent
// output.
func (r *Registry) ListSchemas() []ToolSchema {
	entries := r.List()
	schemas := make([]ToolSchema, 0, len(entries))
	for _, entry := range entries {
		schemas = append(schemas, entry.Schema)
	}
	sort.Slice(schemas, func(i, j int) bool {
		return schemas[i].Name < schemas[j].Name
	})
	return schemas
}

// ValidateCall checks a parsed call against the registered schema. An
// unknown tool name yields an invalid result listing every registered name
// so the calling model can self-correct.
func (r *Registry) ValidateCall(call *protocol.ToolCall) schema.ValidationResult {
	entry, exists := r.Get(call.Name)
	if !exists {
		return schema.Invalid(fmt.Sprintf(
			"Unknown tool: %s. Available tools: %s",
			call.Name, strings.Join(r.Names(), ", ")))
	}
	return schema.Validate(call.Parameters, entry.Schema.Parameters)
}
