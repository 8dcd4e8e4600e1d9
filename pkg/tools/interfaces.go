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

// Package tools implements the schema-driven tool registry and the
// invocation pipeline that validates model-emitted calls before any handler
// runs.
package tools

import (
	"context"

	"github.com/relayagent/relay/pkg/schema"
)

// ToolExample is a worked input the prompt layer can show the model.
type ToolExample struct {
	Input       map[string]any `json:"input"`
	Description string         `json:"description"`
}

// ToolSchema declares a tool: a unique name, a human/model-readable
// description, and an object-typed parameter schema. Immutable once
// registered.
type ToolSchema struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Parameters  *schema.ParameterSchema `json:"parameters"`
	Examples    []ToolExample           `json:"examples,omitempty"`
}

// Handler executes a validated tool call. Parameters have already passed
// schema validation when a handler is invoked; the context carries the
// request's cancellation signal.
type Handler func(ctx context.Context, params map[string]any) (any, error)

// ToolResult is what flows back into the reasoning loop after an execution
// attempt. TokenCount estimates the cost of re-injecting Data into the model
// context.
type ToolResult struct {
	Success    bool   `json:"success"`
	Data       any    `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
	TokenCount int    `json:"token_count"`
}
