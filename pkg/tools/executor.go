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
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/relayagent/relay/pkg/protocol"
	"github.com/relayagent/relay/pkg/utils"
)

// Executor validates and runs tool calls. Validation always happens before
// the handler is touched: handlers may perform network calls or cost money,
// so an invalid call must have no side effects at all.
type Executor struct {
	registry *Registry
}

func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry}
}

// Execute runs a parsed tool call. Handler errors and panics are converted
// to a failed ToolResult; nothing propagates to the caller as an error.
func (e *Executor) Execute(ctx context.Context, call *protocol.ToolCall) ToolResult {
	result := e.registry.ValidateCall(call)
	if !result.Valid {
		return ToolResult{
			Success: false,
			Error:   "Validation failed: " + strings.Join(result.Errors, "; "),
		}
	}

	// The registry could have changed between validation and lookup.
	entry, exists := e.registry.Get(call.Name)
	if !exists {
		return ToolResult{
			Success: false,
			Error:   fmt.Sprintf("Tool not found: %s", call.Name),
		}
	}

	return invoke(ctx, entry.Handler, call.Parameters)
}

func invoke(ctx context.Context, handler Handler, params map[string]any) (result ToolResult) {
	defer func() {
		if r := recover(); r != nil {
			result = ToolResult{
				Success: false,
				Error:   fmt.Sprintf("tool handler panicked: %v", r),
			}
		}
	}()

	data, err := handler(ctx, params)
	if err != nil {
		return ToolResult{Success: false, Error: err.Error()}
	}

	return ToolResult{
		Success:    true,
		Data:       data,
		TokenCount: estimateDataTokens(data),
	}
}

// estimateDataTokens prices the result for re-injection into the model
// context.
func estimateDataTokens(data any) int {
	if data == nil {
		return 0
	}
	if s, ok := data.(string); ok {
		return utils.EstimateTokens(s)
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return 0
	}
	return utils.EstimateTokens(string(encoded))
}
