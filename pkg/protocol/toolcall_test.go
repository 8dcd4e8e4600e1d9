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

package protocol

import (
	"reflect"
	"testing"
)

func TestMarshal_Deterministic(t *testing.T) {
	call := &ToolCall{
		Name: "search",
		Parameters: map[string]any{
			"query": "fox",
			"limit": float64(5),
			"deep":  map[string]any{"b": true, "a": "x"},
		},
		Reasoning: "need info",
	}

	first, err := Marshal(call)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Marshal(call)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if again != first {
			t.Fatalf("Marshal() not deterministic: %q vs %q", first, again)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		call *ToolCall
	}{
		{
			name: "full call",
			call: &ToolCall{
				Name:       "search",
				Parameters: map[string]any{"query": "fox jumping over dog", "limit": float64(3)},
				Reasoning:  "the user asked about foxes",
			},
		},
		{
			name: "empty reasoning",
			call: &ToolCall{
				Name:       "remember",
				Parameters: map[string]any{"content": "note"},
				Reasoning:  "",
			},
		},
		{
			name: "no parameters",
			call: &ToolCall{
				Name:       "noop",
				Parameters: map[string]any{},
				Reasoning:  "just checking",
			},
		},
		{
			name: "nested parameters",
			call: &ToolCall{
				Name: "search",
				Parameters: map[string]any{
					"filters": map[string]any{"type": "content"},
					"tags":    []any{"a", "b"},
				},
				Reasoning: "structured",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := Marshal(tt.call)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}

			parsed, ok := Parse(encoded)
			if !ok {
				t.Fatalf("Parse() failed on %q", encoded)
			}
			if parsed.Name != tt.call.Name {
				t.Errorf("Name = %q, want %q", parsed.Name, tt.call.Name)
			}
			if parsed.Reasoning != tt.call.Reasoning {
				t.Errorf("Reasoning = %q, want %q", parsed.Reasoning, tt.call.Reasoning)
			}
			if !reflect.DeepEqual(parsed.Parameters, tt.call.Parameters) {
				t.Errorf("Parameters = %#v, want %#v", parsed.Parameters, tt.call.Parameters)
			}

			// Second round trip must be lossless too
			encoded2, err := Marshal(parsed)
			if err != nil {
				t.Fatalf("second Marshal() error = %v", err)
			}
			if encoded2 != encoded {
				t.Errorf("second round trip diverged: %q vs %q", encoded2, encoded)
			}
		})
	}
}

func TestParse_JSONEmbeddedInProse(t *testing.T) {
	text := `I'll look that up for you.

{"tool": "search", "parameters": {"query": "weather"}, "reasoning": "user asked"}

Let me know if you need more.`

	call, ok := Parse(text)
	if !ok {
		t.Fatal("Parse() failed")
	}
	if call.Name != "search" {
		t.Errorf("Name = %q, want search", call.Name)
	}
	if call.Parameters["query"] != "weather" {
		t.Errorf("query = %v, want weather", call.Parameters["query"])
	}
	if call.Reasoning != "user asked" {
		t.Errorf("Reasoning = %q", call.Reasoning)
	}
}

func TestParse_SkipsObjectsWithoutToolKey(t *testing.T) {
	text := `{"note": "not a call"} then {"tool": "search", "parameters": {"query": "x"}}`

	call, ok := Parse(text)
	if !ok {
		t.Fatal("Parse() failed")
	}
	if call.Name != "search" {
		t.Errorf("Name = %q, want search", call.Name)
	}
}

func TestParse_JSONDefaults(t *testing.T) {
	call, ok := Parse(`{"tool": "search"}`)
	if !ok {
		t.Fatal("Parse() failed")
	}
	if call.Parameters == nil || len(call.Parameters) != 0 {
		t.Errorf("Parameters = %#v, want empty map", call.Parameters)
	}
	if call.Reasoning != "" {
		t.Errorf("Reasoning = %q, want empty", call.Reasoning)
	}
}

func TestParse_BracesInsideStrings(t *testing.T) {
	call, ok := Parse(`{"tool": "search", "parameters": {"query": "find {braces} and \"quotes\""}}`)
	if !ok {
		t.Fatal("Parse() failed")
	}
	if call.Parameters["query"] != `find {braces} and "quotes"` {
		t.Errorf("query = %v", call.Parameters["query"])
	}
}

func TestParse_XMLFallback(t *testing.T) {
	text := `<tool_call>
<name>search</name>
<parameters>{"query": "golang", "limit": 2}</parameters>
<reasoning>checking docs</reasoning>
</tool_call>`

	call, ok := Parse(text)
	if !ok {
		t.Fatal("Parse() failed")
	}
	if call.Name != "search" {
		t.Errorf("Name = %q, want search", call.Name)
	}
	if call.Parameters["query"] != "golang" {
		t.Errorf("query = %v", call.Parameters["query"])
	}
	if call.Reasoning != "checking docs" {
		t.Errorf("Reasoning = %q", call.Reasoning)
	}
}

func TestParse_XMLDefaults(t *testing.T) {
	// Malformed parameters JSON degrades to an empty map
	call, ok := Parse(`<tool_call><name>ping</name><parameters>not json</parameters></tool_call>`)
	if !ok {
		t.Fatal("Parse() failed")
	}
	if len(call.Parameters) != 0 {
		t.Errorf("Parameters = %#v, want empty", call.Parameters)
	}
	if call.Reasoning != "" {
		t.Errorf("Reasoning = %q, want empty", call.Reasoning)
	}
}

func TestParse_XMLMissingNameFails(t *testing.T) {
	_, ok := Parse(`<tool_call><parameters>{"a": 1}</parameters></tool_call>`)
	if ok {
		t.Error("expected parse failure without <name>")
	}
}

func TestParse_NoToolCallPresent(t *testing.T) {
	tests := []string{
		"",
		"plain prose with no call at all",
		`{"unrelated": "object"}`,
		"{ broken json",
		`{"tool": 42}`,
	}

	for _, text := range tests {
		if call, ok := Parse(text); ok {
			t.Errorf("Parse(%q) = %+v, want none", text, call)
		}
	}
}
