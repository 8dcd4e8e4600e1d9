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

// Package protocol defines the tool-call wire formats exchanged with the
// language model. Two encodings are accepted: a JSON object carrying a
// "tool" key, and an XML-like <tool_call> block. Serialization always emits
// the JSON form.
package protocol

import (
	"encoding/json"
	"strings"
)

// ToolCall is a tool invocation extracted from model output.
// Transient: parsed per turn and discarded once executed.
type ToolCall struct {
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
	Reasoning  string         `json:"reasoning"`
}

// wireCall is the JSON wire shape: {"tool": ..., "parameters": ..., "reasoning": ...}
type wireCall struct {
	Tool       string         `json:"tool"`
	Parameters map[string]any `json:"parameters"`
	Reasoning  string         `json:"reasoning"`
}

// Marshal serializes a tool call to its canonical JSON encoding.
// encoding/json sorts map keys, so equal inputs produce byte-identical
// output.
func Marshal(call *ToolCall) (string, error) {
	params := call.Parameters
	if params == nil {
		params = map[string]any{}
	}
	data, err := json.Marshal(wireCall{
		Tool:       call.Name,
		Parameters: params,
		Reasoning:  call.Reasoning,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Parse extracts a tool call from free-form model output. The JSON form is
// attempted first, then the XML-like fallback. Returns (nil, false) when no
// tool call is present; callers must not treat that as an error.
func Parse(text string) (*ToolCall, bool) {
	if call, ok := parseJSON(text); ok {
		return call, true
	}
	return parseXML(text)
}

// parseJSON locates the first balanced JSON object containing the key "tool"
// and decodes it. Missing parameters/reasoning default to an empty map and
// an empty string.
func parseJSON(text string) (*ToolCall, bool) {
	for start := 0; start < len(text); {
		open := strings.IndexByte(text[start:], '{')
		if open == -1 {
			return nil, false
		}
		open += start

		span, ok := balancedObject(text[open:])
		if !ok {
			start = open + 1
			continue
		}

		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(span), &obj); err != nil {
			start = open + 1
			continue
		}

		rawTool, hasTool := obj["tool"]
		if !hasTool {
			// An object without the key; keep scanning past it.
			start = open + 1
			continue
		}

		var name string
		if err := json.Unmarshal(rawTool, &name); err != nil || name == "" {
			// "tool" present but not a usable string; the JSON attempt
			// yields no call.
			return nil, false
		}

		call := &ToolCall{Name: name, Parameters: map[string]any{}}
		if raw, ok := obj["parameters"]; ok {
			var params map[string]any
			if err := json.Unmarshal(raw, &params); err == nil && params != nil {
				call.Parameters = params
			}
		}
		if raw, ok := obj["reasoning"]; ok {
			var reasoning string
			if err := json.Unmarshal(raw, &reasoning); err == nil {
				call.Reasoning = reasoning
			}
		}
		return call, true
	}
	return nil, false
}

// balancedObject returns the shortest prefix of text that forms a balanced
// {...} span, tracking strings and escapes so braces inside string literals
// do not count.
func balancedObject(text string) (string, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[:i+1], true
			}
		}
	}
	return "", false
}

// parseXML extracts a <tool_call> block. <name> is mandatory; <parameters>
// holds JSON and defaults to an empty map when absent or malformed;
// <reasoning> defaults to empty.
func parseXML(text string) (*ToolCall, bool) {
	block, ok := between(text, "<tool_call>", "</tool_call>")
	if !ok {
		return nil, false
	}

	name, ok := between(block, "<name>", "</name>")
	if !ok {
		return nil, false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}

	call := &ToolCall{Name: name, Parameters: map[string]any{}}

	if rawParams, ok := between(block, "<parameters>", "</parameters>"); ok {
		var params map[string]any
		if err := json.Unmarshal([]byte(strings.TrimSpace(rawParams)), &params); err == nil && params != nil {
			call.Parameters = params
		}
	}

	if reasoning, ok := between(block, "<reasoning>", "</reasoning>"); ok {
		call.Reasoning = strings.TrimSpace(reasoning)
	}

	return call, true
}

func between(text, open, close string) (string, bool) {
	start := strings.Index(text, open)
	if start == -1 {
		return "", false
	}
	start += len(open)

	end := strings.Index(text[start:], close)
	if end == -1 {
		return "", false
	}
	return text[start : start+end], true
}
