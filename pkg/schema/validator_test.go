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

package schema

import (
	"strings"
	"testing"
)

func objectSchema(required []string, props map[string]*ParameterSchema) *ParameterSchema {
	return &ParameterSchema{
		Type:       TypeObject,
		Required:   required,
		Properties: props,
	}
}

func TestValidate_RequiredParameters(t *testing.T) {
	s := objectSchema([]string{"query"}, map[string]*ParameterSchema{
		"query": {Type: TypeString},
	})

	result := Validate(map[string]any{}, s)
	if result.Valid {
		t.Fatal("expected invalid result for missing required parameter")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(result.Errors), result.Errors)
	}
	if result.Errors[0] != "Missing required parameter: query" {
		t.Errorf("unexpected error: %q", result.Errors[0])
	}

	// Explicit null counts as absent
	result = Validate(map[string]any{"query": nil}, s)
	if result.Valid {
		t.Error("expected invalid result for null required parameter")
	}
}

func TestValidate_TypeMismatch(t *testing.T) {
	tests := []struct {
		name      string
		schema    *ParameterSchema
		value     any
		wantError string
	}{
		{
			name:      "number for string",
			schema:    &ParameterSchema{Type: TypeString},
			value:     float64(42),
			wantError: "field: expected string, got number",
		},
		{
			name:      "string for number",
			schema:    &ParameterSchema{Type: TypeNumber},
			value:     "five",
			wantError: "field: expected number, got string",
		},
		{
			name:      "string for boolean",
			schema:    &ParameterSchema{Type: TypeBoolean},
			value:     "true",
			wantError: "field: expected boolean, got string",
		},
		{
			name:      "object for array",
			schema:    &ParameterSchema{Type: TypeArray},
			value:     map[string]any{},
			wantError: "field: expected array, got object",
		},
		{
			name:      "array for object",
			schema:    &ParameterSchema{Type: TypeObject},
			value:     []any{},
			wantError: "field: expected object, got array",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := objectSchema(nil, map[string]*ParameterSchema{"field": tt.schema})
			result := Validate(map[string]any{"field": tt.value}, s)
			if result.Valid {
				t.Fatal("expected invalid result")
			}
			if result.Errors[0] != tt.wantError {
				t.Errorf("error = %q, want %q", result.Errors[0], tt.wantError)
			}
		})
	}
}

func TestValidate_IntegersAreNumbers(t *testing.T) {
	s := objectSchema(nil, map[string]*ParameterSchema{
		"limit": {Type: TypeNumber},
	})
	result := Validate(map[string]any{"limit": 5}, s)
	if !result.Valid {
		t.Errorf("expected int to satisfy number, got %v", result.Errors)
	}
}

func TestValidate_Enum(t *testing.T) {
	s := objectSchema(nil, map[string]*ParameterSchema{
		"mode": {Type: TypeString, Enum: []string{"content", "file"}},
	})

	result := Validate(map[string]any{"mode": "content"}, s)
	if !result.Valid {
		t.Errorf("expected valid result, got %v", result.Errors)
	}

	result = Validate(map[string]any{"mode": "bogus"}, s)
	if result.Valid {
		t.Fatal("expected invalid result for enum violation")
	}
	want := "mode: value must be one of [content, file]"
	if result.Errors[0] != want {
		t.Errorf("error = %q, want %q", result.Errors[0], want)
	}
}

func TestValidate_NestedPaths(t *testing.T) {
	s := objectSchema(nil, map[string]*ParameterSchema{
		"a": {
			Type: TypeObject,
			Properties: map[string]*ParameterSchema{
				"b": {
					Type:  TypeArray,
					Items: &ParameterSchema{Type: TypeObject, Properties: map[string]*ParameterSchema{"c": {Type: TypeString}}},
				},
			},
		},
	})

	params := map[string]any{
		"a": map[string]any{
			"b": []any{
				map[string]any{"c": "ok"},
				map[string]any{"c": "ok"},
				map[string]any{"c": float64(1)},
			},
		},
	}

	result := Validate(params, s)
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	want := "a.b[2].c: expected string, got number"
	if result.Errors[0] != want {
		t.Errorf("error = %q, want %q", result.Errors[0], want)
	}
}

func TestValidate_UnknownPropertiesAllowed(t *testing.T) {
	s := objectSchema([]string{"query"}, map[string]*ParameterSchema{
		"query": {Type: TypeString},
	})

	result := Validate(map[string]any{"query": "x", "extra": 42}, s)
	if !result.Valid {
		t.Errorf("unknown properties must not be flagged, got %v", result.Errors)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	s := objectSchema([]string{"query"}, map[string]*ParameterSchema{
		"query": {Type: TypeString},
		"limit": {Type: TypeNumber},
	})

	result := Validate(map[string]any{"limit": "ten"}, s)
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(result.Errors), result.Errors)
	}

	joined := strings.Join(result.Errors, "; ")
	if !strings.Contains(joined, "Missing required parameter: query") {
		t.Errorf("missing required-parameter error in %q", joined)
	}
	if !strings.Contains(joined, "limit: expected number, got string") {
		t.Errorf("missing type error in %q", joined)
	}
}

func TestValidate_NilSchema(t *testing.T) {
	result := Validate(map[string]any{"anything": true}, nil)
	if !result.Valid {
		t.Error("nil schema must accept any value")
	}
}
