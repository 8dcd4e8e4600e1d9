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

// Package schema declares the recursive parameter schema used to describe
// tool inputs, and validates untrusted parameter values against it before
// any handler runs.
package schema

const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// ParameterSchema is a recursive structural type description.
// Properties applies to object schemas, Items to array schemas.
type ParameterSchema struct {
	Type        string                      `json:"type" yaml:"type"`
	Properties  map[string]*ParameterSchema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Items       *ParameterSchema            `json:"items,omitempty" yaml:"items,omitempty"`
	Required    []string                    `json:"required,omitempty" yaml:"required,omitempty"`
	Enum        []string                    `json:"enum,omitempty" yaml:"enum,omitempty"`
	Description string                      `json:"description,omitempty" yaml:"description,omitempty"`
}

// ValidationResult reports the outcome of validating a value tree.
// A value is valid iff Errors is empty.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

func Valid() ValidationResult {
	return ValidationResult{Valid: true}
}

func Invalid(errors ...string) ValidationResult {
	return ValidationResult{Valid: false, Errors: errors}
}
