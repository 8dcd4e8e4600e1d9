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
	"fmt"
	"sort"
	"strings"
)

// Validate checks a parameter map against an object schema. Required-ness is
// checked by presence: a missing key and an explicit null are equivalent.
// Unknown extra properties are not flagged; the schema is permissive.
func Validate(params map[string]any, s *ParameterSchema) ValidationResult {
	if s == nil {
		return Valid()
	}

	var errs []string

	for _, name := range s.Required {
		if v, ok := params[name]; !ok || v == nil {
			errs = append(errs, fmt.Sprintf("Missing required parameter: %s", name))
		}
	}

	for _, name := range sortedKeys(s.Properties) {
		value, ok := params[name]
		if !ok || value == nil {
			continue
		}
		validateValue(name, value, s.Properties[name], &errs)
	}

	if len(errs) > 0 {
		return ValidationResult{Valid: false, Errors: errs}
	}
	return Valid()
}

// validateValue recursively validates a single value, appending one error per
// offending field. Paths use dot/bracket notation, e.g. "a.b[2].c".
func validateValue(path string, value any, s *ParameterSchema, errs *[]string) {
	if s == nil || value == nil {
		return
	}

	switch s.Type {
	case TypeString:
		str, ok := value.(string)
		if !ok {
			*errs = append(*errs, typeError(path, TypeString, value))
			return
		}
		if len(s.Enum) > 0 && !containsString(s.Enum, str) {
			*errs = append(*errs, fmt.Sprintf("%s: value must be one of [%s]", path, strings.Join(s.Enum, ", ")))
		}

	case TypeNumber:
		if !isNumber(value) {
			*errs = append(*errs, typeError(path, TypeNumber, value))
		}

	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			*errs = append(*errs, typeError(path, TypeBoolean, value))
		}

	case TypeArray:
		items, ok := value.([]any)
		if !ok {
			*errs = append(*errs, typeError(path, TypeArray, value))
			return
		}
		if s.Items != nil {
			for i, item := range items {
				if item == nil {
					continue
				}
				validateValue(fmt.Sprintf("%s[%d]", path, i), item, s.Items, errs)
			}
		}

	case TypeObject:
		obj, ok := value.(map[string]any)
		if !ok {
			*errs = append(*errs, typeError(path, TypeObject, value))
			return
		}
		for _, name := range s.Required {
			if v, present := obj[name]; !present || v == nil {
				*errs = append(*errs, fmt.Sprintf("Missing required parameter: %s.%s", path, name))
			}
		}
		for _, name := range sortedKeys(s.Properties) {
			v, present := obj[name]
			if !present || v == nil {
				continue
			}
			validateValue(path+"."+name, v, s.Properties[name], errs)
		}
	}
}

func typeError(path, expected string, value any) string {
	return fmt.Sprintf("%s: expected %s, got %s", path, expected, typeName(value))
}

// typeName reports the JSON-level type of a decoded value.
func typeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int32, int64, uint, uint32, uint64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func isNumber(value any) bool {
	switch value.(type) {
	case float64, float32, int, int32, int64, uint, uint32, uint64:
		return true
	default:
		return false
	}
}

// sortedKeys keeps error ordering deterministic across runs.
func sortedKeys(m map[string]*ParameterSchema) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
