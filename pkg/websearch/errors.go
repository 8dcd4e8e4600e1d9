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

package websearch

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when a search is attempted without a
// configured provider. Callers distinguish this from transport failures:
// an unconfigured provider is a fail-fast tool error, a transport failure
// degrades to empty results during synthesis.
var ErrNotConfigured = errors.New("web search is not configured")

// TransportError wraps a network or decode failure from the search provider.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("web search %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
