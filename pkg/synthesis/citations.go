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

package synthesis

import (
	"fmt"
	"strings"

	"github.com/relayagent/relay/pkg/knowledge"
	"github.com/relayagent/relay/pkg/websearch"
)

// Citation sources.
const (
	SourceMemory = "memory"
	SourceWeb    = "web"
)

// Citation ties part of a synthesized answer to one source document.
type Citation struct {
	Index  int    `json:"index"`
	Source string `json:"source"`
	URL    string `json:"url"`
	Title  string `json:"title"`
}

// BuildCitations assigns 1-based indices with every memory citation strictly
// before every web citation, each source keeping its internal order. Stored
// knowledge is presented as authoritative context ahead of transient web
// results, independent of relevance scores.
func BuildCitations(memory []knowledge.ScoredDocument, web []websearch.Result) []Citation {
	citations := make([]Citation, 0, len(memory)+len(web))

	index := 1
	for _, doc := range memory {
		citations = append(citations, Citation{
			Index:  index,
			Source: SourceMemory,
			URL:    doc.SourceURL,
			Title:  doc.Title,
		})
		index++
	}
	for _, r := range web {
		citations = append(citations, Citation{
			Index:  index,
			Source: SourceWeb,
			URL:    r.URL,
			Title:  r.Title,
		})
		index++
	}

	return citations
}

// FormatCitations renders citations for display, one per line, in index
// order. The label pair is a stable contract: memory sources read
// "[Knowledge Base]", web sources "[Web Source]".
func FormatCitations(citations []Citation) string {
	lines := make([]string, 0, len(citations))
	for _, c := range citations {
		label := "[Web Source]"
		if c.Source == SourceMemory {
			label = "[Knowledge Base]"
		}
		lines = append(lines, fmt.Sprintf("[%d] %s %s — %s", c.Index, label, c.Title, c.URL))
	}
	return strings.Join(lines, "\n")
}
