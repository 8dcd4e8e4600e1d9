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

// Package websearch provides the web retrieval source used during synthesis.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/relayagent/relay/pkg/config"
)

// Result is one web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Searcher retrieves web results for a query.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// DuckDuckGo queries the DuckDuckGo Instant Answer API. No API key needed.
type DuckDuckGo struct {
	client     *http.Client
	endpoint   string
	maxResults int
}

func NewDuckDuckGo(cfg *config.WebSearchConfig) *DuckDuckGo {
	return &DuckDuckGo{
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		endpoint:   cfg.Endpoint,
		maxResults: cfg.MaxResults,
	}
}

type ddgTopic struct {
	Text     string `json:"Text"`
	FirstURL string `json:"FirstURL"`
}

type ddgResponse struct {
	Abstract       string     `json:"Abstract"`
	AbstractURL    string     `json:"AbstractURL"`
	AbstractSource string     `json:"AbstractSource"`
	Results        []ddgTopic `json:"Results"`
	RelatedTopics  []ddgTopic `json:"RelatedTopics"`
}

func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if maxResults <= 0 {
		maxResults = d.maxResults
	}

	apiURL := fmt.Sprintf("%s/?q=%s&format=json&no_html=1&skip_disambig=1",
		d.endpoint, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, &TransportError{Op: "request", Err: err}
	}
	req.Header.Set("User-Agent", "relay/1.0")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Op: "request", Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	var ddg ddgResponse
	if err := json.NewDecoder(resp.Body).Decode(&ddg); err != nil {
		return nil, &TransportError{Op: "decode", Err: err}
	}

	var results []Result

	if ddg.Abstract != "" && ddg.AbstractURL != "" {
		results = append(results, Result{
			Title:   ddg.AbstractSource,
			URL:     ddg.AbstractURL,
			Snippet: ddg.Abstract,
		})
	}

	for _, r := range ddg.Results {
		if len(results) >= maxResults {
			break
		}
		results = append(results, Result{
			Title:   extractTitle(r.Text),
			URL:     r.FirstURL,
			Snippet: r.Text,
		})
	}

	for _, r := range ddg.RelatedTopics {
		if len(results) >= maxResults {
			break
		}
		if r.FirstURL != "" {
			results = append(results, Result{
				Title:   extractTitle(r.Text),
				URL:     r.FirstURL,
				Snippet: r.Text,
			})
		}
	}

	return results, nil
}

// extractTitle pulls the leading title from DuckDuckGo's "Title - Description"
// text format.
func extractTitle(text string) string {
	if idx := strings.Index(text, " - "); idx > 0 {
		return text[:idx]
	}
	if len(text) > 60 {
		return text[:60] + "..."
	}
	return text
}

var _ Searcher = (*DuckDuckGo)(nil)
