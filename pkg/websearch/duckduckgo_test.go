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
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/relayagent/relay/pkg/config"
)

func newTestSearcher(url string) *DuckDuckGo {
	return NewDuckDuckGo(&config.WebSearchConfig{
		Provider: "duckduckgo", Endpoint: url, MaxResults: 5, Timeout: 5,
	})
}

func TestDuckDuckGo_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "brown fox" {
			t.Errorf("q = %q", got)
		}
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("format = %q", got)
		}
		json.NewEncoder(w).Encode(ddgResponse{
			Abstract:       "Foxes are small omnivorous mammals.",
			AbstractURL:    "https://en.wikipedia.org/wiki/Fox",
			AbstractSource: "Wikipedia",
			RelatedTopics: []ddgTopic{
				{Text: "Red fox - The largest of the true foxes", FirstURL: "https://example.com/red-fox"},
				{Text: "orphan topic without url", FirstURL: ""},
			},
		})
	}))
	defer server.Close()

	results, err := newTestSearcher(server.URL).Search(context.Background(), "brown fox", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Title != "Wikipedia" || results[0].URL != "https://en.wikipedia.org/wiki/Fox" {
		t.Errorf("abstract result = %+v", results[0])
	}
	if results[1].Title != "Red fox" {
		t.Errorf("Title = %q, want title extracted before ' - '", results[1].Title)
	}
}

func TestDuckDuckGo_SearchRespectsMaxResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		topics := make([]ddgTopic, 10)
		for i := range topics {
			topics[i] = ddgTopic{Text: "topic", FirstURL: "https://example.com"}
		}
		json.NewEncoder(w).Encode(ddgResponse{RelatedTopics: topics})
	}))
	defer server.Close()

	results, err := newTestSearcher(server.URL).Search(context.Background(), "q", 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 3 {
		t.Errorf("len(results) = %d, want 3", len(results))
	}
}

func TestDuckDuckGo_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestSearcher(server.URL).Search(context.Background(), "q", 5)
	if err == nil {
		t.Fatal("expected error")
	}
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Errorf("error = %T, want *TransportError", err)
	}
}

func TestDuckDuckGo_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := newTestSearcher(server.URL).Search(context.Background(), "q", 5)
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("error = %v, want *TransportError", err)
	}
	if terr.Op != "decode" {
		t.Errorf("Op = %q, want decode", terr.Op)
	}
}
