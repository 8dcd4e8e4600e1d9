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

// Package embedders provides text embedding providers used by vector-backed
// knowledge stores.
package embedders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/relayagent/relay/pkg/config"
	"github.com/relayagent/relay/pkg/httpclient"
)

// Provider converts text into a vector.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	Close() error
}

// NewProvider builds an embedder from config.
func NewProvider(cfg *config.EmbedderConfig) (Provider, error) {
	switch cfg.Type {
	case "openai":
		return NewOpenAIEmbedder(cfg)
	case "ollama":
		return NewOllamaEmbedder(cfg)
	default:
		return nil, fmt.Errorf("unsupported embedder type: %s", cfg.Type)
	}
}

func newEmbedderClient(timeout int) *httpclient.Client {
	return httpclient.New(
		httpclient.WithHTTPClient(&http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		}),
	)
}

func postJSON(ctx context.Context, client *httpclient.Client, url string, headers map[string]string, payload any, out any) error {
	requestBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(requestBody))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(requestBody)), nil
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if resp != nil && resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("embedding request failed with status %d: %s", resp.StatusCode, string(body))
	}
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	if resp == nil {
		return fmt.Errorf("HTTP request failed: no response received")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// OpenAIEmbedder calls the OpenAI embeddings API.
type OpenAIEmbedder struct {
	config     *config.EmbedderConfig
	httpClient *httpclient.Client
}

type openAIEmbedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type openAIEmbedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewOpenAIEmbedder(cfg *config.EmbedderConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai embedder requires an API key")
	}
	return &OpenAIEmbedder{
		config:     cfg,
		httpClient: newEmbedderClient(cfg.Timeout),
	}, nil
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var response openAIEmbedResponse
	err := postJSON(ctx, e.httpClient, e.config.Host+"/v1/embeddings",
		map[string]string{"Authorization": "Bearer " + e.config.APIKey},
		openAIEmbedRequest{Model: e.config.Model, Input: text},
		&response)
	if err != nil {
		return nil, err
	}
	if response.Error != nil {
		return nil, fmt.Errorf("OpenAI API error: %s", response.Error.Message)
	}
	if len(response.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return response.Data[0].Embedding, nil
}

func (e *OpenAIEmbedder) Dimension() int {
	return e.config.Dimension
}

func (e *OpenAIEmbedder) Close() error {
	return nil
}

// OllamaEmbedder calls the native Ollama embeddings API.
type OllamaEmbedder struct {
	config     *config.EmbedderConfig
	httpClient *httpclient.Client
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}

func NewOllamaEmbedder(cfg *config.EmbedderConfig) (*OllamaEmbedder, error) {
	return &OllamaEmbedder{
		config:     cfg,
		httpClient: newEmbedderClient(cfg.Timeout),
	}, nil
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var response ollamaEmbedResponse
	err := postJSON(ctx, e.httpClient, e.config.Host+"/api/embeddings", nil,
		ollamaEmbedRequest{Model: e.config.Model, Prompt: text},
		&response)
	if err != nil {
		return nil, err
	}
	if response.Error != "" {
		return nil, fmt.Errorf("Ollama API error: %s", response.Error)
	}
	if len(response.Embedding) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return response.Embedding, nil
}

func (e *OllamaEmbedder) Dimension() int {
	return e.config.Dimension
}

func (e *OllamaEmbedder) Close() error {
	return nil
}
