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

// Command relay is the CLI for the relay retrieval-synthesis agent.
//
// Usage:
//
//	relay ask "what is a fox" --config config.yaml
//	relay tools --config config.yaml
//	relay index ./docs --config config.yaml
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/relayagent/relay/pkg/config"
	"github.com/relayagent/relay/pkg/knowledge"
	"github.com/relayagent/relay/pkg/logger"
	"github.com/relayagent/relay/pkg/session"
	"github.com/relayagent/relay/pkg/synthesis"
)

// CLI defines the command-line interface.
type CLI struct {
	Version VersionCmd `cmd:"" help:"Show version information."`
	Ask     AskCmd     `cmd:"" help:"Ask a question and get a cited answer."`
	Tools   ToolsCmd   `cmd:"" help:"List registered tools."`
	Index   IndexCmd   `cmd:"" help:"Index text files into the knowledge base."`

	Config    string `short:"c" help:"Path to config file." type:"path" default:"config.yaml"`
	LogLevel  string `help:"Log level (debug, info, warn, error)." default:"info"`
	LogFormat string `help:"Log format (simple or verbose)." default:"simple"`
}

func (cli *CLI) loadSession() (*session.Session, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return session.New(cfg)
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Printf("relay version %s\n", version)
	return nil
}

// AskCmd runs one synthesis request.
type AskCmd struct {
	Query    string `arg:"" help:"The question to answer."`
	NoStream bool   `help:"Print the full answer at once instead of streaming."`
}

func (c *AskCmd) Run(cli *CLI) error {
	sess, err := cli.loadSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var onToken func(string)
	if !c.NoStream {
		onToken = func(tok string) { fmt.Print(tok) }
	}

	result, err := sess.Ask(ctx, c.Query, onToken)
	if err != nil {
		return err
	}

	if c.NoStream {
		fmt.Println(result.Answer)
	} else {
		fmt.Println()
	}

	if len(result.Citations) > 0 {
		fmt.Println("\nSources:")
		fmt.Println(synthesis.FormatCitations(result.Citations))
	}
	if result.ConflictDisclaimer != "" {
		fmt.Printf("\n%s\n", result.ConflictDisclaimer)
	}
	return nil
}

// ToolsCmd lists the session's registered tools.
type ToolsCmd struct{}

func (c *ToolsCmd) Run(cli *CLI) error {
	sess, err := cli.loadSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	for _, s := range sess.Registry().ListSchemas() {
		fmt.Printf("%s\n  %s\n", s.Name, s.Description)
		if s.Parameters != nil && len(s.Parameters.Required) > 0 {
			fmt.Printf("  required: %s\n", strings.Join(s.Parameters.Required, ", "))
		}
	}
	return nil
}

// IndexCmd loads text files into the knowledge store.
type IndexCmd struct {
	Path string `arg:"" help:"File or directory of text files to index." type:"path"`
}

func (c *IndexCmd) Run(cli *CLI) error {
	sess, err := cli.loadSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	store := sess.Store()
	if store == nil {
		return fmt.Errorf("knowledge store is not configured")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	indexed := 0
	err = filepath.WalkDir(c.Path, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isTextFile(path) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if len(strings.TrimSpace(string(content))) == 0 {
			return nil
		}

		doc := knowledge.Document{
			ID:        uuid.NewString(),
			Content:   string(content),
			Title:     filepath.Base(path),
			SourceURL: "file://" + path,
			Metadata:  map[string]any{"type": "content"},
		}
		if err := store.Add(ctx, doc); err != nil {
			return fmt.Errorf("failed to index %s: %w", path, err)
		}
		indexed++
		fmt.Printf("indexed %s\n", path)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("done: %d documents indexed\n", indexed)
	return nil
}

func isTextFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".markdown", ".rst":
		return true
	default:
		return false
	}
}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("relay"),
		kong.Description("relay - retrieval-synthesis agent with tool orchestration"),
		kong.UsageOnError(),
	)

	logger.Init(logger.ParseLevel(cli.LogLevel), os.Stderr, cli.LogFormat)

	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
