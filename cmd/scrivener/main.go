// Copyright 2025 Poiesic Systems
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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/scrivener"
	"github.com/poiesic/scrivener/ai"
	"github.com/poiesic/scrivener/core"
	"github.com/poiesic/scrivener/outline"
	"github.com/poiesic/scrivener/pipeline"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "scrivener",
		Usage: "Retrieval-augmented training document generator",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "outline",
				Usage:     "Plan the section outline for a document without generating content",
				ArgsUsage: "FILE [FILE...]",
				Action:    outlineCommand,
				Flags:     append(workspaceFlags(), backgroundFlags()...),
			},
			{
				Name:      "generate",
				Usage:     "Generate a full training document from source files",
				ArgsUsage: "FILE [FILE...]",
				Action:    generateCommand,
				Flags: append(append(workspaceFlags(), backgroundFlags()...),
					&cli.StringFlag{
						Name:  "outline-file",
						Usage: "Use a prepared outline (numbered list or markdown headings) instead of planning one",
					},
					&cli.StringFlag{
						Name:    "output-dir",
						Aliases: []string{"o"},
						Usage:   "Directory for generated documents and usage sidecars",
						Value:   "out",
					},
					&cli.StringFlag{
						Name:  "author",
						Usage: "Email tag recorded on persisted artifacts",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Maximum concurrent section tasks",
						Value: 8,
					},
					&cli.DurationFlag{
						Name:  "call-timeout",
						Usage: "Timeout for each model call attempt",
						Value: 2 * time.Minute,
					},
					&cli.DurationFlag{
						Name:  "run-timeout",
						Usage: "Overall deadline for the run (0 disables)",
					},
					&cli.Float64Flag{
						Name:  "prompt-rate",
						Usage: "Cost per 1000 prompt tokens",
					},
					&cli.Float64Flag{
						Name:  "completion-rate",
						Usage: "Cost per 1000 completion tokens",
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func workspaceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB workspace directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "completion-host",
			Usage: "Completion service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL (defaults to completion-host)",
		},
		&cli.StringFlag{
			Name:     "completion-model",
			Usage:    "Completion model name",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "embedding-model",
			Usage:    "Embedding model name",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "api-token",
			Usage:   "API token for the model services",
			EnvVars: []string{"SCRIVENER_API_TOKEN"},
		},
	}
}

func backgroundFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "title",
			Aliases:  []string{"t"},
			Usage:    "Title of the document to generate",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "audience",
			Usage: "Intended audience of the document",
		},
		&cli.StringFlag{
			Name:  "company",
			Usage: "Company name used in prompts",
		},
		&cli.StringSliceFlag{
			Name:  "goal",
			Usage: "Learning goal (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "content-need",
			Usage: "Required content element (repeatable)",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Formatting preferences for the generated text",
		},
	}
}

func outlineCommand(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("at least one source file is required")
	}

	workspace, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer workspace.Close()

	p, err := workspace.NewPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	o, report, err := p.GenerateOutline(context.Background(), paths, backgroundFrom(c))
	if err != nil {
		return fmt.Errorf("outline generation failed: %w", err)
	}

	if report.OutlineSource == outline.SourceFallback {
		fmt.Fprintln(os.Stderr, "note: model response was unusable, default outline substituted")
	}
	for i, section := range o.Sections {
		indent := strings.Repeat("  ", section.Level-1)
		fmt.Printf("%s%d. %s\n", indent, i+1, section.Title)
	}
	return nil
}

func generateCommand(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("at least one source file is required")
	}

	var existing *core.Outline
	if outlinePath := c.String("outline-file"); outlinePath != "" {
		data, err := os.ReadFile(outlinePath)
		if err != nil {
			return fmt.Errorf("failed to read outline file: %w", err)
		}
		parsed, ok := outline.Parse(string(data))
		if !ok {
			return fmt.Errorf("outline file %q contains no usable sections", outlinePath)
		}
		existing = &parsed
	}

	workspace, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer workspace.Close()

	config := pipeline.DefaultConfig()
	config.Workers = c.Int("workers")
	config.CallTimeout = c.Duration("call-timeout")
	config.RunTimeout = c.Duration("run-timeout")
	config.OutputDir = c.String("output-dir")
	config.Author = c.String("author")
	config.Rates.PromptPer1K = c.Float64("prompt-rate")
	config.Rates.CompletionPer1K = c.Float64("completion-rate")

	p, err := workspace.NewPipeline(pipeline.WithConfig(config))
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	doc, report, err := p.GenerateFullDocument(context.Background(), paths, backgroundFrom(c), existing)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Sections: %d\n", len(doc.Sections))
	fmt.Fprintf(os.Stderr, "Tasks: %d done, %d degraded\n", report.TasksDone, report.TasksDegraded)
	fmt.Fprintf(os.Stderr, "Tokens: %d prompt, %d completion\n",
		report.Usage.PromptTokens, report.Usage.CompletionTokens)
	if report.Usage.TotalCost > 0 {
		fmt.Fprintf(os.Stderr, "Cost: $%.4f\n", report.Usage.TotalCost)
	}
	if report.PersistErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: document not persisted: %v\n", report.PersistErr)
		fmt.Print(doc.Markdown)
		return nil
	}
	fmt.Fprintf(os.Stderr, "Document: %s\n", report.Artifact.DocumentPath)
	fmt.Fprintf(os.Stderr, "Usage: %s\n", report.Artifact.UsagePath)
	return nil
}

func openWorkspace(c *cli.Context) (*scrivener.Workspace, error) {
	completionHost := c.String("completion-host")
	embeddingHost := c.String("embedding-host")
	if embeddingHost == "" {
		embeddingHost = completionHost
	}

	aiConfig := ai.NewConfig(
		ai.WithCompletionHost(completionHost),
		ai.WithEmbeddingHost(embeddingHost),
		ai.WithCompletionModel(c.String("completion-model")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithAPIToken(c.String("api-token")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	workspace, err := scrivener.OpenWorkspace(c.String("db"), scrivener.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace: %w", err)
	}
	return workspace, nil
}

func backgroundFrom(c *cli.Context) core.Background {
	return core.Background{
		Title:             c.String("title"),
		Audience:          c.String("audience"),
		Company:           c.String("company"),
		Goals:             c.StringSlice("goal"),
		ContentNeeds:      c.StringSlice("content-need"),
		FormatPreferences: c.String("format"),
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
