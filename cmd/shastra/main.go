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
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/shastra"
	"github.com/poiesic/shastra/config"
	"github.com/poiesic/shastra/convert"
	"github.com/poiesic/shastra/core"
	"github.com/poiesic/shastra/indexing"
	"github.com/poiesic/shastra/rag"
	"github.com/poiesic/shastra/reembed"
	"github.com/poiesic/shastra/server"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "shastra",
		Usage: "Grounded question answering over Indian scriptures",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config file",
				Value:   config.DefaultPath,
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Dotenv file holding API keys",
				Value: ".env",
			},
		},
		Before: func(c *cli.Context) error {
			if err := setupLogger(c); err != nil {
				return err
			}
			return loadEnv(c.String("env-file"))
		},
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Convert and embed catalog texts into the corpus store",
				Action: buildCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "text",
						Aliases: []string{"t"},
						Usage:   "Build only the named text (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Report embedding progress on stderr",
						Value: true,
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Re-embed stored texts with the configured embedding model",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "text",
						Aliases: []string{"t"},
						Usage:   "Re-embed only the named text (repeatable)",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "address",
						Aliases: []string{"a"},
						Usage:   "Listen address (overrides the config)",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask a single question",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "text",
						Aliases: []string{"t"},
						Usage:   "Answer from one named text only",
					},
					&cli.StringSliceFlag{
						Name:  "compare",
						Usage: "Compare two or more named texts (repeatable)",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Show the passages retrieved for a query, without generation",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "text",
						Aliases: []string{"t"},
						Usage:   "Search one named text only",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"k"},
						Usage:   "Maximum number of hits",
						Value:   5,
					},
				},
			},
			{
				Name:   "texts",
				Usage:  "List the texts in the corpus store",
				Action: textsCommand,
			},
		},
	}
}

func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func openShastra(c *cli.Context) (*shastra.Shastra, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	return shastra.Open(c.Context, cfg)
}

func buildCommand(c *cli.Context) error {
	s, err := openShastra(c)
	if err != nil {
		return err
	}
	defer s.Close()

	texts, err := selectTexts(s.Config(), c.StringSlice("text"))
	if err != nil {
		return err
	}

	var opts []indexing.Option
	if c.Bool("progress") {
		opts = append(opts, indexing.WithProgressWriter(os.Stderr))
	}
	builder, err := s.NewBuilder(opts...)
	if err != nil {
		return err
	}
	defer builder.Release()

	registry := convert.NewRegistry()
	out := c.App.Writer
	built := 0
	for _, text := range texts {
		if _, err := os.Stat(text.Source); err != nil {
			fmt.Fprintf(out, "SKIP: %s (source not found at %s)\n", text.Name, text.Source)
			continue
		}
		scripture, err := s.BuildText(c.Context, builder, registry, text)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Built %s: %d passages\n", scripture.Name, scripture.Count)
		built++
	}
	fmt.Fprintf(out, "%d of %d texts built\n", built, len(texts))
	return nil
}

// selectTexts returns the catalog entries named, or the whole catalog.
func selectTexts(cfg *config.Config, names []string) ([]config.TextConfig, error) {
	if len(names) == 0 {
		return cfg.Texts, nil
	}
	texts := make([]config.TextConfig, 0, len(names))
	for _, name := range names {
		text, ok := cfg.Text(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not in the catalog", core.ErrScriptureNotFound, name)
		}
		texts = append(texts, text)
	}
	return texts, nil
}

func reembedCommand(c *cli.Context) error {
	s, err := openShastra(c)
	if err != nil {
		return err
	}
	defer s.Close()

	builder, err := s.NewBuilder(indexing.WithProgressWriter(os.Stderr))
	if err != nil {
		return err
	}
	defer builder.Release()

	reembedder, err := reembed.NewReembedder(s.CorpusRepository(), builder, os.Stderr)
	if err != nil {
		return err
	}
	rebuilt, err := reembedder.Run(c.Context, c.StringSlice("text")...)
	if err != nil {
		return err
	}
	for _, scripture := range rebuilt {
		fmt.Fprintf(c.App.Writer, "Re-embedded %s: %d passages\n", scripture.Name, scripture.Count)
	}
	return nil
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openShastra(c)
	if err != nil {
		return err
	}
	defer s.Close()

	if len(s.Store().Names()) == 0 {
		slog.Warn("corpus store is empty; run shastra build first")
	}

	pipeline, err := s.NewPipeline()
	if err != nil {
		return err
	}
	srv, err := server.New(pipeline, s.Store(),
		server.WithLogger(slog.Default()),
		server.WithCORSOrigins(s.Config().Server.CORSOrigins...))
	if err != nil {
		return err
	}

	address := c.String("address")
	if address == "" {
		address = s.Config().Server.Address
	}
	return srv.Start(ctx, address)
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return errors.New("a question is required")
	}

	s, err := openShastra(c)
	if err != nil {
		return err
	}
	defer s.Close()

	pipeline, err := s.NewPipeline()
	if err != nil {
		return err
	}

	result, err := pipeline.Answer(c.Context, &core.QueryRequest{
		Question:     question,
		TextFilter:   c.String("text"),
		CompareTexts: c.StringSlice("compare"),
	})
	if err != nil {
		return err
	}
	printAnswer(c.App.Writer, result)
	return nil
}

func printAnswer(w io.Writer, result *rag.Result) {
	heading := color.New(color.FgCyan, color.Bold)
	reference := color.New(color.FgGreen, color.Bold)
	faint := color.New(color.Faint)

	fmt.Fprintln(w, result.Response.Answer)
	if len(result.Response.Verses) == 0 {
		return
	}

	fmt.Fprintln(w)
	heading.Fprintln(w, "Sources")
	for _, v := range result.Response.Verses {
		reference.Fprint(w, v.Passage.Reference())
		faint.Fprintf(w, "  (%.3f)\n", v.Score)
		fmt.Fprintf(w, "  %s\n", v.Passage.Translation)
	}
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return errors.New("a query is required")
	}
	limit := c.Int("limit")
	if limit < 1 {
		return fmt.Errorf("limit must be positive, got %d", limit)
	}

	s, err := openShastra(c)
	if err != nil {
		return err
	}
	defer s.Close()

	name := c.String("text")
	if name != "" {
		if err := s.Store().CheckNames(name); err != nil {
			return err
		}
	}

	vector, err := s.Provider().Embedder().EmbedText(c.Context, query)
	if err != nil {
		return err
	}

	var hits []core.RetrievedPassage
	if name != "" {
		hits, err = s.Store().Search(name, vector, limit)
		if err != nil {
			return err
		}
	} else {
		hits = s.Store().SearchAll(vector, limit, limit)
	}

	printHits(c.App.Writer, hits)
	return nil
}

func printHits(w io.Writer, hits []core.RetrievedPassage) {
	fmt.Fprintf(w, "Found %d hits\n", len(hits))
	for i, hit := range hits {
		fmt.Fprintf(w, "%d: %s '%s' [%0.3f]\n", i, hit.Passage.Reference(), hit.Passage.Translation, hit.Score)
	}
}

func textsCommand(c *cli.Context) error {
	s, err := openShastra(c)
	if err != nil {
		return err
	}
	defer s.Close()

	printTexts(c.App.Writer, s.Store().Scriptures())
	return nil
}

func printTexts(w io.Writer, scriptures []core.Scripture) {
	if len(scriptures) == 0 {
		fmt.Fprintln(w, "No texts built yet.")
		return
	}
	bold := color.New(color.Bold)
	for _, sc := range scriptures {
		bold.Fprintf(w, "%-16s", sc.Name)
		fmt.Fprintf(w, " %-14s %6d passages\n", sc.Tradition, sc.Count)
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
