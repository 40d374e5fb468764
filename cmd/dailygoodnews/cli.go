package main

import (
	"bufio"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dailygoodnews/frontend/internal/config"
	"github.com/dailygoodnews/frontend/internal/content"
	"github.com/dailygoodnews/frontend/internal/errors"
	"github.com/dailygoodnews/frontend/internal/mcp"
	"github.com/dailygoodnews/frontend/internal/slug"
	"github.com/dailygoodnews/frontend/internal/web"
)

// newCLIApp creates the CLI application with all commands.
// Running without a command starts the HTTP server.
func newCLIApp() *cli.App {
	app := &cli.App{
		Name:    "dailygoodnews",
		Usage:   "Serve the Daily Good News site from its JSON collections",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				EnvVars: []string{"DGN_CONFIG"},
				Usage:   "Path to a JSON config file (optional)",
			},
		},
		Action: serveAction,
		Commands: []*cli.Command{
			serveCmd(),
			mcpCmd(),
			checkCmd(),
			slugCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd creates the serve command.
func serveCmd() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP server (default)",
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return outputError(err)
	}
	logger := newLogger(cfg, c.App.ErrWriter)

	source, closeSource, err := openSource(cfg, logger)
	if err != nil {
		return outputError(err)
	}
	defer closeSource()

	srv, err := web.NewServer(cfg, source, logger, Version)
	if err != nil {
		return outputError(err)
	}
	return web.Run(srv, logger)
}

// mcpCmd creates the mcp command.
func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the read-only content tools as an MCP server over stdio",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return outputError(err)
			}
			// stdout carries the protocol, so logs go to stderr only
			logger := newLogger(cfg, c.App.ErrWriter)

			if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
				logger.Warn("ignoring unknown disabled tools", "tools", unknown)
			}

			source, closeSource, err := openSource(cfg, logger)
			if err != nil {
				return outputError(err)
			}
			defer closeSource()

			return mcp.Run(source, cfg, Version)
		},
	}
}

// CollectionReport is the check result for one collection.
type CollectionReport struct {
	Name           string           `json:"name"`
	Path           string           `json:"path"`
	Records        int              `json:"records"`
	MissingFields  []MissingField   `json:"missing_fields,omitempty"`
	DuplicateSlugs map[string][]int `json:"duplicate_slugs,omitempty"`
	Error          string           `json:"error,omitempty"`
}

// MissingField names a record lacking a field the pages need.
type MissingField struct {
	Index int    `json:"index"`
	Field string `json:"field"`
}

// CheckOutput is the check command result.
type CheckOutput struct {
	OK          bool               `json:"ok"`
	Collections []CollectionReport `json:"collections"`
}

// checkCmd creates the check command.
func checkCmd() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Validate the content collections",
		Description: "Loads every collection and reports records missing required fields and slugs shared by\n" +
			"several records. Shared slugs are warnings: the first record wins. Load failures and missing\n" +
			"fields make the command exit non-zero.",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return outputError(err)
			}

			output := checkContent(c, content.NewFileStore(cfg.ContentDir))
			if err := outputJSON(c.App.Writer, output); err != nil {
				return err
			}
			for _, report := range output.Collections {
				for _, s := range sortedSlugs(report.DuplicateSlugs) {
					fmt.Fprintf(c.App.ErrWriter, "warning: %s: slug %q shared by records %v, only the first is reachable\n",
						report.Name, s, report.DuplicateSlugs[s])
				}
			}
			if !output.OK {
				return cli.Exit("content check failed", 1)
			}
			return nil
		},
	}
}

func checkContent(c *cli.Context, store *content.FileStore) CheckOutput {
	output := CheckOutput{OK: true}
	for _, col := range content.Collections {
		report := CollectionReport{Name: string(col), Path: col.RelPath()}

		articles, err := store.Load(c.Context, col)
		if err != nil {
			report.Error = err.Error()
			output.OK = false
			output.Collections = append(output.Collections, report)
			continue
		}

		report.Records = len(articles)
		for i, a := range articles {
			if _, ok := a.Heading(); !ok {
				report.MissingFields = append(report.MissingFields, MissingField{Index: i, Field: content.FieldHeading})
			}
			if col == content.StoryTime {
				if _, ok := a[content.FieldArticle].(string); !ok {
					report.MissingFields = append(report.MissingFields, MissingField{Index: i, Field: content.FieldArticle})
				}
			}
		}
		if len(report.MissingFields) > 0 {
			output.OK = false
		}
		if dups := content.DuplicateSlugs(articles); len(dups) > 0 {
			report.DuplicateSlugs = dups
		}

		output.Collections = append(output.Collections, report)
	}
	return output
}

// slugCmd creates the slug command.
func slugCmd() *cli.Command {
	return &cli.Command{
		Name:      "slug",
		Usage:     "Print the URL slug for each argument, or for each stdin line when none are given",
		ArgsUsage: "[text...]",
		Action: func(c *cli.Context) error {
			inputs := c.Args().Slice()
			if len(inputs) == 0 {
				lines, err := readLines(c.App.Reader)
				if err != nil {
					return outputError(err)
				}
				inputs = lines
			}
			if len(inputs) == 0 {
				return cli.Exit("slug requires text arguments or stdin input", 1)
			}

			for _, text := range inputs {
				fmt.Fprintln(c.App.Writer, slug.Make(text))
			}
			return nil
		},
	}
}

// Helper functions

// loadConfig reads the config named by the global --config flag.
func loadConfig(c *cli.Context) (*config.Config, error) {
	return config.Load(c.String("config"))
}

// newLogger returns a text logger at the configured level.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// openSource returns the content source for cfg and a func releasing it.
func openSource(cfg *config.Config, logger *slog.Logger) (content.Source, func(), error) {
	store := content.NewFileStore(cfg.ContentDir)
	if !cfg.CacheContent {
		return store, func() {}, nil
	}

	cached, err := content.NewCachedStore(store, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("watch content: %w", err)
	}
	return cached, func() {
		if err := cached.Close(); err != nil {
			logger.Warn("close content watcher", "error", err)
		}
	}, nil
}

// outputJSON marshals result to w as JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var sErr *errors.SiteError
	if stderrors.As(err, &sErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// readLines returns the non-blank lines of r.
func readLines(r io.Reader) ([]string, error) {
	if r == nil {
		return nil, nil
	}
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

// sortedSlugs returns the keys of a duplicate-slug map in order.
func sortedSlugs(dups map[string][]int) []string {
	keys := make([]string, 0, len(dups))
	for k := range dups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
