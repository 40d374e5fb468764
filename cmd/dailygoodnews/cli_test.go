package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dailygoodnews/frontend/internal/content"
	"github.com/dailygoodnews/frontend/internal/errors"
)

// setupContent creates a content root holding every collection and a config file pointing at it.
func setupContent(t *testing.T, bodies map[content.Collection]string) string {
	t.Helper()
	root := t.TempDir()

	for _, col := range content.Collections {
		body, ok := bodies[col]
		if !ok {
			body = `[]`
		}
		if body == "" {
			continue
		}
		path := filepath.Join(root, col.RelPath())
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	configPath := filepath.Join(root, "config.json")
	cfg := fmt.Sprintf(`{"content_dir": %q}`, root)
	if err := os.WriteFile(configPath, []byte(cfg), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return configPath
}

// runApp runs the CLI with args and returns stdout, stderr and the error.
func runApp(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	app := newCLIApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.Reader = strings.NewReader(stdin)

	err := app.Run(append([]string{"dailygoodnews"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestCLISlug(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		stdin string
		want  string
	}{
		{name: "single argument", args: []string{"Hello World!"}, want: "hello-world\n"},
		{name: "several arguments", args: []string{"Big Update", "  A--B  "}, want: "big-update\na--b\n"},
		{name: "stdin lines", stdin: "First Post\n\nSecond, Post\n", want: "first-post\nsecond-post\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runApp(t, tt.stdin, append([]string{"slug"}, tt.args...)...)
			if err != nil {
				t.Fatalf("slug failed: %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestCLISlug_NoInput(t *testing.T) {
	_, _, err := runApp(t, "", "slug")
	if err == nil {
		t.Fatal("expected error without input")
	}
}

func TestCLICheck_Clean(t *testing.T) {
	configPath := setupContent(t, map[content.Collection]string{
		content.News:      `[{"heading": "Big Update"}, {"heading": "Other"}]`,
		content.StoryTime: `[{"heading": "Tale", "article": "<p>x</p>"}]`,
	})

	out, stderr, err := runApp(t, "", "--config", configPath, "check")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}

	var output CheckOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if !output.OK {
		t.Errorf("ok = false, want true: %s", out)
	}
	if len(output.Collections) != len(content.Collections) {
		t.Fatalf("collections = %d, want %d", len(output.Collections), len(content.Collections))
	}
	if output.Collections[0].Records != 2 {
		t.Errorf("news records = %d, want 2", output.Collections[0].Records)
	}
	if stderr != "" {
		t.Errorf("unexpected warnings: %q", stderr)
	}
}

func TestCLICheck_DuplicateSlugsWarnOnly(t *testing.T) {
	configPath := setupContent(t, map[content.Collection]string{
		content.CoffeeBreak: `[{"heading": "Morning Brew"}, {"heading": "morning brew!"}, {"heading": "Tea"}]`,
	})

	out, stderr, err := runApp(t, "", "--config", configPath, "check")
	if err != nil {
		t.Fatalf("duplicate slugs should not fail check: %v", err)
	}

	var output CheckOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	dups := output.Collections[1].DuplicateSlugs
	if got := dups["morning-brew"]; len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("duplicate_slugs = %v, want morning-brew: [0 1]", dups)
	}
	if !strings.Contains(stderr, `slug "morning-brew"`) {
		t.Errorf("expected duplicate warning, got %q", stderr)
	}
}

func TestCLICheck_Failures(t *testing.T) {
	tests := []struct {
		name   string
		bodies map[content.Collection]string
		want   func(t *testing.T, output CheckOutput)
	}{
		{
			name:   "missing heading",
			bodies: map[content.Collection]string{content.News: `[{"heading": "ok"}, {"summary": "no heading"}]`},
			want: func(t *testing.T, output CheckOutput) {
				missing := output.Collections[0].MissingFields
				if len(missing) != 1 || missing[0].Index != 1 || missing[0].Field != "heading" {
					t.Errorf("missing_fields = %v, want [{1 heading}]", missing)
				}
			},
		},
		{
			name:   "missing story body",
			bodies: map[content.Collection]string{content.StoryTime: `[{"heading": "Tale"}]`},
			want: func(t *testing.T, output CheckOutput) {
				missing := output.Collections[3].MissingFields
				if len(missing) != 1 || missing[0].Field != "article" {
					t.Errorf("missing_fields = %v, want [{0 article}]", missing)
				}
			},
		},
		{
			name:   "missing file",
			bodies: map[content.Collection]string{content.KnowledgeVault: ""},
			want: func(t *testing.T, output CheckOutput) {
				if output.Collections[2].Error == "" {
					t.Error("expected load error for knowledge_vault")
				}
			},
		},
		{
			name:   "malformed file",
			bodies: map[content.Collection]string{content.News: `{"heading": "not a list"}`},
			want: func(t *testing.T, output CheckOutput) {
				if !strings.Contains(output.Collections[0].Error, string(errors.ErrMalformedContent)) {
					t.Errorf("error = %q, want MALFORMED_CONTENT", output.Collections[0].Error)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := setupContent(t, tt.bodies)

			out, _, err := runApp(t, "", "--config", configPath, "check")
			if err == nil {
				t.Fatal("expected check to fail")
			}

			var output CheckOutput
			if err := json.Unmarshal([]byte(out), &output); err != nil {
				t.Fatalf("failed to unmarshal output: %v", err)
			}
			if output.OK {
				t.Error("ok = true, want false")
			}
			tt.want(t, output)
		})
	}
}

func TestCLIErrorHandling(t *testing.T) {
	t.Run("invalid config file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.json")
		if err := os.WriteFile(configPath, []byte(`{nope`), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, _, err := runApp(t, "", "--config", configPath, "check"); err == nil {
			t.Fatal("expected error for invalid config")
		}
	})

	t.Run("site error formatting", func(t *testing.T) {
		err := outputError(errors.NewNotFound("News item not found"))
		if err.Error() != "[NOT_FOUND] News item not found" {
			t.Errorf("error = %q, want %q", err.Error(), "[NOT_FOUND] News item not found")
		}
	})

	t.Run("plain error formatting", func(t *testing.T) {
		err := outputError(fmt.Errorf("boom"))
		if err.Error() != "boom" {
			t.Errorf("error = %q, want %q", err.Error(), "boom")
		}
	})
}

func TestReadLines(t *testing.T) {
	lines, err := readLines(strings.NewReader("  one \n\n two\n"))
	if err != nil {
		t.Fatalf("readLines() error = %v", err)
	}
	if len(lines) != 2 || lines[0] != "one" || lines[1] != "two" {
		t.Errorf("readLines() = %v, want [one two]", lines)
	}
}

func TestSortedSlugs(t *testing.T) {
	got := sortedSlugs(map[string][]int{"b": {1, 2}, "a": {0, 3}})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("sortedSlugs() = %v, want [a b]", got)
	}
}
