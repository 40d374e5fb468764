package content

import (
	"testing"

	siteerrors "github.com/dailygoodnews/frontend/internal/errors"
)

func TestDecorate_Slugs(t *testing.T) {
	articles := []Article{
		{"heading": "Big Update"},
		{"heading": "Hello World!"},
	}

	if err := Decorate(articles, false); err != nil {
		t.Fatalf("Decorate() error = %v", err)
	}
	if articles[0].Slug() != "big-update" {
		t.Errorf("slug = %q, want %q", articles[0].Slug(), "big-update")
	}
	if articles[1].Slug() != "hello-world" {
		t.Errorf("slug = %q, want %q", articles[1].Slug(), "hello-world")
	}
	if _, ok := articles[0][FieldImage]; ok {
		t.Error("image set without withImage")
	}
}

func TestDecorate_Images(t *testing.T) {
	articles := []Article{
		{"heading": "With Image", "article": `<p>x</p><img src="cover.png" onerror="x()"><img src="second.png">`},
		{"heading": "Without", "article": `<p>text only</p>`},
	}

	if err := Decorate(articles, true); err != nil {
		t.Fatalf("Decorate() error = %v", err)
	}
	if articles[0][FieldImage] != "cover.png" {
		t.Errorf("image = %v, want %q", articles[0][FieldImage], "cover.png")
	}
	if v, ok := articles[1][FieldImage]; !ok || v != nil {
		t.Errorf("image = %v (present %v), want nil", v, ok)
	}
	// the raw body is left untouched
	if articles[0].String(FieldArticle) == "" {
		t.Error("article body was cleared")
	}
}

func TestDecorate_MissingHeading(t *testing.T) {
	articles := []Article{{"heading": "ok"}, {"title": "no heading"}}

	err := Decorate(articles, false)
	if !siteerrors.Is(err, siteerrors.ErrMissingField) {
		t.Fatalf("Decorate() error = %v, want MISSING_FIELD", err)
	}
	if siteerrors.StatusOf(err) != 500 {
		t.Errorf("StatusOf = %d, want 500", siteerrors.StatusOf(err))
	}
}

func TestDecorate_NonStringHeading(t *testing.T) {
	err := Decorate([]Article{{"heading": 42.0}}, false)
	if !siteerrors.Is(err, siteerrors.ErrMissingField) {
		t.Fatalf("Decorate() error = %v, want MISSING_FIELD", err)
	}
}

func TestDecorate_MissingStoryBody(t *testing.T) {
	err := Decorate([]Article{{"heading": "Story"}}, true)
	if !siteerrors.Is(err, siteerrors.ErrMissingField) {
		t.Fatalf("Decorate() error = %v, want MISSING_FIELD", err)
	}
}

func TestFindBySlug(t *testing.T) {
	articles := []Article{
		{"heading": "First Story", "n": 1.0},
		{"heading": "Rock & Roll", "n": 2.0},
		{"heading": "Rock  Roll", "n": 3.0},
	}

	tests := []struct {
		name      string
		id        string
		wantFound bool
		wantN     float64
	}{
		{name: "exact", id: "first-story", wantFound: true, wantN: 1},
		{name: "uppercase parameter", id: "FIRST-Story", wantFound: true, wantN: 1},
		{name: "collision first wins", id: "rock--roll", wantFound: true, wantN: 2},
		{name: "missing", id: "missing-slug", wantFound: false},
		{name: "empty", id: "", wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found, err := FindBySlug(articles, tt.id)
			if err != nil {
				t.Fatalf("FindBySlug() error = %v", err)
			}
			if found != tt.wantFound {
				t.Fatalf("found = %v, want %v", found, tt.wantFound)
			}
			if found && got["n"] != tt.wantN {
				t.Errorf("n = %v, want %v", got["n"], tt.wantN)
			}
		})
	}
}

func TestFindBySlug_MissingHeadingBeforeMatch(t *testing.T) {
	articles := []Article{{"title": "broken"}, {"heading": "Target"}}

	_, _, err := FindBySlug(articles, "target")
	if !siteerrors.Is(err, siteerrors.ErrMissingField) {
		t.Fatalf("FindBySlug() error = %v, want MISSING_FIELD", err)
	}
}

func TestDuplicateSlugs(t *testing.T) {
	articles := []Article{
		{"heading": "Rock & Roll"},
		{"heading": "Unique"},
		{"heading": "Rock  Roll"},
		{"title": "no heading"},
	}

	dups := DuplicateSlugs(articles)
	if len(dups) != 1 {
		t.Fatalf("len(dups) = %d, want 1 (%v)", len(dups), dups)
	}
	idx := dups["rock--roll"]
	if len(idx) != 2 || idx[0] != 0 || idx[1] != 2 {
		t.Fatalf("dups[rock--roll] = %v, want [0 2]", idx)
	}
}
