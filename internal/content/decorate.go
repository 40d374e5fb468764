package content

import (
	siteerrors "github.com/dailygoodnews/frontend/internal/errors"
	"github.com/dailygoodnews/frontend/internal/markup"
	"github.com/dailygoodnews/frontend/internal/slug"
)

// Decorate sets the slug on every record and, when withImage is true, the
// first image found in the raw article body (nil when there is none).
// Records are modified in place; callers own the slice for this request only.
func Decorate(articles []Article, withImage bool) error {
	for i, a := range articles {
		heading, ok := a.Heading()
		if !ok {
			return siteerrors.NewMissingField(FieldHeading, i)
		}
		a[FieldSlug] = slug.Make(heading)

		if !withImage {
			continue
		}
		body, ok := a[FieldArticle].(string)
		if !ok {
			return siteerrors.NewMissingField(FieldArticle, i)
		}
		if src, found := markup.ExtractFirstImage(body); found {
			a[FieldImage] = src
		} else {
			a[FieldImage] = nil
		}
	}
	return nil
}

// FindBySlug returns the first record whose heading slugs to id, comparing
// case-insensitively. Later records sharing the slug are never reachable.
func FindBySlug(articles []Article, id string) (Article, bool, error) {
	for i, a := range articles {
		heading, ok := a.Heading()
		if !ok {
			return nil, false, siteerrors.NewMissingField(FieldHeading, i)
		}
		if slug.Equal(id, heading) {
			return a, true, nil
		}
	}
	return nil, false, nil
}

// DuplicateSlugs maps each slug shared by more than one record to the
// indexes of those records, in file order. Records without a heading are skipped.
func DuplicateSlugs(articles []Article) map[string][]int {
	seen := make(map[string][]int)
	for i, a := range articles {
		heading, ok := a.Heading()
		if !ok {
			continue
		}
		s := slug.Make(heading)
		seen[s] = append(seen[s], i)
	}

	dups := make(map[string][]int)
	for s, idx := range seen {
		if len(idx) > 1 {
			dups[s] = idx
		}
	}
	return dups
}
