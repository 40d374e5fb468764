// Package content reads the article collections from their JSON sources and
// applies the request-scoped decorations (slug, image) the pages rely on.
package content

import (
	"fmt"
	"maps"
	"path/filepath"
	"strings"
)

// Collection names a content source. The value doubles as the directory and
// file stem under the content root.
type Collection string

const (
	News           Collection = "news"
	CoffeeBreak    Collection = "coffee_break"
	KnowledgeVault Collection = "knowledge_vault"
	StoryTime      Collection = "story_time"
)

// Collections lists every known collection in display order.
var Collections = []Collection{News, CoffeeBreak, KnowledgeVault, StoryTime}

var titles = map[Collection]string{
	News:           "News",
	CoffeeBreak:    "Coffee Break",
	KnowledgeVault: "Knowledge Vault",
	StoryTime:      "Story Time",
}

// ParseCollection resolves a collection by name, accepting hyphens for underscores.
func ParseCollection(s string) (Collection, error) {
	name := Collection(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if _, ok := titles[name]; !ok {
		return "", fmt.Errorf("unknown collection %q", s)
	}
	return name, nil
}

// RelPath is the collection's file path relative to the content root.
func (c Collection) RelPath() string {
	return filepath.Join(string(c), string(c)+".json")
}

// Title is the human-readable collection name.
func (c Collection) Title() string {
	return titles[c]
}

// Well-known record fields.
const (
	FieldHeading = "heading"
	FieldSlug    = "slug"
	FieldImage   = "image"
	FieldArticle = "article"
)

// Article is one decoded record. Fields beyond heading vary per collection
// and are passed to templates untouched.
type Article map[string]any

// Heading returns the record's heading and whether it is present as a string.
func (a Article) Heading() (string, bool) {
	s, ok := a[FieldHeading].(string)
	return s, ok
}

// Slug returns the decorated slug, or "" before Decorate ran.
func (a Article) Slug() string {
	return a.String(FieldSlug)
}

// String returns a string field, or "" when absent or not a string.
func (a Article) String(key string) string {
	s, _ := a[key].(string)
	return s
}

// Clone returns a copy whose top-level keys can be decorated independently.
func (a Article) Clone() Article {
	return maps.Clone(a)
}

func cloneAll(articles []Article) []Article {
	out := make([]Article, len(articles))
	for i, a := range articles {
		out[i] = a.Clone()
	}
	return out
}
