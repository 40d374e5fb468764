package web

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dailygoodnews/frontend/internal/content"
	"github.com/dailygoodnews/frontend/internal/errors"
	"github.com/dailygoodnews/frontend/internal/markup"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title        string
	Version      string
	Nav          string // active nav item: "home", "articles", "knowledge_vault", "story_time"
	Verification string
	Now          time.Time
}

// ListPageData is the template data for collection list pages.
type ListPageData struct {
	PageData
	Collection content.Collection
	Items      []content.Article
}

// DetailPageData is the template data for a single record page.
type DetailPageData struct {
	PageData
	Collection content.Collection
	Item       content.Article
}

// pages maps template names to their files. Every page is parsed on top of layout.html.
var pages = map[string]string{
	"home":            "home.html",
	"news_item":       "news_item.html",
	"articles":        "articles.html",
	"article_item":    "article_item.html",
	"knowledge_vault": "knowledge_vault.html",
	"knowledge_item":  "knowledge_item.html",
	"story_time":      "story_time.html",
	"story_item":      "story_item.html",
	"about":           "about.html",
	"contact":         "contact.html",
	"privacy_policy":  "privacy_policy.html",
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
	logger    *slog.Logger
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string, logger *slog.Logger) (*Renderer, error) {
	funcMap := template.FuncMap{
		"sanitize_html": sanitizeHTML,
		"markdown":      renderMarkdown,
		"image_url":     imageURL,
		"year":          func(t time.Time) int { return t.Year() },
	}

	layoutTmpl, err := template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t, err := layoutTmpl.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", file, err)
		}
		if _, err := t.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
		logger:    logger,
	}, nil
}

// renderPage renders a named page template with the given data and HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, req *http.Request, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		r.logger.Error("template not found", "template", name, "path", req.URL.Path)
		writeText(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// Render into a buffer so a failing template never produces half a page.
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.logger.Error("template execution error", "template", name, "path", req.URL.Path, "error", err)
		writeText(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// renderError writes a short plain-text response. Not-found errors carry
// their message to the visitor; everything else is an opaque 500.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	status := errors.StatusOf(err)
	if status == http.StatusNotFound {
		var sErr *errors.SiteError
		msg := "Not found"
		if stderrors.As(err, &sErr) {
			msg = sErr.Message
		}
		r.logger.Debug("not found", "path", req.URL.Path, "error", err)
		writeText(w, http.StatusNotFound, msg)
		return
	}

	r.logger.Error("request failed", "path", req.URL.Path, "status", status, "error", err)
	writeText(w, http.StatusInternalServerError, "internal server error")
}

// writeText writes msg as the whole plain-text body, without a trailing newline.
func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

// sanitizeHTML is the template filter for HTML-bearing content fields.
func sanitizeHTML(v any) template.HTML {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return template.HTML(markup.Sanitize(s))
}

// imageURL trusts an extracted image source for use in src attributes.
// Sources with other schemes render as an empty attribute.
func imageURL(v any) template.URL {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	src, ok := markup.ImageURL(s)
	if !ok {
		return ""
	}
	return template.URL(src)
}

// renderMarkdown converts a markdown content field to sanitized HTML.
func renderMarkdown(v any) template.HTML {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	out, err := markup.RenderMarkdown(s)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(out)
}
