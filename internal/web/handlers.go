package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dailygoodnews/frontend/internal/config"
	"github.com/dailygoodnews/frontend/internal/content"
	"github.com/dailygoodnews/frontend/internal/errors"
)

// collectionRoute describes how one collection is listed and looked up.
type collectionRoute struct {
	collection content.Collection
	listPage   string
	detailPage string
	title      string
	nav        string
	notFound   string
	withImage  bool
}

var (
	newsRoute = collectionRoute{
		collection: content.News,
		listPage:   "home",
		detailPage: "news_item",
		title:      "News",
		nav:        "home",
		notFound:   "News item not found",
	}
	coffeeBreakRoute = collectionRoute{
		collection: content.CoffeeBreak,
		listPage:   "articles",
		detailPage: "article_item",
		title:      "Coffee Break",
		nav:        "articles",
		notFound:   "Article not found",
	}
	knowledgeVaultRoute = collectionRoute{
		collection: content.KnowledgeVault,
		listPage:   "knowledge_vault",
		detailPage: "knowledge_item",
		title:      "Knowledge Vault",
		nav:        "knowledge_vault",
		notFound:   "Article not found",
	}
	storyTimeRoute = collectionRoute{
		collection: content.StoryTime,
		listPage:   "story_time",
		detailPage: "story_item",
		title:      "Story Time",
		nav:        "story_time",
		notFound:   "Story not found",
		withImage:  true,
	}
)

// Handlers contains HTTP route handlers for the site.
type Handlers struct {
	source   content.Source
	cfg      *config.Config
	renderer *Renderer
	logger   *slog.Logger
	now      func() time.Time
}

// HandleHome handles GET /, the news list.
func (h *Handlers) HandleHome(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, newsRoute)
}

// HandleNewsItem handles GET /news/{id}.
func (h *Handlers) HandleNewsItem(w http.ResponseWriter, r *http.Request) {
	h.renderDetail(w, r, newsRoute)
}

// HandleArticles handles GET /articles, the coffee break list.
func (h *Handlers) HandleArticles(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, coffeeBreakRoute)
}

// HandleArticleItem handles GET /article/{id}.
func (h *Handlers) HandleArticleItem(w http.ResponseWriter, r *http.Request) {
	h.renderDetail(w, r, coffeeBreakRoute)
}

// HandleKnowledgeVault handles GET /knowledge_vault.
func (h *Handlers) HandleKnowledgeVault(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, knowledgeVaultRoute)
}

// HandleKnowledgeItem handles GET /knowledge_vault/{id}.
func (h *Handlers) HandleKnowledgeItem(w http.ResponseWriter, r *http.Request) {
	h.renderDetail(w, r, knowledgeVaultRoute)
}

// HandleStoryTime handles GET /story_time. Each story carries its first image as thumbnail.
func (h *Handlers) HandleStoryTime(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, storyTimeRoute)
}

// HandleStoryItem handles GET /story_time/{id}.
func (h *Handlers) HandleStoryItem(w http.ResponseWriter, r *http.Request) {
	h.renderDetail(w, r, storyTimeRoute)
}

// HandleStatic returns a handler rendering a page without content.
func (h *Handlers) HandleStatic(page, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderer.renderPage(w, r, page, h.pageData(title, ""))
	}
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (h *Handlers) renderList(w http.ResponseWriter, r *http.Request, rt collectionRoute) {
	articles, err := h.source.Load(r.Context(), rt.collection)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if err := content.Decorate(articles, rt.withImage); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, rt.listPage, ListPageData{
		PageData:   h.pageData(rt.title, rt.nav),
		Collection: rt.collection,
		Items:      articles,
	})
}

func (h *Handlers) renderDetail(w http.ResponseWriter, r *http.Request, rt collectionRoute) {
	id := r.PathValue("id")

	articles, err := h.source.Load(r.Context(), rt.collection)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	article, found, err := content.FindBySlug(articles, id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if !found {
		h.renderer.renderError(w, r, errors.NewNotFound(rt.notFound))
		return
	}

	heading, _ := article.Heading()
	h.renderer.renderPage(w, r, rt.detailPage, DetailPageData{
		PageData:   h.pageData(heading, rt.nav),
		Collection: rt.collection,
		Item:       article,
	})
}

func (h *Handlers) pageData(title, nav string) PageData {
	return PageData{
		Title:        title,
		Version:      h.renderer.version,
		Nav:          nav,
		Verification: h.cfg.VerificationToken,
		Now:          h.now(),
	}
}
