package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dailygoodnews/frontend/internal/content"
	"github.com/dailygoodnews/frontend/internal/errors"
	"github.com/dailygoodnews/frontend/internal/markup"
)

// htmlFields are sanitized before a record leaves the server.
var htmlFields = []string{"summary", "content", content.FieldArticle}

// detailPaths are the site path prefixes for each collection's detail page.
var detailPaths = map[content.Collection]string{
	content.News:           "/news/",
	content.CoffeeBreak:    "/article/",
	content.KnowledgeVault: "/knowledge_vault/",
	content.StoryTime:      "/story_time/",
}

// listPaths are the site paths of each collection's list page.
var listPaths = map[content.Collection]string{
	content.News:           "/",
	content.CoffeeBreak:    "/articles",
	content.KnowledgeVault: "/knowledge_vault",
	content.StoryTime:      "/story_time",
}

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	source content.Source
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(source content.Source) *Handlers {
	return &Handlers{source: source}
}

// ListRequest represents the arguments for content_list.
type ListRequest struct {
	Collection string `json:"collection"`
}

// FetchRequest represents the arguments for content_fetch.
type FetchRequest struct {
	Collection string `json:"collection"`
	Slug       string `json:"slug"`
}

// CollectionInfo describes one collection in content_collections output.
type CollectionInfo struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Path  string `json:"path"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

// ListItem is one record in content_list output.
type ListItem struct {
	Heading string  `json:"heading"`
	Slug    string  `json:"slug"`
	Path    string  `json:"path"`
	Image   *string `json:"image,omitempty"`
}

// ListOutput is the content_list result.
type ListOutput struct {
	Collection string     `json:"collection"`
	Items      []ListItem `json:"items"`
	Total      int        `json:"total"`
}

// FetchOutput is the content_fetch result.
type FetchOutput struct {
	Collection string          `json:"collection"`
	Slug       string          `json:"slug"`
	Path       string          `json:"path"`
	Record     content.Article `json:"record"`
}

// HandleCollections handles the content_collections tool call.
// A collection that fails to load is reported inline rather than failing the call.
func (h *Handlers) HandleCollections(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos := make([]CollectionInfo, 0, len(content.Collections))
	for _, c := range content.Collections {
		info := CollectionInfo{
			Name:  string(c),
			Title: c.Title(),
			Path:  listPaths[c],
		}
		articles, err := h.source.Load(ctx, c)
		if err != nil {
			info.Error = publicMessage(err)
		} else {
			info.Count = len(articles)
		}
		infos = append(infos, info)
	}
	return successResult(map[string]any{"collections": infos})
}

// HandleList handles the content_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	col, err := content.ParseCollection(input.Collection)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	articles, err := h.source.Load(ctx, col)
	if err != nil {
		return errorResult(err), nil
	}

	withImage := col == content.StoryTime
	if err := content.Decorate(articles, withImage); err != nil {
		return errorResult(err), nil
	}

	items := make([]ListItem, len(articles))
	for i, a := range articles {
		heading, _ := a.Heading()
		items[i] = ListItem{
			Heading: heading,
			Slug:    a.Slug(),
			Path:    detailPaths[col] + a.Slug(),
		}
		if src, ok := a[content.FieldImage].(string); ok {
			items[i].Image = &src
		}
	}

	return successResult(ListOutput{
		Collection: string(col),
		Items:      items,
		Total:      len(items),
	})
}

// HandleFetch handles the content_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Slug == "" {
		return errorResult(errors.NewInvalidRequest("slug is required")), nil
	}

	col, err := content.ParseCollection(input.Collection)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	articles, err := h.source.Load(ctx, col)
	if err != nil {
		return errorResult(err), nil
	}

	article, found, err := content.FindBySlug(articles, input.Slug)
	if err != nil {
		return errorResult(err), nil
	}
	if !found {
		return errorResult(errors.NewNotFound("no " + col.Title() + " record with slug " + input.Slug)), nil
	}

	if err := content.Decorate([]content.Article{article}, col == content.StoryTime); err != nil {
		return errorResult(err), nil
	}
	for _, field := range htmlFields {
		if s, ok := article[field].(string); ok {
			article[field] = markup.Sanitize(s)
		}
	}

	return successResult(FetchOutput{
		Collection: string(col),
		Slug:       article.Slug(),
		Path:       detailPaths[col] + article.Slug(),
		Record:     article,
	})
}

// publicMessage returns the message safe to hand to a client.
func publicMessage(err error) string {
	var sErr *errors.SiteError
	if stderrors.As(err, &sErr) && sErr.Code != errors.ErrInternal {
		return sErr.Message
	}
	return "an internal error occurred"
}

// errorResult creates an MCP error result from an error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var sErr *errors.SiteError
	if stderrors.As(err, &sErr) {
		errorObj := map[string]any{
			"code":    sErr.Code,
			"message": publicMessage(err),
			"status":  sErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking file paths
		if sErr.Code != errors.ErrInternal && sErr.Details != nil {
			errorObj["details"] = sErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	text, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(text)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
