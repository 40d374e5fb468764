package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dailygoodnews/frontend/internal/content"
)

func collectionNames() []string {
	names := make([]string, len(content.Collections))
	for i, c := range content.Collections {
		names[i] = string(c)
	}
	return names
}

var collectionsToolDef = mcp.NewTool("content_collections",
	mcp.WithDescription("List the content collections with their record counts and site paths."),
)

var listToolDef = mcp.NewTool("content_list",
	mcp.WithDescription("List the records of one collection in file order: heading, slug and site path. Story time records also carry their thumbnail image."),
	mcp.WithString("collection",
		mcp.Required(),
		mcp.Description("Collection name"),
		mcp.Enum(collectionNames()...),
	),
)

var fetchToolDef = mcp.NewTool("content_fetch",
	mcp.WithDescription("Fetch one record by slug, exactly as the detail page resolves it. HTML fields are sanitized."),
	mcp.WithString("collection",
		mcp.Required(),
		mcp.Description("Collection name"),
		mcp.Enum(collectionNames()...),
	),
	mcp.WithString("slug",
		mcp.Required(),
		mcp.Description("Record slug as used in the page URL (case-insensitive)"),
	),
)
