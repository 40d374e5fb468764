// Package markup holds the HTML helpers applied to content bodies:
// allow-list sanitization, first-image extraction and markdown rendering.
package markup

import "github.com/microcosm-cc/bluemonday"

// headings and block elements share the same presentational attributes.
var styledElements = []string{
	"div", "p", "span",
	"h1", "h2", "h3", "h4", "h5", "h6",
	"li", "ul", "ol",
}

// policy is safe for concurrent use once built.
var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "a", "ul", "ol", "li",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"div", "img", "span",
	)

	p.AllowAttrs("href", "title", "target").OnElements("a")
	p.AllowAttrs("src", "alt", "style", "class").OnElements("img")
	p.AllowAttrs("style", "class").OnElements(styledElements...)

	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(true)
	p.AllowURLSchemes("http", "https", "data")

	return p
}

// Sanitize filters an HTML fragment down to the allowed tags, attributes and
// URL schemes. Disallowed tags are removed but their text is kept; script and
// style bodies are dropped entirely.
func Sanitize(html string) string {
	return policy.Sanitize(html)
}
