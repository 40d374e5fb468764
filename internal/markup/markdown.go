package markup

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderMarkdown converts markdown to sanitized HTML. Goldmark already drops
// raw HTML by default; the sanitizer additionally enforces the link schemes.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return Sanitize(buf.String()), nil
}
