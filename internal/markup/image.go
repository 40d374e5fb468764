package markup

import (
	"net/url"
	"regexp"
	"strings"
)

// firstImageRegex matches the first <img ... src="..."> lazily.
var firstImageRegex = regexp.MustCompile(`<img.*?src="(.*?)"`)

// imageSchemes mirrors the schemes the sanitizer keeps on src attributes.
var imageSchemes = map[string]bool{"http": true, "https": true, "data": true}

// ExtractFirstImage returns the src of the first <img> tag in html.
// It must be given the raw body: sanitizing first could remove the tag.
// Malformed or unterminated tags simply produce no match.
func ExtractFirstImage(html string) (string, bool) {
	m := firstImageRegex.FindStringSubmatch(html)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ImageURL reports whether src may be used as an image source: a relative
// URL or an absolute one with the http, https or data scheme.
func ImageURL(src string) (string, bool) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", false
	}
	u, err := url.Parse(src)
	if err != nil {
		return "", false
	}
	if u.Scheme != "" && !imageSchemes[strings.ToLower(u.Scheme)] {
		return "", false
	}
	return src, true
}
