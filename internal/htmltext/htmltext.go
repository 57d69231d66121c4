// Package htmltext converts HTML fragments into normalized markdown.
// Conversion is total: inputs that the markdown converter rejects are
// degraded to plain tag-stripped text instead of returning an error.
package htmltext

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// Converter turns HTML fragments into markdown text.
type Converter struct {
	md *md.Converter
}

// NewConverter creates a converter with link preservation enabled.
func NewConverter() *Converter {
	return &Converter{
		md: md.NewConverter("", true, nil),
	}
}

// Convert renders the fragment as markdown with blank lines collapsed.
// It never fails: on converter errors the tag-stripped text is returned.
func (c *Converter) Convert(html string) string {
	if html == "" {
		return ""
	}

	markdown, err := c.md.ConvertString(html)

	if err != nil {
		return StripTags(html)
	}

	lines := make([]string, 0, 8)

	for _, line := range strings.Split(markdown, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n")
}

// StripTags removes all markup and returns the trimmed text content.
func StripTags(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))

	if err != nil {
		return ""
	}

	return strings.TrimSpace(doc.Text())
}
