// Package goquery parses raw page metadata with CSS selectors.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	beautrafil "github.com/marksuguitan/beautrafil-scrape"
)

// Ensure MetaParser implements beautrafil.MetaParser at compile time.
var _ beautrafil.MetaParser = (*MetaParser)(nil)

// MetaParser collects the raw <meta> tags of a page into a flat map.
type MetaParser struct{}

// NewMetaParser creates a new MetaParser.
func NewMetaParser() *MetaParser {
	return &MetaParser{}
}

// Parse returns a map of meta tag name (or property) to content value.
// When a tag carries both attributes, name wins. The document <title> is
// reported under the "title" key unless a meta tag already claimed it.
func (p *MetaParser) Parse(html string) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, beautrafil.Errorf(beautrafil.EINVALID, "failed to parse HTML: %v", err)
	}

	tags := make(map[string]string)
	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		key, ok := sel.Attr("name")
		if !ok {
			key, ok = sel.Attr("property")
		}
		if !ok || key == "" {
			return
		}
		content, ok := sel.Attr("content")
		if !ok {
			return
		}
		tags[key] = content
	})

	if _, claimed := tags["title"]; !claimed {
		if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
			tags["title"] = title
		}
	}

	return tags, nil
}
