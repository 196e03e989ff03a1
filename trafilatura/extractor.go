package trafilatura

import (
	"bytes"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"

	beautrafil "github.com/marksuguitan/beautrafil-scrape"
)

// Ensure Extractor implements beautrafil.Extractor at compile time.
var _ beautrafil.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content together with the
// article metadata trafilatura recovered from the page.
func (e *Extractor) Extract(rawHTML string) (*beautrafil.Extraction, error) {
	if rawHTML == "" {
		return nil, beautrafil.Errorf(beautrafil.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &beautrafil.Extraction{
		BodyText:    result.ContentText,
		ContentHTML: contentHTML,
		Article:     articleMetadata(result.Metadata),
	}, nil
}

// articleMetadata maps trafilatura's metadata to the domain type.
func articleMetadata(m trafilatura.Metadata) beautrafil.ArticleMetadata {
	var date string
	if !m.Date.IsZero() {
		date = m.Date.Format("2006-01-02")
	}
	return beautrafil.ArticleMetadata{
		Title:       m.Title,
		Author:      m.Author,
		Date:        date,
		Keywords:    m.Tags,
		Description: m.Description,
		Source:      m.Sitename,
	}
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
