package beautrafil

// ArticleMetadata is the article-level metadata reported by the content
// extractor (the trafilatura side of the combined metadata).
type ArticleMetadata struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Date        string   `json:"date"`
	Keywords    []string `json:"keywords"`
	Description string   `json:"description"`
	Source      string   `json:"source"`
}

// Metadata combines every metadata signal collected from a page: the
// document title, the raw <meta> tag map, and the extractor's article
// metadata.
type Metadata struct {
	Title    string            `json:"title"`
	MetaTags map[string]string `json:"meta_tags"`
	Article  ArticleMetadata   `json:"article_metadata"`
}

// Extraction holds the extracted content from an HTML page.
type Extraction struct {
	// BodyText is the main article text with boilerplate removed.
	BodyText string

	// ContentHTML is the main content subtree as clean HTML, suitable for
	// conversion to other formats.
	ContentHTML string

	// Article is the metadata the extractor recovered from the page.
	Article ArticleMetadata
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	// Extract processes raw HTML and returns the main content and the
	// article metadata recovered alongside it.
	Extract(html string) (*Extraction, error)
}

// MetaParser collects the raw <meta> tags of a page.
type MetaParser interface {
	// Parse returns a map of meta tag name (or property) to content value.
	// The document <title> is reported under the "title" key unless a meta
	// tag already claimed it.
	Parse(html string) (map[string]string, error)
}

// Converter converts HTML content to Markdown.
type Converter interface {
	Convert(html string) (string, error)
}
