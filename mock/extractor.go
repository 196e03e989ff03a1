package mock

import (
	beautrafil "github.com/marksuguitan/beautrafil-scrape"
)

var _ beautrafil.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of beautrafil.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*beautrafil.Extraction, error)
}

func (e *Extractor) Extract(html string) (*beautrafil.Extraction, error) {
	return e.ExtractFn(html)
}

var _ beautrafil.MetaParser = (*MetaParser)(nil)

// MetaParser is a mock implementation of beautrafil.MetaParser.
type MetaParser struct {
	ParseFn func(html string) (map[string]string, error)
}

func (p *MetaParser) Parse(html string) (map[string]string, error) {
	return p.ParseFn(html)
}

var _ beautrafil.Converter = (*Converter)(nil)

// Converter is a mock implementation of beautrafil.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
