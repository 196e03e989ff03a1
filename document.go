package beautrafil

import (
	"context"
	"time"
)

// Document statuses.
const (
	StatusNew     = "new"
	StatusBlocked = "blocked"
)

// Document represents an extracted page stored in the relational store.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Metadata    string    `json:"metadata"` // combined metadata as JSON
	SourceURL   string    `json:"sourceUrl"`
	Source      string    `json:"source"` // extraction source, e.g. "browser"
	Status      string    `json:"status"`
	ContentHash string    `json:"contentHash"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.SourceURL == "" {
		return Errorf(EINVALID, "document source URL required")
	}
	return nil
}

// RawDocument is a versioned snapshot of the rendered HTML a document was
// extracted from. Every extraction stores the raw page alongside the
// structured result so content can be re-extracted later.
type RawDocument struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	Version    int       `json:"version"`
	RawData    string    `json:"rawData"`
	Format     string    `json:"format"` // "html"
	IngestedBy string    `json:"ingestedBy"`
	IngestedAt time.Time `json:"ingestedAt"`
}

// Validate returns an error if the raw document contains invalid fields.
func (r *RawDocument) Validate() error {
	if r.DocumentID == "" {
		return Errorf(EINVALID, "raw document parent ID required")
	}
	if r.RawData == "" {
		return Errorf(EINVALID, "raw document data required")
	}
	return nil
}

// SortOrder represents the sort order for document queries.
type SortOrder string

// SortOrder constants for DocumentFilter.
const (
	SortByFetchedAt SortOrder = "fetched_at"
	SortByTitle     SortOrder = "title"
)

// DocumentFilter represents a filter for FindDocuments.
type DocumentFilter struct {
	ID        *string `json:"id"`
	SourceURL *string `json:"sourceUrl"`
	Status    *string `json:"status"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`

	SortBy SortOrder `json:"sortBy"`
}

// DocumentService represents a service for managing extracted documents and
// their raw HTML snapshots.
type DocumentService interface {
	// CreateDocument creates a new document.
	CreateDocument(ctx context.Context, doc *Document) error

	// CreateRawDocument stores a raw HTML snapshot for a document,
	// assigning the next version number.
	CreateRawDocument(ctx context.Context, raw *RawDocument) error

	// FindDocumentByID retrieves a document by ID.
	// Returns ENOTFOUND if the document does not exist.
	FindDocumentByID(ctx context.Context, id string) (*Document, error)

	// FindDocuments retrieves documents matching the filter.
	FindDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, error)

	// FindRawDocuments retrieves all raw snapshots for a document,
	// ordered by version.
	FindRawDocuments(ctx context.Context, documentID string) ([]*RawDocument, error)

	// DeleteDocument permanently removes a document and its raw snapshots.
	// Returns ENOTFOUND if the document does not exist.
	DeleteDocument(ctx context.Context, id string) error
}
