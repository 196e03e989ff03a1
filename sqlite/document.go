package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	beautrafil "github.com/marksuguitan/beautrafil-scrape"
)

// Compile-time interface verification.
var _ beautrafil.DocumentService = (*DocumentService)(nil)

// DocumentService implements beautrafil.DocumentService using SQLite.
type DocumentService struct {
	db *DB
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], xxhash.Sum64String(content))
	return hex.EncodeToString(b[:])
}

// CreateDocument creates a new document.
func (s *DocumentService) CreateDocument(ctx context.Context, doc *beautrafil.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	doc.ID = uuid.New().String()
	doc.FetchedAt = time.Now().UTC()
	doc.ContentHash = hashContent(doc.Content)
	if doc.Status == "" {
		doc.Status = beautrafil.StatusNew
	}
	if doc.Metadata == "" {
		doc.Metadata = "{}"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, content, metadata, source_url, extraction_source, status, content_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.Title, doc.Content, doc.Metadata, doc.SourceURL, doc.Source, doc.Status,
		doc.ContentHash, doc.FetchedAt.Format(time.RFC3339))

	return err
}

// CreateRawDocument stores a raw HTML snapshot, assigning the next version
// number for the parent document.
func (s *DocumentService) CreateRawDocument(ctx context.Context, raw *beautrafil.RawDocument) error {
	if err := raw.Validate(); err != nil {
		return err
	}

	// Confirm the parent exists so the caller gets ENOTFOUND rather than a
	// bare constraint violation.
	if _, err := s.FindDocumentByID(ctx, raw.DocumentID); err != nil {
		return err
	}

	raw.ID = uuid.New().String()
	raw.IngestedAt = time.Now().UTC()
	if raw.Format == "" {
		raw.Format = "html"
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(version_number), 0) + 1 FROM raw_documents WHERE document_id = ?
	`, raw.DocumentID).Scan(&raw.Version)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO raw_documents (id, document_id, version_number, raw_data, format, ingested_by, ingested_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, raw.ID, raw.DocumentID, raw.Version, raw.RawData, raw.Format, raw.IngestedBy,
		raw.IngestedAt.Format(time.RFC3339))

	return err
}

// FindDocumentByID retrieves a document by ID.
func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*beautrafil.Document, error) {
	var doc beautrafil.Document
	var fetchedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, content, metadata, source_url, extraction_source, status, content_hash, fetched_at
		FROM documents
		WHERE id = ?
	`, id).Scan(&doc.ID, &doc.Title, &doc.Content, &doc.Metadata, &doc.SourceURL,
		&doc.Source, &doc.Status, &doc.ContentHash, &fetchedAt)

	if err == sql.ErrNoRows {
		return nil, beautrafil.Errorf(beautrafil.ENOTFOUND, "document not found")
	}
	if err != nil {
		return nil, err
	}

	doc.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// FindDocuments retrieves documents matching the filter.
func (s *DocumentService) FindDocuments(ctx context.Context, filter beautrafil.DocumentFilter) ([]*beautrafil.Document, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, title, content, metadata, source_url, extraction_source, status, content_hash, fetched_at FROM documents WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, *filter.Status)
	}

	switch filter.SortBy {
	case beautrafil.SortByTitle:
		query.WriteString(" ORDER BY title ASC")
	default:
		query.WriteString(" ORDER BY fetched_at DESC")
	}

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*beautrafil.Document
	for rows.Next() {
		var doc beautrafil.Document
		var fetchedAt string

		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.Metadata, &doc.SourceURL,
			&doc.Source, &doc.Status, &doc.ContentHash, &fetchedAt); err != nil {
			return nil, err
		}

		doc.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
		if err != nil {
			return nil, err
		}

		docs = append(docs, &doc)
	}

	return docs, rows.Err()
}

// FindRawDocuments retrieves all raw snapshots for a document, oldest
// version first.
func (s *DocumentService) FindRawDocuments(ctx context.Context, documentID string) ([]*beautrafil.RawDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, version_number, raw_data, format, ingested_by, ingested_at
		FROM raw_documents
		WHERE document_id = ?
		ORDER BY version_number ASC
	`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var raws []*beautrafil.RawDocument
	for rows.Next() {
		var raw beautrafil.RawDocument
		var ingestedAt string

		if err := rows.Scan(&raw.ID, &raw.DocumentID, &raw.Version, &raw.RawData,
			&raw.Format, &raw.IngestedBy, &ingestedAt); err != nil {
			return nil, err
		}

		raw.IngestedAt, err = parseRFC3339(ingestedAt, "ingested_at")
		if err != nil {
			return nil, err
		}

		raws = append(raws, &raw)
	}

	return raws, rows.Err()
}

// DeleteDocument permanently removes a document. Raw snapshots follow via
// the foreign key cascade.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return beautrafil.Errorf(beautrafil.ENOTFOUND, "document not found")
	}

	return nil
}
