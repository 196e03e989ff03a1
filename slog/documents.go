// Package slog provides logging decorators for the domain services.
package slog

import (
	"context"
	"log/slog"
	"time"

	beautrafil "github.com/marksuguitan/beautrafil-scrape"
)

// Ensure LoggingDocumentService implements beautrafil.DocumentService.
var _ beautrafil.DocumentService = (*LoggingDocumentService)(nil)

// LoggingDocumentService wraps a DocumentService with write-path logging.
// Reads delegate silently.
type LoggingDocumentService struct {
	next   beautrafil.DocumentService
	logger *slog.Logger
}

// NewLoggingDocumentService creates a new LoggingDocumentService.
func NewLoggingDocumentService(next beautrafil.DocumentService, logger *slog.Logger) *LoggingDocumentService {
	return &LoggingDocumentService{next: next, logger: logger}
}

// CreateDocument logs the stored document and delegates.
func (s *LoggingDocumentService) CreateDocument(ctx context.Context, doc *beautrafil.Document) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create document",
			"id", doc.ID,
			"url", doc.SourceURL,
			"status", doc.Status,
			"bytes", len(doc.Content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateDocument(ctx, doc)
}

// CreateRawDocument logs the stored snapshot and delegates.
func (s *LoggingDocumentService) CreateRawDocument(ctx context.Context, raw *beautrafil.RawDocument) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create raw document",
			"documentId", raw.DocumentID,
			"version", raw.Version,
			"bytes", len(raw.RawData),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateRawDocument(ctx, raw)
}

// FindDocumentByID delegates to the wrapped service.
func (s *LoggingDocumentService) FindDocumentByID(ctx context.Context, id string) (*beautrafil.Document, error) {
	return s.next.FindDocumentByID(ctx, id)
}

// FindDocuments delegates to the wrapped service.
func (s *LoggingDocumentService) FindDocuments(ctx context.Context, filter beautrafil.DocumentFilter) ([]*beautrafil.Document, error) {
	return s.next.FindDocuments(ctx, filter)
}

// FindRawDocuments delegates to the wrapped service.
func (s *LoggingDocumentService) FindRawDocuments(ctx context.Context, documentID string) ([]*beautrafil.RawDocument, error) {
	return s.next.FindRawDocuments(ctx, documentID)
}

// DeleteDocument logs the deletion and delegates.
func (s *LoggingDocumentService) DeleteDocument(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete document",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteDocument(ctx, id)
}
