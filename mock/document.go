package mock

import (
	"context"

	beautrafil "github.com/marksuguitan/beautrafil-scrape"
)

var _ beautrafil.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of beautrafil.DocumentService.
type DocumentService struct {
	CreateDocumentFn    func(ctx context.Context, doc *beautrafil.Document) error
	CreateRawDocumentFn func(ctx context.Context, raw *beautrafil.RawDocument) error
	FindDocumentByIDFn  func(ctx context.Context, id string) (*beautrafil.Document, error)
	FindDocumentsFn     func(ctx context.Context, filter beautrafil.DocumentFilter) ([]*beautrafil.Document, error)
	FindRawDocumentsFn  func(ctx context.Context, documentID string) ([]*beautrafil.RawDocument, error)
	DeleteDocumentFn    func(ctx context.Context, id string) error
}

func (s *DocumentService) CreateDocument(ctx context.Context, doc *beautrafil.Document) error {
	return s.CreateDocumentFn(ctx, doc)
}

func (s *DocumentService) CreateRawDocument(ctx context.Context, raw *beautrafil.RawDocument) error {
	return s.CreateRawDocumentFn(ctx, raw)
}

func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*beautrafil.Document, error) {
	return s.FindDocumentByIDFn(ctx, id)
}

func (s *DocumentService) FindDocuments(ctx context.Context, filter beautrafil.DocumentFilter) ([]*beautrafil.Document, error) {
	return s.FindDocumentsFn(ctx, filter)
}

func (s *DocumentService) FindRawDocuments(ctx context.Context, documentID string) ([]*beautrafil.RawDocument, error) {
	return s.FindRawDocumentsFn(ctx, documentID)
}

func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	return s.DeleteDocumentFn(ctx, id)
}
