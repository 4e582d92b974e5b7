package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-orgs/pkg/domain"
)

// CollectionStore is an in-memory tenant collection store. Each collection
// is a named list of documents.
type CollectionStore struct {
	mu          sync.RWMutex
	collections map[string][]domain.Document
}

// NewCollectionStore creates a new in-memory collection store.
func NewCollectionStore() *CollectionStore {
	return &CollectionStore{
		collections: make(map[string][]domain.Document),
	}
}

// Create creates an empty collection.
func (s *CollectionStore) Create(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.collections[name]; exists {
		return domain.ErrCollectionExists
	}
	s.collections[name] = []domain.Document{}
	return nil
}

// Copy creates collection to holding copies of every document in from.
func (s *CollectionStore) Copy(ctx context.Context, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, exists := s.collections[from]
	if !exists {
		return domain.ErrCollectionNotFound
	}
	if _, exists := s.collections[to]; exists {
		return domain.ErrCollectionExists
	}
	s.collections[to] = cloneDocuments(docs)
	return nil
}

// Drop removes a collection. Dropping a missing collection is not an error.
func (s *CollectionStore) Drop(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections, name)
	return nil
}

// Exists reports whether a collection exists.
func (s *CollectionStore) Exists(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.collections[name]
	return exists, nil
}

// Insert appends a document to a collection.
func (s *CollectionStore) Insert(ctx context.Context, name string, data json.RawMessage) (*domain.Document, error) {
	if !json.Valid(data) {
		return nil, domain.Errorf(domain.ErrValidation, "document must be valid JSON")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, exists := s.collections[name]
	if !exists {
		return nil, domain.ErrCollectionNotFound
	}

	doc := domain.Document{
		ID:        uuid.New(),
		Data:      append(json.RawMessage(nil), data...),
		CreatedAt: time.Now().UTC(),
	}
	s.collections[name] = append(docs, doc)

	out := doc
	out.Data = append(json.RawMessage(nil), doc.Data...)
	return &out, nil
}

// Documents returns copies of every document in a collection, oldest first.
func (s *CollectionStore) Documents(ctx context.Context, name string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, exists := s.collections[name]
	if !exists {
		return nil, domain.ErrCollectionNotFound
	}
	return cloneDocuments(docs), nil
}

func cloneDocuments(docs []domain.Document) []domain.Document {
	out := make([]domain.Document, len(docs))
	for i, doc := range docs {
		out[i] = doc
		out[i].Data = append(json.RawMessage(nil), doc.Data...)
	}
	return out
}
