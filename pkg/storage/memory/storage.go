package memory

import (
	"context"
	"sync"

	"github.com/fadedpez/hatbot/pkg/entities"
	"github.com/fadedpez/hatbot/pkg/storage"
)

// Storage implements storage.Store in memory
type Storage struct {
	mu  sync.RWMutex
	doc *entities.Document
	// Number of completed saves, for tests
	saves int
}

// Ensure Storage implements storage.Store
var _ storage.Store = (*Storage)(nil)

// New creates a new in-memory store
func New() *Storage {
	return &Storage{}
}

// Load returns a copy of the stored document
func (s *Storage) Load(ctx context.Context) (*entities.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		s.doc = entities.NewDocument()
	}

	// Return a copy to prevent concurrent modification
	return s.doc.Clone(), nil
}

// Save stores a copy of the document
func (s *Storage) Save(ctx context.Context, doc *entities.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = doc.Clone()
	s.saves++
	return nil
}

// Saves returns how many times Save has been called
func (s *Storage) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.saves
}

// Close is a no-op for memory storage since there are no resources to close
func (s *Storage) Close() error {
	return nil
}
