package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fadedpez/hatbot/pkg/entities"
	"github.com/fadedpez/hatbot/pkg/storage"
)

// Storage keeps the hat document in a single JSON file
type Storage struct {
	path string
	mu   sync.Mutex
}

// Ensure Storage implements storage.Store
var _ storage.Store = (*Storage)(nil)

// New creates a new file storage instance
func New(path string) *Storage {
	return &Storage{path: path}
}

// Path returns the backing file location
func (s *Storage) Path() string {
	return s.path
}

// Load reads the document, creating the file with an empty document if it doesn't exist
func (s *Storage) Load(ctx context.Context) (*entities.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		doc := entities.NewDocument()
		if err := s.write(doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	doc := entities.NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	doc.Normalize()

	return doc, nil
}

// Save overwrites the file with the whole document
func (s *Storage) Save(ctx context.Context, doc *entities.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(doc)
}

// Close is a no-op; the file is only open during reads and writes
func (s *Storage) Close() error {
	return nil
}

// Helper functions

func (s *Storage) write(doc *entities.Document) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
