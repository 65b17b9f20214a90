package storage

import (
	"context"
	"sync"

	"github.com/fadedpez/hatbot/internal/types"
	"github.com/fadedpez/hatbot/pkg/entities"
)

//go:generate mockgen -source=$GOFILE -destination=mock/storage.go -package=mock

// Store persists the whole hat document
type Store interface {
	// Load returns the document, initializing and persisting an empty one on first use
	Load(ctx context.Context) (*entities.Document, error)

	// Save overwrites the persisted document with a snapshot of doc
	Save(ctx context.Context, doc *entities.Document) error

	// Close releases any resources held by the store
	Close() error
}

// Type names a storage backend
type Type string

const (
	TypeFile          Type = "file"
	TypeMemory        Type = "memory"
	TypeSQLite        Type = "sqlite"
	TypeElasticsearch Type = "elasticsearch"
)

// GetOrCreateGuild returns the guild's state, inserting an empty one if missing.
// The document is modified in place; the caller is responsible for saving it.
func GetOrCreateGuild(doc *entities.Document, guildID string) *entities.GuildState {
	if doc.Guilds == nil {
		doc.Guilds = make(map[string]*entities.GuildState)
	}

	state, ok := doc.Guilds[guildID]
	if !ok || state == nil {
		state = entities.NewGuildState()
		doc.Guilds[guildID] = state
	}
	return state
}

// Transactor serializes load, mutate and save so concurrent commands can't
// overwrite each other's changes. The store holds one document for every guild,
// so a single lock covers all of them.
type Transactor struct {
	store Store
	mu    sync.Mutex
}

// NewTransactor wraps a store
func NewTransactor(store Store) *Transactor {
	return &Transactor{store: store}
}

// Store returns the wrapped store
func (t *Transactor) Store() Store {
	return t.store
}

// Update loads the guild's state, applies fn and saves the document if fn succeeds.
// Errors from fn are returned unchanged; storage failures are wrapped as STORAGE_ERROR.
func (t *Transactor) Update(ctx context.Context, guildID string, fn func(state *entities.GuildState) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	doc, err := t.store.Load(ctx)
	if err != nil {
		return types.WrapError(types.ErrStorage, "Couldn't load the hat.", err)
	}

	if err := fn(GetOrCreateGuild(doc, guildID)); err != nil {
		return err
	}

	if err := t.store.Save(ctx, doc); err != nil {
		return types.WrapError(types.ErrStorage, "Couldn't save the hat.", err)
	}
	return nil
}

// View loads the guild's state and applies fn without saving
func (t *Transactor) View(ctx context.Context, guildID string, fn func(state *entities.GuildState) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	doc, err := t.store.Load(ctx)
	if err != nil {
		return types.WrapError(types.ErrStorage, "Couldn't load the hat.", err)
	}

	return fn(GetOrCreateGuild(doc, guildID))
}

// Snapshot loads the whole document under the same lock as Update
func (t *Transactor) Snapshot(ctx context.Context) (*entities.Document, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	doc, err := t.store.Load(ctx)
	if err != nil {
		return nil, types.WrapError(types.ErrStorage, "Couldn't load the hat.", err)
	}
	return doc, nil
}
