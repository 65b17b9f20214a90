package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fadedpez/hatbot/pkg/entities"
	"github.com/fadedpez/hatbot/pkg/storage"
	_ "github.com/mattn/go-sqlite3"
)

// Storage implements storage.Store using SQLite
type Storage struct {
	db *sql.DB
}

// Ensure Storage implements storage.Store
var _ storage.Store = (*Storage)(nil)

// New opens (or creates) the database at dbPath
func New(dbPath string) (*Storage, error) {
	// Ensure directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if _, err := NewMigrator(db, schemaMigrations).MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	return &Storage{db: db}, nil
}

// Load reads every guild into a document. An empty database is an empty document.
func (s *Storage) Load(ctx context.Context) (*entities.Document, error) {
	doc := entities.NewDocument()

	rows, err := s.db.QueryContext(ctx, `SELECT guild_id FROM guilds`)
	if err != nil {
		return nil, fmt.Errorf("error loading guilds: %w", err)
	}
	for rows.Next() {
		var guildID string
		if err := rows.Scan(&guildID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error scanning guild: %w", err)
		}
		doc.Guilds[guildID] = entities.NewGuildState()
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating guilds: %w", err)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `SELECT guild_id, name FROM hat_entries ORDER BY guild_id, position`)
	if err != nil {
		return nil, fmt.Errorf("error loading hat entries: %w", err)
	}
	for rows.Next() {
		var guildID, name string
		if err := rows.Scan(&guildID, &name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error scanning hat entry: %w", err)
		}
		guild := storage.GetOrCreateGuild(doc, guildID)
		guild.Pool = append(guild.Pool, name)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating hat entries: %w", err)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `SELECT guild_id, user_id, name FROM pending_draws`)
	if err != nil {
		return nil, fmt.Errorf("error loading pending draws: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var guildID, userID, name string
		if err := rows.Scan(&guildID, &userID, &name); err != nil {
			return nil, fmt.Errorf("error scanning pending draw: %w", err)
		}
		storage.GetOrCreateGuild(doc, guildID).PendingByUser[userID] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending draws: %w", err)
	}

	return doc, nil
}

// Save replaces the stored contents with doc in a single transaction
func (s *Storage) Save(ctx context.Context, doc *entities.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM pending_draws`, `DELETE FROM hat_entries`, `DELETE FROM guilds`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error clearing tables: %w", err)
		}
	}

	for guildID, guild := range doc.Guilds {
		if guild == nil {
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO guilds (guild_id, updated_at) VALUES (?, CURRENT_TIMESTAMP)`, guildID); err != nil {
			return fmt.Errorf("error saving guild %s: %w", guildID, err)
		}
		for position, name := range guild.Pool {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO hat_entries (guild_id, position, name) VALUES (?, ?, ?)`,
				guildID, position, name,
			); err != nil {
				return fmt.Errorf("error saving hat entry for guild %s: %w", guildID, err)
			}
		}
		for userID, name := range guild.PendingByUser {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO pending_draws (guild_id, user_id, name) VALUES (?, ?, ?)`,
				guildID, userID, name,
			); err != nil {
				return fmt.Errorf("error saving pending draw for guild %s: %w", guildID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}
