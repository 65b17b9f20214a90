package sqlite

import (
	"database/sql"
	"fmt"
	"sort"
)

// Migration is one versioned schema change
type Migration struct {
	Version     string
	Description string
	SQL         string
}

// schemaMigrations builds the hat schema. Append new versions; never edit applied ones.
var schemaMigrations = []Migration{
	{
		Version:     "001",
		Description: "create guilds",
		SQL: `
		CREATE TABLE IF NOT EXISTS guilds (
			guild_id TEXT PRIMARY KEY,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	{
		Version:     "002",
		Description: "create hat entries",
		SQL: `
		CREATE TABLE IF NOT EXISTS hat_entries (
			guild_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (guild_id, position),
			FOREIGN KEY (guild_id) REFERENCES guilds(guild_id)
		)`,
	},
	{
		Version:     "003",
		Description: "create pending draws",
		SQL: `
		CREATE TABLE IF NOT EXISTS pending_draws (
			guild_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (guild_id, user_id),
			FOREIGN KEY (guild_id) REFERENCES guilds(guild_id)
		)`,
	},
}

// Migrator applies schema migrations and records them in schema_migrations
type Migrator struct {
	db         *sql.DB
	migrations []Migration
}

// NewMigrator creates a migrator for the given migrations
func NewMigrator(db *sql.DB, migrations []Migration) *Migrator {
	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Version < sorted[j].Version
	})

	return &Migrator{
		db:         db,
		migrations: sorted,
	}
}

// Initialize creates the migrations table if it doesn't exist
func (m *Migrator) Initialize() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

// AppliedVersions returns the set of versions already applied
func (m *Migrator) AppliedVersions() (map[string]bool, error) {
	rows, err := m.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

// Apply runs a single migration and records it in the same transaction
func (m *Migrator) Apply(migration Migration) error {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(migration.SQL); err != nil {
		tx.Rollback()
		return fmt.Errorf("error applying migration %s: %w", migration.Version, err)
	}

	_, err = tx.Exec(
		"INSERT INTO schema_migrations (version, description) VALUES (?, ?)",
		migration.Version,
		migration.Description,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("error recording migration %s: %w", migration.Version, err)
	}

	return tx.Commit()
}

// MigrateUp applies all pending migrations in version order and returns how many ran
func (m *Migrator) MigrateUp() (int, error) {
	if err := m.Initialize(); err != nil {
		return 0, err
	}

	applied, err := m.AppliedVersions()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, migration := range m.migrations {
		if applied[migration.Version] {
			continue
		}
		if err := m.Apply(migration); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}
