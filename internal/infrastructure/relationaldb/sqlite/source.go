// Package sqlite provides a SQLite record source for graph builds.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/lore-graph/internal/domain/entities"
)

// Source reads entities and relationships from a SQLite database.
// Records are returned in rowid order so builds stay deterministic.
type Source struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the database at path.
func Open(path string) (*Source, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors while an
	// editor holds a write lock
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Source{db: db, path: path}, nil
}

// OpenExisting opens a database that must already exist. A missing file
// yields an *entities.IOError instead of a fresh empty database.
func OpenExisting(path string) (*Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &entities.IOError{Op: "reading source", Path: path, Err: err}
	}
	return Open(path)
}

// Close closes the database connection.
func (s *Source) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Source) Path() string {
	return s.path
}

// EnsureSchema creates the record tables if they don't exist.
func (s *Source) EnsureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS entities (
		id TEXT NOT NULL,
		label TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		grp TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		shape TEXT NOT NULL DEFAULT '',
		image TEXT NOT NULL DEFAULT '',
		size INTEGER NOT NULL DEFAULT 0,
		attributes TEXT
	);

	CREATE TABLE IF NOT EXISTS relationships (
		source TEXT NOT NULL,
		target TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		width INTEGER NOT NULL DEFAULT 0,
		dashes INTEGER NOT NULL DEFAULT 0,
		directed INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_relationships_source ON relationships(source);
	CREATE INDEX IF NOT EXISTS idx_relationships_target ON relationships(target);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Load reads every record. Duplicate ids and dangling endpoints are left
// for the builder to report. Query failures yield an *entities.IOError.
func (s *Source) Load(ctx context.Context) (*entities.Dataset, error) {
	ds := &entities.Dataset{}

	title, err := s.title(ctx)
	if err != nil {
		return nil, &entities.IOError{Op: "reading source", Path: s.path, Err: err}
	}
	ds.Title = title

	if ds.Entities, err = s.loadEntities(ctx); err != nil {
		return nil, &entities.IOError{Op: "reading source", Path: s.path, Err: err}
	}
	if ds.Relationships, err = s.loadRelationships(ctx); err != nil {
		return nil, &entities.IOError{Op: "reading source", Path: s.path, Err: err}
	}

	return ds, nil
}

// title reads the optional dataset title from the meta table.
func (s *Source) title(ctx context.Context) (string, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='meta'`).Scan(&exists)
	if err != nil {
		return "", fmt.Errorf("checking meta table: %w", err)
	}
	if exists == 0 {
		return "", nil
	}

	var title string
	err = s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'title'`).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying title: %w", err)
	}
	return title, nil
}

func (s *Source) loadEntities(ctx context.Context) ([]entities.Entity, error) {
	query := `
		SELECT id, label, category, grp, description, url, color, shape, image, size, attributes
		FROM entities
		ORDER BY rowid ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	var result []entities.Entity
	for rows.Next() {
		var (
			e     entities.Entity
			cat   string
			attrs sql.NullString
		)
		if err := rows.Scan(
			&e.ID,
			&e.Label,
			&cat,
			&e.Group,
			&e.Description,
			&e.URL,
			&e.Style.Color,
			&e.Style.Shape,
			&e.Style.Image,
			&e.Style.Size,
			&attrs,
		); err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		e.ID = entities.NormalizeID(e.ID)
		e.Category = entities.Category(cat)
		if attrs.Valid && attrs.String != "" {
			if err := json.Unmarshal([]byte(attrs.String), &e.Attributes); err != nil {
				return nil, fmt.Errorf("decoding attributes of %q: %w", e.ID, err)
			}
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (s *Source) loadRelationships(ctx context.Context) ([]entities.Relationship, error) {
	query := `
		SELECT source, target, type, description, color, width, dashes, directed
		FROM relationships
		ORDER BY rowid ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying relationships: %w", err)
	}
	defer rows.Close()

	var result []entities.Relationship
	for rows.Next() {
		var (
			r        entities.Relationship
			directed sql.NullBool
		)
		if err := rows.Scan(
			&r.Source,
			&r.Target,
			&r.Type,
			&r.Description,
			&r.Style.Color,
			&r.Style.Width,
			&r.Style.Dashes,
			&directed,
		); err != nil {
			return nil, fmt.Errorf("scanning relationship: %w", err)
		}
		r.Source = entities.NormalizeID(r.Source)
		r.Target = entities.NormalizeID(r.Target)
		r.Type = entities.NormalizeType(r.Type)
		if directed.Valid {
			d := directed.Bool
			r.Directed = &d
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// SaveDataset appends the dataset's records inside one transaction.
func (s *Source) SaveDataset(ctx context.Context, ds *entities.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if ds.Title != "" {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO meta (key, value) VALUES ('title', ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, ds.Title); err != nil {
			return fmt.Errorf("saving title: %w", err)
		}
	}

	for i := range ds.Entities {
		e := &ds.Entities[i]
		var attrs sql.NullString
		if len(e.Attributes) > 0 {
			data, err := json.Marshal(e.Attributes)
			if err != nil {
				return fmt.Errorf("encoding attributes of %q: %w", e.ID, err)
			}
			attrs = sql.NullString{String: string(data), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO entities (id, label, category, grp, description, url, color, shape, image, size, attributes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Label, string(e.Category), e.Group, e.Description, e.URL,
			e.Style.Color, e.Style.Shape, e.Style.Image, e.Style.Size, attrs,
		); err != nil {
			return fmt.Errorf("saving entity %q: %w", e.ID, err)
		}
	}

	for i := range ds.Relationships {
		r := &ds.Relationships[i]
		var directed sql.NullBool
		if r.Directed != nil {
			directed = sql.NullBool{Bool: *r.Directed, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO relationships (source, target, type, description, color, width, dashes, directed)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.Source, r.Target, r.Type, r.Description,
			r.Style.Color, r.Style.Width, r.Style.Dashes, directed,
		); err != nil {
			return fmt.Errorf("saving relationship %s -> %s: %w", r.Source, r.Target, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
