// Package sqlite provides a design store backed by SQLite.
//
// It uses the pure-Go modernc.org/sqlite driver, so no cgo is required.
// Placements are stored as a JSON column; the other fields are columns so
// listing does not need to decode them.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/slotcraft/pkg/core/placement"
	"github.com/matzehuels/slotcraft/pkg/core/template"
	"github.com/matzehuels/slotcraft/pkg/design"
)

const schema = `
CREATE TABLE IF NOT EXISTS designs (
	id            TEXT NOT NULL,
	owner         TEXT NOT NULL,
	name          TEXT NOT NULL,
	template_id   TEXT NOT NULL,
	canvas_type   TEXT NOT NULL DEFAULT '',
	canvas_width  REAL NOT NULL DEFAULT 0,
	canvas_height REAL NOT NULL DEFAULT 0,
	placements    BLOB NOT NULL,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL,
	PRIMARY KEY (owner, id)
);`

// Store is a SQLite-backed design store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at dsn and applies the schema.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// A single connection keeps ":memory:" databases alive and serializes
	// writers, which SQLite requires anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create designs table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, owner, id string) (*design.Design, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner, name, template_id, canvas_type, canvas_width, canvas_height,
		       placements, created_at, updated_at
		FROM designs WHERE owner = ? AND id = ?`, owner, id)

	d, err := scan(row)
	if err == sql.ErrNoRows {
		return nil, design.NotFound(owner, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get design %s: %w", id, err)
	}
	return d, nil
}

func (s *Store) Save(ctx context.Context, d *design.Design) error {
	if err := design.Prepare(d, time.Now()); err != nil {
		return err
	}
	data, err := json.Marshal(d.Placements)
	if err != nil {
		return fmt.Errorf("marshal placements: %w", err)
	}

	var created string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO designs (id, owner, name, template_id, canvas_type, canvas_width, canvas_height,
		                     placements, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner, id) DO UPDATE SET
			name = excluded.name,
			template_id = excluded.template_id,
			canvas_type = excluded.canvas_type,
			canvas_width = excluded.canvas_width,
			canvas_height = excluded.canvas_height,
			placements = excluded.placements,
			updated_at = excluded.updated_at
		RETURNING created_at`,
		d.ID, d.Owner, d.Name, d.TemplateID, string(d.Canvas.Type), d.Canvas.Width, d.Canvas.Height,
		data, formatTime(d.CreatedAt), formatTime(d.UpdatedAt),
	).Scan(&created)
	if err != nil {
		return fmt.Errorf("save design %s: %w", d.ID, err)
	}
	if t, err := parseTime(created); err == nil {
		d.CreatedAt = t
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, owner, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM designs WHERE owner = ? AND id = ?`, owner, id)
	if err != nil {
		return fmt.Errorf("delete design %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return design.NotFound(owner, id)
	}
	return nil
}

func (s *Store) List(ctx context.Context, owner string) ([]design.Design, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, name, template_id, canvas_type, canvas_width, canvas_height,
		       placements, created_at, updated_at
		FROM designs WHERE owner = ?`, owner)
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	defer rows.Close()

	out := []design.Design{}
	for rows.Next() {
		d, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("list designs: %w", err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	design.SortByUpdated(out)
	return out, nil
}

func (s *Store) Close() error { return s.db.Close() }

type scanner interface {
	Scan(dest ...any) error
}

func scan(r scanner) (*design.Design, error) {
	var (
		d                design.Design
		canvasType       string
		data             []byte
		created, updated string
	)
	err := r.Scan(&d.ID, &d.Owner, &d.Name, &d.TemplateID, &canvasType, &d.Canvas.Width, &d.Canvas.Height,
		&data, &created, &updated)
	if err != nil {
		return nil, err
	}
	d.Canvas.Type = template.CanvasType(canvasType)

	d.Placements = []placement.AssetPlacement{}
	if err := json.Unmarshal(data, &d.Placements); err != nil {
		return nil, fmt.Errorf("decode placements: %w", err)
	}
	if d.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if d.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &d, nil
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) { return time.Parse(time.RFC3339Nano, s) }

var _ design.Store = (*Store)(nil)
