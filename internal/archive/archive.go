// Package archive persists finished inventions to SQLite so they can be
// listed and inspected after the session that generated them is gone.
package archive

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"imaginarium/internal/generator"
	"imaginarium/internal/logging"
)

// Archive wraps the invention database.
type Archive struct {
	db   *sql.DB
	path string
	log  *logging.Logger
}

// Open initializes the database at path, creating it and its schema as
// needed.
func Open(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	a := &Archive{db: db, path: path, log: logging.Get(logging.CategoryArchive)}
	if err := a.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

func (a *Archive) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS inventions (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		root TEXT NOT NULL,
		count INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS individuals (
		invention_id TEXT NOT NULL REFERENCES inventions(id),
		ord INTEGER NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		PRIMARY KEY (invention_id, ord)
	);
	CREATE TABLE IF NOT EXISTS facts (
		invention_id TEXT NOT NULL REFERENCES inventions(id),
		predicate TEXT NOT NULL,
		a TEXT NOT NULL,
		b TEXT NOT NULL,
		c TEXT
	);
	CREATE INDEX IF NOT EXISTS facts_by_invention ON facts(invention_id, predicate);`
	if _, err := a.db.Exec(schema); err != nil {
		return fmt.Errorf("initializing archive schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (a *Archive) Close() error { return a.db.Close() }

// Save stores the invention: one row per individual with its rendered
// description, plus is_a and holds facts.
func (a *Archive) Save(inv *generator.Invention, root string) error {
	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("starting save: %w", err)
	}
	defer tx.Rollback()

	id := inv.ID.String()
	if _, err := tx.Exec(
		`INSERT INTO inventions (id, created_at, root, count) VALUES (?, ?, ?, ?)`,
		id, time.Now().Unix(), root, len(inv.Individuals),
	); err != nil {
		return fmt.Errorf("saving invention row: %w", err)
	}

	ont := inv.Ontology()
	for ord, ind := range inv.Individuals {
		if _, err := tx.Exec(
			`INSERT INTO individuals (invention_id, ord, name, description) VALUES (?, ?, ?, ?)`,
			id, ord, inv.NameString(ind), inv.Description(ind),
		); err != nil {
			return fmt.Errorf("saving individual: %w", err)
		}
		for _, k := range ont.Nouns() {
			if inv.IsA(ind, k) {
				if _, err := tx.Exec(
					`INSERT INTO facts (invention_id, predicate, a, b) VALUES (?, 'is_a', ?, ?)`,
					id, ind.NameTokens.String(), k.SingularForm.String(),
				); err != nil {
					return fmt.Errorf("saving fact: %w", err)
				}
			}
		}
	}
	for _, rel := range inv.Relationships() {
		if _, err := tx.Exec(
			`INSERT INTO facts (invention_id, predicate, a, b, c) VALUES (?, 'holds', ?, ?, ?)`,
			id, rel.Verb.Base.String(), rel.Subject.NameTokens.String(), rel.Object.NameTokens.String(),
		); err != nil {
			return fmt.Errorf("saving relationship: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	a.log.Info("saved invention %s (%d individuals)", id, len(inv.Individuals))
	return nil
}

// Record summarizes one stored invention.
type Record struct {
	ID        string
	CreatedAt time.Time
	Root      string
	Count     int
}

// List returns stored inventions, newest first.
func (a *Archive) List() ([]Record, error) {
	rows, err := a.db.Query(
		`SELECT id, created_at, root, count FROM inventions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing inventions: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var created int64
		if err := rows.Scan(&r.ID, &created, &r.Root, &r.Count); err != nil {
			return nil, fmt.Errorf("scanning invention: %w", err)
		}
		r.CreatedAt = time.Unix(created, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}

// SavedIndividual is one stored individual with its description.
type SavedIndividual struct {
	Name        string
	Description string
}

// Show loads one stored invention's individuals in generation order.
func (a *Archive) Show(id string) (Record, []SavedIndividual, error) {
	var r Record
	var created int64
	err := a.db.QueryRow(
		`SELECT id, created_at, root, count FROM inventions WHERE id = ?`, id,
	).Scan(&r.ID, &created, &r.Root, &r.Count)
	if err != nil {
		return Record{}, nil, fmt.Errorf("loading invention %s: %w", id, err)
	}
	r.CreatedAt = time.Unix(created, 0)
	rows, err := a.db.Query(
		`SELECT name, description FROM individuals WHERE invention_id = ? ORDER BY ord`, id)
	if err != nil {
		return Record{}, nil, fmt.Errorf("loading individuals: %w", err)
	}
	defer rows.Close()

	var inds []SavedIndividual
	for rows.Next() {
		var ind SavedIndividual
		if err := rows.Scan(&ind.Name, &ind.Description); err != nil {
			return Record{}, nil, fmt.Errorf("scanning individual: %w", err)
		}
		inds = append(inds, ind)
	}
	return r, inds, rows.Err()
}
