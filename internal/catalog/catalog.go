// Package catalog records the outcome of model scans in a SQLite database.
//
// Each indexed model is keyed by its source path and points at the
// content-addressed blob that holds its bytes. A scan groups the entries
// written during one index run.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/mdxkit/core/errors"
	"github.com/FocuswithJustin/mdxkit/core/sqlite"
	"github.com/FocuswithJustin/mdxkit/internal/logging"
)

// schemaVersion is stored in PRAGMA user_version.
const schemaVersion = 1

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS scans (
		id         TEXT PRIMARY KEY,
		root       TEXT NOT NULL,
		started_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS models (
		path       TEXT PRIMARY KEY,
		hash       TEXT NOT NULL,
		version    INTEGER,
		name       TEXT NOT NULL DEFAULT '',
		size       INTEGER NOT NULL,
		chunks     TEXT NOT NULL DEFAULT '',
		round_trip INTEGER NOT NULL,
		error      TEXT NOT NULL DEFAULT '',
		scan_id    TEXT NOT NULL REFERENCES scans(id),
		indexed_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS models_hash ON models(hash)`,
	`CREATE INDEX IF NOT EXISTS models_scan ON models(scan_id)`,
}

// Entry is one catalogued model.
type Entry struct {
	Path      string    `json:"path"`
	Hash      string    `json:"hash"`
	Version   *uint32   `json:"version,omitempty"`
	Name      string    `json:"name,omitempty"`
	Size      int64     `json:"size"`
	Chunks    []string  `json:"chunks,omitempty"`
	RoundTrip bool      `json:"roundTrip"`
	Err       string    `json:"error,omitempty"`
	ScanID    uuid.UUID `json:"scanId"`
	IndexedAt time.Time `json:"indexedAt"`
}

// Failed reports whether the model did not survive decode and re-encode.
func (e Entry) Failed() bool {
	return !e.RoundTrip || e.Err != ""
}

// Filter narrows List results. The zero value matches every entry.
type Filter struct {
	Failed bool
	Hash   string
	Scan   uuid.UUID
	Limit  int
}

// Stats summarizes the catalog contents.
type Stats struct {
	Models int `json:"models"`
	Failed int `json:"failed"`
	Blobs  int `json:"blobs"`
	Scans  int `json:"scans"`
}

// Catalog is a handle to an open catalog database.
type Catalog struct {
	db       *sql.DB
	readOnly bool
	now      func() time.Time
}

// Open opens or creates the catalog at path and applies the schema.
func Open(ctx context.Context, path string) (*Catalog, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, errors.NewIO("open catalog", path, err)
	}
	// SQLite serializes writers; one connection avoids busy errors.
	db.SetMaxOpenConns(1)

	c := &Catalog{db: db, now: time.Now}
	if err := c.migrate(ctx); err != nil {
		db.Close()
		return nil, errors.NewIO("migrate catalog", path, err)
	}
	return c, nil
}

// OpenReadOnly opens an existing catalog for queries only.
func OpenReadOnly(ctx context.Context, path string) (*Catalog, error) {
	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, errors.NewIO("open catalog", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.NewIO("open catalog", path, err)
	}
	var version int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		db.Close()
		return nil, errors.NewIO("open catalog", path, err)
	}
	if version != schemaVersion {
		db.Close()
		return nil, errors.NewValidation("catalog", fmt.Sprintf("schema version %d, want %d", version, schemaVersion))
	}
	return &Catalog{db: db, readOnly: true, now: time.Now}, nil
}

func (c *Catalog) migrate(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range migrations {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

// Close releases the database handle.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// BeginScan registers a new scan of root and returns its identifier.
func (c *Catalog) BeginScan(ctx context.Context, root string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO scans (id, root, started_at) VALUES (?, ?, ?)`,
		id.String(), root, formatTime(c.now()))
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "begin scan")
	}
	logging.Debug("scan started", "scan", id, "root", root)
	return id, nil
}

// Record inserts e, replacing any previous entry for the same path.
func (c *Catalog) Record(ctx context.Context, e Entry) error {
	if c.readOnly {
		return errors.NewUnsupported("record", "catalog is read-only")
	}
	if e.Path == "" {
		return errors.NewValidation("path", "path is required")
	}
	if e.ScanID == uuid.Nil {
		return errors.NewValidation("scan", "scan id is required")
	}
	if e.IndexedAt.IsZero() {
		e.IndexedAt = c.now()
	}

	var version sql.NullInt64
	if e.Version != nil {
		version = sql.NullInt64{Int64: int64(*e.Version), Valid: true}
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO models (path, hash, version, name, size, chunks, round_trip, error, scan_id, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			hash = excluded.hash,
			version = excluded.version,
			name = excluded.name,
			size = excluded.size,
			chunks = excluded.chunks,
			round_trip = excluded.round_trip,
			error = excluded.error,
			scan_id = excluded.scan_id,
			indexed_at = excluded.indexed_at`,
		e.Path, e.Hash, version, e.Name, e.Size, strings.Join(e.Chunks, " "),
		e.RoundTrip, e.Err, e.ScanID.String(), formatTime(e.IndexedAt))
	if err != nil {
		return errors.Wrapf(err, "record %s", e.Path)
	}
	return nil
}

// Get returns the entry for path.
func (c *Catalog) Get(ctx context.Context, path string) (Entry, error) {
	entries, err := c.query(ctx, `WHERE path = ?`, path)
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, errors.NewNotFound("model", path)
	}
	return entries[0], nil
}

// List returns the entries matching f ordered by path.
func (c *Catalog) List(ctx context.Context, f Filter) ([]Entry, error) {
	var (
		where []string
		args  []any
	)
	if f.Failed {
		where = append(where, `(round_trip = 0 OR error != '')`)
	}
	if f.Hash != "" {
		where = append(where, `hash = ?`)
		args = append(args, f.Hash)
	}
	if f.Scan != uuid.Nil {
		where = append(where, `scan_id = ?`)
		args = append(args, f.Scan.String())
	}

	var clause string
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}
	clause += " ORDER BY path"
	if f.Limit > 0 {
		clause += " LIMIT ?"
		args = append(args, f.Limit)
	}
	return c.query(ctx, clause, args...)
}

func (c *Catalog) query(ctx context.Context, clause string, args ...any) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT path, hash, version, name, size, chunks, round_trip, error, scan_id, indexed_at
		FROM models `+clause, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query catalog")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			version   sql.NullInt64
			chunks    string
			scan      string
			indexedAt string
		)
		if err := rows.Scan(&e.Path, &e.Hash, &version, &e.Name, &e.Size, &chunks,
			&e.RoundTrip, &e.Err, &scan, &indexedAt); err != nil {
			return nil, errors.Wrap(err, "scan catalog row")
		}
		if version.Valid {
			v := uint32(version.Int64)
			e.Version = &v
		}
		if chunks != "" {
			e.Chunks = strings.Fields(chunks)
		}
		if e.ScanID, err = uuid.Parse(scan); err != nil {
			return nil, errors.Wrapf(err, "catalog row %s", e.Path)
		}
		if e.IndexedAt, err = time.Parse(time.RFC3339Nano, indexedAt); err != nil {
			return nil, errors.Wrapf(err, "catalog row %s", e.Path)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "query catalog")
	}
	return entries, nil
}

// Stats counts models, failures, distinct blobs and scans.
func (c *Catalog) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := c.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM models),
			(SELECT COUNT(*) FROM models WHERE round_trip = 0 OR error != ''),
			(SELECT COUNT(DISTINCT hash) FROM models),
			(SELECT COUNT(*) FROM scans)`).Scan(&s.Models, &s.Failed, &s.Blobs, &s.Scans)
	if err != nil {
		return Stats{}, errors.Wrap(err, "catalog stats")
	}
	return s, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
