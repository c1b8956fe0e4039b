package archive

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aknutsen/depositor/internal/deposit"
	_ "modernc.org/sqlite"
)

// DB is a SQLite-backed Store.
type DB struct {
	db *sql.DB
}

const selectRecordFields = `content_id, doi, record_id, provider, raw_json, archived_at`

// OpenDB opens or creates a SQLite archive at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS archives (
			content_id TEXT PRIMARY KEY,
			doi TEXT NOT NULL,
			record_id TEXT NOT NULL,
			provider TEXT NOT NULL,
			raw_json TEXT,
			archived_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_archives_doi ON archives(doi);
	`

	_, err := db.Exec(schema)
	return err
}

// Save inserts or replaces the archived record for a content ID. Re-archiving
// the same content (e.g. after a new version) overwrites the previous row.
func (d *DB) Save(rec Record) error {
	if rec.ContentID == "" {
		return fmt.Errorf("content ID is required")
	}
	var rawJSON sql.NullString
	if len(rec.Raw) > 0 {
		b, err := json.Marshal(rec.Raw)
		if err != nil {
			return fmt.Errorf("marshaling raw record for %s: %w", rec.ContentID, err)
		}
		rawJSON = sql.NullString{String: string(b), Valid: true}
	}

	archivedAt := rec.ArchivedAt
	if archivedAt.IsZero() {
		archivedAt = time.Now().UTC()
	}

	_, err := d.db.Exec(`
		INSERT OR REPLACE INTO archives (content_id, doi, record_id, provider, raw_json, archived_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.ContentID, rec.DOI, rec.RecordID, string(rec.Provider), rawJSON, archivedAt.Unix())
	if err != nil {
		return fmt.Errorf("inserting archive %s: %w", rec.ContentID, err)
	}
	return nil
}

// GetByContentID retrieves the archived record for a content ID.
func (d *DB) GetByContentID(contentID string) (*Record, error) {
	row := d.db.QueryRow(`SELECT `+selectRecordFields+` FROM archives WHERE content_id = ?`, contentID)
	return scanRecord(row)
}

// GetByDOI retrieves the archived record carrying the given DOI.
func (d *DB) GetByDOI(doi string) (*Record, error) {
	row := d.db.QueryRow(`SELECT `+selectRecordFields+` FROM archives WHERE doi = ?`, doi)
	return scanRecord(row)
}

// List returns archived records ordered by archive time, newest first.
// A non-positive limit returns everything.
func (d *DB) List(limit int) ([]Record, error) {
	query := `SELECT ` + selectRecordFields + ` FROM archives ORDER BY archived_at DESC, content_id`
	var args []interface{}

	if limit > 0 {
		query += " LIMIT ?"
		args = []interface{}{limit}
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing archives: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			recs = append(recs, *rec)
		}
	}
	return recs, rows.Err()
}

// Count returns the total number of archived records.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM archives").Scan(&count)
	return count, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*Record, error) {
	var rec Record
	var provider string
	var rawJSON sql.NullString
	var archivedAt int64

	err := s.Scan(&rec.ContentID, &rec.DOI, &rec.RecordID, &provider, &rawJSON, &archivedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rec.Provider = deposit.Provider(provider)
	rec.ArchivedAt = time.Unix(archivedAt, 0).UTC()

	if rawJSON.Valid && rawJSON.String != "" {
		if err := json.Unmarshal([]byte(rawJSON.String), &rec.Raw); err != nil {
			return nil, fmt.Errorf("parsing raw JSON for %s: %w", rec.ContentID, err)
		}
	}

	return &rec, nil
}
