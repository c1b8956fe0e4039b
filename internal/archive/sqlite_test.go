package archive

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aknutsen/depositor/internal/deposit"
)

// setupTestDB creates an archive database with two records.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "archive.db")
	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	recs := []Record{
		{
			ContentID:  "thread-100",
			DOI:        "10.5281/zenodo.111",
			RecordID:   "111",
			Provider:   deposit.ProviderZenodo,
			Raw:        map[string]any{"title": "Discussion on phylogenetics"},
			ArchivedAt: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC),
		},
		{
			ContentID:  "thread-200",
			DOI:        "10.5281/zenodo.222",
			RecordID:   "222",
			Provider:   deposit.ProviderInvenio,
			ArchivedAt: time.Date(2026, 2, 20, 9, 30, 0, 0, time.UTC),
		},
	}
	for _, rec := range recs {
		if err := db.Save(rec); err != nil {
			t.Fatalf("Save(%s): %v", rec.ContentID, err)
		}
	}
	return db
}

func TestGetByContentID(t *testing.T) {
	db := setupTestDB(t)

	rec, err := db.GetByContentID("thread-100")
	if err != nil {
		t.Fatalf("GetByContentID: %v", err)
	}
	if rec.DOI != "10.5281/zenodo.111" {
		t.Errorf("DOI = %q", rec.DOI)
	}
	if rec.Provider != deposit.ProviderZenodo {
		t.Errorf("Provider = %q", rec.Provider)
	}
	if rec.Raw["title"] != "Discussion on phylogenetics" {
		t.Errorf("Raw = %v", rec.Raw)
	}
	if !rec.ArchivedAt.Equal(time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("ArchivedAt = %v", rec.ArchivedAt)
	}
}

func TestGetByContentIDNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetByContentID("thread-999")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGetByDOI(t *testing.T) {
	db := setupTestDB(t)

	rec, err := db.GetByDOI("10.5281/zenodo.222")
	if err != nil {
		t.Fatalf("GetByDOI: %v", err)
	}
	if rec.ContentID != "thread-200" {
		t.Errorf("ContentID = %q", rec.ContentID)
	}
	if rec.Raw != nil {
		t.Errorf("Raw = %v, want nil", rec.Raw)
	}

	if _, err := db.GetByDOI("10.9999/none"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing DOI err = %v, want ErrNotFound", err)
	}
}

func TestSaveOverwrites(t *testing.T) {
	db := setupTestDB(t)

	// Re-archive thread-100 with a new version's DOI.
	err := db.Save(Record{
		ContentID: "thread-100",
		DOI:       "10.5281/zenodo.333",
		RecordID:  "333",
		Provider:  deposit.ProviderZenodo,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	rec, err := db.GetByContentID("thread-100")
	if err != nil {
		t.Fatalf("GetByContentID: %v", err)
	}
	if rec.DOI != "10.5281/zenodo.333" || rec.RecordID != "333" {
		t.Errorf("rec = %+v, want new version", rec)
	}

	count, err := db.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("Count = %d, want 2", count)
	}
}

func TestSaveRequiresContentID(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Save(Record{DOI: "10.1/x"}); err == nil {
		t.Error("expected error for missing content ID")
	}
}

func TestSaveDefaultsArchivedAt(t *testing.T) {
	db := setupTestDB(t)

	before := time.Now().UTC().Add(-time.Second)
	if err := db.Save(Record{ContentID: "thread-300", DOI: "10.1/y", RecordID: "300", Provider: deposit.ProviderZenodo}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	rec, err := db.GetByContentID("thread-300")
	if err != nil {
		t.Fatalf("GetByContentID: %v", err)
	}
	if rec.ArchivedAt.Before(before) {
		t.Errorf("ArchivedAt = %v, want recent", rec.ArchivedAt)
	}
}

func TestList(t *testing.T) {
	db := setupTestDB(t)

	recs, err := db.List(0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	// Newest first.
	if recs[0].ContentID != "thread-200" || recs[1].ContentID != "thread-100" {
		t.Errorf("order = %s, %s", recs[0].ContentID, recs[1].ContentID)
	}

	recs, err = db.List(1)
	if err != nil {
		t.Fatalf("List(1): %v", err)
	}
	if len(recs) != 1 || recs[0].ContentID != "thread-200" {
		t.Errorf("limited list = %+v", recs)
	}
}
