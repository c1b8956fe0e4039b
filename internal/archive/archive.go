// Package archive records minted deposits so a discussion thread can be
// linked back to its DOI without asking the provider again.
package archive

import (
	"errors"
	"time"

	"github.com/aknutsen/depositor/internal/deposit"
)

// ErrNotFound indicates no archived record exists for the lookup key.
var ErrNotFound = errors.New("archive: record not found")

// Record is one archived deposit, keyed by the content it was minted for.
type Record struct {
	ContentID  string           `json:"content_id"`
	DOI        string           `json:"doi"`
	RecordID   string           `json:"record_id"`
	Provider   deposit.Provider `json:"provider"`
	Raw        map[string]any   `json:"raw,omitempty"`
	ArchivedAt time.Time        `json:"archived_at"`
}

// Store persists archived deposits.
type Store interface {
	Save(rec Record) error
	GetByContentID(contentID string) (*Record, error)
	GetByDOI(doi string) (*Record, error)
	List(limit int) ([]Record, error)
	Close() error
}
