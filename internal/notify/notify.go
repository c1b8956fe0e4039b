// Package notify determines which co-authors of a freshly published
// deposit still lack an ORCID iD and should be asked for one. Delivery
// of the request (direct message or otherwise) is entirely external.
package notify

import (
	"context"

	"github.com/aknutsen/depositor/internal/deposit"
)

// Notifier delivers an identifier request to under-identified
// co-authors. Implementations live outside this module.
type Notifier interface {
	NotifyMissingORCID(ctx context.Context, creators []deposit.Creator) error
}

// MissingORCID returns the creators who have no ORCID iD and are not
// the publisher themselves. Hidden entries are soft-deleted and never
// notified. Returns an empty slice, not an error, when nobody
// qualifies.
func MissingORCID(publisherID string, finalCreators []deposit.Creator) []deposit.Creator {
	missing := make([]deposit.Creator, 0)
	for _, c := range finalCreators {
		if c.Hidden || c.ORCID != "" {
			continue
		}
		if publisherID != "" && c.ID == publisherID {
			continue
		}
		missing = append(missing, c)
	}
	return missing
}
