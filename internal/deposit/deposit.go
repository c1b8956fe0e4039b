// Package deposit defines the core domain types for registry deposits:
// the remote record being built, its contributors, its lifecycle state,
// and the probing helpers that recover identity from raw provider
// responses.
package deposit

import (
	"strings"
)

// Provider identifies one of the two supported registry API shapes.
type Provider string

const (
	// ProviderZenodo is the Zenodo-style deposition API.
	ProviderZenodo Provider = "zenodo"

	// ProviderInvenio is the InvenioRDM-style records/draft API.
	ProviderInvenio Provider = "invenio"
)

// Valid reports whether p is a known provider kind.
func (p Provider) Valid() bool {
	return p == ProviderZenodo || p == ProviderInvenio
}

// State is the lifecycle state of a deposit.
type State string

const (
	// StateDraft is an editable, unpublished deposit.
	StateDraft State = "draft"

	// StatePublished is a deposit with an assigned DOI.
	StatePublished State = "published"

	// StateSuperseded is a published deposit that a newer version has
	// replaced as the current record. Its DOI remains resolvable.
	StateSuperseded State = "superseded"
)

// Creator is a contributor attributed to a deposit.
//
// Order matters: the first creator in a deposit's list is treated as the
// primary/corresponding author in downstream ORCID-linking flows.
type Creator struct {
	ID          string `json:"id,omitempty"`    // Internal user identifier
	Name        string `json:"name"`            // Display name, required for visibility
	ORCID       string `json:"orcid,omitempty"` // ORCID iD, format-validated when present
	Affiliation string `json:"affiliation,omitempty"`

	// Hidden soft-deletes the entry so list positions stay stable
	// while a contributor list is being edited.
	Hidden bool `json:"hidden,omitempty"`
}

// Visible reports whether the creator counts as a named, non-deleted
// contributor.
func (c Creator) Visible() bool {
	return !c.Hidden && strings.TrimSpace(c.Name) != ""
}

// Deposit is the remote record being built at a registry provider.
//
// RecordID is required for every operation except draft creation. Once
// DOI is non-empty it never changes for the same RecordID; only new
// versions receive new DOIs.
type Deposit struct {
	Provider Provider          `json:"provider"`
	RecordID string            `json:"record_id,omitempty"`
	State    State             `json:"state"`
	DOI      string            `json:"doi,omitempty"`
	Creators []Creator         `json:"creators,omitempty"`
	Metadata map[string]any    `json:"metadata,omitempty"`
	Links    map[string]string `json:"links,omitempty"` // Action links from the provider response

	// Raw is the provider response the deposit was built from. All
	// shape-uncertain probing happens in ExtractInfo/ExtractDOI; callers
	// should not dig into Raw directly.
	Raw map[string]any `json:"raw,omitempty"`
}

// UploadTarget returns the opaque upload endpoint for file attachments:
// the bucket link on Zenodo, the draft files link on InvenioRDM.
func (d *Deposit) UploadTarget() string {
	if d.Provider == ProviderInvenio {
		return d.Links["files"]
	}
	return d.Links["bucket"]
}

// Info is the identity summary reconstructed from a raw provider
// response: the assigned DOI, the registry-local record ID, and whether
// the record has been published.
type Info struct {
	DOI       string `json:"doi,omitempty"`
	RecordID  string `json:"record_id,omitempty"`
	Published bool   `json:"published"`
}

// FromRaw builds a Deposit from a raw provider response. State is
// computed once here from the response, not re-derived at call sites.
func FromRaw(p Provider, raw map[string]any) *Deposit {
	info := ExtractInfo(raw)

	state := StateDraft
	if info.Published {
		state = StatePublished
	}

	d := &Deposit{
		Provider: p,
		RecordID: info.RecordID,
		State:    state,
		DOI:      info.DOI,
		Creators: ExtractCreators(raw),
		Links:    extractLinks(raw),
		Raw:      raw,
	}
	if md, ok := raw["metadata"].(map[string]any); ok {
		d.Metadata = md
	}
	return d
}

// extractLinks flattens the string-valued entries of a response's links
// object.
func extractLinks(raw map[string]any) map[string]string {
	obj, ok := raw["links"].(map[string]any)
	if !ok {
		return nil
	}
	links := make(map[string]string, len(obj))
	for k, v := range obj {
		if s, ok := v.(string); ok && s != "" {
			links[k] = s
		}
	}
	return links
}
