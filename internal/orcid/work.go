package orcid

import (
	"github.com/aknutsen/depositor/internal/deposit"
	"github.com/aknutsen/depositor/internal/identifier"
)

// BuildWork assembles the JSON body for an add-work call from a
// published deposit: title, journal/venue, publication year, and the
// DOI as a self-referencing external ID. Contributors follow the
// deposit's creator order, so the first creator stays the primary
// author on the ORCID side.
func BuildWork(title, venue, doi, year string, creators []deposit.Creator) map[string]any {
	work := map[string]any{
		"title": map[string]any{
			"title": map[string]any{"value": title},
		},
		"type": "other",
	}

	if venue != "" {
		work["journal-title"] = map[string]any{"value": venue}
	}
	if year != "" {
		work["publication-date"] = map[string]any{
			"year": map[string]any{"value": year},
		}
	}

	if doi != "" {
		work["external-ids"] = map[string]any{
			"external-id": []any{
				map[string]any{
					"external-id-type":         "doi",
					"external-id-value":        identifier.NormalizeDOI(doi),
					"external-id-relationship": "self",
				},
			},
		}
	}

	var contributors []any
	for _, c := range creators {
		if !c.Visible() {
			continue
		}
		entry := map[string]any{
			"credit-name": map[string]any{"value": c.Name},
		}
		if c.ORCID != "" {
			entry["contributor-orcid"] = map[string]any{
				"uri":  "https://orcid.org/" + c.ORCID,
				"path": c.ORCID,
			}
		}
		contributors = append(contributors, entry)
	}
	if len(contributors) > 0 {
		work["contributors"] = map[string]any{"contributor": contributors}
	}

	return work
}
