package deposit

import (
	"strconv"

	"github.com/aknutsen/depositor/internal/identifier"
)

// The two providers place the DOI and record ID in different response
// locations, and the same provider varies them between reserved and
// assigned states. All of that shape uncertainty is contained here.

// ExtractDOI extracts a resolvable DOI URL from a raw provider response,
// trying in priority order: an explicit doi_url field, the
// pids.doi.identifier path (InvenioRDM), then the legacy
// metadata.prereserve_doi.doi reservation. The latter two are wrapped as
// https://doi.org/{value}. Returns "" when no DOI is present.
func ExtractDOI(raw map[string]any) string {
	if raw == nil {
		return ""
	}

	if u := stringField(raw, "doi_url"); u != "" {
		return u
	}
	if v := stringPath(raw, "pids", "doi", "identifier"); v != "" {
		return "https://doi.org/" + v
	}
	if v := stringPath(raw, "metadata", "prereserve_doi", "doi"); v != "" {
		return "https://doi.org/" + v
	}
	return ""
}

// ExtractInfo reconstructs a deposit's identity summary from a raw
// provider response.
//
// The DOI comes from the doi field, else doi_url, else the prereserved
// DOI. The record ID comes from id, else conceptrecid, else record_id,
// and as a last resort is parsed out of the resolved DOI. A record
// counts as published when its state flag is "done", when a published
// marker is present, or when an assigned DOI carries the provider
// namespace token; a merely prereserved DOI leaves the record a draft.
func ExtractInfo(raw map[string]any) Info {
	if raw == nil {
		return Info{}
	}

	// A DOI from the top-level fields or pids is assigned; one that only
	// appears under prereserve_doi is reserved for a still-unpublished
	// draft and must not mark the record published.
	assigned := stringField(raw, "doi")
	if assigned == "" {
		assigned = stringField(raw, "doi_url")
	}
	if assigned == "" {
		assigned = stringPath(raw, "pids", "doi", "identifier")
	}

	doi := assigned
	if doi == "" {
		doi = stringPath(raw, "metadata", "prereserve_doi", "doi")
	}

	recordID := stringField(raw, "id")
	if recordID == "" {
		recordID = stringField(raw, "conceptrecid")
	}
	if recordID == "" {
		recordID = stringField(raw, "record_id")
	}
	if recordID == "" {
		if id, ok := identifier.ExtractRecordID(doi); ok {
			recordID = id
		}
	}

	published := stringField(raw, "state") == "done" ||
		raw["published"] != nil ||
		boolField(raw, "is_published")
	if !published {
		if _, ok := identifier.ExtractRecordID(assigned); ok {
			published = true
		}
	}

	return Info{
		DOI:       doi,
		RecordID:  recordID,
		Published: published,
	}
}

// ExtractCreators parses the contributor list back out of a raw provider
// response's metadata. Both shapes are handled per entry: the flat
// Zenodo form {name, orcid, affiliation} and the InvenioRDM form
// {person_or_org: {...}, affiliations: [...]}. Returns nil when the
// response carries no creators.
func ExtractCreators(raw map[string]any) []Creator {
	md, ok := raw["metadata"].(map[string]any)
	if !ok {
		return nil
	}
	list, ok := md["creators"].([]any)
	if !ok {
		return nil
	}

	var creators []Creator
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		var c Creator
		if person, ok := entry["person_or_org"].(map[string]any); ok {
			c = invenioCreator(person, entry)
		} else {
			c = Creator{
				Name:        stringField(entry, "name"),
				ORCID:       stringField(entry, "orcid"),
				Affiliation: stringField(entry, "affiliation"),
			}
		}
		if c.Name == "" {
			continue
		}
		creators = append(creators, c)
	}
	return creators
}

func invenioCreator(person, entry map[string]any) Creator {
	c := Creator{Name: stringField(person, "name")}
	if c.Name == "" {
		family := stringField(person, "family_name")
		given := stringField(person, "given_name")
		if family != "" && given != "" {
			c.Name = family + ", " + given
		} else {
			c.Name = family
		}
	}

	if ids, ok := person["identifiers"].([]any); ok {
		for _, item := range ids {
			id, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if stringField(id, "scheme") == "orcid" {
				c.ORCID = stringField(id, "identifier")
				break
			}
		}
	}

	if affs, ok := entry["affiliations"].([]any); ok && len(affs) > 0 {
		if aff, ok := affs[0].(map[string]any); ok {
			c.Affiliation = stringField(aff, "name")
		}
	}
	return c
}

// stringField returns the string value at a top-level key, converting
// JSON numbers (record IDs arrive as either) to their integer form.
func stringField(raw map[string]any, key string) string {
	switch v := raw[key].(type) {
	case string:
		return v
	case float64:
		return formatJSONNumber(v)
	case int:
		return formatJSONNumber(float64(v))
	}
	return ""
}

// stringPath digs through nested objects and returns the string at the
// end of the path, or "".
func stringPath(raw map[string]any, path ...string) string {
	cur := raw
	for i, key := range path {
		if i == len(path)-1 {
			return stringField(cur, key)
		}
		next, ok := cur[key].(map[string]any)
		if !ok {
			return ""
		}
		cur = next
	}
	return ""
}

func boolField(raw map[string]any, key string) bool {
	b, _ := raw[key].(bool)
	return b
}

func formatJSONNumber(f float64) string {
	// Record IDs are integral; avoid scientific notation from %v.
	n := int64(f)
	if float64(n) != f {
		return ""
	}
	return strconv.FormatInt(n, 10)
}
