// Package metadata normalizes raw deposit metadata for submission and
// formats contributor lists into the two provider-specific payload
// shapes.
package metadata

import (
	"fmt"
	"strings"

	"github.com/aknutsen/depositor/internal/deposit"
)

// Default InvenioRDM metadata values injected when the caller supplies
// none.
const (
	DefaultResourceType = "publication-other"
	DefaultPublisher    = "Zenodo"
)

// CleanForSubmission returns a copy of md suitable for submission to a
// registry provider:
//
//  1. doi and doi_url are dropped unconditionally; providers reject
//     externally supplied DOIs under a reserved prefix.
//  2. subjects is filtered of empty entries, or dropped entirely when it
//     is not a list.
//  3. keywords is normalized to a list of trimmed non-empty strings,
//     splitting a single comma-separated string if needed, or dropped
//     when it is neither a string nor a list.
//  4. Every remaining nil or empty-string value is dropped.
//
// The input map is not modified. Cleaning an already-clean map returns
// an equal map.
func CleanForSubmission(md map[string]any) map[string]any {
	out := make(map[string]any, len(md))
	for k, v := range md {
		out[k] = v
	}

	delete(out, "doi")
	delete(out, "doi_url")

	if v, present := out["subjects"]; present {
		if list, ok := v.([]any); ok {
			out["subjects"] = cleanSubjects(list)
		} else {
			delete(out, "subjects")
		}
	}

	if v, present := out["keywords"]; present {
		if kw, ok := cleanKeywords(v); ok {
			out["keywords"] = kw
		} else {
			delete(out, "keywords")
		}
	}

	for k, v := range out {
		if v == nil {
			delete(out, k)
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			delete(out, k)
		}
	}

	return out
}

// cleanSubjects drops subject entries that are empty maps or whose every
// value is nil, empty, or an empty list.
func cleanSubjects(list []any) []any {
	out := make([]any, 0, len(list))
	for _, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			out = append(out, entry)
			continue
		}
		if !emptySubject(m) {
			out = append(out, m)
		}
	}
	return out
}

func emptySubject(m map[string]any) bool {
	for _, v := range m {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			if val != "" {
				return false
			}
		case []any:
			if len(val) != 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// cleanKeywords normalizes the keywords field. A comma-separated string
// is split; a list has each entry stringified and trimmed. Empty entries
// are dropped. The second return is false when the field has neither
// shape and should be removed.
func cleanKeywords(v any) ([]string, bool) {
	switch kw := v.(type) {
	case string:
		parts := strings.Split(kw, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, true
	case []any:
		out := make([]string, 0, len(kw))
		for _, entry := range kw {
			s := strings.TrimSpace(fmt.Sprint(entry))
			if s != "" && entry != nil {
				out = append(out, s)
			}
		}
		return out, true
	case []string:
		out := make([]string, 0, len(kw))
		for _, entry := range kw {
			if s := strings.TrimSpace(entry); s != "" {
				out = append(out, s)
			}
		}
		return out, true
	}
	return nil, false
}

// FormatCreators formats a creator list into the provider's metadata
// fragment.
//
// For Zenodo the list goes verbatim under a creators key. For InvenioRDM
// each creator maps to the person_or_org shape, with family_name falling
// back to the bare name when it cannot be split, the ORCID identifier
// sub-object and affiliations array included only when non-empty, and
// resource_type/publisher defaults injected.
//
// When no creator is visible the creators key is omitted entirely: a
// metadata update without creators must leave the record's existing
// author list untouched rather than erase it.
func FormatCreators(creators []deposit.Creator, provider deposit.Provider) map[string]any {
	if provider == deposit.ProviderInvenio {
		return formatInvenioCreators(creators)
	}
	return formatZenodoCreators(creators)
}

func formatZenodoCreators(creators []deposit.Creator) map[string]any {
	list := make([]any, 0, len(creators))
	for _, c := range creators {
		if !c.Visible() {
			continue
		}
		entry := map[string]any{"name": c.Name}
		if c.ORCID != "" {
			entry["orcid"] = c.ORCID
		}
		if c.Affiliation != "" {
			entry["affiliation"] = c.Affiliation
		}
		list = append(list, entry)
	}
	if len(list) == 0 {
		// An explicit empty creators list would erase the record's
		// existing authors on update; omit the key instead.
		return map[string]any{}
	}
	return map[string]any{"creators": list}
}

func formatInvenioCreators(creators []deposit.Creator) map[string]any {
	list := make([]any, 0, len(creators))
	for _, c := range creators {
		if !c.Visible() {
			continue
		}

		given, family := splitName(c.Name)
		person := map[string]any{
			"type":        "personal",
			"name":        c.Name,
			"family_name": family,
		}
		if given != "" {
			person["given_name"] = given
		}
		if c.ORCID != "" {
			person["identifiers"] = []any{
				map[string]any{"identifier": c.ORCID, "scheme": "orcid"},
			}
		}

		entry := map[string]any{"person_or_org": person}
		if c.Affiliation != "" {
			entry["affiliations"] = []any{map[string]any{"name": c.Affiliation}}
		}
		list = append(list, entry)
	}

	fragment := map[string]any{
		"resource_type": map[string]any{"id": DefaultResourceType},
		"publisher":     DefaultPublisher,
	}
	if len(list) > 0 {
		fragment["creators"] = list
	}
	return fragment
}

// splitName splits a display name into given and family parts.
// "Family, Given" splits on the comma; otherwise the family name falls
// back to the full name with no given name.
func splitName(name string) (given, family string) {
	if idx := strings.Index(name, ","); idx > 0 {
		family = strings.TrimSpace(name[:idx])
		given = strings.TrimSpace(name[idx+1:])
		return given, family
	}
	return "", strings.TrimSpace(name)
}

// BuildPayload composes the full request body for a draft create or
// metadata update: cleaned metadata merged with the provider-shaped
// creators fragment, under the top-level metadata key. Caller-supplied
// values survive; only resource_type/publisher defaults yield to
// existing entries.
func BuildPayload(creators []deposit.Creator, md map[string]any, provider deposit.Provider) map[string]any {
	merged := CleanForSubmission(md)
	for k, v := range FormatCreators(creators, provider) {
		if _, exists := merged[k]; exists && (k == "resource_type" || k == "publisher") {
			continue
		}
		merged[k] = v
	}
	return map[string]any{"metadata": merged}
}
