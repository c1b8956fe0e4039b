// Package creators reconciles contributor lists arriving from multiple
// sources (stored record metadata, live thread participants, form edits)
// into one deduplicated, identity-preserving list.
package creators

import (
	"github.com/aknutsen/depositor/internal/deposit"
)

// Merge merges incoming creators into base, producing one list without
// duplicate people and without losing manually entered ORCID or
// affiliation data.
//
// Identity is matched by ORCID, then internal user ID, then display
// name, first match wins. A matched entry is replaced in place with a
// field-wise merge where the incoming value overrides the base value
// only when non-empty. Unmatched incoming entries are appended. The
// result is finally deduplicated by the same priority key, keeping the
// first occurrence and preserving relative order, so an entry keyed
// only by name that gains an ORCID during the merge cannot reappear as
// a second entry.
//
// Merge is idempotent: Merge(Merge(a, b), b) equals Merge(a, b).
func Merge(base, incoming []deposit.Creator) []deposit.Creator {
	result := make([]deposit.Creator, len(base))
	copy(result, base)

	byORCID := make(map[string]int)
	byID := make(map[string]int)
	byName := make(map[string]int)
	index := func(c deposit.Creator, i int) {
		if c.ORCID != "" {
			if _, taken := byORCID[c.ORCID]; !taken {
				byORCID[c.ORCID] = i
			}
		}
		if c.ID != "" {
			if _, taken := byID[c.ID]; !taken {
				byID[c.ID] = i
			}
		}
		if c.Name != "" {
			if _, taken := byName[c.Name]; !taken {
				byName[c.Name] = i
			}
		}
	}
	for i, c := range result {
		index(c, i)
	}

	for _, inc := range incoming {
		i, matched := lookup(inc, byORCID, byID, byName)
		if !matched {
			result = append(result, inc)
			index(inc, len(result)-1)
			continue
		}
		merged := mergeFields(result[i], inc)
		result[i] = merged
		// A merge can populate previously empty identity fields; keep
		// the lookup maps current so later incoming entries match it.
		index(merged, i)
	}

	return dedupe(result)
}

// lookup finds the base index matching the creator by ORCID, then ID,
// then name.
func lookup(c deposit.Creator, byORCID, byID, byName map[string]int) (int, bool) {
	if c.ORCID != "" {
		if i, ok := byORCID[c.ORCID]; ok {
			return i, true
		}
	}
	if c.ID != "" {
		if i, ok := byID[c.ID]; ok {
			return i, true
		}
	}
	if c.Name != "" {
		if i, ok := byName[c.Name]; ok {
			return i, true
		}
	}
	return 0, false
}

// mergeFields overlays inc onto base: incoming string fields win only
// when non-empty, so richer existing data survives a sparse update.
// Hidden is an explicit editing flag and always takes the incoming
// value.
func mergeFields(base, inc deposit.Creator) deposit.Creator {
	out := base
	if inc.ID != "" {
		out.ID = inc.ID
	}
	if inc.Name != "" {
		out.Name = inc.Name
	}
	if inc.ORCID != "" {
		out.ORCID = inc.ORCID
	}
	if inc.Affiliation != "" {
		out.Affiliation = inc.Affiliation
	}
	out.Hidden = inc.Hidden
	return out
}

// Key returns the creator's identity key with priority
// ORCID > internal ID > display name. Entries with no identity at all
// key to "".
func Key(c deposit.Creator) string {
	switch {
	case c.ORCID != "":
		return "orcid:" + c.ORCID
	case c.ID != "":
		return "id:" + c.ID
	case c.Name != "":
		return "name:" + c.Name
	}
	return ""
}

// dedupe removes later entries sharing an identity key with an earlier
// one, preserving relative order.
func dedupe(list []deposit.Creator) []deposit.Creator {
	seen := make(map[string]bool, len(list))
	out := make([]deposit.Creator, 0, len(list))
	for _, c := range list {
		k := Key(c)
		if k != "" && seen[k] {
			continue
		}
		if k != "" {
			seen[k] = true
		}
		out = append(out, c)
	}
	return out
}
