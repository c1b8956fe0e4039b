// Package identifier parses and validates persistent identifier strings
// (DOIs and ORCID iDs) used throughout the deposit workflow.
package identifier

import (
	"regexp"
	"strings"
)

var (
	// Matches a bare DOI: 10.XXXX/suffix with the registered suffix charset.
	bareDOIPattern = regexp.MustCompile(`(?i)^10\.\d{4,9}/[-._;()/:A-Z0-9]+$`)

	// Matches a doi:-prefixed DOI.
	prefixedDOIPattern = regexp.MustCompile(`(?i)^doi:10\.\d{4,9}/[-._;()/:A-Z0-9]+$`)

	// Matches the registry-local record ID embedded in a Zenodo-namespace DOI,
	// e.g. "10.5072/zenodo.318466" -> "318466".
	zenodoRecordPattern = regexp.MustCompile(`zenodo\.(\d+)`)

	// Matches the ORCID iD format, including the X check digit.
	orcidPattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)
)

// IsDOI reports whether s looks like a DOI. It accepts doi:-prefixed
// strings, doi.org resolver URLs, and bare 10.XXXX/suffix identifiers.
func IsDOI(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "doi:") {
		return true
	}
	if strings.HasPrefix(lower, "http://doi.org/") || strings.HasPrefix(lower, "https://doi.org/") {
		return true
	}
	return bareDOIPattern.MatchString(s) || prefixedDOIPattern.MatchString(s)
}

// ExtractRecordID extracts the registry-local record ID from a
// Zenodo-namespace DOI string. It returns the captured digits and true,
// or "" and false when the DOI does not carry a zenodo.N token.
func ExtractRecordID(doi string) (string, bool) {
	if doi == "" {
		return "", false
	}
	matches := zenodoRecordPattern.FindStringSubmatch(doi)
	if matches == nil {
		return "", false
	}
	return matches[1], true
}

// ValidateORCID checks that s matches the ORCID iD format
// (dddd-dddd-dddd-dddX). It validates format only, not the checksum,
// so syntactically valid but unregistered iDs are accepted.
// Returns the trimmed iD and true on success.
func ValidateORCID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !orcidPattern.MatchString(s) {
		return "", false
	}
	return s, true
}

// NormalizeDOI strips doi: prefixes and resolver URLs, returning the bare
// 10.XXXX/suffix form, or the input unchanged if no known prefix matches.
func NormalizeDOI(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "https://doi.org/"):
		return s[len("https://doi.org/"):]
	case strings.HasPrefix(lower, "http://doi.org/"):
		return s[len("http://doi.org/"):]
	case strings.HasPrefix(lower, "doi:"):
		return s[len("doi:"):]
	}
	return s
}
