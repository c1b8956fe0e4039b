package attach

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DOI pattern: 10.XXXX/... excluding characters a DOI suffix never
// carries in running text.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// SniffDOI searches a PDF attachment's first pages for an existing DOI,
// so a thread whose attachment already carries a minted identifier is
// not deposited a second time. It only works on path-backed files and
// returns "" when no DOI is found (not an error).
func SniffDOI(f File) (string, error) {
	if f.Path == "" || !strings.EqualFold(filepath.Ext(f.Filename), ".pdf") {
		return "", nil
	}

	file, r, err := pdf.Open(f.Path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	// The DOI is almost always on the first page.
	maxPages := 3
	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}

	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if doi := findDOI(text); doi != "" {
			return doi, nil
		}
	}

	return "", nil
}

// findDOI finds the first plausible DOI in text.
func findDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if plausibleDOI(match) {
			return match
		}
	}
	return ""
}

func plausibleDOI(doi string) bool {
	if len(doi) < 10 || !strings.HasPrefix(doi, "10.") {
		return false
	}
	slashIdx := strings.Index(doi, "/")
	return slashIdx != -1 && slashIdx < len(doi)-1
}
