package workflow

import (
	"fmt"
	"strings"

	"github.com/aknutsen/depositor/internal/identifier"
	"github.com/aknutsen/depositor/internal/provider"
)

// Validation bounds for user-supplied metadata.
const (
	minTitleLen       = 3
	maxTitleLen       = 250
	minDescriptionLen = 10
)

// FieldError is a validation failure attributable to a single input
// field, suitable for field-level display.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return provider.ErrValidation
}

// validatePublish checks the request before any network call: title and
// description lengths, at least one visible creator, ORCID formats, and
// a license when access is open.
func validatePublish(req PublishRequest) error {
	title, _ := req.Metadata["title"].(string)
	title = strings.TrimSpace(title)
	if len(title) < minTitleLen {
		return &FieldError{Field: "title", Message: fmt.Sprintf("must be at least %d characters", minTitleLen)}
	}
	if len(title) > maxTitleLen {
		return &FieldError{Field: "title", Message: fmt.Sprintf("must be at most %d characters", maxTitleLen)}
	}

	if desc, ok := req.Metadata["description"].(string); ok && desc != "" {
		if len(strings.TrimSpace(desc)) < minDescriptionLen {
			return &FieldError{Field: "description", Message: fmt.Sprintf("must be at least %d characters", minDescriptionLen)}
		}
	}

	visible := 0
	for i, c := range req.Creators {
		if c.Visible() {
			visible++
		}
		if c.ORCID != "" {
			if _, ok := identifier.ValidateORCID(c.ORCID); !ok {
				return &FieldError{
					Field:   fmt.Sprintf("creators[%d].orcid", i),
					Message: fmt.Sprintf("%q is not a valid ORCID iD", c.ORCID),
				}
			}
		}
	}
	if visible == 0 {
		return &FieldError{Field: "creators", Message: "at least one named creator is required"}
	}

	if access, _ := req.Metadata["access_right"].(string); access == "open" {
		if lic, _ := req.Metadata["license"].(string); lic == "" {
			return &FieldError{Field: "license", Message: "required when access is open"}
		}
	}

	return nil
}
