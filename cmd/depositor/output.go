package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aknutsen/depositor/internal/deposit"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DepositResponse is the response for publish, edit, and new-version commands.
type DepositResponse struct {
	DOI          string            `json:"doi,omitempty"`
	RecordID     string            `json:"record_id"`
	Provider     string            `json:"provider"`
	State        string            `json:"state"`
	Published    bool              `json:"published"`
	PublishError string            `json:"publish_error,omitempty"`
	MissingORCID []deposit.Creator `json:"missing_orcid,omitempty"`
}

// StatusResponse is the response for the status command.
type StatusResponse struct {
	DOI       string            `json:"doi,omitempty"`
	RecordID  string            `json:"record_id"`
	Provider  string            `json:"provider"`
	State     string            `json:"state"`
	Published bool              `json:"published"`
	Creators  []deposit.Creator `json:"creators,omitempty"`
}

// printDepositHuman prints a deposit outcome in human-readable format.
func printDepositHuman(resp DepositResponse) {
	state := resp.State
	if resp.Published {
		state = "published"
	}
	outputHuman("Record %s (%s, %s)\n", resp.RecordID, resp.Provider, state)
	if resp.DOI != "" {
		outputHuman("DOI: %s\n", resp.DOI)
	}
	if resp.PublishError != "" {
		outputHuman("Publish failed, draft preserved: %s\n", resp.PublishError)
	}
	if len(resp.MissingORCID) > 0 {
		names := make([]string, len(resp.MissingORCID))
		for i, c := range resp.MissingORCID {
			names[i] = c.Name
		}
		outputHuman("Co-authors without ORCID: %s\n", strings.Join(names, ", "))
	}
}

// formatCreatorLine renders one creator for list-style human output.
func formatCreatorLine(c deposit.Creator) string {
	var parts []string
	parts = append(parts, c.Name)
	if c.ORCID != "" {
		parts = append(parts, c.ORCID)
	}
	if c.Affiliation != "" {
		parts = append(parts, c.Affiliation)
	}
	if c.Hidden {
		parts = append(parts, "(hidden)")
	}
	return strings.Join(parts, "  ")
}
