package main

import (
	"context"

	"github.com/aknutsen/depositor/internal/deposit"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <record-id>",
	Short: "Show the current state of a record",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	client := mustClient(cfg)

	rec, err := client.GetRecord(context.Background(), args[0])
	if err != nil {
		exitWithError(exitCodeForError(err), "fetching record %s: %v", args[0], err)
	}

	resp := StatusResponse{
		DOI:       deposit.ExtractDOI(rec.Raw),
		RecordID:  rec.RecordID,
		Provider:  string(rec.Provider),
		State:     string(rec.State),
		Published: rec.State == deposit.StatePublished,
		Creators:  rec.Creators,
	}

	if humanOutput {
		outputHuman("Record %s (%s, %s)\n", resp.RecordID, resp.Provider, resp.State)
		if resp.DOI != "" {
			outputHuman("DOI: %s\n", resp.DOI)
		}
		for _, c := range resp.Creators {
			outputHuman("  %s\n", formatCreatorLine(c))
		}
		return nil
	}
	return outputJSON(resp)
}
