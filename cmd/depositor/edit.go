package main

import (
	"context"

	"github.com/aknutsen/depositor/internal/creators"
	"github.com/aknutsen/depositor/internal/deposit"
	"github.com/aknutsen/depositor/internal/notify"
	"github.com/aknutsen/depositor/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	editMetadata  string
	editCreators  string
	editPublisher string
)

var editCmd = &cobra.Command{
	Use:   "edit <record-id>",
	Short: "Update the metadata of an existing record",
	Long: `Update the metadata of an existing record in place.

Incoming creators from --creators are merged with the record's current
creator list: entries matching by ORCID, internal ID, or name are
enriched rather than duplicated, and new entries are appended.

On Zenodo-style providers a published record is unlocked through its
edit action first and republished after the update. The DOI does not
change; use new-version for changes that warrant a fresh DOI.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editMetadata, "metadata", "", "Path to a JSON metadata object")
	editCmd.Flags().StringVar(&editCreators, "creators", "", "Path to a JSON creators array")
	editCmd.Flags().StringVar(&editPublisher, "publisher", "", "Creator ID of the user performing the edit")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	recordID := args[0]
	cfg := mustLoadConfig()
	client := mustClient(cfg)

	md := map[string]any{}
	if editMetadata != "" {
		var err error
		md, err = loadMetadataFile(editMetadata)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
	}
	md = cfg.ApplyDefaults(md)

	// Merge incoming creators against the record's current list so
	// repeated edits enrich entries instead of duplicating them.
	rec, err := client.GetRecord(context.Background(), recordID)
	if err != nil {
		exitWithError(exitCodeForError(err), "fetching record %s: %v", recordID, err)
	}
	creatorList := rec.Creators
	if editCreators != "" {
		incoming, err := loadCreatorsFile(editCreators)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		creatorList = creators.Merge(rec.Creators, incoming)
	}

	orch := workflow.New(client)
	updated, err := orch.UpdatePublished(context.Background(), recordID, creatorList, md)
	if err != nil {
		reportWorkflowError(nil, err)
	}

	resp := DepositResponse{
		DOI:          deposit.ExtractDOI(updated.Raw),
		RecordID:     updated.RecordID,
		Provider:     string(updated.Provider),
		State:        string(updated.State),
		Published:    updated.State == deposit.StatePublished,
		MissingORCID: notify.MissingORCID(editPublisher, creatorList),
	}

	if humanOutput {
		printDepositHuman(resp)
		return nil
	}
	return outputJSON(resp)
}
