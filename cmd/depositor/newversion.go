package main

import (
	"context"

	"github.com/aknutsen/depositor/internal/archive"
	"github.com/aknutsen/depositor/internal/attach"
	"github.com/aknutsen/depositor/internal/creators"
	"github.com/aknutsen/depositor/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	versionMetadata  string
	versionCreators  string
	versionContentID string
	versionPublisher string
)

var newVersionCmd = &cobra.Command{
	Use:   "new-version <record-id> [files...]",
	Short: "Publish a new version of a record with a fresh DOI",
	Long: `Derive a new draft from a published record, rewrite its metadata,
upload the given attachments, and publish it.

The new record receives its own DOI; the superseded record keeps the
old one. Incoming creators are merged with the source record's list,
the same reconciliation the edit command performs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNewVersion,
}

func init() {
	newVersionCmd.Flags().StringVar(&versionMetadata, "metadata", "", "Path to a JSON metadata object")
	newVersionCmd.Flags().StringVar(&versionCreators, "creators", "", "Path to a JSON creators array")
	newVersionCmd.Flags().StringVar(&versionContentID, "content-id", "", "Thread or content ID to re-archive under the new DOI")
	newVersionCmd.Flags().StringVar(&versionPublisher, "publisher", "", "Creator ID of the user performing the deposit")
	rootCmd.AddCommand(newVersionCmd)
}

func runNewVersion(cmd *cobra.Command, args []string) error {
	recordID := args[0]
	cfg := mustLoadConfig()
	client := mustClient(cfg)

	md := map[string]any{}
	if versionMetadata != "" {
		var err error
		md, err = loadMetadataFile(versionMetadata)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
	}
	md = cfg.ApplyDefaults(md)

	rec, err := client.GetRecord(context.Background(), recordID)
	if err != nil {
		exitWithError(exitCodeForError(err), "fetching record %s: %v", recordID, err)
	}
	creatorList := rec.Creators
	if versionCreators != "" {
		incoming, err := loadCreatorsFile(versionCreators)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		creatorList = creators.Merge(rec.Creators, incoming)
	}

	files := make([]attach.File, 0, len(args)-1)
	for _, path := range args[1:] {
		files = append(files, attach.FromPath(path))
	}

	orch := workflow.New(client)
	res, err := orch.NewVersion(context.Background(), recordID, creatorList, md, files)
	if err != nil {
		reportWorkflowError(res, err)
	}

	if versionContentID != "" && res.DOI != "" {
		db := mustOpenArchive(cfg)
		defer db.Close()
		saveErr := db.Save(archive.Record{
			ContentID: versionContentID,
			DOI:       res.DOI,
			RecordID:  res.Deposit.RecordID,
			Provider:  res.Deposit.Provider,
			Raw:       res.Deposit.Raw,
		})
		if saveErr != nil {
			exitWithError(ExitError, "deposit succeeded but archiving failed: %v", saveErr)
		}
	}

	resp := depositResponse(res, versionPublisher, creatorList)

	if humanOutput {
		printDepositHuman(resp)
		return nil
	}
	return outputJSON(resp)
}
