package main

import (
	"errors"

	"github.com/aknutsen/depositor/internal/archive"
	"github.com/aknutsen/depositor/internal/identifier"
	"github.com/spf13/cobra"
)

var archiveListLimit int

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Query the local archive of minted DOIs",
}

var archiveGetCmd = &cobra.Command{
	Use:   "get <content-id|doi>",
	Short: "Look up an archived deposit by content ID or DOI",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveGet,
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived deposits, newest first",
	Args:  cobra.NoArgs,
	RunE:  runArchiveList,
}

func init() {
	archiveListCmd.Flags().IntVar(&archiveListLimit, "limit", 50, "Maximum number of entries (0 for all)")
	archiveCmd.AddCommand(archiveGetCmd)
	archiveCmd.AddCommand(archiveListCmd)
	rootCmd.AddCommand(archiveCmd)
}

func runArchiveGet(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	db := mustOpenArchive(cfg)
	defer db.Close()

	key := args[0]
	var rec *archive.Record
	var err error
	if identifier.IsDOI(key) {
		rec, err = db.GetByDOI(identifier.NormalizeDOI(key))
	} else {
		rec, err = db.GetByContentID(key)
	}
	if err != nil {
		if errors.Is(err, archive.ErrNotFound) {
			exitWithError(ExitDataError, "no archived deposit for %q", key)
		}
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		printArchiveRecordHuman(*rec)
		return nil
	}
	return outputJSON(rec)
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	db := mustOpenArchive(cfg)
	defer db.Close()

	recs, err := db.List(archiveListLimit)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if recs == nil {
		recs = []archive.Record{}
	}

	if humanOutput {
		for _, rec := range recs {
			printArchiveRecordHuman(rec)
		}
		return nil
	}
	return outputJSON(recs)
}

func printArchiveRecordHuman(rec archive.Record) {
	outputHuman("%s  %s  record %s (%s)  %s\n",
		rec.ContentID, rec.DOI, rec.RecordID, rec.Provider,
		rec.ArchivedAt.Format("2006-01-02"))
}
