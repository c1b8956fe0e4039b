package main

import (
	"context"
	"errors"

	"github.com/aknutsen/depositor/internal/archive"
	"github.com/aknutsen/depositor/internal/attach"
	"github.com/aknutsen/depositor/internal/config"
	"github.com/aknutsen/depositor/internal/deposit"
	"github.com/aknutsen/depositor/internal/notify"
	"github.com/aknutsen/depositor/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	publishTitle       string
	publishDescription string
	publishMetadata    string
	publishCreators    string
	publishNow         bool
	publishContentID   string
	publishPublisher   string
	publishForce       bool
)

var publishCmd = &cobra.Command{
	Use:   "publish [files...]",
	Short: "Create a new deposit and optionally publish it",
	Long: `Create a new deposit from metadata and attachments.

Metadata comes from --metadata (a JSON object) merged with the --title
and --description flags; config defaults fill anything left unset.
Creators come from --creators, a JSON array of creator objects.

Attached PDFs are scanned for an embedded DOI before anything is sent:
a file that already carries a DOI usually means the thread was archived
before, so the command refuses unless --force is given.

By default the record stays a draft. With --publish it is published
immediately and receives its DOI; if that final step fails the draft
survives and its record ID is reported.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishTitle, "title", "", "Deposit title")
	publishCmd.Flags().StringVar(&publishDescription, "description", "", "Deposit description")
	publishCmd.Flags().StringVar(&publishMetadata, "metadata", "", "Path to a JSON metadata object")
	publishCmd.Flags().StringVar(&publishCreators, "creators", "", "Path to a JSON creators array")
	publishCmd.Flags().BoolVar(&publishNow, "publish", false, "Publish immediately instead of leaving a draft")
	publishCmd.Flags().StringVar(&publishContentID, "content-id", "", "Thread or content ID to archive the DOI under")
	publishCmd.Flags().StringVar(&publishPublisher, "publisher", "", "Creator ID of the user performing the deposit")
	publishCmd.Flags().BoolVar(&publishForce, "force", false, "Deposit even if an attached PDF already carries a DOI")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	md := map[string]any{}
	if publishMetadata != "" {
		var err error
		md, err = loadMetadataFile(publishMetadata)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
	}
	if publishTitle != "" {
		md["title"] = publishTitle
	}
	if publishDescription != "" {
		md["description"] = publishDescription
	}
	md = cfg.ApplyDefaults(md)

	var creatorList []deposit.Creator
	if publishCreators != "" {
		var err error
		creatorList, err = loadCreatorsFile(publishCreators)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
	}

	files := make([]attach.File, 0, len(args))
	for _, path := range args {
		files = append(files, attach.FromPath(path))
	}

	if !publishForce {
		checkAttachedDOIs(files)
	}

	orch := workflow.New(mustClient(cfg))
	res, err := orch.PublishNew(context.Background(), workflow.PublishRequest{
		Creators:    creatorList,
		Metadata:    md,
		Files:       files,
		AutoPublish: publishNow,
	})
	if err != nil {
		reportWorkflowError(res, err)
	}

	if publishContentID != "" && res.DOI != "" {
		archiveResult(cfg, publishContentID, res)
	}

	resp := depositResponse(res, publishPublisher, creatorList)

	if humanOutput {
		printDepositHuman(resp)
		return nil
	}
	return outputJSON(resp)
}

// checkAttachedDOIs refuses the deposit when an attached PDF already
// carries a DOI, a sign the content was archived before.
func checkAttachedDOIs(files []attach.File) {
	for _, f := range files {
		doi, err := attach.SniffDOI(f)
		if err != nil || doi == "" {
			continue
		}
		exitWithError(ExitDataError,
			"%s already carries DOI %s; use --force to deposit anyway", f.Filename, doi)
	}
}

// reportWorkflowError prints a step-tagged workflow failure. A partial
// result still carries the draft record ID, which is worth reporting so
// the draft is not orphaned.
func reportWorkflowError(res *workflow.Result, err error) {
	var fieldErr *workflow.FieldError
	if errors.As(err, &fieldErr) {
		exitWithError(ExitDataError, "%v", err)
	}

	msg := err.Error()
	if step := workflow.FailedStep(err); step != "" {
		msg = "step " + step + " failed: " + msg
	}
	if res != nil && res.Deposit != nil && res.Deposit.RecordID != "" {
		msg += " (draft record " + res.Deposit.RecordID + " preserved)"
	}
	exitWithError(exitCodeForError(err), "%s", msg)
}

// archiveResult records the minted DOI in the archive when one is
// configured. Archive failures are fatal only in the sense that the
// user should know; the deposit itself already succeeded.
func archiveResult(cfg *config.Config, contentID string, res *workflow.Result) {
	db := mustOpenArchive(cfg)
	defer db.Close()

	err := db.Save(archive.Record{
		ContentID: contentID,
		DOI:       res.DOI,
		RecordID:  res.Deposit.RecordID,
		Provider:  res.Deposit.Provider,
		Raw:       res.Deposit.Raw,
	})
	if err != nil {
		exitWithError(ExitError, "deposit succeeded but archiving failed: %v", err)
	}
}

// depositResponse converts a workflow result to the CLI response shape.
// The missing-ORCID report comes from the creator list that was
// submitted, not the provider response, so it reflects the final
// reconciled list even when the response omits creators.
func depositResponse(res *workflow.Result, publisher string, finalCreators []deposit.Creator) DepositResponse {
	resp := DepositResponse{
		DOI:          res.DOI,
		Published:    res.Published,
		MissingORCID: notify.MissingORCID(publisher, finalCreators),
	}
	if res.Deposit != nil {
		resp.RecordID = res.Deposit.RecordID
		resp.Provider = string(res.Deposit.Provider)
		resp.State = string(res.Deposit.State)
	}
	if res.PublishErr != nil {
		resp.PublishError = res.PublishErr.Error()
	}
	return resp
}
