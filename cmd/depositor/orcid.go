package main

import (
	"context"
	"errors"
	"os"
	"sort"

	"github.com/aknutsen/depositor/internal/orcid"
	"github.com/spf13/cobra"
)

var (
	orcidAddTitle string
	orcidAddVenue string
	orcidAddDOI   string
	orcidAddYear  string
)

var orcidCmd = &cobra.Command{
	Use:   "orcid",
	Short: "Look up ORCID profiles and works",
	Long: `Query the public ORCID API for author profiles and work lists.

All commands output JSON by default for agent consumption.
Use --human flag for human-readable output.

Environment Variables:
  ORCID_TOKEN  Member API token (add-work only)`,
}

var orcidProfileCmd = &cobra.Command{
	Use:   "profile <orcid-id>",
	Short: "Fetch an author's public profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrcidProfile,
}

var orcidWorksCmd = &cobra.Command{
	Use:   "works <orcid-id>",
	Short: "List an author's public works",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrcidWorks,
}

var orcidSummariesCmd = &cobra.Command{
	Use:   "summaries <orcid-id>...",
	Short: "Fetch author summaries for several iDs in parallel",
	Long: `Fetch name and work count for several ORCID iDs.

Lookups run in a small parallel group with a per-request timeout. A
failing iD reports its error inline; the rest still resolve.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOrcidSummaries,
}

var orcidAddWorkCmd = &cobra.Command{
	Use:   "add-work <orcid-id>",
	Short: "Add a work to an ORCID record (member API)",
	RunE:  runOrcidAddWork,
	Args:  cobra.ExactArgs(1),
}

func init() {
	orcidAddWorkCmd.Flags().StringVar(&orcidAddTitle, "title", "", "Work title (required)")
	orcidAddWorkCmd.Flags().StringVar(&orcidAddVenue, "venue", "", "Journal or venue name")
	orcidAddWorkCmd.Flags().StringVar(&orcidAddDOI, "doi", "", "DOI of the work")
	orcidAddWorkCmd.Flags().StringVar(&orcidAddYear, "year", "", "Publication year")
	orcidAddWorkCmd.MarkFlagRequired("title")

	orcidCmd.AddCommand(orcidProfileCmd)
	orcidCmd.AddCommand(orcidWorksCmd)
	orcidCmd.AddCommand(orcidSummariesCmd)
	orcidCmd.AddCommand(orcidAddWorkCmd)
	rootCmd.AddCommand(orcidCmd)
}

func runOrcidProfile(cmd *cobra.Command, args []string) error {
	client := orcid.NewClient()
	profile, err := client.GetProfile(context.Background(), args[0])
	if err != nil {
		exitWithError(orcidExitCode(err), "%v", err)
	}

	if humanOutput {
		outputHuman("%s\n%s\n", profile.DisplayName(), profile.ORCID)
		if profile.Affiliation != "" {
			outputHuman("%s\n", profile.Affiliation)
		}
		return nil
	}
	return outputJSON(profile)
}

func runOrcidWorks(cmd *cobra.Command, args []string) error {
	client := orcid.NewClient()
	works, err := client.GetWorks(context.Background(), args[0])
	if err != nil {
		exitWithError(orcidExitCode(err), "%v", err)
	}

	if humanOutput {
		for _, w := range works {
			line := w.Title
			if w.Year != "" {
				line += " (" + w.Year + ")"
			}
			if w.DOI != "" {
				line += "  " + w.DOI
			}
			outputHuman("%s\n", line)
		}
		return nil
	}
	return outputJSON(works)
}

func runOrcidSummaries(cmd *cobra.Command, args []string) error {
	client := orcid.NewClient()
	summaries := client.Summaries(context.Background(), args)

	if humanOutput {
		ids := make([]string, 0, len(summaries))
		for id := range summaries {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			s := summaries[id]
			if s.Err != "" {
				outputHuman("%s: error: %s\n", id, s.Err)
				continue
			}
			outputHuman("%s: %s, %d works\n", id, s.Name, s.WorkCount)
		}
		return nil
	}
	return outputJSON(summaries)
}

func runOrcidAddWork(cmd *cobra.Command, args []string) error {
	token := os.Getenv("ORCID_TOKEN")
	if token == "" {
		exitWithError(ExitAuthError, "ORCID_TOKEN not set")
	}

	client := orcid.NewClient(
		orcid.WithBaseURL(orcid.MemberBaseURL),
		orcid.WithToken(token),
	)
	work := orcid.BuildWork(orcidAddTitle, orcidAddVenue, orcidAddDOI, orcidAddYear, nil)

	location, err := client.AddWork(context.Background(), args[0], work)
	if err != nil {
		exitWithError(orcidExitCode(err), "%v", err)
	}

	if humanOutput {
		outputHuman("Added: %s\n", location)
		return nil
	}
	return outputJSON(map[string]string{"location": location})
}

// orcidExitCode maps ORCID client errors to exit codes.
func orcidExitCode(err error) int {
	switch {
	case errors.Is(err, orcid.ErrInvalidID):
		return ExitDataError
	case errors.Is(err, orcid.ErrAuthError):
		return ExitAuthError
	case errors.Is(err, orcid.ErrNotFound), errors.Is(err, orcid.ErrAPIError), errors.Is(err, orcid.ErrNetworkError):
		return ExitAPIError
	default:
		return ExitError
	}
}
