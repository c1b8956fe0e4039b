package main

import (
	"github.com/aknutsen/depositor/internal/creators"
	"github.com/spf13/cobra"
)

var creatorsCmd = &cobra.Command{
	Use:   "creators",
	Short: "Work with deposit creator lists",
}

var creatorsMergeCmd = &cobra.Command{
	Use:   "merge <base.json> <incoming.json>",
	Short: "Merge two creator lists without duplicating people",
	Long: `Merge an incoming creator list into a base list.

Entries are matched by ORCID first, then internal ID, then exact name.
Matched entries are enriched field by field (a non-empty incoming value
wins); unmatched entries are appended in order. The result never drops
a base entry and merging the same input twice is a no-op.`,
	Args: cobra.ExactArgs(2),
	RunE: runCreatorsMerge,
}

func init() {
	creatorsCmd.AddCommand(creatorsMergeCmd)
	rootCmd.AddCommand(creatorsCmd)
}

func runCreatorsMerge(cmd *cobra.Command, args []string) error {
	base, err := loadCreatorsFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	incoming, err := loadCreatorsFile(args[1])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	merged := creators.Merge(base, incoming)

	if humanOutput {
		for _, c := range merged {
			outputHuman("%s\n", formatCreatorLine(c))
		}
		return nil
	}
	return outputJSON(merged)
}
