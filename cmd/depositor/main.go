// Package main provides the depositor CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aknutsen/depositor/internal/archive"
	"github.com/aknutsen/depositor/internal/config"
	"github.com/aknutsen/depositor/internal/credentials"
	"github.com/aknutsen/depositor/internal/deposit"
	"github.com/aknutsen/depositor/internal/provider"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		// This ensures Cobra errors (like missing required flags) are visible
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "depositor",
	Short: "Mint DOIs for discussion threads",
	Long: `depositor archives discussion threads as citable records.

Core features:
  - Publish threads as new records on Zenodo or InvenioRDM instances
  - Edit the metadata of already published records
  - Mint new versions with fresh DOIs
  - Reconcile co-author lists and check ORCID coverage

All commands output JSON by default for agent consumption.
Use --human flag for human-readable output.

Environment Variables:
  DEPOSITOR_TOKEN   Provider API token (required for deposit commands)
  ORCID_TOKEN       ORCID member API token (orcid add-work only)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env file if present (for DEPOSITOR_TOKEN)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// mustLoadConfig locates and loads the config file, exits on error.
func mustLoadConfig() *config.Config {
	path, err := config.FindConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		os.Exit(ExitConfigError)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustClient builds a provider client from config plus credentials, exits on error.
func mustClient(cfg *config.Config) provider.Client {
	creds, err := credentials.Chain{credentials.EnvSource{}}.Lookup(context.Background(), "")
	if err != nil {
		if errors.Is(err, credentials.ErrNoCredentials) {
			exitWithError(ExitAuthError, "no provider token: set DEPOSITOR_TOKEN or add it to .env")
		}
		exitWithError(ExitAuthError, "resolving credentials: %v", err)
	}

	baseURL := cfg.BaseURL
	if creds.BaseURL != "" {
		baseURL = creds.BaseURL
	}

	client, err := provider.New(resolveProvider(cfg, creds), baseURL, creds.Token, provider.WithRateLimit(cfg.RateLimit))
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return client
}

// resolveProvider picks the provider kind for a deposit: the credential
// source's kind when it supplies one, the configured kind otherwise.
func resolveProvider(cfg *config.Config, creds credentials.Credentials) deposit.Provider {
	if creds.Provider != "" {
		return deposit.Provider(creds.Provider)
	}
	return deposit.Provider(cfg.Provider)
}

// mustOpenArchive opens the SQLite archive from config, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenArchive(cfg *config.Config) *archive.DB {
	path := cfg.ArchiveDB
	if path == "" {
		exitWithError(ExitConfigError, "archive_db is not configured")
	}
	db, err := archive.OpenDB(config.ExpandTilde(path))
	if err != nil {
		exitWithError(ExitError, "opening archive: %v", err)
	}
	return db
}

// loadCreatorsFile reads a JSON array of creators from a file.
func loadCreatorsFile(path string) ([]deposit.Creator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var creators []deposit.Creator
	if err := json.Unmarshal(data, &creators); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return creators, nil
}

// loadMetadataFile reads a JSON object of deposit metadata from a file.
func loadMetadataFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var md map[string]any
	if err := json.Unmarshal(data, &md); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return md, nil
}

// exitCodeForError maps workflow and provider errors to exit codes.
func exitCodeForError(err error) int {
	switch {
	case errors.Is(err, provider.ErrCredential):
		return ExitAuthError
	case errors.Is(err, provider.ErrValidation):
		return ExitDataError
	case errors.Is(err, provider.ErrTransport), errors.Is(err, provider.ErrWorkflowState):
		return ExitAPIError
	default:
		var apiErr *provider.APIError
		if errors.As(err, &apiErr) {
			return ExitAPIError
		}
		return ExitError
	}
}
