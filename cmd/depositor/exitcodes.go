package main

// Exit codes used across all depositor commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing config, bad values)
	ExitAuthError   = 3 // Missing or rejected credentials
	ExitDataError   = 4 // Validation failure (metadata, creators, files)
	ExitAPIError    = 5 // Provider API error (rate limit, server error, bad state)
)
