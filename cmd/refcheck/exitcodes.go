package main

// Exit codes shared by all subcommands.
const (
	ExitSuccess     = 0 // Success, no errors found
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing config, invalid paths)
	ExitDataError   = 3 // Data error (no bibliography found, malformed input)
	ExitMismatch    = 4 // Check completed and found reference errors
)
