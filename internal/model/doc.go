// Package model defines the domain types and value objects for the
// turknet-query CLI.
//
// This package contains pure data structures with no network access.
// Address codes (Code), the ordered name→code lists returned by each
// address level (NamedCodeMap), and the normalized availability results
// of both providers are transient values that live for one CLI run.
//
// The package also defines the error taxonomy (validation, transport and
// service errors), exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
