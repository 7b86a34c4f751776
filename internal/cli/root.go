// Package cli implements the cobra-based CLI commands for turknet-query.
//
// Each subcommand (query, address, goknet, provinces) is defined in its
// own file within this package. This file defines the root command that
// serves as the parent for all subcommands, handles global flags and runs
// the interactive flow when no subcommand is given.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/turknet-query/internal/model"
	"github.com/shinji-kodama/turknet-query/internal/prompt"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// verbose lowers the console log level to debug.
	verbose bool

	// noColor disables colored text output.
	noColor bool

	// configPath is an explicit configuration file. Empty searches the
	// default locations.
	configPath string

	// logFile is an additional JSON log sink. It overrides log_file from
	// the configuration.
	logFile string
)

// Version, Commit and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
//
// Run without a subcommand it asks for the query method (address or
// phone number), walks the address hierarchy or reads the number, and
// prints the availability result.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "turknet-query",
		Short: "Türk.net altyapı sorgulama",
		Long: `turknet-query asks Türk.net which broadband technologies (fiber, VDSL,
xDSL, YAPA) are available at an address or a landline number, without
loading the provider's website.

Run without arguments for the interactive flow, or use a subcommand:

  turknet-query query --bbk 12345678
  turknet-query query --pstn 2161234567
  turknet-query goknet 12345678`,

		// No positional arguments: the interactive flow asks for everything.
		Args: cobra.NoArgs,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write JSON logs to this file")

	rootCmd.AddCommand(NewQueryCommand())
	rootCmd.AddCommand(NewAddressCommand())
	rootCmd.AddCommand(NewGoknetCommand())
	rootCmd.AddCommand(NewProvincesCommand())

	return rootCmd
}

// runInteractive is the flow of the bare command: choose a method, then
// either walk the address hierarchy or read a phone number, then query.
func runInteractive(cmd *cobra.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	// Step 1: Ask for the query method.
	queryType, err := prompt.ChooseQueryType(a.prompter)
	if err != nil {
		return err
	}

	// Step 2: Obtain the query value for the chosen method.
	var value string
	switch queryType {
	case model.QueryBBK:
		sel, err := walkAddress(cmd.Context(), a.turknet, a.prompter, a.logger)
		if err != nil {
			return err
		}
		value = sel.Apartment().Code.String()
	case model.QueryPSTN:
		value, err = prompt.AskPSTN(a.prompter)
		if err != nil {
			return err
		}
	}

	// Step 3: Query availability and print the result.
	result, err := a.turknet.Query(cmd.Context(), queryType.String(), value)
	if err != nil {
		return err
	}
	return a.printer.availability(result)
}

// Execute runs the root command and exits the process with the code
// Run returns. This is the main entry point called from main.go.
func Execute(rootCmd *cobra.Command) {
	os.Exit(Run(rootCmd))
}

// Run executes rootCmd and translates its error into a process exit code.
//
// Provider service errors are an informative outcome, not a failure: they
// are printed as "Hata <code>: <message>" and exit with ExitSuccess. All
// other errors are printed and classified by model.ExitCodeFor.
func Run(rootCmd *cobra.Command) int {
	err := rootCmd.Execute()
	if err == nil {
		return int(model.ExitSuccess)
	}

	stderr := rootCmd.ErrOrStderr()
	if svcErr, ok := model.AsServiceError(err); ok {
		printServiceError(stderr, svcErr)
		return int(model.ExitSuccess)
	}

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		printError(stderr, cliErr.Message, cliErr.Err)
	} else {
		printError(stderr, err.Error(), nil)
	}
	return int(model.ExitCodeFor(err))
}

// printServiceError reports a provider-side error in the provider's own
// terms.
func printServiceError(w io.Writer, svcErr *model.ServiceError) {
	if jsonOutput {
		writeJSON(w, map[string]interface{}{
			"error": map[string]interface{}{
				"provider": svcErr.Provider,
				"code":     svcErr.Code,
				"message":  svcErr.Message,
			},
		})
		return
	}
	fmt.Fprintf(w, "Hata %d: %s\n", svcErr.Code, svcErr.Message)
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(w io.Writer, message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"message": message,
		}
		if underlying != nil {
			errObj["detail"] = underlying.Error()
		}
		writeJSON(w, map[string]interface{}{"error": errObj})
		return
	}

	if underlying != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "Error: encoding output: %v\n", err)
		return
	}
	fmt.Fprintln(w, string(data))
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
