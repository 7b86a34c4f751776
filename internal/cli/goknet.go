package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/turknet-query/internal/model"
)

// NewGoknetCommand creates the "goknet" cobra command.
func NewGoknetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goknet [bbk]",
		Short: "Query the incumbent's line records through Göknet",
		Long: `Query the ADSL, VDSL and FTTH line records of an apartment through
Göknet's lookup, which exposes spare ports, exchange details and the
status color the incumbent assigns to the line.

Without a BBK code the address hierarchy is walked interactively first.

Examples:
  turknet-query goknet 12345678
  turknet-query goknet 12345678 --json
  turknet-query goknet`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runGoknet(cmd, args)
		},
	}

	return cmd
}

func runGoknet(cmd *cobra.Command, args []string) error {
	// Step 1: Validate a BBK code given on the command line.
	var bbk model.Code
	haveBBK := len(args) == 1
	if haveBBK {
		code, err := model.ParseCode(args[0])
		if err != nil {
			return err
		}
		bbk = code
	}

	// Step 2: Build the clients.
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	// Step 3: Walk the address hierarchy when no code was given.
	if !haveBBK {
		sel, err := walkAddress(cmd.Context(), a.turknet, a.prompter, a.logger)
		if err != nil {
			return err
		}
		bbk = sel.Apartment().Code
	}

	// Step 4: Query the line records and print them.
	result, err := a.goknet.QueryBBK(cmd.Context(), bbk)
	if err != nil {
		return err
	}
	return a.printer.lines(bbk, result)
}
