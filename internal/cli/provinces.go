package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/turknet-query/internal/province"
)

// NewProvincesCommand creates the "provinces" cobra command.
func NewProvincesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provinces",
		Short: "List provinces and their plate codes",
		Long: `List the 81 provinces in Turkish alphabetical order with the plate
codes the address service uses as top-level codes.

Examples:
  turknet-query provinces
  turknet-query provinces --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return newPrinter(cmd.OutOrStdout()).provinces(province.All())
		},
	}

	return cmd
}
