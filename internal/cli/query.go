package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/turknet-query/internal/model"
)

// queryFlags holds the flag values for the query command.
// Exactly one of them must be set.
type queryFlags struct {
	// bbk is an apartment-level BBK code (Bağımsız Bölüm Kodu).
	bbk string

	// pstn is a landline number without the leading zero.
	pstn string
}

// NewQueryCommand creates the "query" cobra command.
func NewQueryCommand() *cobra.Command {
	flags := &queryFlags{}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query availability by BBK code or phone number",
		Long: `Query which technologies Türk.net can offer for an apartment BBK code
or a landline number, without any prompt.

Examples:
  turknet-query query --bbk 12345678
  turknet-query query --pstn 2161234567
  turknet-query query --pstn 2161234567 --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.bbk, "bbk", "", "Bağımsız Bölüm Kodu")
	cmd.Flags().StringVar(&flags.pstn, "pstn", "", "Başında 0 olmadan sabit telefon numarası")

	return cmd
}

func runQuery(cmd *cobra.Command, flags *queryFlags) error {
	// Step 1: Validate the input before any configuration or network work.
	queryType, value, err := parseQueryFlags(flags)
	if err != nil {
		return err
	}

	// Step 2: Build the clients.
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	// Step 3: Query availability and print the result.
	result, err := a.turknet.Query(cmd.Context(), queryType.String(), value)
	if err != nil {
		return err
	}
	return a.printer.availability(result)
}

// parseQueryFlags returns the query type and normalized value selected by
// the flags. Exactly one flag must be set. Phone numbers must match the
// landline pattern; BBK codes must be plain numbers.
func parseQueryFlags(flags *queryFlags) (model.QueryType, string, error) {
	switch {
	case flags.pstn != "" && flags.bbk != "":
		return "", "", model.NewValidationError("--bbk and --pstn cannot be used together")
	case flags.pstn != "":
		number := strings.TrimSpace(flags.pstn)
		if err := model.ValidatePSTN(number); err != nil {
			return "", "", err
		}
		return model.QueryPSTN, number, nil
	case flags.bbk != "":
		code, err := model.ParseCode(flags.bbk)
		if err != nil {
			return "", "", err
		}
		return model.QueryBBK, code.String(), nil
	default:
		return "", "", model.NewValidationError("one of --bbk or --pstn is required")
	}
}
