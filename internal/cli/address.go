package cli

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shinji-kodama/turknet-query/internal/model"
	"github.com/shinji-kodama/turknet-query/internal/prompt"
	"github.com/shinji-kodama/turknet-query/internal/province"
)

// addressFlags holds the flag values for the address command.
type addressFlags struct {
	// query runs the availability query for the chosen apartment.
	query bool
}

// NewAddressCommand creates the "address" cobra command.
func NewAddressCommand() *cobra.Command {
	flags := &addressFlags{}

	cmd := &cobra.Command{
		Use:   "address",
		Short: "Walk the address hierarchy and print the apartment's BBK code",
		Long: `Interactively choose province, district, sub-district, village,
neighborhood, street, building and apartment. Levels with a single entry
are selected automatically. The apartment's BBK code is printed, and with
--query its availability as well.

Examples:
  turknet-query address
  turknet-query address --query`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runAddress(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.query, "query", false, "Also query availability for the chosen apartment")

	return cmd
}

func runAddress(cmd *cobra.Command, flags *addressFlags) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	// Step 1: Walk the hierarchy down to an apartment.
	sel, err := walkAddress(cmd.Context(), a.turknet, a.prompter, a.logger)
	if err != nil {
		return err
	}

	if !flags.query {
		return a.printer.selection(sel)
	}

	// Step 2: Query the chosen apartment.
	result, err := a.turknet.QueryBBK(cmd.Context(), sel.Apartment().Code)
	if err != nil {
		return err
	}
	return a.printer.addressAvailability(sel, result)
}

// addressResolver lists the entries of one address level below a parent.
type addressResolver interface {
	Children(ctx context.Context, level model.Level, parent model.Code) (*model.NamedCodeMap, error)
}

// addressStep is one chosen level of the walk.
type addressStep struct {
	Level model.Level
	Name  string
	Code  model.Code
}

// MarshalJSON adds the level name, which the Level type itself does not
// marshal.
func (s addressStep) MarshalJSON() ([]byte, error) {
	type step struct {
		Level string     `json:"level"`
		Name  string     `json:"name"`
		Code  model.Code `json:"code"`
	}
	return json.Marshal(step{Level: s.Level.String(), Name: s.Name, Code: s.Code})
}

// addressSelection is the result of a complete walk, province first.
type addressSelection struct {
	Steps []addressStep `json:"steps"`
}

// Apartment returns the last step, whose code is the BBK code.
func (s *addressSelection) Apartment() model.NamedCode {
	if len(s.Steps) == 0 {
		return model.NamedCode{}
	}
	last := s.Steps[len(s.Steps)-1]
	return model.NamedCode{Name: last.Name, Code: last.Code}
}

// walkAddress asks the user for each level from province to apartment.
// The province comes from the static plate table; every lower level is
// fetched with the code chosen one level up. Any error halts the walk.
func walkAddress(ctx context.Context, r addressResolver, p prompt.Prompter, logger *zap.Logger) (*addressSelection, error) {
	sel := &addressSelection{}

	// Step 1: Choose the province from the plate table.
	chosen, err := prompt.ChooseCode(p, prompt.LevelLabel(model.LevelProvince), province.NamedCodes())
	if err != nil {
		return nil, err
	}
	sel.Steps = append(sel.Steps, addressStep{Level: model.LevelProvince, Name: chosen.Name, Code: chosen.Code})

	// Step 2: Descend one level at a time until the apartment is chosen.
	level := model.LevelProvince
	for {
		next, ok := level.Next()
		if !ok {
			break
		}
		level = next

		entries, err := r.Children(ctx, level, chosen.Code)
		if err != nil {
			return nil, err
		}

		chosen, err = prompt.ChooseCode(p, prompt.LevelLabel(level), entries)
		if err != nil {
			return nil, err
		}
		logger.Debug("address level chosen",
			zap.Stringer("level", level),
			zap.String("name", chosen.Name),
			zap.Stringer("code", chosen.Code),
			zap.Bool("auto", entries.Len() == 1))

		sel.Steps = append(sel.Steps, addressStep{Level: level, Name: chosen.Name, Code: chosen.Code})
	}

	return sel, nil
}
