// Package prompt asks the user to pick from lists and type values.
//
// The Prompter interface keeps the interactive flows testable: the
// terminal implementation uses github.com/manifoldco/promptui, tests use a
// scripted fake. Cancelling a prompt (Ctrl-C or Ctrl-D) is reported as a
// CLIError with ExitUserCancelled.
package prompt

import (
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"

	"github.com/shinji-kodama/turknet-query/internal/model"
	"github.com/shinji-kodama/turknet-query/internal/province"
)

// Prompter asks the user for input.
type Prompter interface {
	// Select shows items and returns the chosen one.
	Select(label string, items []string) (string, error)

	// Input reads a line of text; validate runs on every keystroke and
	// must accept the final value.
	Input(label string, validate func(string) error) (string, error)
}

// Menu entries of the query method prompt.
const (
	MethodAddress = "Adres"
	MethodPhone   = "Telefon Numarası"
)

// selectPageSize is the number of rows shown at once. Street and
// apartment lists run into the hundreds.
const selectPageSize = 15

// Terminal is a Prompter backed by promptui. Nil streams use the
// process's standard streams.
type Terminal struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

// Select implements Prompter.
func (t *Terminal) Select(label string, items []string) (string, error) {
	s := &promptui.Select{
		Label:  label,
		Items:  items,
		Size:   selectPageSize,
		Stdin:  t.Stdin,
		Stdout: t.Stdout,
	}
	_, result, err := s.Run()
	if err != nil {
		return "", mapError(err)
	}
	return result, nil
}

// Input implements Prompter.
func (t *Terminal) Input(label string, validate func(string) error) (string, error) {
	p := &promptui.Prompt{
		Label:    label,
		Validate: validate,
		Stdin:    t.Stdin,
		Stdout:   t.Stdout,
	}
	result, err := p.Run()
	if err != nil {
		return "", mapError(err)
	}
	return result, nil
}

// mapError converts promptui's cancellation errors into a CLIError.
func mapError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return model.WrapCLIError(model.ExitUserCancelled, "işlem iptal edildi", err)
	}
	return fmt.Errorf("prompt failed: %w", err)
}

// LevelLabel returns the selection prompt for an address level, e.g.
// "Lütfen ilçenizi seçin".
func LevelLabel(level model.Level) string {
	return fmt.Sprintf("Lütfen %s seçin", level.Prompt())
}

// ChooseCode lets the user pick one entry of m. A single entry is
// returned without prompting; an empty map is an error. Names are
// offered in Turkish alphabetical order.
func ChooseCode(p Prompter, label string, m *model.NamedCodeMap) (model.NamedCode, error) {
	if m == nil || m.Len() == 0 {
		return model.NamedCode{}, model.NewCLIError(model.ExitGeneralError, "seçilebilecek kayıt bulunamadı")
	}
	if only, ok := m.Single(); ok {
		return only, nil
	}

	names := m.Names()
	province.SortNames(names)

	chosen, err := p.Select(label, names)
	if err != nil {
		return model.NamedCode{}, err
	}
	code, ok := m.Lookup(chosen)
	if !ok {
		return model.NamedCode{}, fmt.Errorf("selection %q is not one of the offered entries", chosen)
	}
	return model.NamedCode{Name: chosen, Code: code}, nil
}

// ChooseQueryType asks whether to query by address or by phone number.
func ChooseQueryType(p Prompter) (model.QueryType, error) {
	chosen, err := p.Select("Lütfen sorgulama metodunu seçin", []string{MethodAddress, MethodPhone})
	if err != nil {
		return "", err
	}
	switch chosen {
	case MethodAddress:
		return model.QueryBBK, nil
	case MethodPhone:
		return model.QueryPSTN, nil
	default:
		return "", fmt.Errorf("unknown query method %q", chosen)
	}
}

// AskPSTN reads a landline number without the trunk prefix.
func AskPSTN(p Prompter) (string, error) {
	return p.Input("Lütfen sabit telefon numaranızı başında 0 olmadan girin", model.ValidatePSTN)
}
