// Package province holds the static table of Turkish provinces and their
// vehicle plate codes. Plate codes are the top-level codes of the address
// hierarchy: the district lookup is keyed by them.
//
// The table is embedded as JSONC (provinces.jsonc) so it can carry
// comments; github.com/tidwall/jsonc strips them before decoding.
package province

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/shinji-kodama/turknet-query/internal/model"
)

//go:embed provinces.jsonc
var tableJSONC []byte

// Province is one row of the plate table.
type Province struct {
	Code model.Code `json:"code"`
	Name string     `json:"name"`
}

var (
	table  = mustParse(tableJSONC)
	byName = indexByName(table)
	byCode = indexByCode(table)
)

// Parse decodes a JSONC province table and checks that every code is a
// valid plate code and every name and code appears once.
func Parse(data []byte) ([]Province, error) {
	var rows []Province
	if err := json.Unmarshal(jsonc.ToJSON(data), &rows); err != nil {
		return nil, fmt.Errorf("failed to parse province table: %w", err)
	}

	seenCode := make(map[model.Code]bool, len(rows))
	seenName := make(map[string]bool, len(rows))
	for _, p := range rows {
		if err := model.ValidatePlateCode(p.Code); err != nil {
			return nil, fmt.Errorf("province %q: %w", p.Name, err)
		}
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("province with code %d has no name", p.Code)
		}
		if seenCode[p.Code] {
			return nil, fmt.Errorf("duplicate plate code %d", p.Code)
		}
		if seenName[p.Name] {
			return nil, fmt.Errorf("duplicate province name %q", p.Name)
		}
		seenCode[p.Code] = true
		seenName[p.Name] = true
	}
	return rows, nil
}

func mustParse(data []byte) []Province {
	rows, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return rows
}

func indexByName(rows []Province) map[string]model.Code {
	m := make(map[string]model.Code, len(rows))
	for _, p := range rows {
		m[p.Name] = p.Code
	}
	return m
}

func indexByCode(rows []Province) map[model.Code]string {
	m := make(map[model.Code]string, len(rows))
	for _, p := range rows {
		m[p.Code] = p.Name
	}
	return m
}

// All returns every province in Turkish alphabetical order. The returned
// slice is a copy.
func All() []Province {
	rows := make([]Province, len(table))
	copy(rows, table)

	c := collate.New(language.Turkish)
	sort.SliceStable(rows, func(i, j int) bool {
		return c.CompareString(rows[i].Name, rows[j].Name) < 0
	})
	return rows
}

// NamedCodes returns the table as a NamedCodeMap in Turkish alphabetical
// order, ready to be offered in a selection prompt.
func NamedCodes() *model.NamedCodeMap {
	all := All()
	entries := make([]model.NamedCode, len(all))
	for i, p := range all {
		entries[i] = model.NamedCode{Name: p.Name, Code: p.Code}
	}
	return model.NewNamedCodeMap(entries...)
}

// Lookup returns the plate code of a province name. The name is matched
// after Turkish upper-casing, so "izmir" and "İzmir" both find "İZMİR".
func Lookup(name string) (model.Code, bool) {
	code, ok := byName[Normalize(name)]
	return code, ok
}

// Name returns the province name for a plate code.
func Name(code model.Code) (string, bool) {
	name, ok := byCode[code]
	return name, ok
}

// Normalize upper-cases a province name with Turkish casing rules
// (i→İ, ı→I) and trims surrounding space.
func Normalize(name string) string {
	return cases.Upper(language.Turkish).String(strings.TrimSpace(name))
}

// SortNames sorts names in place in Turkish alphabetical order, where
// Ç follows C, Ğ follows G, I precedes İ, Ö follows O, Ş follows S and
// Ü follows U.
func SortNames(names []string) {
	collate.New(language.Turkish).SortStrings(names)
}
