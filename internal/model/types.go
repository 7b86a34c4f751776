package model

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Code is an opaque numeric identifier for a geographic unit at one level
// of the address hierarchy. Province codes are vehicle plate codes (0-81);
// every other level uses BBK codes assigned by the remote system.
type Code int64

// String returns the decimal representation used in request bodies.
func (c Code) String() string {
	return strconv.FormatInt(int64(c), 10)
}

const (
	// MinPlateCode and MaxPlateCode bound the province plate code range.
	MinPlateCode Code = 0
	MaxPlateCode Code = 81
)

// numericRegex matches a non-empty run of ASCII digits. It is the same
// check the remote web form applies to BBK codes and phone numbers.
var numericRegex = regexp.MustCompile(`^\d+$`)

// IsNumeric reports whether s consists only of ASCII digits.
func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// ParseCode converts user input into a Code.
// Returns a validation error if s is not a plain decimal number.
func ParseCode(s string) (Code, error) {
	s = strings.TrimSpace(s)
	if !IsNumeric(s) {
		return 0, NewValidationError("code %q is not a valid number", s)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, NewValidationError("code %q is out of range", s)
	}
	return Code(n), nil
}

// ValidatePlateCode checks that a province plate code is within [0, 81].
func ValidatePlateCode(c Code) error {
	if c < MinPlateCode || c > MaxPlateCode {
		return NewValidationError("plate code %d out of range (%d-%d)", c, MinPlateCode, MaxPlateCode)
	}
	return nil
}

// Level identifies one step of the address hierarchy. Levels are ordered
// from the top (province) down to the apartment; a Code obtained from a
// level's list is only ever passed to the lookup of the next level.
type Level int

const (
	LevelProvince Level = iota
	LevelDistrict
	LevelSubDistrict
	LevelVillage
	LevelNeighborhood
	LevelStreet
	LevelBuilding
	LevelApartment
)

// levelNames holds the machine-readable names used in logs and JSON output.
var levelNames = [...]string{
	LevelProvince:     "province",
	LevelDistrict:     "district",
	LevelSubDistrict:  "sub-district",
	LevelVillage:      "village",
	LevelNeighborhood: "neighborhood",
	LevelStreet:       "street",
	LevelBuilding:     "building",
	LevelApartment:    "apartment",
}

// levelPrompts holds the Turkish noun phrases used in interactive prompts
// ("Lütfen <phrase> seçin").
var levelPrompts = [...]string{
	LevelProvince:     "ilinizi",
	LevelDistrict:     "ilçenizi",
	LevelSubDistrict:  "bucağınızı",
	LevelVillage:      "köyünüzü",
	LevelNeighborhood: "mahallenizi",
	LevelStreet:       "caddenizi/sokağınızı",
	LevelBuilding:     "bina numaranızı",
	LevelApartment:    "daire numaranızı",
}

// String returns the machine-readable level name.
func (l Level) String() string {
	if !l.IsValid() {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// IsValid reports whether l is one of the defined levels.
func (l Level) IsValid() bool {
	return l >= LevelProvince && l <= LevelApartment
}

// Prompt returns the Turkish prompt phrase for this level.
func (l Level) Prompt() string {
	if !l.IsValid() {
		return l.String()
	}
	return levelPrompts[l]
}

// Parent returns the level whose code selects entries of l.
// The province level has no parent; ok is false in that case.
func (l Level) Parent() (Level, bool) {
	if l <= LevelProvince || !l.IsValid() {
		return 0, false
	}
	return l - 1, true
}

// Next returns the level below l. The apartment level is the last one.
func (l Level) Next() (Level, bool) {
	if l >= LevelApartment || !l.IsValid() {
		return 0, false
	}
	return l + 1, true
}

// QueryType selects which key the availability query is made with.
type QueryType string

const (
	// QueryPSTN queries by a legacy fixed-line phone number.
	QueryPSTN QueryType = "PSTN"

	// QueryBBK queries by an apartment-level BBK code.
	QueryBBK QueryType = "BBK"
)

// String returns the wire representation of the query type.
func (q QueryType) String() string {
	return string(q)
}

// IsValid checks whether q is one of the two supported query types.
func (q QueryType) IsValid() bool {
	return q == QueryPSTN || q == QueryBBK
}

// ParseQueryType converts a string to a QueryType, case-insensitively.
func ParseQueryType(s string) (QueryType, error) {
	q := QueryType(strings.ToUpper(strings.TrimSpace(s)))
	if !q.IsValid() {
		return "", NewValidationError("invalid query type: %q (valid: PSTN, BBK)", s)
	}
	return q, nil
}

// pstnRegex matches a 10-digit Turkish landline number without the
// leading zero: area code [2-4][1-9][1-9] followed by seven digits.
var pstnRegex = regexp.MustCompile(`^[2-4][1-9][1-9]\d{7}$`)

// ValidatePSTN checks that a phone number matches the landline pattern.
// Numbers typed with the trunk prefix (0216...) are rejected.
func ValidatePSTN(number string) error {
	if !pstnRegex.MatchString(number) {
		return NewValidationError("girilen telefon numarası geçerli değil: %q", number)
	}
	return nil
}

// NamedCode is one entry of an address level list.
type NamedCode struct {
	Name string `json:"name"`
	Code Code   `json:"code"`
}

// NamedCodeMap maps human-readable names to codes while preserving the
// order in which the server returned them. Setting an existing name
// replaces its code but keeps its original position.
//
// The zero value is an empty map ready to use.
type NamedCodeMap struct {
	entries []NamedCode
	index   map[string]int
}

// NewNamedCodeMap builds a map from entries, in order.
func NewNamedCodeMap(entries ...NamedCode) *NamedCodeMap {
	m := &NamedCodeMap{}
	for _, e := range entries {
		m.Set(e.Name, e.Code)
	}
	return m
}

// Set inserts or updates name.
func (m *NamedCodeMap) Set(name string, code Code) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[name]; ok {
		m.entries[i].Code = code
		return
	}
	m.index[name] = len(m.entries)
	m.entries = append(m.entries, NamedCode{Name: name, Code: code})
}

// Lookup returns the code for name.
func (m *NamedCodeMap) Lookup(name string) (Code, bool) {
	if m == nil || m.index == nil {
		return 0, false
	}
	i, ok := m.index[name]
	if !ok {
		return 0, false
	}
	return m.entries[i].Code, true
}

// Len returns the number of entries.
func (m *NamedCodeMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Names returns the entry names in server order.
func (m *NamedCodeMap) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		names = append(names, e.Name)
	}
	return names
}

// Entries returns a copy of the entries in server order.
func (m *NamedCodeMap) Entries() []NamedCode {
	if m == nil {
		return nil
	}
	out := make([]NamedCode, len(m.entries))
	copy(out, m.entries)
	return out
}

// Single returns the only entry when the map has exactly one.
// Interactive callers use it to skip prompting for a forced choice.
func (m *NamedCodeMap) Single() (NamedCode, bool) {
	if m.Len() != 1 {
		return NamedCode{}, false
	}
	return m.entries[0], true
}

// MarshalJSON encodes the map as an ordered array of entries, since a
// JSON object would not preserve server order.
func (m *NamedCodeMap) MarshalJSON() ([]byte, error) {
	entries := m.Entries()
	if entries == nil {
		entries = []NamedCode{}
	}
	return json.Marshal(entries)
}
