// Package normalize translates provider-specific field names and value
// encodings into the stable output schema of the model package.
//
// Everything here is a pure function of its input so the rules can be
// tested without a network. The lesser provider's renames and coercions
// are kept in a declarative table (Rules) rather than in code branches.
package normalize

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shinji-kodama/turknet-query/internal/model"
)

// NotAvailable is the sentinel the lesser provider sends for "no value".
const NotAvailable = "N/A"

// Description turns a raw JSON description into a string. JSON null, an
// absent field, blank input and the string "null" all become "", so
// callers only ever see a single representation of "no description".
func Description(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		if s == "null" {
			return ""
		}
		return s
	}

	// Numbers and booleans are rendered verbatim; objects and arrays are
	// not descriptions the provider is known to send.
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return ""
	}
	return string(trimmed)
}

// StripLineFeeds removes line-feed characters the address service leaves
// in level names (e.g. "KADIKÖY\n").
func StripLineFeeds(name string) string {
	return strings.ReplaceAll(name, "\n", "")
}

// Coercion converts a raw string value into a normalized value.
type Coercion func(raw string) model.Value

// Flag decodes "1" as true and anything else as false.
func Flag(raw string) model.Value {
	return model.BoolValue(raw == "1")
}

// Text keeps the raw value as text.
func Text(raw string) model.Value {
	return model.TextValue(raw)
}

// WorkOrder strips the pipe separators the provider puts around open
// work order numbers.
func WorkOrder(raw string) model.Value {
	return model.TextValue(strings.TrimSpace(strings.ReplaceAll(raw, "|", "")))
}

// Color decodes the traffic-light status: "G" green, "B" brown, anything
// else none.
func Color(raw string) model.Value {
	return model.TextValue(DecodeColor(raw).String())
}

// DecodeColor maps a raw GREENBROWN code to a StatusColor.
func DecodeColor(raw string) model.StatusColor {
	switch raw {
	case "G":
		return model.ColorGreen
	case "B":
		return model.ColorBrown
	default:
		return model.ColorNone
	}
}

// Rule describes how one raw field is renamed and coerced.
type Rule struct {
	// Target is the stable output name.
	Target string

	// Label is the Turkish display label.
	Label string

	// Coerce converts the raw value.
	Coerce Coercion
}

// StatusColorField is the output name of the status color field.
const StatusColorField = "statusColor"

// Rules maps the lesser provider's terse field names to their output
// names and coercions. Fields not listed pass through under their raw
// name as text.
var Rules = map[string]Rule{
	"BSPRT":       {Target: "sparePort", Label: "Boş port", Coerce: Flag},
	"IPDSLM":      {Target: "ipDSLAM", Label: "IP DSLAM", Coerce: Flag},
	"SNTRLHZMT":   {Target: "exchangeService", Label: "Santral hizmeti", Coerce: Flag},
	"IPTVHZMT":    {Target: "iptvService", Label: "IPTV hizmeti", Coerce: Flag},
	"ACKISEMRI":   {Target: "openWorkOrder", Label: "Açık iş emri", Coerce: WorkOrder},
	"GREENBROWN":  {Target: StatusColorField, Label: "Tablo rengi", Coerce: Color},
	"ISFTTC":      {Target: "isFTTC", Label: "FTTC mi?", Coerce: Flag},
	"ISINDOOR":    {Target: "isIndoor", Label: "\"Indoor\" mu?", Coerce: Flag},
	"ISIPVOK":     {Target: "isIPVOK", Label: "IPVOK mu?", Coerce: Flag},
	"NDSLX":       {Target: "NDSLX", Label: "NDSLX", Coerce: Flag},
	"FIBERX":      {Target: "FIBERX", Label: "FIBERX", Coerce: Flag},
	"SNTRLT11":    {Target: "t11Exchange", Label: "T11 santral", Coerce: Text},
	"SNTRLPRTT11": {Target: "t11ExchangePort", Label: "T11 santral portu", Coerce: Text},
	"DSLMXSPD":    {Target: "dslMaxSpeed", Label: "DSL maksimum hız", Coerce: Text},
	"IPVMXSPD":    {Target: "ipvMaxSpeed", Label: "IPV maksimum hız", Coerce: Text},
	"NMSMAX":      {Target: "nmsMax", Label: "NmsMax", Coerce: Text},
	"FTTXTYPE":    {Target: "fttxType", Label: "FTTX tipi", Coerce: Text},
	"SNTRLMSF":    {Target: "exchangeDistance", Label: "Santral mesafesi", Coerce: Text},
}

// Field applies the rule table to one raw name/value pair. "N/A" is
// checked before coercion, so a missing flag stays absent instead of
// becoming false.
func Field(name, value string) model.Field {
	rule, ok := Rules[name]
	if !ok {
		rule = Rule{Target: name, Label: name, Coerce: Text}
	}

	v := model.Absent()
	if strings.TrimSpace(value) != NotAvailable {
		v = rule.Coerce(value)
	}

	return model.Field{Name: rule.Target, Label: rule.Label, Value: v}
}

// RawField is a name/value pair as the lesser provider sends it.
type RawField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Line normalizes one technology section. The status color is only
// meaningful when the section's own lookup succeeded, so it is forced to
// ColorNone whenever errorCode is not the success code.
func Line(errorCode, errorMessage string, raw []RawField) model.LineRecord {
	rec := model.LineRecord{
		ErrorCode:    errorCode,
		ErrorMessage: errorMessage,
		Fields:       make([]model.Field, 0, len(raw)),
	}

	for _, r := range raw {
		f := Field(r.Name, r.Value)
		if f.Name == StatusColorField && !rec.Succeeded() {
			f.Value = model.TextValue(model.ColorNone.String())
		}
		rec.Fields = append(rec.Fields, f)
	}

	return rec
}
