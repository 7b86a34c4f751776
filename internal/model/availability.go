package model

import (
	"encoding/json"
)

// AvailabilityResult is the normalized answer of the primary provider's
// availability query. It always carries all five sub-records; a
// technology that is not available simply has IsAvailable=false.
type AvailabilityResult struct {
	TurknetFiber FiberAvailability    `json:"turknetFiberAvailability"`
	VAEFiber     VAEFiberAvailability `json:"vaeFiberAvailability"`
	VDSL         VDSLAvailability     `json:"vdslAvailability"`
	XDSL         XDSLAvailability     `json:"xdslAvailability"`
	YAPA         YAPAAvailability     `json:"yapaAvailability"`
}

// FiberAvailability describes the provider's own fiber network.
type FiberAvailability struct {
	IsAvailable        bool `json:"isAvailable"`
	IsGigaFiber        bool `json:"isGigaFiber"`
	IsGigaFiberPlanned bool `json:"isGigaFiberPlanned"`
	MaxCapacity        int  `json:"maxCapacity"`
}

// VAEFiberAvailability describes fiber resold from the incumbent.
type VAEFiberAvailability struct {
	IsAvailable            bool   `json:"isAvailable"`
	MaxCapacity            int    `json:"maxCapacity"`
	MaxCapacityServiceType int    `json:"maxCapacityServiceType"`
	NmsMax                 int    `json:"nmsMax"`
	Type                   int    `json:"type"`
	Description            string `json:"description"`
}

// VDSLAvailability describes VDSL service on the copper line.
type VDSLAvailability struct {
	IsAvailable            bool   `json:"isAvailable"`
	MaxCapacity            int    `json:"maxCapacity"`
	MaxCapacityServiceType int    `json:"maxCapacityServiceType"`
	NmsMax                 int    `json:"nmsMax"`
	Description            string `json:"description"`
}

// XDSLAvailability describes legacy ADSL-family service.
type XDSLAvailability struct {
	IsAvailable bool   `json:"isAvailable"`
	MaxCapacity int    `json:"maxCapacity"`
	NmsMax      int    `json:"nmsMax"`
	Description string `json:"description"`
}

// YAPAAvailability describes the indoor / active-exchange fiber variant.
type YAPAAvailability struct {
	IsAvailable               bool   `json:"isAvailable"`
	IsIndoor                  bool   `json:"isIndoor"`
	IsTurknetActiveOnExchange bool   `json:"isTurknetActiveOnExchange"`
	Description               string `json:"description"`
}

// StatusColor is the traffic-light style line status of the lesser
// provider, decoded from its raw "G"/"B" code.
type StatusColor string

const (
	ColorGreen StatusColor = "green"
	ColorBrown StatusColor = "brown"
	ColorNone  StatusColor = "none"
)

// String returns the color name.
func (c StatusColor) String() string {
	return string(c)
}

// ValueKind tells which member of a Value is meaningful.
type ValueKind int

const (
	KindAbsent ValueKind = iota
	KindBool
	KindText
)

// Value is a normalized field value of the lesser provider: either
// absent (the provider sent "N/A" or nothing), a boolean flag, or text.
type Value struct {
	Kind ValueKind
	Bool bool
	Text string
}

// Absent returns the absent value.
func Absent() Value { return Value{Kind: KindAbsent} }

// BoolValue wraps a flag.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// TextValue wraps text.
func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }

// IsAbsent reports whether the value carries nothing.
func (v Value) IsAbsent() bool { return v.Kind == KindAbsent }

// MarshalJSON encodes absent as null, flags as booleans and text as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindBool:
		return json.Marshal(v.Bool)
	case KindText:
		return json.Marshal(v.Text)
	default:
		return []byte("null"), nil
	}
}

// Field is one normalized, renamed field of a lesser-provider record.
type Field struct {
	// Name is the stable output name (e.g. "sparePort").
	Name string

	// Label is the Turkish display label used in text output.
	Label string

	// Value is the coerced value.
	Value Value
}

// LineRecord is one technology section (ADSL, VDSL or FTTH) of the
// lesser provider's answer.
type LineRecord struct {
	// ErrorCode is the section's own result code; "100" means success.
	ErrorCode string

	// ErrorMessage is the section's own result message.
	ErrorMessage string

	// Fields holds the normalized fields in the order the provider sent them.
	Fields []Field
}

// Get returns the value of the named field.
func (r LineRecord) Get(name string) (Value, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Absent(), false
}

// Succeeded reports whether the section's error code is the success code.
func (r LineRecord) Succeeded() bool {
	return r.ErrorCode == LineSuccessCode
}

// LineSuccessCode is the section result code the lesser provider uses
// for a successful lookup.
const LineSuccessCode = "100"

// MarshalJSON flattens the record into a single object, like the
// provider's own web form consumes it.
func (r LineRecord) MarshalJSON() ([]byte, error) {
	obj := make(map[string]interface{}, len(r.Fields)+2)
	obj["errorCode"] = r.ErrorCode
	obj["errorMessage"] = r.ErrorMessage
	for _, f := range r.Fields {
		obj[f.Name] = f.Value
	}
	return json.Marshal(obj)
}

// LineResult is the normalized answer of the lesser provider.
type LineResult struct {
	ADSL LineRecord `json:"adsl"`
	VDSL LineRecord `json:"vdsl"`
	FTTH LineRecord `json:"ftth"`
}
