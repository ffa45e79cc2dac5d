// Package dataset holds the in-memory tabular model the anonymization engine
// operates on: typed values, named columns, and ordered tables, plus CSV
// loading and saving for the CLI front end.
package dataset

import (
	"time"

	"github.com/spf13/cast"
)

// ValueKind tags the inferred kind of a single cell.
type ValueKind int

const (
	KindMissing ValueKind = iota
	KindString
	KindNumber
)

// Value is a single cell. Missing values flow through every transformation
// unchanged, so the zero Value is deliberately the missing value.
//
// For numeric values parsed from text, Str preserves the original lexical
// form: digit identifiers longer than float64's 53-bit mantissa (16-digit
// card or account numbers) would otherwise round before masking or hashing.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
}

// Missing returns the missing value.
func Missing() Value {
	return Value{Kind: KindMissing}
}

// NewString returns a text value.
func NewString(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// NewNumber returns a numeric value.
func NewNumber(f float64) Value {
	return Value{Kind: KindNumber, Num: f}
}

// IsMissing reports whether the value is missing.
func (v Value) IsMissing() bool {
	return v.Kind == KindMissing
}

// Text returns the string form of the value, or "" for missing values.
// Numeric values keep their original lexical form when one was recorded.
func (v Value) Text() string {
	switch v.Kind {
	case KindNumber:
		if v.Str != "" {
			return v.Str
		}

		return cast.ToString(v.Num)
	case KindString:
		return v.Str
	default:
		return ""
	}
}

// Float coerces the value to a float64. Text values are parsed; the ok
// result is false when the value is missing or not numeric.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindString:
		f, err := cast.ToFloat64E(v.Str)
		if err != nil {
			return 0, false
		}

		return f, true
	default:
		return 0, false
	}
}

// timeLayouts are tried in order when coercing text to a date.
var timeLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
}

// Time coerces the value to a date. Only text values can be date-like.
func (v Value) Time() (time.Time, bool) {
	if v.Kind != KindString {
		return time.Time{}, false
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v.Str); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
