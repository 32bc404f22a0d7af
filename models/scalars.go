package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// The settings panel sends numbers and booleans either as JSON scalars or as
// the string form read back from data attributes. These types accept both.

// Number is a numeric setting kept in the text form it arrived in. An absent
// field stays "" so it is not confused with 0, and text that does not parse
// is kept for the dataset rather than failing the whole event.
type Number string

func (n *Number) UnmarshalJSON(data []byte) error {
	s, err := scalarString(data)
	if err != nil {
		return err
	}
	*n = Number(s)
	return nil
}

// Set reports whether the field carried a value
func (n Number) Set() bool {
	return n != ""
}

// Int parses the value, truncating a fractional form
func (n Number) Int() (int, bool) {
	s := string(n)
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// Float parses the value
func (n Number) Float() (float64, bool) {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (n Number) String() string {
	return string(n)
}

// IntNumber and FloatNumber build a Number from a parsed value
func IntNumber(v int) Number { return Number(strconv.Itoa(v)) }

func FloatNumber(v float64) Number { return Number(strconv.FormatFloat(v, 'f', -1, 64)) }

// BoolLike accepts true/false, 1/0 and their string forms
type BoolLike bool

func (b *BoolLike) UnmarshalJSON(data []byte) error {
	s, err := scalarString(data)
	if err != nil {
		return err
	}
	*b = BoolLike(ParseBoolLike(s))
	return nil
}

func (b BoolLike) String() string {
	return strconv.FormatBool(bool(b))
}

// ParseBoolLike reads the string form of a boolean-like value. Unknown
// values are false.
func ParseBoolLike(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}

// scalarString returns the textual content of a JSON scalar, unquoting
// strings. Anything else is kept as raw JSON text.
func scalarString(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	return string(data), nil
}
