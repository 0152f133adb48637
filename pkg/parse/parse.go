// Package parse turns one trimmed input line into a reading value.
package parse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var ErrNotNumeric = errors.New("not a decimal number")

// Error reports a line that could not be parsed.
type Error struct {
	Text string
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("parse %q: %v", e.Text, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// optional sign, integer or decimal mantissa, optional exponent
var decimal = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)

// Value parses text as a real number. Hex floats, digit separators and the
// NaN/Inf spellings strconv would accept are rejected.
func Value(text string) (float64, error) {
	if !decimal.MatchString(text) {
		return 0, &Error{Text: text, Err: ErrNotNumeric}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		// out of range
		return 0, &Error{Text: text, Err: err}
	}
	return v, nil
}
