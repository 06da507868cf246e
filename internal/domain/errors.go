package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinels matched by the typed errors below via errors.Is.
var (
	ErrRange = errors.New("value out of range")
	ErrParse = errors.New("malformed coordinate")
	ErrValue = errors.New("invalid value")
)

// RangeError reports a numeric field assigned outside its valid domain.
// The field is left unchanged.
type RangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
	// MaxExclusive is set when Max itself is not a legal value.
	MaxExclusive bool
}

func (e *RangeError) Error() string {
	upper := "]"
	if e.MaxExclusive {
		upper = ")"
	}
	return fmt.Sprintf("%s: %s out of range [%s, %s%s",
		e.Field, formatFloat(e.Value), formatFloat(e.Min), formatFloat(e.Max), upper)
}

func (e *RangeError) Is(target error) bool { return target == ErrRange }

// ParseError reports input text that is not a well-formed coordinate.
type ParseError struct {
	Input  string
	Token  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse %q", e.Input)
	if e.Token != "" {
		msg += fmt.Sprintf(": token %q", e.Token)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

func (e *ParseError) Unwrap() error { return e.Err }

// ValueError reports an argument that is not one of the accepted values,
// such as a sign character other than '+' or '-'.
type ValueError struct {
	Field string
	Value string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: illegal value %q", e.Field, e.Value)
}

func (e *ValueError) Is(target error) bool { return target == ErrValue }

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
