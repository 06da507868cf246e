package domain

import (
	"math"
	"strconv"
	"strings"
)

// Separators accepted between sexagesimal components.
const (
	SeparatorColon = ":"
	SeparatorDot   = "."
	SeparatorSpace = " "

	DefaultSeparator = SeparatorColon
)

// Sign characters used by declinations.
const (
	SignPositive = '+'
	SignNegative = '-'
)

const (
	secondsPerMinute = 60.0
	minutesPerUnit   = 60.0
	// Seconds may equal 60.0 exactly; some catalog servers emit it as a
	// rounding artifact.
	maxSeconds = 60.0
	maxMinutes = 59
)

// tokenize splits s on any of the characters in sep, dropping empty tokens.
// With the dot separator a fourth token is folded back into the seconds so
// that "01.10.12.98" keeps its fractional seconds.
func tokenize(s, sep string) []string {
	if sep == "" {
		sep = DefaultSeparator
	}
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(sep, r)
	})
	if sep == SeparatorDot && len(tokens) == 4 {
		tokens = append(tokens[:2], tokens[2]+"."+tokens[3])
	}
	return tokens
}

// DetectSeparator guesses the separator used by a free-form coordinate:
// colon if present, whitespace if present, otherwise dot.
func DetectSeparator(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case strings.Contains(s, SeparatorColon):
		return SeparatorColon
	case strings.ContainsAny(s, " \t"):
		return " \t"
	default:
		return SeparatorDot
	}
}

func parseIntToken(input, tok string) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, &ParseError{Input: input, Token: tok, Reason: "not an integer", Err: err}
	}
	return n, nil
}

func parseFloatToken(input, tok string) (float64, error) {
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, &ParseError{Input: input, Token: tok, Reason: "not a decimal", Err: err}
	}
	return f, nil
}

// parseMinutesToken reads a minutes token that may carry a decimal fraction
// ("51.3"). The fraction is returned as seconds and decimal reports whether
// one was present, in which case no separate seconds token follows.
// Negative tokens, "-0" and "-0.5" included, are range errors for field.
func parseMinutesToken(input, tok, field string) (minutes int, seconds float64, decimal bool, err error) {
	dot := strings.IndexByte(tok, '.')
	if strings.HasPrefix(tok, "-") {
		v, err := parseFloatToken(input, tok)
		if err != nil {
			return 0, 0, dot >= 0, err
		}
		return 0, 0, dot >= 0, &RangeError{Field: field, Value: v, Min: 0, Max: maxMinutes}
	}
	if dot < 0 {
		minutes, err = parseIntToken(input, tok)
		return minutes, 0, false, err
	}
	minutes, err = parseIntToken(input, tok[:dot])
	if err != nil {
		return 0, 0, true, err
	}
	frac, err := parseFloatToken(input, tok[dot:])
	if err != nil {
		return 0, 0, true, err
	}
	return minutes, frac * secondsPerMinute, true, nil
}

func checkInt(field string, v, lo, hi int) error {
	if v < lo || v > hi {
		return &RangeError{Field: field, Value: float64(v), Min: float64(lo), Max: float64(hi)}
	}
	return nil
}

func checkSeconds(field string, s float64) error {
	if math.IsNaN(s) || s < 0 || s > maxSeconds {
		return &RangeError{Field: field, Value: s, Min: 0, Max: maxSeconds}
	}
	return nil
}

// splitUnits decomposes a non-negative quantity expressed in seconds of a
// unit (hour or degree) into whole units, whole minutes and seconds.
func splitUnits(total float64) (units, minutes int, seconds float64) {
	const perUnit = minutesPerUnit * secondsPerMinute
	units = int(math.Floor(total / perUnit))
	rem := total - float64(units)*perUnit
	minutes = int(math.Floor(rem / secondsPerMinute))
	seconds = rem - float64(minutes)*secondsPerMinute
	if seconds < 0 {
		seconds = 0
	}
	return units, minutes, seconds
}
