package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

const (
	// SecondsToArcSeconds is the number of arc-seconds in one second of RA.
	SecondsToArcSeconds = 15.0
	// ArcSecondsPerDay is the exclusive upper bound of an RA in arc-seconds.
	ArcSecondsPerDay = 24 * 60 * 60 * SecondsToArcSeconds

	arcSecondsPerHour   = 60 * 60 * SecondsToArcSeconds
	arcSecondsPerMinute = 60 * SecondsToArcSeconds
	maxHours            = 23
)

// RA is a right ascension held as hours, minutes and seconds.
// The zero value is 00:00:00.00. Fields change only through setters that
// validate, so an RA is always within [0h, 24h).
type RA struct {
	hours   int
	minutes int
	seconds float64
}

// NewRA builds an RA from its components.
func NewRA(h, m int, s float64) (RA, error) {
	var ra RA
	if err := ra.SetHours(h); err != nil {
		return RA{}, err
	}
	if err := ra.SetMinutes(m); err != nil {
		return RA{}, err
	}
	if err := ra.SetSeconds(s); err != nil {
		return RA{}, err
	}
	return ra, nil
}

func (r RA) Hours() int       { return r.hours }
func (r RA) Minutes() int     { return r.minutes }
func (r RA) Seconds() float64 { return r.seconds }

// SetHours sets the hours, which must be in 0..23.
func (r *RA) SetHours(h int) error {
	if err := checkInt("ra hours", h, 0, maxHours); err != nil {
		return err
	}
	r.hours = h
	return nil
}

// SetMinutes sets the minutes, which must be in 0..59.
func (r *RA) SetMinutes(m int) error {
	if err := checkInt("ra minutes", m, 0, maxMinutes); err != nil {
		return err
	}
	r.minutes = m
	return nil
}

// SetSeconds sets the seconds, which must be in [0, 60]. Exactly 60.0 is
// kept verbatim rather than carried into the minutes.
func (r *RA) SetSeconds(s float64) error {
	if err := checkSeconds("ra seconds", s); err != nil {
		return err
	}
	r.seconds = s
	return nil
}

// ArcSeconds returns the RA as arc-seconds, 15 per second of time.
func (r RA) ArcSeconds() float64 {
	return ((float64(r.hours)*60+float64(r.minutes))*60 + r.seconds) * SecondsToArcSeconds
}

// Degrees returns the RA as decimal degrees.
func (r RA) Degrees() float64 {
	return r.ArcSeconds() / 3600
}

// FromArcSeconds sets the RA from arc-seconds in [0, ArcSecondsPerDay).
// On error the RA is unchanged.
func (r *RA) FromArcSeconds(as float64) error {
	if math.IsNaN(as) || as < 0 || as >= ArcSecondsPerDay {
		return &RangeError{Field: "ra arc-seconds", Value: as, Min: 0, Max: ArcSecondsPerDay, MaxExclusive: true}
	}
	h := int(math.Floor(as / arcSecondsPerHour))
	rem := as - float64(h)*arcSecondsPerHour
	m := int(math.Floor(rem / arcSecondsPerMinute))
	s := (rem - float64(m)*arcSecondsPerMinute) / SecondsToArcSeconds
	if s < 0 {
		s = 0
	}
	next, err := NewRA(h, m, s)
	if err != nil {
		return err
	}
	*r = next
	return nil
}

// Radians returns the RA as an angle in [0, 2π).
func (r RA) Radians() float64 {
	return r.ArcSeconds() * (2 * math.Pi) / ArcSecondsPerDay
}

// FromRadians sets the RA from an angle in [0, 2π).
func (r *RA) FromRadians(rad float64) error {
	if math.IsNaN(rad) || rad < 0 || rad >= 2*math.Pi {
		return &RangeError{Field: "ra radians", Value: rad, Min: 0, Max: 2 * math.Pi, MaxExclusive: true}
	}
	return r.FromArcSeconds(ArcSecondsPerDay * rad / (2 * math.Pi))
}

// RAFromArcSeconds is the constructor form of FromArcSeconds.
func RAFromArcSeconds(as float64) (RA, error) {
	var r RA
	err := r.FromArcSeconds(as)
	return r, err
}

// RAFromRadians is the constructor form of FromRadians.
func RAFromRadians(rad float64) (RA, error) {
	var r RA
	err := r.FromRadians(rad)
	return r, err
}

// Parse sets the RA from text such as "01:10:12.98". sep lists the
// delimiter characters. Missing trailing components are zero. On error the
// RA is unchanged.
func (r *RA) Parse(s, sep string) error {
	tokens := tokenize(s, sep)
	if len(tokens) == 0 {
		return &ParseError{Input: s, Reason: "empty right ascension"}
	}
	if len(tokens) > 3 {
		return &ParseError{Input: s, Token: tokens[3], Reason: "too many components"}
	}

	var (
		next RA
		h, m int
		sec  float64
		err  error
	)
	if h, err = parseIntToken(s, tokens[0]); err != nil {
		return err
	}
	if len(tokens) > 1 {
		if m, err = parseIntToken(s, tokens[1]); err != nil {
			return err
		}
	}
	if len(tokens) > 2 {
		if sec, err = parseFloatToken(s, tokens[2]); err != nil {
			return err
		}
	}
	if next, err = NewRA(h, m, sec); err != nil {
		return err
	}
	*r = next
	return nil
}

func (r *RA) ParseColon(s string) error { return r.Parse(s, SeparatorColon) }
func (r *RA) ParseDot(s string) error   { return r.Parse(s, SeparatorDot) }
func (r *RA) ParseSpace(s string) error { return r.Parse(s, SeparatorSpace) }

// ParseRA parses text into a new RA.
func ParseRA(s, sep string) (RA, error) {
	var r RA
	err := r.Parse(s, sep)
	return r, err
}

// Format renders HH<sep>MM<sep>SS.ss.
func (r RA) Format(sep string) string {
	return fmt.Sprintf("%02d%s%02d%s%05.2f", r.hours, sep, r.minutes, sep, r.seconds)
}

func (r RA) String() string { return r.Format(DefaultSeparator) }

type raJSON struct {
	Hours   int     `json:"hours"`
	Minutes int     `json:"minutes"`
	Seconds float64 `json:"seconds"`
}

func (r RA) MarshalJSON() ([]byte, error) {
	return json.Marshal(raJSON{Hours: r.hours, Minutes: r.minutes, Seconds: r.seconds})
}

func (r *RA) UnmarshalJSON(data []byte) error {
	var v raJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	next, err := NewRA(v.Hours, v.Minutes, v.Seconds)
	if err != nil {
		return err
	}
	*r = next
	return nil
}
