package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

const (
	maxDegrees = 90
	// MaxDecArcSeconds bounds a declination in arc-seconds on both sides.
	MaxDecArcSeconds = maxDegrees * 3600.0

	arcSecondsPerRadian = 180 * 3600 / math.Pi
)

// Dec is a declination held as a sign plus degrees, minutes and seconds.
// The sign is kept apart from the degrees so that "-00 10 20" stays
// negative. The zero value is +00:00:00.00.
type Dec struct {
	negative bool
	degrees  int
	minutes  int
	seconds  float64
}

// NewDec builds a declination from its components.
func NewDec(negative bool, d, m int, s float64) (Dec, error) {
	dec := Dec{negative: negative}
	if err := dec.SetDegrees(d); err != nil {
		return Dec{}, err
	}
	if err := dec.SetMinutes(m); err != nil {
		return Dec{}, err
	}
	if err := dec.SetSeconds(s); err != nil {
		return Dec{}, err
	}
	return dec, nil
}

func (d Dec) Negative() bool   { return d.negative }
func (d Dec) Degrees() int     { return d.degrees }
func (d Dec) Minutes() int     { return d.minutes }
func (d Dec) Seconds() float64 { return d.seconds }

// Sign returns '+' or '-'.
func (d Dec) Sign() rune {
	if d.negative {
		return SignNegative
	}
	return SignPositive
}

func (d *Dec) SetNegative(negative bool) { d.negative = negative }

// SetSign sets the sign from a '+' or '-' character.
func (d *Dec) SetSign(c rune) error {
	switch c {
	case SignPositive:
		d.negative = false
	case SignNegative:
		d.negative = true
	default:
		return &ValueError{Field: "dec sign", Value: string(c)}
	}
	return nil
}

// SetDegrees sets the unsigned degrees, which must be in 0..90.
func (d *Dec) SetDegrees(deg int) error {
	if err := checkInt("dec degrees", deg, 0, maxDegrees); err != nil {
		return err
	}
	d.degrees = deg
	return nil
}

// SetMinutes sets the minutes, which must be in 0..59.
func (d *Dec) SetMinutes(m int) error {
	if err := checkInt("dec minutes", m, 0, maxMinutes); err != nil {
		return err
	}
	d.minutes = m
	return nil
}

// SetSeconds sets the seconds, which must be in [0, 60].
func (d *Dec) SetSeconds(s float64) error {
	if err := checkSeconds("dec seconds", s); err != nil {
		return err
	}
	d.seconds = s
	return nil
}

// ArcSeconds returns the signed declination in arc-seconds.
func (d Dec) ArcSeconds() float64 {
	as := (float64(d.degrees)*60+float64(d.minutes))*60 + d.seconds
	if d.negative {
		return -as
	}
	return as
}

// DecimalDegrees returns the signed declination in degrees.
func (d Dec) DecimalDegrees() float64 {
	return d.ArcSeconds() / 3600
}

// FromArcSeconds sets the declination from signed arc-seconds within
// ±MaxDecArcSeconds. On error the declination is unchanged.
func (d *Dec) FromArcSeconds(as float64) error {
	if math.IsNaN(as) || as < -MaxDecArcSeconds || as > MaxDecArcSeconds {
		return &RangeError{Field: "dec arc-seconds", Value: as, Min: -MaxDecArcSeconds, Max: MaxDecArcSeconds}
	}
	deg, m, s := splitUnits(math.Abs(as))
	next, err := NewDec(as < 0, deg, m, s)
	if err != nil {
		return err
	}
	*d = next
	return nil
}

// Radians returns the signed declination in radians.
func (d Dec) Radians() float64 {
	return d.ArcSeconds() / arcSecondsPerRadian
}

// FromRadians sets the declination from an angle in [-π/2, π/2].
func (d *Dec) FromRadians(rad float64) error {
	if math.IsNaN(rad) || rad < -math.Pi/2 || rad > math.Pi/2 {
		return &RangeError{Field: "dec radians", Value: rad, Min: -math.Pi / 2, Max: math.Pi / 2}
	}
	as := rad * arcSecondsPerRadian
	as = math.Max(-MaxDecArcSeconds, math.Min(MaxDecArcSeconds, as))
	return d.FromArcSeconds(as)
}

// DecFromArcSeconds is the constructor form of FromArcSeconds.
func DecFromArcSeconds(as float64) (Dec, error) {
	var d Dec
	err := d.FromArcSeconds(as)
	return d, err
}

// DecFromRadians is the constructor form of FromRadians.
func DecFromRadians(rad float64) (Dec, error) {
	var d Dec
	err := d.FromRadians(rad)
	return d, err
}

// Parse sets the declination from text such as "-60:04:35.90". The leading
// sign character is required. On error the declination is unchanged.
func (d *Dec) Parse(s, sep string) error {
	return d.parse(s, sep, true)
}

// ParseRelaxed is Parse for sources that omit '+' on positive values.
func (d *Dec) ParseRelaxed(s, sep string) error {
	return d.parse(s, sep, false)
}

func (d *Dec) ParseColon(s string) error { return d.Parse(s, SeparatorColon) }
func (d *Dec) ParseDot(s string) error   { return d.Parse(s, SeparatorDot) }
func (d *Dec) ParseSpace(s string) error { return d.Parse(s, SeparatorSpace) }

func (d *Dec) parse(s, sep string, signRequired bool) error {
	tokens := tokenize(s, sep)
	if len(tokens) == 0 {
		return &ParseError{Input: s, Reason: "empty declination"}
	}
	if len(tokens) > 3 {
		return &ParseError{Input: s, Token: tokens[3], Reason: "too many components"}
	}

	negative, deg, err := parseDegreesToken(s, tokens[0], signRequired)
	if err != nil {
		return err
	}
	var (
		m   int
		sec float64
	)
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
	next, err := NewDec(negative, deg, m, sec)
	if err != nil {
		return err
	}
	*d = next
	return nil
}

// parseDegreesToken reads "<sign><degrees>". Without signRequired a bare
// number is taken as positive.
func parseDegreesToken(input, tok string, signRequired bool) (negative bool, deg int, err error) {
	switch {
	case tok[0] == SignPositive || tok[0] == SignNegative:
		negative = tok[0] == SignNegative
		if len(tok) == 1 {
			return false, 0, &ParseError{Input: input, Token: tok, Reason: "sign without degrees"}
		}
		tok = tok[1:]
	case signRequired:
		return false, 0, &ParseError{Input: input, Token: tok, Reason: "missing sign character", Err: &ValueError{Field: "dec sign", Value: tok[:1]}}
	}
	deg, err = parseIntToken(input, tok)
	if err != nil {
		return false, 0, err
	}
	return negative, deg, nil
}

// ParseDec parses text with a required sign into a new declination.
func ParseDec(s, sep string) (Dec, error) {
	var d Dec
	err := d.Parse(s, sep)
	return d, err
}

// Format renders <sign>DD<sep>MM<sep>SS.ss; the sign is always present.
func (d Dec) Format(sep string) string {
	return fmt.Sprintf("%c%02d%s%02d%s%05.2f", d.Sign(), d.degrees, sep, d.minutes, sep, d.seconds)
}

func (d Dec) String() string { return d.Format(DefaultSeparator) }

type decJSON struct {
	Negative bool    `json:"negative"`
	Degrees  int     `json:"degrees"`
	Minutes  int     `json:"minutes"`
	Seconds  float64 `json:"seconds"`
}

func (d Dec) MarshalJSON() ([]byte, error) {
	return json.Marshal(decJSON{Negative: d.negative, Degrees: d.degrees, Minutes: d.minutes, Seconds: d.seconds})
}

func (d *Dec) UnmarshalJSON(data []byte) error {
	var v decJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	next, err := NewDec(v.Negative, v.Degrees, v.Minutes, v.Seconds)
	if err != nil {
		return err
	}
	*d = next
	return nil
}
