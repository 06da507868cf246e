package domain

import (
	"fmt"
	"strings"
	"time"
)

// CelestialObject is a catalog entry: identity, position, classification
// and B/V/R photometry.
type CelestialObject struct {
	ID           string    `json:"id,omitempty"`
	Name         string    `json:"name"`
	Number       int       `json:"number"`
	RA           RA        `json:"ra"`
	Dec          Dec       `json:"dec"`
	Type         string    `json:"type,omitempty"`
	SpectralType string    `json:"spectral_type,omitempty"`
	BMagnitude   float64   `json:"b_magnitude"`
	VMagnitude   float64   `json:"v_magnitude"`
	RMagnitude   float64   `json:"r_magnitude"`
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Token slots of the combined "RA Dec" form.
const (
	slotRAHours = iota
	slotRAMinutes
	slotRASeconds
	slotDecDegrees
	slotDecMinutes
	slotDecSeconds
	slotEnd
)

// ParseCombined parses RA and Dec from one space-delimited string as
// returned by catalog lookup services. Two shapes are accepted:
//
//	01 10 12.98  +60 04 35.9
//	05 28.5      +35 51.3
//
// A minutes token with a decimal point carries the seconds as a fraction of
// a minute, and the seconds token for that coordinate is then absent. The
// declination sign is required.
func ParseCombined(s string) (RA, Dec, error) {
	var (
		ra   RA
		dec  Dec
		slot int
	)
	for _, tok := range strings.Fields(s) {
		if slot >= slotEnd {
			return RA{}, Dec{}, &ParseError{Input: s, Token: tok, Reason: "unexpected trailing token"}
		}
		if err := assignSlot(&ra, &dec, s, tok, &slot); err != nil {
			return RA{}, Dec{}, err
		}
		slot++
	}
	if slot <= slotDecMinutes {
		return RA{}, Dec{}, &ParseError{Input: s, Reason: "expected right ascension and declination"}
	}
	return ra, dec, nil
}

func assignSlot(ra *RA, dec *Dec, input, tok string, slot *int) error {
	switch *slot {
	case slotRAHours:
		h, err := parseIntToken(input, tok)
		if err != nil {
			return err
		}
		return ra.SetHours(h)
	case slotRAMinutes:
		m, sec, decimal, err := parseMinutesToken(input, tok, "ra minutes")
		if err != nil {
			return err
		}
		if err := ra.SetMinutes(m); err != nil {
			return err
		}
		if decimal {
			// next token is the declination
			*slot++
			return ra.SetSeconds(sec)
		}
		return nil
	case slotRASeconds:
		sec, err := parseFloatToken(input, tok)
		if err != nil {
			return err
		}
		return ra.SetSeconds(sec)
	case slotDecDegrees:
		negative, deg, err := parseDegreesToken(input, tok, true)
		if err != nil {
			return err
		}
		dec.SetNegative(negative)
		return dec.SetDegrees(deg)
	case slotDecMinutes:
		m, sec, decimal, err := parseMinutesToken(input, tok, "dec minutes")
		if err != nil {
			return err
		}
		if err := dec.SetMinutes(m); err != nil {
			return err
		}
		if decimal {
			*slot++
			return dec.SetSeconds(sec)
		}
		return nil
	case slotDecSeconds:
		sec, err := parseFloatToken(input, tok)
		if err != nil {
			return err
		}
		return dec.SetSeconds(sec)
	}
	return nil
}

// ParseCombinedCoordinates sets RA and Dec from the combined form. On error
// the object is unchanged.
func (o *CelestialObject) ParseCombinedCoordinates(s string) error {
	ra, dec, err := ParseCombined(s)
	if err != nil {
		return err
	}
	o.RA, o.Dec = ra, dec
	return nil
}

// String renders "<name> (<number>) <ra> <dec> B:<b> V:<v> R:<r>".
func (o CelestialObject) String() string {
	return fmt.Sprintf("%s (%d) %s %s B:%s V:%s R:%s",
		o.Name, o.Number, o.RA, o.Dec,
		formatFloat(o.BMagnitude), formatFloat(o.VMagnitude), formatFloat(o.RMagnitude))
}
