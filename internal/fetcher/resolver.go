package fetcher

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/pbaille/skycat/internal/domain"
)

var ErrNoCoordinates = errors.New("no coordinates in lookup response")

var (
	objectLine      = regexp.MustCompile(`^Object\s+(.+?)\s+---\s+(\S+)`)
	coordinatesLine = regexp.MustCompile(`^Coordinates(?:\([^)]*\))?\s*:\s*(.*)$`)
	fluxLine        = regexp.MustCompile(`^Flux\s+([BVR])\s*:\s*([-+]?\d+(?:\.\d+)?)`)
	spectralLine    = regexp.MustCompile(`^Spectral type\s*:\s*(\S+)`)
	coordToken      = regexp.MustCompile(`^[-+]?\d+(?:\.\d+)?$`)
)

// Resolver looks object names up in a name-resolution service that answers
// in the plain-text layout used by SIMBAD's ASCII output.
type Resolver struct {
	// URLTemplate holds one %s, replaced by the query-escaped name.
	URLTemplate string
	Client      *http.Client
}

// NewResolver creates a resolver for the given URL template
func NewResolver(urlTemplate string) *Resolver {
	return &Resolver{URLTemplate: urlTemplate}
}

// Lookup resolves name to a catalog object
func (r *Resolver) Lookup(ctx context.Context, name string) (*domain.CelestialObject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &domain.ValueError{Field: "name", Value: name}
	}
	if strings.Count(r.URLTemplate, "%s") != 1 {
		return nil, fmt.Errorf("resolver url %q must contain exactly one %%s", r.URLTemplate)
	}

	text, err := Fetch(ctx, r.Client, fmt.Sprintf(r.URLTemplate, url.QueryEscape(name)))
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", name, err)
	}
	obj, err := ParseResponse(name, text)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", name, err)
	}
	return obj, nil
}

// ParseResponse extracts an object from a lookup response. The
// Coordinates line is required; object type, B/V/R fluxes and spectral
// type are read when present.
func ParseResponse(name, text string) (*domain.CelestialObject, error) {
	obj := &domain.CelestialObject{Name: name}
	found := false

	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if m := objectLine.FindStringSubmatch(line); m != nil {
			obj.Type = m[2]
			continue
		}
		if m := coordinatesLine.FindStringSubmatch(line); m != nil && !found {
			if err := obj.ParseCombinedCoordinates(coordinateTokens(m[1])); err != nil {
				return nil, err
			}
			found = true
			continue
		}
		if m := fluxLine.FindStringSubmatch(line); m != nil {
			mag, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			switch m[1] {
			case "B":
				obj.BMagnitude = mag
			case "V":
				obj.VMagnitude = mag
			case "R":
				obj.RMagnitude = mag
			}
			continue
		}
		if m := spectralLine.FindStringSubmatch(line); m != nil {
			obj.SpectralType = m[1]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan response: %w", err)
	}
	if !found {
		return nil, ErrNoCoordinates
	}
	return obj, nil
}

// coordinateTokens keeps the leading numeric tokens of a coordinates line,
// dropping trailing quality flags and bibcodes.
func coordinateTokens(s string) string {
	var tokens []string
	for _, tok := range strings.Fields(s) {
		if !coordToken.MatchString(tok) {
			break
		}
		tokens = append(tokens, tok)
	}
	return strings.Join(tokens, " ")
}
