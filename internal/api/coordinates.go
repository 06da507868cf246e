package api

import (
	"encoding/json"
	"net/http"

	"github.com/pbaille/skycat/internal/domain"
)

// RAView is a right ascension with its derived representations
type RAView struct {
	Components domain.RA `json:"components"`
	Text       string    `json:"text"`
	ArcSeconds float64   `json:"arcsec"`
	Degrees    float64   `json:"degrees"`
	Radians    float64   `json:"radians"`
}

// DecView is a declination with its derived representations
type DecView struct {
	Components domain.Dec `json:"components"`
	Text       string     `json:"text"`
	ArcSeconds float64    `json:"arcsec"`
	Degrees    float64    `json:"degrees"`
	Radians    float64    `json:"radians"`
}

// CoordinatesResponse carries whichever of RA and Dec a request produced
type CoordinatesResponse struct {
	RA  *RAView  `json:"ra,omitempty"`
	Dec *DecView `json:"dec,omitempty"`
}

func newRAView(ra domain.RA, sep string) *RAView {
	return &RAView{
		Components: ra,
		Text:       ra.Format(sep),
		ArcSeconds: ra.ArcSeconds(),
		Degrees:    ra.Degrees(),
		Radians:    ra.Radians(),
	}
}

func newDecView(dec domain.Dec, sep string) *DecView {
	return &DecView{
		Components: dec,
		Text:       dec.Format(sep),
		ArcSeconds: dec.ArcSeconds(),
		Degrees:    dec.DecimalDegrees(),
		Radians:    dec.Radians(),
	}
}

// ParseRequest is the request body for POST /coordinates/parse.
// Kind is "ra", "dec" or "combined" (the default). Separator defaults to
// the one detected in Input; Output is the separator of the rendered text.
type ParseRequest struct {
	Input     string `json:"input"`
	Kind      string `json:"kind,omitempty"`
	Separator string `json:"separator,omitempty"`
	Output    string `json:"output,omitempty"`
	Relaxed   bool   `json:"relaxed,omitempty"`
}

func (s *Server) parseCoordinates(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Input == "" {
		writeError(w, http.StatusBadRequest, "input is required")
		return
	}
	sep := req.Separator
	if sep == "" {
		sep = domain.DetectSeparator(req.Input)
	}
	out := outputSeparator(req.Output)

	var resp CoordinatesResponse
	switch req.Kind {
	case "ra":
		ra, err := domain.ParseRA(req.Input, sep)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		resp.RA = newRAView(ra, out)
	case "dec":
		var dec domain.Dec
		parse := dec.Parse
		if req.Relaxed {
			parse = dec.ParseRelaxed
		}
		if err := parse(req.Input, sep); err != nil {
			s.fail(w, r, err)
			return
		}
		resp.Dec = newDecView(dec, out)
	case "", "combined":
		ra, dec, err := domain.ParseCombined(req.Input)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		resp.RA = newRAView(ra, out)
		resp.Dec = newDecView(dec, out)
	default:
		s.fail(w, r, &domain.ValueError{Field: "kind", Value: req.Kind})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ConvertRequest is the request body for POST /coordinates/convert. Each
// coordinate is given in arc-seconds or radians, not both.
type ConvertRequest struct {
	RAArcSeconds  *float64 `json:"ra_arcsec,omitempty"`
	RARadians     *float64 `json:"ra_radians,omitempty"`
	DecArcSeconds *float64 `json:"dec_arcsec,omitempty"`
	DecRadians    *float64 `json:"dec_radians,omitempty"`
	Output        string   `json:"output,omitempty"`
}

func (s *Server) convertCoordinates(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	out := outputSeparator(req.Output)

	var resp CoordinatesResponse
	switch {
	case req.RAArcSeconds != nil && req.RARadians != nil:
		s.fail(w, r, &domain.ValueError{Field: "ra", Value: "both arc-seconds and radians"})
		return
	case req.RAArcSeconds != nil:
		ra, err := domain.RAFromArcSeconds(*req.RAArcSeconds)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		resp.RA = newRAView(ra, out)
	case req.RARadians != nil:
		ra, err := domain.RAFromRadians(*req.RARadians)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		resp.RA = newRAView(ra, out)
	}

	switch {
	case req.DecArcSeconds != nil && req.DecRadians != nil:
		s.fail(w, r, &domain.ValueError{Field: "dec", Value: "both arc-seconds and radians"})
		return
	case req.DecArcSeconds != nil:
		dec, err := domain.DecFromArcSeconds(*req.DecArcSeconds)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		resp.Dec = newDecView(dec, out)
	case req.DecRadians != nil:
		dec, err := domain.DecFromRadians(*req.DecRadians)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		resp.Dec = newDecView(dec, out)
	}

	if resp.RA == nil && resp.Dec == nil {
		writeError(w, http.StatusBadRequest, "nothing to convert")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func outputSeparator(sep string) string {
	switch sep {
	case domain.SeparatorColon, domain.SeparatorDot, domain.SeparatorSpace:
		return sep
	default:
		return domain.DefaultSeparator
	}
}
