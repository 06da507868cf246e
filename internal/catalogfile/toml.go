// Package catalogfile reads and writes object catalogs as TOML documents.
//
// A catalog is a list of [[object]] tables:
//
//	[[object]]
//	name = "HD 7034"
//	coordinates = "01 10 12.98 -60 04 35.9"
//	type = "Star"
//	b = 9.1
//	v = 8.6
//
// Positions are given either as one combined "coordinates" string or as
// separate "ra" and "dec" strings in any supported separator.
package catalogfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/pbaille/skycat/internal/domain"
)

var ErrMissingPosition = errors.New("object has no coordinates")

// Record is one [[object]] table. The API accepts the same shape as JSON.
type Record struct {
	Name         string  `toml:"name" json:"name"`
	Number       int     `toml:"number,omitempty" json:"number,omitempty"`
	Coordinates  string  `toml:"coordinates,omitempty" json:"coordinates,omitempty"`
	RA           string  `toml:"ra,omitempty" json:"ra,omitempty"`
	Dec          string  `toml:"dec,omitempty" json:"dec,omitempty"`
	Type         string  `toml:"type,omitempty" json:"type,omitempty"`
	SpectralType string  `toml:"spectral_type,omitempty" json:"spectral_type,omitempty"`
	B            float64 `toml:"b,omitempty" json:"b,omitempty"`
	V            float64 `toml:"v,omitempty" json:"v,omitempty"`
	R            float64 `toml:"r,omitempty" json:"r,omitempty"`
	Comment      string  `toml:"comment,omitempty" json:"comment,omitempty"`
}

type document struct {
	Objects []Record `toml:"object"`
}

// Decode parses a TOML catalog. Unknown keys are rejected.
func Decode(data []byte) ([]domain.CelestialObject, error) {
	var doc document
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	objects := make([]domain.CelestialObject, 0, len(doc.Objects))
	for i, rec := range doc.Objects {
		o, err := rec.Object()
		if err != nil {
			return nil, fmt.Errorf("object %d (%q): %w", i+1, rec.Name, err)
		}
		objects = append(objects, o)
	}
	return objects, nil
}

// Object converts the record to a validated CelestialObject.
func (r Record) Object() (domain.CelestialObject, error) {
	o := domain.CelestialObject{
		Name:         r.Name,
		Number:       r.Number,
		Type:         r.Type,
		SpectralType: r.SpectralType,
		BMagnitude:   r.B,
		VMagnitude:   r.V,
		RMagnitude:   r.R,
		Comment:      r.Comment,
	}
	if r.Name == "" {
		return o, &domain.ValueError{Field: "name", Value: ""}
	}

	switch {
	case r.Coordinates != "":
		if err := o.ParseCombinedCoordinates(r.Coordinates); err != nil {
			return o, err
		}
	case r.RA != "" && r.Dec != "":
		if err := o.RA.Parse(r.RA, domain.DetectSeparator(r.RA)); err != nil {
			return o, err
		}
		// Hand-edited files often drop the '+' on northern objects.
		if err := o.Dec.ParseRelaxed(r.Dec, domain.DetectSeparator(r.Dec)); err != nil {
			return o, err
		}
	default:
		return o, ErrMissingPosition
	}
	return o, nil
}

// RecordFor renders an object as a record with colon-separated ra and dec.
func RecordFor(o *domain.CelestialObject) Record {
	return Record{
		Name:         o.Name,
		Number:       o.Number,
		RA:           o.RA.Format(domain.SeparatorColon),
		Dec:          o.Dec.Format(domain.SeparatorColon),
		Type:         o.Type,
		SpectralType: o.SpectralType,
		B:            o.BMagnitude,
		V:            o.VMagnitude,
		R:            o.RMagnitude,
		Comment:      o.Comment,
	}
}

// Encode renders objects as a TOML catalog.
func Encode(objects []domain.CelestialObject) ([]byte, error) {
	doc := document{Objects: make([]Record, len(objects))}
	for i := range objects {
		doc.Objects[i] = RecordFor(&objects[i])
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return data, nil
}

// Load reads a catalog file.
func Load(path string) ([]domain.CelestialObject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Decode(data)
}

// Save writes objects to path, replacing it atomically.
func Save(path string, objects []domain.CelestialObject) error {
	data, err := Encode(objects)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create catalog dir: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}
