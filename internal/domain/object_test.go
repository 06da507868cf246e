package domain

import (
	"errors"
	"testing"
)

func TestParseCombined(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		raH, raM   int
		raS        float64
		negative   bool
		decD, decM int
		decS       float64
	}{
		{"full form", "01 10 12.98  +60 04 35.9", 1, 10, 12.98, false, 60, 4, 35.9},
		{"decimal dec minutes", "05 28 43     +35 51.3", 5, 28, 43, false, 35, 51, 18},
		{"decimal ra minutes", "05 28.5 -35 51 18", 5, 28, 30, true, 35, 51, 18},
		{"both decimal", " 05 28.5 -00 51.5 ", 5, 28, 30, true, 0, 51, 30},
		{"tabs", "23\t59\t59.9\t-89\t59\t59.9", 23, 59, 59.9, true, 89, 59, 59.9},
		{"no dec seconds", "01 10 12.98 +60 04", 1, 10, 12.98, false, 60, 4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ra, dec, err := ParseCombined(tt.input)
			if err != nil {
				t.Fatalf("ParseCombined(%q): %v", tt.input, err)
			}
			assertRA(t, ra, tt.raH, tt.raM, tt.raS)
			assertDec(t, dec, tt.negative, tt.decD, tt.decM, tt.decS)
		})
	}
}

func TestParseCombinedErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", "", ErrParse},
		{"ra only", "05 28 43", ErrParse},
		{"dec degrees only", "05 28 43 +35", ErrParse},
		{"unsigned dec degrees", "05 28 43 35 51.3", ErrParse},
		{"bad ra seconds", "05 28 4x +35 51 18", ErrParse},
		{"bad decimal minutes", "05 28 43 +35 5a.3", ErrParse},
		{"trailing token", "01 10 12.98 +60 04 35.9 extra", ErrParse},
		{"ra hours out of range", "24 00 00 +00 00 00", ErrRange},
		{"dec degrees out of range", "01 00 00 -91 00 00", ErrRange},
		{"negative decimal ra minutes", "05 -0.5 +10 20", ErrRange},
		{"negative decimal dec minutes", "05 28 43 +10 -0.5", ErrRange},
		{"negative zero ra minutes", "05 -0 00 +10 20 00", ErrRange},
		{"negative decimal minutes both", "05 -0.5 +10 -0.5", ErrRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ParseCombined(tt.input); !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseCombined(%q) err = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestCelestialObjectParseCombinedCoordinates(t *testing.T) {
	obj := CelestialObject{Name: "M38"}
	if err := obj.ParseCombinedCoordinates("05 28 43     +35 51.3"); err != nil {
		t.Fatalf("ParseCombinedCoordinates: %v", err)
	}
	assertRA(t, obj.RA, 5, 28, 43)
	assertDec(t, obj.Dec, false, 35, 51, 18)

	before := obj
	if err := obj.ParseCombinedCoordinates("05 28 43 35 51.3"); err == nil {
		t.Fatal("expected error for unsigned declination")
	}
	if obj.RA != before.RA || obj.Dec != before.Dec {
		t.Error("failed parse changed coordinates")
	}
}

func TestCelestialObjectString(t *testing.T) {
	obj := CelestialObject{
		Name:       "HD 6961",
		Number:     42,
		RA:         mustRA(t, 1, 10, 12.98),
		Dec:        mustDec(t, false, 60, 4, 35.9),
		BMagnitude: 12.5,
		VMagnitude: 11,
		RMagnitude: 10.25,
	}
	want := "HD 6961 (42) 01:10:12.98 +60:04:35.90 B:12.5 V:11 R:10.25"
	if got := obj.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDetectSeparator(t *testing.T) {
	tests := map[string]string{
		"01:10:12.98": SeparatorColon,
		"01 10 12.98": " \t",
		"01\t10\t12":  " \t",
		"01.10.12.98": SeparatorDot,
		" +60:04:35 ": SeparatorColon,
	}
	for input, want := range tests {
		if got := DetectSeparator(input); got != want {
			t.Errorf("DetectSeparator(%q) = %q, want %q", input, got, want)
		}
	}
}
