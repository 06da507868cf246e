package domain

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

const tolerance = 1e-9

func mustRA(t *testing.T, h, m int, s float64) RA {
	t.Helper()
	ra, err := NewRA(h, m, s)
	if err != nil {
		t.Fatalf("NewRA(%d, %d, %v): %v", h, m, s, err)
	}
	return ra
}

func assertRA(t *testing.T, got RA, h, m int, s float64) {
	t.Helper()
	if got.Hours() != h || got.Minutes() != m || math.Abs(got.Seconds()-s) > tolerance {
		t.Errorf("RA = (%d, %d, %v), want (%d, %d, %v)", got.Hours(), got.Minutes(), got.Seconds(), h, m, s)
	}
}

func TestRASetters(t *testing.T) {
	tests := []struct {
		name    string
		set     func(*RA) error
		wantErr bool
	}{
		{"hours 0", func(r *RA) error { return r.SetHours(0) }, false},
		{"hours 23", func(r *RA) error { return r.SetHours(23) }, false},
		{"hours 24", func(r *RA) error { return r.SetHours(24) }, true},
		{"hours -1", func(r *RA) error { return r.SetHours(-1) }, true},
		{"minutes 59", func(r *RA) error { return r.SetMinutes(59) }, false},
		{"minutes 60", func(r *RA) error { return r.SetMinutes(60) }, true},
		{"seconds 60 exactly", func(r *RA) error { return r.SetSeconds(60) }, false},
		{"seconds above 60", func(r *RA) error { return r.SetSeconds(60.0001) }, true},
		{"seconds negative", func(r *RA) error { return r.SetSeconds(-0.01) }, true},
		{"seconds NaN", func(r *RA) error { return r.SetSeconds(math.NaN()) }, true},
		{"seconds Inf", func(r *RA) error { return r.SetSeconds(math.Inf(1)) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ra := mustRA(t, 5, 6, 7)
			before := ra
			err := tt.set(&ra)
			if tt.wantErr {
				if !errors.Is(err, ErrRange) {
					t.Fatalf("err = %v, want ErrRange", err)
				}
				if ra != before {
					t.Errorf("failed setter changed RA from %v to %v", before, ra)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRASetHoursRangeErrorDetails(t *testing.T) {
	var ra RA
	err := ra.SetHours(24)
	var rangeErr *RangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("err = %T, want *RangeError", err)
	}
	if rangeErr.Field != "ra hours" || rangeErr.Value != 24 || rangeErr.Max != 23 {
		t.Errorf("RangeError = %+v", rangeErr)
	}
}

func TestRAArcSecondsRoundTrip(t *testing.T) {
	for h := 0; h <= 23; h++ {
		for _, m := range []int{0, 1, 30, 59} {
			for _, s := range []float64{0, 0.5, 12.98, 59.999} {
				ra := mustRA(t, h, m, s)
				as := ra.ArcSeconds()
				want := ((float64(h)*60+float64(m))*60 + s) * 15
				if math.Abs(as-want) > tolerance {
					t.Fatalf("ArcSeconds(%v) = %v, want %v", ra, as, want)
				}
				back, err := RAFromArcSeconds(as)
				if err != nil {
					t.Fatalf("RAFromArcSeconds(%v): %v", as, err)
				}
				assertRA(t, back, h, m, s)
			}
		}
	}
}

func TestRASixtySecondsCarriesThroughArcSeconds(t *testing.T) {
	ra := mustRA(t, 3, 14, 60)
	if ra.Seconds() != 60 {
		t.Fatalf("seconds stored as %v, want 60 verbatim", ra.Seconds())
	}
	back, err := RAFromArcSeconds(ra.ArcSeconds())
	if err != nil {
		t.Fatalf("RAFromArcSeconds: %v", err)
	}
	assertRA(t, back, 3, 15, 0)
}

func TestRASixtySecondsAtEndOfDay(t *testing.T) {
	ra := mustRA(t, 23, 59, 60)
	if as := ra.ArcSeconds(); as != ArcSecondsPerDay {
		t.Fatalf("ArcSeconds() = %v, want %v", as, ArcSecondsPerDay)
	}
	if _, err := RAFromArcSeconds(ra.ArcSeconds()); !errors.Is(err, ErrRange) {
		t.Errorf("RAFromArcSeconds(%v) err = %v, want ErrRange", ra.ArcSeconds(), err)
	}
}

func TestRAFromArcSecondsRange(t *testing.T) {
	for _, as := range []float64{-1, ArcSecondsPerDay, ArcSecondsPerDay + 1, math.NaN()} {
		ra := mustRA(t, 1, 2, 3)
		if err := ra.FromArcSeconds(as); !errors.Is(err, ErrRange) {
			t.Errorf("FromArcSeconds(%v) err = %v, want ErrRange", as, err)
		}
		assertRA(t, ra, 1, 2, 3)
	}
	if _, err := RAFromArcSeconds(ArcSecondsPerDay - 0.001); err != nil {
		t.Errorf("just below a day: %v", err)
	}
}

func TestRARadians(t *testing.T) {
	ra := mustRA(t, 12, 0, 0)
	if got := ra.Radians(); math.Abs(got-math.Pi) > tolerance {
		t.Errorf("12h = %v rad, want π", got)
	}
	back, err := RAFromRadians(math.Pi / 2)
	if err != nil {
		t.Fatalf("RAFromRadians: %v", err)
	}
	if got := back.ArcSeconds(); math.Abs(got-6*arcSecondsPerHour) > 1e-6 {
		t.Errorf("π/2 = %v arcsec, want %v", got, 6*arcSecondsPerHour)
	}
	for _, r := range []float64{-0.1, 2 * math.Pi, 7} {
		if _, err := RAFromRadians(r); !errors.Is(err, ErrRange) {
			t.Errorf("RAFromRadians(%v) err = %v, want ErrRange", r, err)
		}
	}
}

func TestRADegrees(t *testing.T) {
	if got := mustRA(t, 6, 0, 0).Degrees(); math.Abs(got-90) > tolerance {
		t.Errorf("6h = %v°, want 90", got)
	}
}

func TestRAParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		sep     string
		h, m    int
		s       float64
		wantErr error
	}{
		{"colon", "01:10:12.98", SeparatorColon, 1, 10, 12.98, nil},
		{"space", "01 10 12.98", SeparatorSpace, 1, 10, 12.98, nil},
		{"repeated spaces", "01  10   12.98", SeparatorSpace, 1, 10, 12.98, nil},
		{"dot keeps fractional seconds", "01.10.12.98", SeparatorDot, 1, 10, 12.98, nil},
		{"dot whole seconds", "01.10.12", SeparatorDot, 1, 10, 12, nil},
		{"missing seconds", "05:28", SeparatorColon, 5, 28, 0, nil},
		{"seconds sixty", "05:28:60.0", SeparatorColon, 5, 28, 60, nil},
		{"empty", "", SeparatorColon, 0, 0, 0, ErrParse},
		{"bad hours", "xx:10:12", SeparatorColon, 0, 0, 0, ErrParse},
		{"decimal hours", "1.5:10:12", SeparatorColon, 0, 0, 0, ErrParse},
		{"bad seconds", "01:10:abc", SeparatorColon, 0, 0, 0, ErrParse},
		{"too many", "01:10:12:13", SeparatorColon, 0, 0, 0, ErrParse},
		{"hours out of range", "24:00:00", SeparatorColon, 0, 0, 0, ErrRange},
		{"minutes out of range", "01:60:00", SeparatorColon, 0, 0, 0, ErrRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ra := mustRA(t, 9, 9, 9)
			err := ra.Parse(tt.input, tt.sep)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) err = %v, want %v", tt.input, err, tt.wantErr)
				}
				assertRA(t, ra, 9, 9, 9)
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			assertRA(t, ra, tt.h, tt.m, tt.s)
		})
	}
}

func TestRAParseHelpers(t *testing.T) {
	var ra RA
	if err := ra.ParseColon("02:03:04.5"); err != nil {
		t.Fatal(err)
	}
	assertRA(t, ra, 2, 3, 4.5)
	if err := ra.ParseSpace("03 04 05.5"); err != nil {
		t.Fatal(err)
	}
	assertRA(t, ra, 3, 4, 5.5)
	if err := ra.ParseDot("04.05.06.5"); err != nil {
		t.Fatal(err)
	}
	assertRA(t, ra, 4, 5, 6.5)
}

func TestRAFormat(t *testing.T) {
	ra := mustRA(t, 1, 10, 12.98)
	tests := []struct {
		sep  string
		want string
	}{
		{SeparatorColon, "01:10:12.98"},
		{SeparatorSpace, "01 10 12.98"},
		{SeparatorDot, "01.10.12.98"},
	}
	for _, tt := range tests {
		if got := ra.Format(tt.sep); got != tt.want {
			t.Errorf("Format(%q) = %q, want %q", tt.sep, got, tt.want)
		}
	}
	if got := ra.String(); got != "01:10:12.98" {
		t.Errorf("String() = %q", got)
	}
	if got := mustRA(t, 0, 5, 5.5).String(); got != "00:05:05.50" {
		t.Errorf("padding: got %q", got)
	}
	if got := mustRA(t, 0, 0, 1.006).String(); got != "00:00:01.01" {
		t.Errorf("rounding: got %q", got)
	}
}

func TestRAFormatParseRoundTrip(t *testing.T) {
	ra := mustRA(t, 23, 59, 1.25)
	for _, sep := range []string{SeparatorColon, SeparatorSpace, SeparatorDot} {
		back, err := ParseRA(ra.Format(sep), sep)
		if err != nil {
			t.Fatalf("ParseRA(%q): %v", ra.Format(sep), err)
		}
		if back != ra {
			t.Errorf("sep %q: round trip %v != %v", sep, back, ra)
		}
	}
}

func TestRAJSON(t *testing.T) {
	ra := mustRA(t, 1, 10, 12.98)
	data, err := json.Marshal(ra)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"hours":1,"minutes":10,"seconds":12.98}` {
		t.Errorf("Marshal = %s", data)
	}
	var back RA
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back != ra {
		t.Errorf("Unmarshal = %v, want %v", back, ra)
	}
	if err := json.Unmarshal([]byte(`{"hours":25}`), &back); !errors.Is(err, ErrRange) {
		t.Errorf("invalid hours err = %v, want ErrRange", err)
	}
}
