package store

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/pbaille/skycat/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "nested", "skycat.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func object(t *testing.T, name string, number int, coords string, b, v, r float64) *domain.CelestialObject {
	t.Helper()
	o := &domain.CelestialObject{Name: name, Number: number, BMagnitude: b, VMagnitude: v, RMagnitude: r}
	if err := o.ParseCombinedCoordinates(coords); err != nil {
		t.Fatalf("ParseCombinedCoordinates(%q): %v", coords, err)
	}
	return o
}

func addAll(t *testing.T, s *Store, objects ...*domain.CelestialObject) []*domain.CelestialObject {
	t.Helper()
	out := make([]*domain.CelestialObject, len(objects))
	for i, o := range objects {
		stored, err := s.AddObject(o)
		if err != nil {
			t.Fatalf("AddObject(%s): %v", o.Name, err)
		}
		out[i] = stored
	}
	return out
}

func objectNames(objects []domain.CelestialObject) []string {
	out := make([]string, len(objects))
	for i, o := range objects {
		out[i] = o.Name
	}
	return out
}

func TestAddAndGetObject(t *testing.T) {
	s := newTestStore(t)
	in := object(t, "HD 7034", 1, "01 10 12.98 -60 04 35.9", 9.1, 8.6, 8.2)
	in.Type = "Star"
	in.SpectralType = "K0"
	in.Comment = "field star"

	stored, err := s.AddObject(in)
	if err != nil {
		t.Fatalf("AddObject: %v", err)
	}
	if stored.ID == "" || stored.CreatedAt.IsZero() {
		t.Fatalf("stored object missing id or created_at: %+v", stored)
	}
	if in.ID != "" {
		t.Errorf("AddObject mutated its argument")
	}

	got, err := s.GetObject(stored.ID)
	if err != nil {
		t.Fatalf("GetObject: %v", err)
	}
	if got.RA != in.RA || got.Dec != in.Dec {
		t.Errorf("coordinates = %v %v, want %v %v", got.RA, got.Dec, in.RA, in.Dec)
	}
	if !got.Dec.Negative() {
		t.Errorf("declination lost its sign")
	}
	if got.Name != "HD 7034" || got.Number != 1 || got.Type != "Star" || got.SpectralType != "K0" || got.Comment != "field star" {
		t.Errorf("got %+v", got)
	}
	if got.BMagnitude != 9.1 || got.VMagnitude != 8.6 || got.RMagnitude != 8.2 {
		t.Errorf("magnitudes = %v %v %v", got.BMagnitude, got.VMagnitude, got.RMagnitude)
	}
}

func TestNegativeZeroDeclinationSurvives(t *testing.T) {
	s := newTestStore(t)
	in := object(t, "south", 0, "12 00 00 -00 10 20", 0, 0, 0)
	stored := addAll(t, s, in)[0]

	got, err := s.GetObject(stored.ID)
	if err != nil {
		t.Fatalf("GetObject: %v", err)
	}
	if got.Dec.String() != "-00:10:20.00" {
		t.Errorf("Dec = %s, want -00:10:20.00", got.Dec)
	}
}

func TestGetObjectNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetObject("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAddObjectDuplicateNameNumber(t *testing.T) {
	s := newTestStore(t)
	addAll(t, s, object(t, "dup", 1, "01 00 00 +10 00 00", 0, 0, 0))
	if _, err := s.AddObject(object(t, "dup", 1, "02 00 00 +10 00 00", 0, 0, 0)); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
	// A different number is a different object.
	addAll(t, s, object(t, "dup", 2, "02 00 00 +10 00 00", 0, 0, 0))
}

func TestUpsertObject(t *testing.T) {
	s := newTestStore(t)
	first, err := s.UpsertObject(object(t, "M31", 0, "00 42 44.3 +41 16 09", 4.4, 3.4, 0))
	if err != nil {
		t.Fatalf("UpsertObject: %v", err)
	}
	second, err := s.UpsertObject(object(t, "M31", 0, "00 42 44.4 +41 16 10", 4.3, 3.4, 2.9))
	if err != nil {
		t.Fatalf("UpsertObject: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert changed id from %s to %s", first.ID, second.ID)
	}
	if second.BMagnitude != 4.3 || second.RMagnitude != 2.9 {
		t.Errorf("magnitudes not updated: %+v", second)
	}
	if second.RA.Format(":") != "00:42:44.40" {
		t.Errorf("RA not updated: %s", second.RA)
	}
	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestResolveID(t *testing.T) {
	s := newTestStore(t)
	stored := addAll(t, s,
		object(t, "a", 0, "01 00 00 +01 00 00", 0, 0, 0),
		object(t, "b", 0, "02 00 00 +02 00 00", 0, 0, 0),
	)

	id, err := s.ResolveID(stored[0].ID[:8])
	if err != nil {
		t.Fatalf("ResolveID: %v", err)
	}
	if id != stored[0].ID {
		t.Errorf("ResolveID = %s, want %s", id, stored[0].ID)
	}
	if _, err := s.ResolveID("zzzz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown prefix err = %v, want ErrNotFound", err)
	}
	if _, err := s.ResolveID(""); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty prefix err = %v, want ErrNotFound", err)
	}
}

func TestListObjectsOrderings(t *testing.T) {
	s := newTestStore(t)
	addAll(t, s,
		object(t, "west", 0, "03 00 00 +10 00 00", 12, 11, 10),
		object(t, "east", 0, "01 00 00 +10 00 00", 9, 13, 8),
		object(t, "mid-north", 0, "02 00 00 +20 00 00", 10, 12, 14),
		object(t, "mid-south", 0, "02 00 00 -20 00 00", 11, 10, 9),
	)

	tests := []struct {
		order domain.Ordering
		want  []string
	}{
		{domain.OrderPosition, []string{"east", "mid-south", "mid-north", "west"}},
		{domain.OrderB, []string{"east", "mid-north", "mid-south", "west"}},
		{domain.OrderV, []string{"mid-south", "west", "mid-north", "east"}},
		{domain.OrderR, []string{"east", "mid-south", "west", "mid-north"}},
	}
	for _, tt := range tests {
		t.Run(tt.order.String(), func(t *testing.T) {
			got, err := s.ListObjects(0, 0, tt.order, 5)
			if err != nil {
				t.Fatalf("ListObjects: %v", err)
			}
			if names := objectNames(got); !slices.Equal(names, tt.want) {
				t.Errorf("order = %v, want %v", names, tt.want)
			}
		})
	}
}

func TestListObjectsPagination(t *testing.T) {
	s := newTestStore(t)
	addAll(t, s,
		object(t, "a", 0, "01 00 00 +10 00 00", 1, 1, 1),
		object(t, "b", 0, "02 00 00 +10 00 00", 2, 2, 2),
		object(t, "c", 0, "03 00 00 +10 00 00", 3, 3, 3),
	)

	for _, order := range []domain.Ordering{domain.OrderPosition, domain.OrderV} {
		got, err := s.ListObjects(1, 1, order, 5)
		if err != nil {
			t.Fatalf("ListObjects(%v): %v", order, err)
		}
		if names := objectNames(got); !slices.Equal(names, []string{"b"}) {
			t.Errorf("%v page = %v, want [b]", order, names)
		}
		got, err = s.ListObjects(10, 5, order, 5)
		if err != nil {
			t.Fatalf("ListObjects(%v): %v", order, err)
		}
		if len(got) != 0 {
			t.Errorf("%v past the end = %v, want empty", order, objectNames(got))
		}
	}
}

func TestSearchObjects(t *testing.T) {
	s := newTestStore(t)
	galaxy := object(t, "M31", 0, "00 42 44.3 +41 16 09", 0, 0, 0)
	galaxy.Type = "Galaxy"
	star := object(t, "Vega", 0, "18 36 56.3 +38 47 01", 0, 0, 0)
	star.Comment = "standard for the galaxy survey"
	other := object(t, "Deneb", 0, "20 41 25.9 +45 16 49", 0, 0, 0)
	addAll(t, s, galaxy, star, other)

	got, err := s.SearchObjects("galaxy")
	if err != nil {
		t.Fatalf("SearchObjects: %v", err)
	}
	if names := objectNames(got); !slices.Equal(names, []string{"M31", "Vega"}) {
		t.Errorf("search = %v, want [M31 Vega]", names)
	}
}

func TestSearchObjectsLiteralWildcards(t *testing.T) {
	s := newTestStore(t)
	addAll(t, s,
		object(t, "M13", 0, "16 41 41.2 +36 27 35", 0, 0, 0),
		object(t, "M_3", 0, "13 42 11.6 +28 22 38", 0, 0, 0),
		object(t, "50% complete", 0, "05 00 00 +10 00 00", 0, 0, 0),
		object(t, `back\slash`, 0, "06 00 00 +10 00 00", 0, 0, 0),
	)

	tests := []struct {
		query string
		want  []string
	}{
		{"M_3", []string{"M_3"}},
		{"M1", []string{"M13"}},
		{"50%", []string{"50% complete"}},
		{"%", []string{"50% complete"}},
		{`k\s`, []string{`back\slash`}},
	}
	for _, tt := range tests {
		got, err := s.SearchObjects(tt.query)
		if err != nil {
			t.Fatalf("SearchObjects(%q): %v", tt.query, err)
		}
		if names := objectNames(got); !slices.Equal(names, tt.want) {
			t.Errorf("SearchObjects(%q) = %v, want %v", tt.query, names, tt.want)
		}
	}
}

func TestFindNear(t *testing.T) {
	s := newTestStore(t)
	addAll(t, s,
		object(t, "far", 0, "01 10 20.00 +60 04 35.9", 0, 0, 0),
		object(t, "close", 0, "01 10 13.00 +60 04 36.0", 0, 0, 0),
		object(t, "closer", 0, "01 10 12.99 +60 04 35.9", 0, 0, 0),
		object(t, "other-hemisphere", 0, "01 10 12.98 -60 04 35.9", 0, 0, 0),
	)
	ra, dec, err := domain.ParseCombined("01 10 12.98 +60 04 35.9")
	if err != nil {
		t.Fatal(err)
	}

	matches, err := s.FindNear(ra, dec, 5)
	if err != nil {
		t.Fatalf("FindNear: %v", err)
	}
	var got []string
	for _, m := range matches {
		got = append(got, m.Object.Name)
	}
	if !slices.Equal(got, []string{"closer", "close"}) {
		t.Fatalf("matches = %v, want [closer close]", got)
	}
	if matches[0].Separation > matches[1].Separation {
		t.Errorf("matches not sorted by separation: %v", matches)
	}

	if _, err := s.FindNear(ra, dec, 0); err == nil {
		t.Error("zero radius: expected error")
	}
}

func TestDeleteObject(t *testing.T) {
	s := newTestStore(t)
	stored := addAll(t, s, object(t, "gone", 0, "01 00 00 +01 00 00", 0, 0, 0))[0]

	if err := s.DeleteObject(stored.ID); err != nil {
		t.Fatalf("DeleteObject: %v", err)
	}
	if err := s.DeleteObject(stored.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
	if n, _ := s.Count(); n != 0 {
		t.Errorf("Count = %d, want 0", n)
	}
}

func TestNewReopensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skycat.db")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	addAll(t, s, object(t, "kept", 0, "01 00 00 +01 00 00", 0, 0, 0))
	s.Close()

	s, err = New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if n, _ := s.Count(); n != 1 {
		t.Errorf("Count after reopen = %d, want 1", n)
	}
}
