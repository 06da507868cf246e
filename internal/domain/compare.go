package domain

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
)

// CompareFunc orders two objects, returning -1, 0 or 1.
type CompareFunc func(a, b *CelestialObject) int

// ByPosition orders objects by RA, then by Dec. Two RAs (or Decs) closer
// than radius arc-seconds count as equal, so objects inside the same error
// box compare 0. A difference of radius or more is ordered by its sign.
//
// The tolerance makes this an approximate ordering: equality is not
// transitive across neighbouring boxes.
func ByPosition(radius float64) CompareFunc {
	return func(a, b *CelestialObject) int {
		if c := compareWithin(a.RA.ArcSeconds(), b.RA.ArcSeconds(), radius); c != 0 {
			return c
		}
		return compareWithin(a.Dec.ArcSeconds(), b.Dec.ArcSeconds(), radius)
	}
}

func compareWithin(x, y, radius float64) int {
	if math.Abs(x-y) < radius {
		return 0
	}
	return cmp.Compare(x, y)
}

// Within reports whether b lies inside the square error box of the given
// radius around a, the case where ByPosition returns 0.
func Within(a, b *CelestialObject, radius float64) bool {
	return ByPosition(radius)(a, b) == 0
}

// ByBMagnitude orders objects by ascending B magnitude.
func ByBMagnitude(a, b *CelestialObject) int { return cmp.Compare(a.BMagnitude, b.BMagnitude) }

// ByVMagnitude orders objects by ascending V magnitude.
func ByVMagnitude(a, b *CelestialObject) int { return cmp.Compare(a.VMagnitude, b.VMagnitude) }

// ByRMagnitude orders objects by ascending R magnitude.
func ByRMagnitude(a, b *CelestialObject) int { return cmp.Compare(a.RMagnitude, b.RMagnitude) }

// Ordering names a comparison strategy.
type Ordering int

const (
	OrderPosition Ordering = iota
	OrderB
	OrderV
	OrderR
)

var orderingNames = map[Ordering]string{
	OrderPosition: "position",
	OrderB:        "b",
	OrderV:        "v",
	OrderR:        "r",
}

func (o Ordering) String() string {
	if name, ok := orderingNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Ordering(%d)", int(o))
}

// ParseOrdering accepts "position" (or "radec"), "b", "v" and "r",
// case-insensitively.
func ParseOrdering(s string) (Ordering, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "position", "radec", "":
		return OrderPosition, nil
	case "b":
		return OrderB, nil
	case "v":
		return OrderV, nil
	case "r":
		return OrderR, nil
	}
	return 0, &ValueError{Field: "ordering", Value: s}
}

// Compare returns the comparison for o. radius only matters for
// OrderPosition.
func (o Ordering) Compare(radius float64) CompareFunc {
	switch o {
	case OrderB:
		return ByBMagnitude
	case OrderV:
		return ByVMagnitude
	case OrderR:
		return ByRMagnitude
	default:
		return ByPosition(radius)
	}
}

// Sort orders objects in place, keeping the input order of ties.
func Sort(objects []CelestialObject, compare CompareFunc) {
	slices.SortStableFunc(objects, func(a, b CelestialObject) int {
		return compare(&a, &b)
	})
}

// Separation returns the great-circle distance between two objects in
// arc-seconds.
func Separation(a, b *CelestialObject) float64 {
	ra1, dec1 := a.RA.Radians(), a.Dec.Radians()
	ra2, dec2 := b.RA.Radians(), b.Dec.Radians()
	// haversine, stable for small separations
	sinDDec := math.Sin((dec2 - dec1) / 2)
	sinDRA := math.Sin((ra2 - ra1) / 2)
	h := sinDDec*sinDDec + math.Cos(dec1)*math.Cos(dec2)*sinDRA*sinDRA
	return 2 * math.Asin(math.Min(1, math.Sqrt(h))) * arcSecondsPerRadian
}
