package geo

import (
	"math"
	"testing"
)

// Reference coordinates used across tests.
var (
	paris = Coordinate{Lat: 48.8566, Lon: 2.3522}
	lyon  = Coordinate{Lat: 45.7640, Lon: 4.8357}
	nice  = Coordinate{Lat: 43.7102, Lon: 7.2620}
)

// TestDistance_SamePoint verifies distance from a point to itself is zero.
func TestDistance_SamePoint(t *testing.T) {
	d := Distance(paris.Lat, paris.Lon, paris.Lat, paris.Lon)
	if d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

// TestDistance_Symmetry verifies Distance(a,b) == Distance(b,a).
func TestDistance_Symmetry(t *testing.T) {
	pairs := []struct{ a, b Coordinate }{
		{paris, lyon},
		{lyon, nice},
		{paris, nice},
		{Coordinate{Lat: -33.8688, Lon: 151.2093}, Coordinate{Lat: 51.5074, Lon: -0.1278}},
	}
	for _, p := range pairs {
		ab := DistanceBetween(p.a, p.b)
		ba := DistanceBetween(p.b, p.a)
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("asymmetric: %f vs %f for %+v", ab, ba, p)
		}
	}
}

// TestDistance_KnownValue checks Paris-Lyon against the accepted great-circle
// distance of roughly 392 km.
func TestDistance_KnownValue(t *testing.T) {
	d := DistanceBetween(paris, lyon)
	if d < 380 || d > 405 {
		t.Errorf("Paris-Lyon distance out of range: %f", d)
	}
}

// TestDistance_FiniteNonNegative checks the function is total over valid input.
func TestDistance_FiniteNonNegative(t *testing.T) {
	coords := []Coordinate{
		{Lat: 90, Lon: 180},
		{Lat: -90, Lon: -180},
		{Lat: 0, Lon: 0},
		{Lat: 89.999, Lon: -179.999},
	}
	for _, a := range coords {
		for _, b := range coords {
			d := DistanceBetween(a, b)
			if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
				t.Errorf("invalid distance %f for %+v -> %+v", d, a, b)
			}
		}
	}
}

// TestDistance_Antipodal verifies antipodal points are roughly half the
// Earth's circumference apart.
func TestDistance_Antipodal(t *testing.T) {
	d := Distance(0, 0, 0, 180)
	expected := math.Pi * EarthRadiusKm
	if math.Abs(d-expected) > 1 {
		t.Errorf("antipodal distance = %f, want ~%f", d, expected)
	}
}
