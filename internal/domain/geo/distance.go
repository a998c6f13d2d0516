package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by the Haversine formula.
const EarthRadiusKm = 6371

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Distance computes the great-circle distance in kilometers between two
// points using the Haversine formula.
// PRE: latitudes in [-90, 90], longitudes in [-180, 180]
// POST: Returns a finite, non-negative distance; zero for identical points
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	deltaPhi := (lat2 - lat1) * math.Pi / 180
	deltaLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// DistanceBetween is Distance over Coordinate values.
func DistanceBetween(a, b Coordinate) float64 {
	return Distance(a.Lat, a.Lon, b.Lat, b.Lon)
}
