package geo

import "math"

// earthRadiusM is the mean Earth radius in metres (IUGG).
const earthRadiusM = 6371008.8

// Distance returns the great-circle distance between two positions in metres,
// computed with the haversine formula. Altitude is ignored.
func Distance(a, b Position) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	return 2 * earthRadiusM * math.Asin(math.Sqrt(h))
}
