package services

import "math"

const earthRadiusKm = 6371

// haversineKm returns the great-circle distance between two points in
// kilometers.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1 = lat1 * math.Pi / 180
	lon1 = lon1 * math.Pi / 180
	lat2 = lat2 * math.Pi / 180
	lon2 = lon2 * math.Pi / 180

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusKm * c
}

// zipCoordinates maps a handful of New York ZIP codes to coordinates. A
// geocoding service would replace this table before expanding beyond the NY
// sample dataset.
var zipCoordinates = map[string][2]float64{
	"10001": {40.7505, -73.9934},
	"10010": {40.7387, -73.9864},
	"10032": {40.8417, -73.9397},
	"11211": {40.7128, -73.9564},
	"11201": {40.6943, -73.9866},
	"10011": {40.7415, -73.9982},
	"10012": {40.7265, -73.9982},
	"10013": {40.7205, -74.0082},
	"10014": {40.7345, -74.0072},
	"10016": {40.7455, -73.9782},
}

// lookupZipCoordinates returns the coordinates for a known ZIP code.
func lookupZipCoordinates(zipCode string) (lat, lon float64, ok bool) {
	coords, ok := zipCoordinates[zipCode]
	if !ok {
		return 0, 0, false
	}
	return coords[0], coords[1], true
}
