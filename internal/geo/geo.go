// Package geo provides great-circle distance math and the arrival geofence
// threshold shared by the open-work filter and the proximity tracker.
package geo

import "math"

const (
	// earthRadiusKm is the mean Earth radius used by the haversine formula.
	earthRadiusKm = 6371.0

	// ArrivalThresholdKm is the geofence radius below which a worker counts
	// as arrived at the job site. The comparison is strict (<).
	ArrivalThresholdKm = 0.2
)

// Unknown is the sentinel returned when a distance cannot be computed.
// Callers must check IsUnknown; treating it as zero is a bug.
var Unknown = math.NaN()

// IsUnknown reports whether d is the unknown-distance sentinel.
func IsUnknown(d float64) bool { return math.IsNaN(d) }

// DistanceKm returns the haversine great-circle distance in kilometers
// between two coordinates. Any NaN input yields Unknown.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	if math.IsNaN(lat1) || math.IsNaN(lon1) || math.IsNaN(lat2) || math.IsNaN(lon2) {
		return Unknown
	}
	dLat := deg2rad(lat2 - lat1)
	dLon := deg2rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// IsWithinArrival reports whether d is inside the arrival geofence.
// Unknown distances are never within arrival.
func IsWithinArrival(d float64) bool {
	if IsUnknown(d) {
		return false
	}
	return d < ArrivalThresholdKm
}

func deg2rad(deg float64) float64 { return deg * (math.Pi / 180) }
