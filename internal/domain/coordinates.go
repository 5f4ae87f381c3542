package domain

import "math"

const earthRadiusMiles = 3958.8

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Great-circle distance in miles between two coordinates (haversine).
// This is a coarse straight-line estimate, not a road distance.
func (c Coordinates) DistanceMiles(other Coordinates) float64 {
	lat1 := c.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := (other.Lat - c.Lat) * math.Pi / 180
	dLon := (other.Lon - c.Lon) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMiles * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// DistanceBand is the coarse label shown next to a distance.
type DistanceBand string

const (
	DistanceBandLocal    DistanceBand = "Local"
	DistanceBandRegional DistanceBand = "Regional"
	DistanceBandLongHaul DistanceBand = "Long-haul"
)

func DistanceBandFor(miles float64) DistanceBand {
	switch {
	case miles < 50:
		return DistanceBandLocal
	case miles < 150:
		return DistanceBandRegional
	default:
		return DistanceBandLongHaul
	}
}
