package geo

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

// Coordinate is an immutable latitude/longitude pair in decimal degrees (WGS 84).
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// earthRadiusInMeters represents the mean radius of the Earth in meters.
//
// This value (6,371,000 meters) is defined as the Earth's volumetric mean radius,
// which is commonly used for general geospatial calculations and spherical approximations.
//
// Reference: NASA Planetary Fact Sheet – Earth
// https://nssdc.gsfc.nasa.gov/planetary/factsheet/earthfact.html
const earthRadiusInMeters = 6371000

// MetersPerMile is the exact international mile in meters.
const MetersPerMile = 1609.344

// DistanceMeters returns the great-circle distance between two coordinates in meters.
func DistanceMeters(a, b Coordinate) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lon)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return p1.Distance(p2).Radians() * earthRadiusInMeters
}

// DistanceMiles returns the great-circle distance between two coordinates in miles.
//
// All distance comparisons in the engine go through this function. Never compare
// raw degree deltas: a degree of longitude shrinks with latitude, so Euclidean
// math on lat/lon produces rankings that flip depending on where the user is.
func DistanceMiles(a, b Coordinate) float64 {
	return DistanceMeters(a, b) / MetersPerMile
}

// IsValidLatLon returns true if the given latitude and longitude values
// fall within the valid geographic coordinate bounds.
//
// Latitude must be between -90 and 90 degrees, and longitude must be
// between -180 and 180 degrees.
//
// Note: This function treats the coordinate (0,0) as invalid, even though it
// is a valid location in the Gulf of Guinea. This assumption is made to help
// detect uninitialized or placeholder coordinates commonly represented as (0,0).
func IsValidLatLon(lat, lon float64) bool {
	if lat == 0 && lon == 0 {
		return false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return false
	}
	return true
}

// IsValid reports whether the coordinate passes IsValidLatLon.
func (c Coordinate) IsValid() bool {
	return IsValidLatLon(c.Lat, c.Lon)
}

// BoundingBox defines the corners of a lat/lon box.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains checks whether the given latitude and longitude are within the bounding box.
func (b *BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// ComputeBoundingBox computes the bounding box of a route's stop list.
// It is used to sanity-check live vehicle positions against the static stop
// footprint of the route they claim to serve.
func ComputeBoundingBox(stops []Coordinate) (BoundingBox, error) {
	if len(stops) == 0 {
		return BoundingBox{}, fmt.Errorf("no stops to compute bounding box")
	}

	minLat := math.MaxFloat64
	maxLat := -math.MaxFloat64
	minLon := math.MaxFloat64
	maxLon := -math.MaxFloat64

	for _, stop := range stops {
		if !IsValidLatLon(stop.Lat, stop.Lon) {
			continue
		}
		if stop.Lat < minLat {
			minLat = stop.Lat
		}
		if stop.Lat > maxLat {
			maxLat = stop.Lat
		}
		if stop.Lon < minLon {
			minLon = stop.Lon
		}
		if stop.Lon > maxLon {
			maxLon = stop.Lon
		}
	}

	if minLat == math.MaxFloat64 || maxLat == -math.MaxFloat64 ||
		minLon == math.MaxFloat64 || maxLon == -math.MaxFloat64 {
		return BoundingBox{}, fmt.Errorf("no valid latitude/longitude found in stops")
	}

	return BoundingBox{
		MinLat: minLat,
		MaxLat: maxLat,
		MinLon: minLon,
		MaxLon: maxLon,
	}, nil
}
