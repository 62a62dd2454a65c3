package rideshare

import (
	"sort"

	"wayfare.openmobility.org/internal/geo"
)

// SortByProximity orders vehicles by great-circle distance from the pickup
// point, nearest first. Straight-line distance over raw lat/lng degrees is
// not used because degree deltas shrink with latitude and misorder vehicles.
func SortByProximity(pickup geo.Coordinate, vehicles []VehiclePosition) {
	sort.SliceStable(vehicles, func(i, j int) bool {
		di := geo.DistanceMiles(pickup, geo.Coordinate{Lat: vehicles[i].Lat, Lon: vehicles[i].Lng})
		dj := geo.DistanceMiles(pickup, geo.Coordinate{Lat: vehicles[j].Lat, Lon: vehicles[j].Lng})
		return di < dj
	})
}
