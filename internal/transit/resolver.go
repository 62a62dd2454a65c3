package transit

import (
	"errors"

	"wayfare.openmobility.org/internal/geo"
)

// ErrNoTransitOption is returned when no known vehicle route has a usable
// stop list. The transit candidate is dropped from the comparison entirely;
// it is never shown with an infinite or placeholder walking distance.
var ErrNoTransitOption = errors.New("no transit route with stops available")

// StopMatch is the result of matching a rider and destination to the best
// boarding/alighting stop pair across all known vehicle routes.
type StopMatch struct {
	RouteID                int            `json:"route_id"`
	Boarding               geo.Coordinate `json:"boarding"`
	Alighting              geo.Coordinate `json:"alighting"`
	BoardingDistanceMiles  float64        `json:"boarding_distance_miles"`
	AlightingDistanceMiles float64        `json:"alighting_distance_miles"`
}

// TotalWalkMiles is the combined walk to the boarding stop and from the
// alighting stop.
func (m StopMatch) TotalWalkMiles() float64 {
	return m.BoardingDistanceMiles + m.AlightingDistanceMiles
}

// ResolveStopPair finds, across all routes with a non-empty stop list, the
// route whose best boarding stop (nearest to the rider) and best alighting
// stop (nearest to the destination) give the smallest total walking distance.
//
// The two minimizations are independent single passes over the same stop
// list; this is deliberately not a joint minimization over (board, alight)
// pairs constrained to route order. Ties resolve to the lower-index stop
// within a route and to the first-encountered route across routes, so the
// result is stable for a given input ordering.
func ResolveStopPair(rider, dest geo.Coordinate, routes []VehicleRoute) (*StopMatch, error) {
	var best *StopMatch

	for _, route := range routes {
		if len(route.Stops) == 0 {
			// No static data loaded for this route yet.
			continue
		}

		match := StopMatch{RouteID: route.RouteID}
		for i, stop := range route.Stops {
			boardDist := geo.DistanceMiles(rider, stop)
			alightDist := geo.DistanceMiles(stop, dest)
			if i == 0 || boardDist < match.BoardingDistanceMiles {
				match.Boarding = stop
				match.BoardingDistanceMiles = boardDist
			}
			if i == 0 || alightDist < match.AlightingDistanceMiles {
				match.Alighting = stop
				match.AlightingDistanceMiles = alightDist
			}
		}

		if best == nil || match.TotalWalkMiles() < best.TotalWalkMiles() {
			m := match
			best = &m
		}
	}

	if best == nil {
		return nil, ErrNoTransitOption
	}
	return best, nil
}
