package routing

import (
	"context"
	"errors"
	"sync"

	"wayfare.openmobility.org/internal/geo"
)

// Leg is one point-to-point segment of a multi-segment itinerary.
type Leg struct {
	From geo.Coordinate `json:"from"`
	To   geo.Coordinate `json:"to"`
	Mode Mode           `json:"mode"`
}

// TripItinerary is the full ordered sequence of legs for the transit
// candidate, with aggregated totals. Totals are only ever populated by
// BuildItinerary, and only when every leg resolved; a TripItinerary with
// partial sums does not exist.
type TripItinerary struct {
	Legs                 []Leg   `json:"legs"`
	TotalDistanceMiles   float64 `json:"total_distance_miles"`
	TotalDurationMinutes float64 `json:"total_duration_minutes"`
}

// BuildItinerary resolves every leg through the planner and aggregates the
// totals. Legs are independent of each other, so all routing calls are issued
// concurrently and joined; only the final sums depend on the individual legs.
//
// On failure the error identifies the lowest-index failed leg, and no partial
// totals are returned. The shared context is canceled as soon as the join
// completes so a failed aggregation does not leave stragglers running.
func BuildItinerary(ctx context.Context, planner Planner, legs []Leg) (*TripItinerary, error) {
	if len(legs) == 0 {
		return nil, errors.New("itinerary requires at least one leg")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	summaries := make([]RouteSummary, len(legs))
	failures := make([]error, len(legs))

	var wg sync.WaitGroup
	for i, leg := range legs {
		wg.Add(1)
		go func(i int, leg Leg) {
			defer wg.Done()
			summary, err := planner.Route(ctx, leg.From, leg.To, leg.Mode)
			if err != nil {
				failures[i] = err
				return
			}
			summaries[i] = summary
		}(i, leg)
	}
	wg.Wait()

	// Report the first failed leg in leg order, regardless of which routing
	// call happened to fail first in wall-clock time.
	for i, err := range failures {
		if err == nil {
			continue
		}
		var routingErr *Error
		if errors.As(err, &routingErr) {
			return nil, &Error{Kind: routingErr.Kind, Mode: routingErr.Mode, Leg: i, Err: routingErr.Err}
		}
		return nil, &Error{Kind: ErrUpstream, Mode: legs[i].Mode, Leg: i, Err: err}
	}

	itinerary := &TripItinerary{Legs: legs}
	for _, summary := range summaries {
		itinerary.TotalDistanceMiles += summary.DistanceMeters / geo.MetersPerMile
		itinerary.TotalDurationMinutes += summary.DurationSeconds / 60
	}
	return itinerary, nil
}
