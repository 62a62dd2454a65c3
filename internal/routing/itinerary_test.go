package routing

import (
	"context"
	"errors"
	"math"
	"testing"

	"wayfare.openmobility.org/internal/geo"
)

// stubPlanner resolves legs from a lookup table keyed by the leg's from
// coordinate, or fails them.
type stubPlanner struct {
	summaries map[geo.Coordinate]RouteSummary
	failures  map[geo.Coordinate]error
}

func (p *stubPlanner) Route(ctx context.Context, from, to geo.Coordinate, mode Mode) (RouteSummary, error) {
	if err, ok := p.failures[from]; ok {
		return RouteSummary{}, err
	}
	return p.summaries[from], nil
}

func testLegs() []Leg {
	rider := geo.Coordinate{Lat: 30.620, Lon: -96.334}
	boarding := geo.Coordinate{Lat: 30.615, Lon: -96.330}
	alighting := geo.Coordinate{Lat: 30.605, Lon: -96.320}
	dest := geo.Coordinate{Lat: 30.601, Lon: -96.314}

	return []Leg{
		{From: rider, To: boarding, Mode: ModeWalking},
		{From: boarding, To: alighting, Mode: ModeTransit},
		{From: alighting, To: dest, Mode: ModeWalking},
	}
}

func TestBuildItineraryTotals(t *testing.T) {
	legs := testLegs()

	// 0.5, 2.0 and 1.0 miles, converted to the router's native meters.
	planner := &stubPlanner{summaries: map[geo.Coordinate]RouteSummary{
		legs[0].From: {DistanceMeters: 0.5 * geo.MetersPerMile, DurationSeconds: 600},
		legs[1].From: {DistanceMeters: 2.0 * geo.MetersPerMile, DurationSeconds: 480},
		legs[2].From: {DistanceMeters: 1.0 * geo.MetersPerMile, DurationSeconds: 1200},
	}}

	itinerary, err := BuildItinerary(context.Background(), planner, legs)
	if err != nil {
		t.Fatalf("BuildItinerary failed: %v", err)
	}

	if math.Abs(itinerary.TotalDistanceMiles-3.5) > 1e-9 {
		t.Errorf("TotalDistanceMiles = %f, want 3.5", itinerary.TotalDistanceMiles)
	}
	if math.Abs(itinerary.TotalDurationMinutes-38) > 1e-9 {
		t.Errorf("TotalDurationMinutes = %f, want 38", itinerary.TotalDurationMinutes)
	}
	if len(itinerary.Legs) != 3 {
		t.Errorf("expected 3 legs, got %d", len(itinerary.Legs))
	}
}

func TestBuildItineraryNoPartialTotals(t *testing.T) {
	legs := testLegs()

	planner := &stubPlanner{
		summaries: map[geo.Coordinate]RouteSummary{
			legs[0].From: {DistanceMeters: 800, DurationSeconds: 600},
			legs[2].From: {DistanceMeters: 1600, DurationSeconds: 1200},
		},
		failures: map[geo.Coordinate]error{
			legs[1].From: newError(ErrNoPath, ModeTransit, errors.New("no route")),
		},
	}

	itinerary, err := BuildItinerary(context.Background(), planner, legs)
	if err == nil {
		t.Fatal("expected aggregation to fail when one leg fails")
	}
	if itinerary != nil {
		t.Errorf("no partial itinerary may be returned, got %+v", itinerary)
	}

	var routingErr *Error
	if !errors.As(err, &routingErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if routingErr.Leg != 1 {
		t.Errorf("expected failed leg 1, got %d", routingErr.Leg)
	}
	if routingErr.Kind != ErrNoPath {
		t.Errorf("expected kind %q, got %q", ErrNoPath, routingErr.Kind)
	}
}

func TestBuildItineraryReportsLowestFailedLeg(t *testing.T) {
	legs := testLegs()

	planner := &stubPlanner{
		summaries: map[geo.Coordinate]RouteSummary{
			legs[1].From: {DistanceMeters: 3200, DurationSeconds: 480},
		},
		failures: map[geo.Coordinate]error{
			legs[0].From: errors.New("first leg failed"),
			legs[2].From: errors.New("third leg failed"),
		},
	}

	_, err := BuildItinerary(context.Background(), planner, legs)
	var routingErr *Error
	if !errors.As(err, &routingErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	// Failures are reported in leg order, not completion order.
	if routingErr.Leg != 0 {
		t.Errorf("expected the lowest-index failed leg (0), got %d", routingErr.Leg)
	}
}

func TestBuildItineraryEmptyLegs(t *testing.T) {
	if _, err := BuildItinerary(context.Background(), &stubPlanner{}, nil); err == nil {
		t.Error("expected error for empty leg list")
	}
}
