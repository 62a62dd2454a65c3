package routing

import (
	"context"
	"fmt"

	"wayfare.openmobility.org/internal/geo"
)

// Mode is the travel mode of a single point-to-point routing request.
type Mode string

const (
	ModeWalking Mode = "walking"
	ModeDriving Mode = "driving"
	// ModeTransit marks the in-vehicle segment of a transit itinerary. The
	// external router has no schedule awareness, so transit legs are priced
	// as driving along the road network between the two stops.
	ModeTransit Mode = "transit"
)

// RouteSummary is the normalized result of one routing call, in the upstream
// router's native units.
type RouteSummary struct {
	DistanceMeters  float64
	DurationSeconds float64
}

// Planner wraps an external point-to-point routing capability. A single call
// either resolves to a distance/duration pair or fails; the planner performs
// no retries. Retry or backoff policy, where wanted, belongs to the caller.
type Planner interface {
	Route(ctx context.Context, from, to geo.Coordinate, mode Mode) (RouteSummary, error)
}

// ErrorKind classifies routing failures.
type ErrorKind string

const (
	// ErrNoPath means the router answered but found no route between the points.
	ErrNoPath ErrorKind = "no_path"
	// ErrUpstream covers timeouts and transport or server errors from the router.
	ErrUpstream ErrorKind = "upstream"
	// ErrInvalidCoordinates is raised before any external call is attempted.
	ErrInvalidCoordinates ErrorKind = "invalid_coordinates"
)

// Error is the failure type surfaced by the Planner and the leg aggregator.
// Leg is the zero-based index of the failed leg when the error comes out of
// BuildItinerary, and -1 for a standalone routing call.
type Error struct {
	Kind ErrorKind
	Mode Mode
	Leg  int
	Err  error
}

func (e *Error) Error() string {
	if e.Leg >= 0 {
		return fmt.Sprintf("routing %s leg %d (%s): %v", e.Kind, e.Leg, e.Mode, e.Err)
	}
	return fmt.Sprintf("routing %s (%s): %v", e.Kind, e.Mode, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// newError builds a standalone (non-leg) routing error.
func newError(kind ErrorKind, mode Mode, err error) *Error {
	return &Error{Kind: kind, Mode: mode, Leg: -1, Err: err}
}
