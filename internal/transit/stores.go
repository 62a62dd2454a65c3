package transit

import (
	"sync"
	"time"

	"wayfare.openmobility.org/internal/geo"
)

// VehicleRoute is a read-only snapshot of one fixed vehicle route: its static
// ordered stop list and the most recent live vehicle positions. Stops may be
// empty when no static data has been loaded for the route yet; callers must
// treat that as "unusable for matching", not as an error.
type VehicleRoute struct {
	RouteID   int              `json:"route_id"`
	Stops     []geo.Coordinate `json:"stops"`
	Positions []geo.Coordinate `json:"positions"`
}

// RouteStore is a thread-safe in-memory store for the static ordered stop
// lists of each vehicle route, indexed by route ID. Stop lists are written by
// the feed loader and read by comparison pipelines; readers always get a copy.
type RouteStore struct {
	mu    sync.RWMutex
	stops map[int][]geo.Coordinate
}

// NewRouteStore initializes and returns a new, empty RouteStore.
func NewRouteStore() *RouteStore {
	return &RouteStore{stops: make(map[int][]geo.Coordinate)}
}

// SetStops stores the ordered stop list for the given route ID.
func (s *RouteStore) SetStops(routeID int, stops []geo.Coordinate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops[routeID] = append([]geo.Coordinate(nil), stops...)
}

// Stops returns a copy of the stop list for the given route ID. A missing or
// empty entry comes back as a nil slice.
func (s *RouteStore) Stops(routeID int) []geo.Coordinate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]geo.Coordinate(nil), s.stops[routeID]...)
}

// PositionStore holds the latest live vehicle positions per route, refreshed
// out-of-band by the feed poller. The comparison pipeline only reads it and
// tolerates the snapshot being empty or stale.
type PositionStore struct {
	mu        sync.RWMutex
	positions map[int][]geo.Coordinate
	updatedAt time.Time
}

// NewPositionStore initializes and returns a new, empty PositionStore.
func NewPositionStore() *PositionStore {
	return &PositionStore{positions: make(map[int][]geo.Coordinate)}
}

// SetAll replaces the whole position snapshot in one write.
func (s *PositionStore) SetAll(positions map[int][]geo.Coordinate, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions = positions
	s.updatedAt = at
}

// Positions returns a copy of the live positions for the given route ID.
func (s *PositionStore) Positions(routeID int) []geo.Coordinate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]geo.Coordinate(nil), s.positions[routeID]...)
}

// UpdatedAt reports when the snapshot was last refreshed. The zero time means
// no snapshot has arrived yet.
func (s *PositionStore) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// Snapshot merges the two stores into the route set a single comparison works
// on. The result is detached from the stores: a concurrent feed refresh never
// mutates a comparison in flight.
func Snapshot(routeIDs []int, routes *RouteStore, positions *PositionStore) []VehicleRoute {
	out := make([]VehicleRoute, 0, len(routeIDs))
	for _, id := range routeIDs {
		out = append(out, VehicleRoute{
			RouteID:   id,
			Stops:     routes.Stops(id),
			Positions: positions.Positions(id),
		})
	}
	return out
}
