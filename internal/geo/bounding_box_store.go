package geo

import "sync"

// BoundingBoxStore stores the stop-footprint bounding box of each vehicle route
// in memory with concurrency safety. Boxes are written by the transit feed
// loader and read by the position poller.
type BoundingBoxStore struct {
	mu    sync.RWMutex
	store map[int]BoundingBox
}

// NewBoundingBoxStore creates and returns a new BoundingBoxStore.
func NewBoundingBoxStore() *BoundingBoxStore {
	return &BoundingBoxStore{
		store: make(map[int]BoundingBox),
	}
}

// Set stores a bounding box for a specific route ID.
func (s *BoundingBoxStore) Set(routeID int, bbox BoundingBox) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[routeID] = bbox
}

// Get retrieves the bounding box for a specific route ID.
func (s *BoundingBoxStore) Get(routeID int) (BoundingBox, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bbox, ok := s.store[routeID]
	return bbox, ok
}

// IsInBoundingBox checks if the lat/lon is inside the route's bounding box.
// Returns false when no box has been computed for the route yet.
func (s *BoundingBoxStore) IsInBoundingBox(routeID int, lat, lon float64) bool {
	bbox, ok := s.Get(routeID)
	if !ok {
		return false
	}
	return bbox.Contains(lat, lon)
}
