package models

import "wayfare.openmobility.org/internal/routing"

// ServiceCandidate is one transportation option inside a single comparison
// session. Candidates are rebuilt fresh for every pickup/destination request
// and never persisted; identity is by name within the session.
type ServiceCandidate struct {
	Name           string     `json:"name"`
	RideMethod     RideMethod `json:"ride_method"`
	IsUserProposed bool       `json:"is_user_proposed"`

	// UserRating is the average community rating of a user-proposed service.
	// It is zero for operator-defined services.
	UserRating float64 `json:"user_rating,omitempty"`

	Criteria ServiceCriteria `json:"criteria"`

	// Itinerary is set only for the transit candidate, after the stop
	// resolver and the leg aggregator both succeed.
	Itinerary *routing.TripItinerary `json:"itinerary,omitempty"`
}

// RankedCandidate pairs a candidate with the sort key it was ordered by.
// The meaning of SortKey depends on the sort criterion; for name ordering it
// is zero and the ordering is lexicographic.
type RankedCandidate struct {
	Candidate ServiceCandidate `json:"candidate"`
	SortKey   float64          `json:"sort_key"`
}
