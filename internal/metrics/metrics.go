package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OutgoingLatency tracks the latency of outgoing HTTP requests to the
	// routing server, ride-hailing providers, and transit feeds.
	OutgoingLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outgoing_request_duration_seconds",
		Help:    "Duration of outgoing HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"url", "method", "status"})
)

var (
	ComparisonDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "comparison_pipeline_duration_seconds",
		Help:    "Duration of a full trip comparison pipeline run in seconds",
		Buckets: prometheus.DefBuckets,
	})

	CandidatesRanked = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "comparison_candidates_ranked",
		Help: "Number of candidates in the last ranked comparison result",
	})

	CandidatesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comparison_candidates_dropped_total",
		Help: "Candidates removed from a comparison, by reason (upstream_failure, no_vehicles, no_transit_option, low_rating)",
	}, []string{"reason"})

	ComparisonsSuperseded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comparisons_superseded_total",
		Help: "Comparison runs abandoned because a newer request started before they finished",
	})
)

var (
	RouteStopsLoaded = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "transit_route_stops_loaded",
		Help: "Number of static stops loaded for each vehicle route",
	}, []string{"route_id"})

	RouteVehiclePositions = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "transit_route_vehicle_positions",
		Help: "Number of live vehicle positions in the latest feed snapshot, per route",
	}, []string{"route_id"})

	InvalidVehicleCoordinates = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "transit_invalid_vehicle_coordinates",
		Help: "Vehicles in the latest feed snapshot with missing or out-of-range coordinates",
	})

	OutOfBoundsVehiclePositions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "transit_out_of_bounds_vehicle_positions",
		Help: "Vehicles positioned outside the stop footprint of their route in the latest snapshot",
	})

	TransitSourceStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "transit_source_status",
		Help: "Status of the transit data server backing the feed (0 = not working, 1 = working)",
	}, []string{"oba_base_url"})
)

var (
	RideshareQuoteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rideshare_quote_failures_total",
		Help: "Failed ride-hailing quote requests, per provider",
	}, []string{"provider"})
)
