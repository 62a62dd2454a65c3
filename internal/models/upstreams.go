package models

// RouteRef binds the numeric route ID used throughout the engine to the route
// ID carried by the GTFS feeds.
type RouteRef struct {
	ID          int    `json:"id"`
	GtfsRouteID string `json:"gtfs_route_id"`
}

// TransitFeedConfig describes the upstream transit data sources: the static
// GTFS bundle the stop lists come from and the GTFS-RT feed the live vehicle
// positions are polled from. ObaBaseURL/ObaApiKey optionally point at the
// OneBusAway server backing the feed, used for upstream health pings.
type TransitFeedConfig struct {
	StaticBundleURL    string     `json:"static_bundle_url"`
	VehiclePositionURL string     `json:"vehicle_position_url"`
	GtfsRtApiKey       string     `json:"gtfs_rt_api_key"`
	GtfsRtApiValue     string     `json:"gtfs_rt_api_value"`
	ObaBaseURL         string     `json:"oba_base_url,omitempty"`
	ObaApiKey          string     `json:"oba_api_key,omitempty"`
	Routes             []RouteRef `json:"routes"`
}

// RouteIDs returns the engine-side IDs of all configured routes.
func (c TransitFeedConfig) RouteIDs() []int {
	ids := make([]int, 0, len(c.Routes))
	for _, r := range c.Routes {
		ids = append(ids, r.ID)
	}
	return ids
}

// RideshareProviderConfig describes one ride-hailing price/location adapter.
type RideshareProviderConfig struct {
	Name         string `json:"name"`
	QuoteURL     string `json:"quote_url"`
	ApiKeyHeader string `json:"api_key_header,omitempty"`
	ApiKeyValue  string `json:"api_key_value,omitempty"`
}

// RoutingConfig points at the external point-to-point routing server.
type RoutingConfig struct {
	BaseURL string `json:"base_url"`
}
