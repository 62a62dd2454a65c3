package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"wayfare.openmobility.org/internal/geo"
)

// osrmTimeout bounds a single routing call. The upstream either answers in
// this window or the leg is treated as failed; the engine never hangs on a
// slow router.
const osrmTimeout = 10 * time.Second

// OSRMPlanner is a Planner backed by an OSRM-compatible HTTP routing server
// (GET {base}/route/v1/{profile}/{lon},{lat};{lon},{lat}).
type OSRMPlanner struct {
	baseURL string
	client  *http.Client
}

// NewOSRMPlanner creates a planner against the given base URL. The client is
// shared with the rest of the application so outgoing latency is recorded by
// the instrumented transport.
func NewOSRMPlanner(baseURL string, client *http.Client) *OSRMPlanner {
	return &OSRMPlanner{baseURL: baseURL, client: client}
}

// osrmProfile maps a travel mode onto the routing profile exposed by the server.
func osrmProfile(mode Mode) string {
	switch mode {
	case ModeWalking:
		return "foot"
	case ModeDriving, ModeTransit:
		return "car"
	default:
		return "car"
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
	} `json:"routes"`
}

// Route performs a single routing call. Coordinates are validated before any
// network traffic; malformed input never reaches the upstream.
func (p *OSRMPlanner) Route(ctx context.Context, from, to geo.Coordinate, mode Mode) (RouteSummary, error) {
	if !from.IsValid() || !to.IsValid() {
		return RouteSummary{}, newError(ErrInvalidCoordinates, mode,
			fmt.Errorf("invalid coordinates: from=%v to=%v", from, to))
	}

	url := fmt.Sprintf("%s/route/v1/%s/%f,%f;%f,%f?overview=false",
		p.baseURL, osrmProfile(mode), from.Lon, from.Lat, to.Lon, to.Lat)

	ctx, cancel := context.WithTimeout(ctx, osrmTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return RouteSummary{}, newError(ErrUpstream, mode, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return RouteSummary{}, newError(ErrUpstream, mode, err)
	}
	defer resp.Body.Close()

	// OSRM reports routing-level failures (NoRoute, InvalidQuery) with a 400
	// status and a code field, so the body is decoded for both outcomes.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return RouteSummary{}, newError(ErrUpstream, mode, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return RouteSummary{}, newError(ErrUpstream, mode,
			fmt.Errorf("router returned status %d", resp.StatusCode))
	}

	var decoded osrmResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return RouteSummary{}, newError(ErrUpstream, mode, err)
	}

	if decoded.Code != "Ok" || len(decoded.Routes) == 0 {
		return RouteSummary{}, newError(ErrNoPath, mode,
			fmt.Errorf("no route found (code %q)", decoded.Code))
	}

	return RouteSummary{
		DistanceMeters:  decoded.Routes[0].Distance,
		DurationSeconds: decoded.Routes[0].Duration,
	}, nil
}
