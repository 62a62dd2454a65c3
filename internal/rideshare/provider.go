package rideshare

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"wayfare.openmobility.org/internal/geo"
	"wayfare.openmobility.org/internal/models"
)

// quoteTimeout bounds a single quote request so a slow provider resolves as
// an upstream failure instead of stalling the comparison.
const quoteTimeout = 10 * time.Second

// Quote is the normalized response of a ride-hailing price/location adapter.
// Providers with different native APIs are mapped onto this shape before the
// engine sees them.
type Quote struct {
	MinChargePerPerson float64           `json:"min_charge_per_person"`
	ArriveInMinMinutes int               `json:"arrive_in_min_minutes"`
	ArriveInMaxMinutes int               `json:"arrive_in_max_minutes"`
	VehiclesAvailable  bool              `json:"vehicles_available"`
	NearestVehicles    []VehiclePosition `json:"nearest_vehicles"`
}

// VehiclePosition is one available vehicle near the pickup point.
type VehiclePosition struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// QuoteProvider fetches a live price/ETA quote for one ride-hailing service.
type QuoteProvider interface {
	Name() string
	Quote(ctx context.Context, pickup, dest geo.Coordinate) (*Quote, error)
}

// HTTPProvider is a QuoteProvider backed by a provider-hosted quote endpoint
// that already speaks the normalized Quote JSON shape.
type HTTPProvider struct {
	cfg    models.RideshareProviderConfig
	client *http.Client
}

// NewHTTPProvider creates a provider adapter from its configuration entry.
func NewHTTPProvider(cfg models.RideshareProviderConfig, client *http.Client) *HTTPProvider {
	return &HTTPProvider{cfg: cfg, client: client}
}

// Name returns the configured provider name, which the service catalog uses
// to bind a candidate to this adapter.
func (p *HTTPProvider) Name() string { return p.cfg.Name }

// Quote requests a live quote for the given trip. The returned quote has its
// nearest-vehicle list ordered by geodesic distance from the pickup point.
func (p *HTTPProvider) Quote(ctx context.Context, pickup, dest geo.Coordinate) (*Quote, error) {
	query := url.Values{}
	query.Set("pickup_lat", fmt.Sprintf("%f", pickup.Lat))
	query.Set("pickup_lon", fmt.Sprintf("%f", pickup.Lon))
	query.Set("dest_lat", fmt.Sprintf("%f", dest.Lat))
	query.Set("dest_lon", fmt.Sprintf("%f", dest.Lon))

	ctx, cancel := context.WithTimeout(ctx, quoteTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.QuoteURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create quote request for %s: %w", p.cfg.Name, err)
	}
	if p.cfg.ApiKeyHeader != "" && p.cfg.ApiKeyValue != "" {
		req.Header.Set(p.cfg.ApiKeyHeader, p.cfg.ApiKeyValue)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request to %s failed: %w", p.cfg.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider %s returned status %d", p.cfg.Name, resp.StatusCode)
	}

	var quote Quote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return nil, fmt.Errorf("failed to decode quote from %s: %w", p.cfg.Name, err)
	}

	SortByProximity(pickup, quote.NearestVehicles)
	return &quote, nil
}
