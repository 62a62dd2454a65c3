package rideshare

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/dnaeon/go-vcr.v4/pkg/recorder"
	"wayfare.openmobility.org/internal/geo"
	"wayfare.openmobility.org/internal/models"
)

var (
	testPickup = geo.Coordinate{Lat: 30.620, Lon: -96.334}
	testDest   = geo.Coordinate{Lat: 30.601, Lon: -96.314}
)

func TestHTTPProviderQuote(t *testing.T) {
	var gotHeader string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Api-Key")
		if r.URL.Query().Get("pickup_lat") == "" || r.URL.Query().Get("dest_lon") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"min_charge_per_person": 6.75,
			"arrive_in_min_minutes": 4,
			"arrive_in_max_minutes": 10,
			"vehicles_available": true,
			"nearest_vehicles": [{"lat": 30.640, "lng": -96.350}, {"lat": 30.621, "lng": -96.335}]
		}`))
	}))
	defer ts.Close()

	provider := NewHTTPProvider(models.RideshareProviderConfig{
		Name:         "rideco",
		QuoteURL:     ts.URL,
		ApiKeyHeader: "X-Api-Key",
		ApiKeyValue:  "test-key",
	}, ts.Client())

	quote, err := provider.Quote(context.Background(), testPickup, testDest)
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}

	if gotHeader != "test-key" {
		t.Errorf("expected API key header to be sent, got %q", gotHeader)
	}
	if quote.MinChargePerPerson != 6.75 {
		t.Errorf("MinChargePerPerson = %f, want 6.75", quote.MinChargePerPerson)
	}
	if !quote.VehiclesAvailable {
		t.Error("expected vehicles available")
	}

	// The upstream listed the far vehicle first; the quote comes back
	// ordered nearest-first.
	if len(quote.NearestVehicles) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(quote.NearestVehicles))
	}
	if quote.NearestVehicles[0].Lat != 30.621 {
		t.Errorf("expected the nearest vehicle first, got %+v", quote.NearestVehicles)
	}
}

func TestHTTPProviderQuoteUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	provider := NewHTTPProvider(models.RideshareProviderConfig{
		Name:     "rideco",
		QuoteURL: ts.URL,
	}, ts.Client())

	if _, err := provider.Quote(context.Background(), testPickup, testDest); err == nil {
		t.Error("expected error on upstream failure")
	}
}

func TestHTTPProviderQuoteWithVCR(t *testing.T) {
	rec, err := recorder.New(filepath.Join("testdata", "vcr", "rideco_quote_success"))
	if err != nil {
		t.Fatalf("Failed to create recorder: %v", err)
	}
	defer rec.Stop()

	client := &http.Client{
		Transport: rec,
		Timeout:   10 * time.Second,
	}

	provider := NewHTTPProvider(models.RideshareProviderConfig{
		Name:         "rideco",
		QuoteURL:     "https://rideco.example.com/v1/quote",
		ApiKeyHeader: "X-Api-Key",
		ApiKeyValue:  "test-key",
	}, client)

	quote, err := provider.Quote(context.Background(), testPickup, testDest)
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}

	if quote.MinChargePerPerson != 6.75 {
		t.Errorf("MinChargePerPerson = %f, want 6.75", quote.MinChargePerPerson)
	}
	if quote.ArriveInMinMinutes != 4 || quote.ArriveInMaxMinutes != 10 {
		t.Errorf("unexpected arrival window: %d-%d", quote.ArriveInMinMinutes, quote.ArriveInMaxMinutes)
	}
	if len(quote.NearestVehicles) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(quote.NearestVehicles))
	}
	if quote.NearestVehicles[0].Lat != 30.621 {
		t.Errorf("expected vehicles sorted nearest-first, got %+v", quote.NearestVehicles)
	}
}

func TestSortByProximity(t *testing.T) {
	vehicles := []VehiclePosition{
		{Lat: 30.700, Lng: -96.400}, // far
		{Lat: 30.621, Lng: -96.335}, // near
		{Lat: 30.650, Lng: -96.360}, // middle
	}

	SortByProximity(testPickup, vehicles)

	if vehicles[0].Lat != 30.621 || vehicles[1].Lat != 30.650 || vehicles[2].Lat != 30.700 {
		t.Errorf("vehicles not ordered nearest-first: %+v", vehicles)
	}
}
