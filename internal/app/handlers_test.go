package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"wayfare.openmobility.org/internal/config"
	"wayfare.openmobility.org/internal/models"
)

func newTestApplication(catalog config.Catalog) *Application {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.NewConfig(4000, "testing", catalog)
	return New(cfg, logger, &http.Client{}, "test-version")
}

func TestHealthcheckHandler(t *testing.T) {
	t.Run("ready with services", func(t *testing.T) {
		app := newTestApplication(config.Catalog{
			Services: []models.ServiceDefinition{
				{Name: "Walk", RideMethod: models.RideWalking},
			},
		})

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/healthcheck", nil)
		app.healthcheckHandler(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rr.Code)
		}

		var status HealthStatus
		if err := json.NewDecoder(rr.Body).Decode(&status); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !status.Ready || status.Services != 1 {
			t.Errorf("unexpected health status: %+v", status)
		}
		if status.Environment != "testing" || status.Version != "test-version" {
			t.Errorf("unexpected metadata: %+v", status)
		}
	})

	t.Run("not ready with empty catalog", func(t *testing.T) {
		app := newTestApplication(config.Catalog{})

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/healthcheck", nil)
		app.healthcheckHandler(rr, req)

		if rr.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rr.Code)
		}
	})
}

func TestCompareHandlerRejectsBadInput(t *testing.T) {
	app := newTestApplication(config.Catalog{
		Services: []models.ServiceDefinition{
			{Name: "Walk", RideMethod: models.RideWalking},
		},
	})

	tests := []struct {
		name  string
		query string
	}{
		{"missing coordinates", ""},
		{"malformed latitude", "pickup_lat=abc&pickup_lon=-96.334&dest_lat=30.601&dest_lon=-96.314"},
		{"out of range", "pickup_lat=95&pickup_lon=-96.334&dest_lat=30.601&dest_lon=-96.314"},
		{"unknown mode", "pickup_lat=30.62&pickup_lon=-96.334&dest_lat=30.601&dest_lon=-96.314&modes=teleport"},
		{"unknown tag", "pickup_lat=30.62&pickup_lon=-96.334&dest_lat=30.601&dest_lon=-96.314&tags=vibes"},
		{"unknown sort", "pickup_lat=30.62&pickup_lon=-96.334&dest_lat=30.601&dest_lon=-96.314&sort_by=luck"},
		{"unknown direction", "pickup_lat=30.62&pickup_lon=-96.334&dest_lat=30.601&dest_lon=-96.314&direction=sideways"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/v1/compare?"+tt.query, nil)
			app.compareHandler(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rr.Code)
			}
		})
	}
}

func TestCompareHandlerRunsComparison(t *testing.T) {
	// A catalog with only static candidates needs no live upstream.
	app := newTestApplication(config.Catalog{
		Services: []models.ServiceDefinition{
			{Name: "Walk", RideMethod: models.RideWalking,
				Criteria: models.ServiceCriteria{TimeMinutes: 40}},
			{Name: "Bike", RideMethod: models.RideBiking,
				Criteria: models.ServiceCriteria{TimeMinutes: 20}},
		},
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/v1/compare?pickup_lat=30.62&pickup_lon=-96.334&dest_lat=30.601&dest_lon=-96.314&sort_by=time", nil)
	app.compareHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var result struct {
		Candidates []models.RankedCandidate `json:"candidates"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(result.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(result.Candidates))
	}
	if result.Candidates[0].Candidate.Name != "Bike" {
		t.Errorf("expected Bike first when sorting by time, got %s", result.Candidates[0].Candidate.Name)
	}
	// Walking calories derive from time during annotation.
	for _, c := range result.Candidates {
		if c.Candidate.Name == "Walk" && c.Candidate.Criteria.CaloriesBurned != 200 {
			t.Errorf("expected 200 calories for 40 minute walk, got %d", c.Candidate.Criteria.CaloriesBurned)
		}
	}
}

func TestRankHandlerWithoutComparison(t *testing.T) {
	app := newTestApplication(config.Catalog{
		Services: []models.ServiceDefinition{
			{Name: "Walk", RideMethod: models.RideWalking},
		},
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/rank", nil)
	app.rankHandler(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("expected 409 before any comparison, got %d", rr.Code)
	}
}

func TestRoutesSecurityHeaders(t *testing.T) {
	app := newTestApplication(config.Catalog{
		Services: []models.ServiceDefinition{
			{Name: "Walk", RideMethod: models.RideWalking},
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ts := httptest.NewServer(app.Routes(ctx))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/healthcheck")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := resp.Header.Get("Content-Security-Policy"); got != "default-src 'self'" {
		t.Errorf("Content-Security-Policy = %q", got)
	}
}
