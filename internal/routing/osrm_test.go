package routing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wayfare.openmobility.org/internal/geo"
)

func TestOSRMPlannerRoute(t *testing.T) {
	var requestedPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"Ok","routes":[{"distance":804.7,"duration":600.0}]}`))
	}))
	defer ts.Close()

	planner := NewOSRMPlanner(ts.URL, ts.Client())

	summary, err := planner.Route(context.Background(),
		geo.Coordinate{Lat: 30.620, Lon: -96.334},
		geo.Coordinate{Lat: 30.615, Lon: -96.330},
		ModeWalking)
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}

	if summary.DistanceMeters != 804.7 {
		t.Errorf("DistanceMeters = %f, want 804.7", summary.DistanceMeters)
	}
	if summary.DurationSeconds != 600.0 {
		t.Errorf("DurationSeconds = %f, want 600.0", summary.DurationSeconds)
	}
	if !strings.Contains(requestedPath, "/route/v1/foot/") {
		t.Errorf("walking mode should use the foot profile, path was %s", requestedPath)
	}
}

func TestOSRMPlannerNoRoute(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// OSRM reports NoRoute with a 400 status and a code field.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
	}))
	defer ts.Close()

	planner := NewOSRMPlanner(ts.URL, ts.Client())

	_, err := planner.Route(context.Background(),
		geo.Coordinate{Lat: 30.620, Lon: -96.334},
		geo.Coordinate{Lat: 30.615, Lon: -96.330},
		ModeDriving)

	var routingErr *Error
	if !errors.As(err, &routingErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if routingErr.Kind != ErrNoPath {
		t.Errorf("expected kind %q, got %q", ErrNoPath, routingErr.Kind)
	}
}

func TestOSRMPlannerUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	planner := NewOSRMPlanner(ts.URL, ts.Client())

	_, err := planner.Route(context.Background(),
		geo.Coordinate{Lat: 30.620, Lon: -96.334},
		geo.Coordinate{Lat: 30.615, Lon: -96.330},
		ModeDriving)

	var routingErr *Error
	if !errors.As(err, &routingErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if routingErr.Kind != ErrUpstream {
		t.Errorf("expected kind %q, got %q", ErrUpstream, routingErr.Kind)
	}
}

func TestOSRMPlannerRejectsInvalidCoordinates(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer ts.Close()

	planner := NewOSRMPlanner(ts.URL, ts.Client())

	_, err := planner.Route(context.Background(),
		geo.Coordinate{Lat: 0, Lon: 0},
		geo.Coordinate{Lat: 30.615, Lon: -96.330},
		ModeWalking)

	var routingErr *Error
	if !errors.As(err, &routingErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if routingErr.Kind != ErrInvalidCoordinates {
		t.Errorf("expected kind %q, got %q", ErrInvalidCoordinates, routingErr.Kind)
	}
	if called {
		t.Error("malformed input must be rejected before any network call")
	}
}
