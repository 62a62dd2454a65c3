package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"wayfare.openmobility.org/internal/compare"
	"wayfare.openmobility.org/internal/geo"
	"wayfare.openmobility.org/internal/models"
)

// HealthStatus is the JSON response of /v1/healthcheck. Readiness means the
// catalog has at least one service to compare; load balancers and
// orchestration use it to decide whether to route traffic here.
type HealthStatus struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Version     string `json:"version"`
	Services    int    `json:"services"`
	Ready       bool   `json:"ready"`
}

// healthcheckHandler responds with the application's health status. An empty
// service catalog makes the instance not ready and answers 500.
func (app *Application) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	numServices := len(app.ConfigService.Config.GetCatalog().Services)

	ready := numServices > 0

	status := HealthStatus{
		Status:      "available",
		Environment: app.ConfigService.Config.Env,
		Version:     app.Version,
		Services:    numServices,
		Ready:       ready,
	}

	w.Header().Set("Content-Type", "application/json")
	if !ready {
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(status)
}

// compareHandler runs a full trip comparison:
//
//	GET /v1/compare?pickup_lat=..&pickup_lon=..&dest_lat=..&dest_lon=..
//	    [&modes=walking,transit][&tags=experience][&sort_by=price][&direction=desc]
//
// Omitted modes mean every mode is selected; omitted tags disable tag
// filtering. A request superseded by a newer one answers 409.
func (app *Application) compareHandler(w http.ResponseWriter, r *http.Request) {
	pickup, err := parseCoordinate(r, "pickup_lat", "pickup_lon")
	if err != nil {
		app.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	dest, err := parseCoordinate(r, "dest_lat", "dest_lon")
	if err != nil {
		app.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	selection, err := parseSelection(r)
	if err != nil {
		app.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	sortBy, direction, err := parseSort(r)
	if err != nil {
		app.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := app.Engine.Compare(r.Context(), compare.Request{
		Pickup:    pickup,
		Dest:      dest,
		Selection: selection,
		SortBy:    sortBy,
		Direction: direction,
	})
	if err != nil {
		if errors.Is(err, compare.ErrSuperseded) {
			app.errorResponse(w, http.StatusConflict, "comparison superseded by a newer request")
			return
		}
		app.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// rankHandler re-filters and re-sorts the last completed comparison without
// contacting any upstream:
//
//	GET /v1/rank[?modes=..][&tags=..][&sort_by=..][&direction=..]
func (app *Application) rankHandler(w http.ResponseWriter, r *http.Request) {
	selection, err := parseSelection(r)
	if err != nil {
		app.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	sortBy, direction, err := parseSort(r)
	if err != nil {
		app.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := app.Engine.Rerank(selection, sortBy, direction)
	if err != nil {
		if errors.Is(err, compare.ErrNoComparison) {
			app.errorResponse(w, http.StatusConflict, "no completed comparison to re-rank")
			return
		}
		app.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (app *Application) errorResponse(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func parseCoordinate(r *http.Request, latKey, lonKey string) (geo.Coordinate, error) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get(latKey), 64)
	if err != nil {
		return geo.Coordinate{}, errors.New("missing or malformed " + latKey)
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get(lonKey), 64)
	if err != nil {
		return geo.Coordinate{}, errors.New("missing or malformed " + lonKey)
	}
	coord := geo.Coordinate{Lat: lat, Lon: lon}
	if !coord.IsValid() {
		return geo.Coordinate{}, errors.New(latKey + "/" + lonKey + " out of range")
	}
	return coord, nil
}

func parseSelection(r *http.Request) (compare.Selection, error) {
	var sel compare.Selection

	if raw := r.URL.Query().Get("modes"); raw != "" {
		sel.Modes = make(map[models.RideMethod]bool)
		for _, part := range strings.Split(raw, ",") {
			method, ok := models.ParseRideMethod(strings.TrimSpace(part))
			if !ok {
				return compare.Selection{}, errors.New("unknown ride method: " + part)
			}
			sel.Modes[method] = true
		}
	}

	if raw := r.URL.Query().Get("tags"); raw != "" {
		sel.Tags = make(map[models.QualitativeTag]bool)
		for _, part := range strings.Split(raw, ",") {
			tag, ok := models.ParseQualitativeTag(strings.TrimSpace(part))
			if !ok {
				return compare.Selection{}, errors.New("unknown qualitative tag: " + part)
			}
			sel.Tags[tag] = true
		}
	}

	return sel, nil
}

func parseSort(r *http.Request) (models.SortCriterion, models.SortDirection, error) {
	sortBy := models.SortName
	if raw := r.URL.Query().Get("sort_by"); raw != "" {
		parsed, ok := models.ParseSortCriterion(raw)
		if !ok {
			return "", "", errors.New("unknown sort criterion: " + raw)
		}
		sortBy = parsed
	}

	direction := models.SortAscending
	if raw := r.URL.Query().Get("direction"); raw != "" {
		switch models.SortDirection(raw) {
		case models.SortAscending, models.SortDescending:
			direction = models.SortDirection(raw)
		default:
			return "", "", errors.New("unknown sort direction: " + raw)
		}
	}

	return sortBy, direction, nil
}
