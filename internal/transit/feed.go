package transit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	remoteGtfs "github.com/jamespfennell/gtfs"
	"wayfare.openmobility.org/internal/config"
	"wayfare.openmobility.org/internal/geo"
	"wayfare.openmobility.org/internal/metrics"
	"wayfare.openmobility.org/internal/models"
	"wayfare.openmobility.org/internal/report"
	"wayfare.openmobility.org/internal/utils"
)

// FeedService owns the transit data path: it loads the static GTFS bundle
// into the RouteStore and polls the GTFS-RT vehicle feed into the
// PositionStore. Comparison pipelines never talk to the upstreams directly;
// they only read the stores.
type FeedService struct {
	Cfg           models.TransitFeedConfig
	Logger        *slog.Logger
	Client        *http.Client
	RouteStore    *RouteStore
	PositionStore *PositionStore
	BoundingBoxes *geo.BoundingBoxStore
}

// NewFeedService wires a FeedService over the given stores.
func NewFeedService(cfg models.TransitFeedConfig, logger *slog.Logger, client *http.Client,
	routeStore *RouteStore, positionStore *PositionStore, bboxStore *geo.BoundingBoxStore) *FeedService {
	return &FeedService{
		Cfg:           cfg,
		Logger:        logger,
		Client:        client,
		RouteStore:    routeStore,
		PositionStore: positionStore,
		BoundingBoxes: bboxStore,
	}
}

// LoadStaticBundle downloads and parses the static GTFS bundle, then stores
// the ordered stop list of every configured route. A route whose GTFS ID does
// not appear in the bundle keeps an empty stop list, which the resolver
// treats as unusable for matching.
func (fs *FeedService) LoadStaticBundle(ctx context.Context, maxRetries int) error {
	bundle, err := fs.downloadStaticBundle(ctx, maxRetries)
	if err != nil {
		return err
	}

	for _, ref := range fs.Cfg.Routes {
		stops := orderedStopsForRoute(bundle, ref.GtfsRouteID)
		fs.RouteStore.SetStops(ref.ID, stops)
		metrics.RouteStopsLoaded.WithLabelValues(strconv.Itoa(ref.ID)).Set(float64(len(stops)))

		if len(stops) == 0 {
			fs.Logger.Warn("no stops found for route", "route_id", ref.ID, "gtfs_route_id", ref.GtfsRouteID)
			continue
		}

		bbox, err := geo.ComputeBoundingBox(stops)
		if err != nil {
			fs.Logger.Warn("could not compute bounding box for route", "route_id", ref.ID, "error", err)
			continue
		}
		fs.BoundingBoxes.Set(ref.ID, bbox)
	}

	fs.Logger.Info("loaded static GTFS bundle", "routes", len(fs.Cfg.Routes))
	return nil
}

// RefreshStaticBundle re-downloads the static bundle at the given interval
// until the context is canceled.
func (fs *FeedService) RefreshStaticBundle(ctx context.Context, interval time.Duration, maxRetries int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			fs.Logger.Info("stopping static bundle refresh routine")
			return
		case <-ticker.C:
			if err := fs.LoadStaticBundle(ctx, maxRetries); err != nil {
				report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
					Tags:  utils.MakeMap("static_bundle_url", fs.Cfg.StaticBundleURL),
					Level: sentry.LevelError,
				})
				fs.Logger.Error("failed to refresh static GTFS bundle", "error", err)
			}
		}
	}
}

func (fs *FeedService) downloadStaticBundle(ctx context.Context, maxRetries int) (*remoteGtfs.Static, error) {
	req, err := http.NewRequest(http.MethodGet, fs.Cfg.StaticBundleURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", fs.Cfg.StaticBundleURL, err)
	}

	resp, err := config.DoWithBackoff(ctx, fs.Client, req, maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to download static GTFS bundle: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected response status %d when downloading static GTFS bundle", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read static GTFS bundle body: %w", err)
	}

	bundle, err := remoteGtfs.ParseStatic(data, remoteGtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse static GTFS bundle: %w", err)
	}
	return bundle, nil
}

// orderedStopsForRoute extracts the ordered stop coordinates of the fullest
// scheduled trip on the given GTFS route. Using the trip with the most stop
// times picks the complete pattern over short-turn variants.
func orderedStopsForRoute(bundle *remoteGtfs.Static, gtfsRouteID string) []geo.Coordinate {
	var fullest *remoteGtfs.ScheduledTrip
	for i := range bundle.Trips {
		trip := &bundle.Trips[i]
		if trip.Route == nil || trip.Route.Id != gtfsRouteID {
			continue
		}
		if fullest == nil || len(trip.StopTimes) > len(fullest.StopTimes) {
			fullest = trip
		}
	}
	if fullest == nil {
		return nil
	}

	stops := make([]geo.Coordinate, 0, len(fullest.StopTimes))
	for _, st := range fullest.StopTimes {
		if st.Stop == nil || st.Stop.Latitude == nil || st.Stop.Longitude == nil {
			continue
		}
		stops = append(stops, geo.Coordinate{Lat: *st.Stop.Latitude, Lon: *st.Stop.Longitude})
	}
	return stops
}

// PollVehiclePositions refreshes the live position snapshot at the given
// interval until the context is canceled. A failed poll keeps the previous
// snapshot.
func (fs *FeedService) PollVehiclePositions(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			fs.Logger.Info("stopping vehicle position poller")
			return
		case <-ticker.C:
			if err := fs.fetchVehiclePositions(ctx); err != nil {
				report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
					Tags:  utils.MakeMap("vehicle_position_url", fs.Cfg.VehiclePositionURL),
					Level: sentry.LevelError,
				})
				fs.Logger.Error("failed to fetch vehicle positions", "error", err)
			}
		}
	}
}

// fetchVehiclePositions downloads one GTFS-RT snapshot and replaces the
// position store contents. Vehicles with missing or invalid coordinates are
// counted and skipped; vehicles positioned far outside their route's stop
// footprint are counted but kept, since buses legitimately travel between
// stops.
func (fs *FeedService) fetchVehiclePositions(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fs.Cfg.VehiclePositionURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create GTFS-RT request: %w", err)
	}
	if fs.Cfg.GtfsRtApiKey != "" && fs.Cfg.GtfsRtApiValue != "" {
		req.Header.Set(fs.Cfg.GtfsRtApiKey, fs.Cfg.GtfsRtApiValue)
	}

	resp, err := fs.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch GTFS-RT feed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read GTFS-RT feed body: %w", err)
	}

	feed, err := remoteGtfs.ParseRealtime(data, &remoteGtfs.ParseRealtimeOptions{})
	if err != nil {
		return fmt.Errorf("failed to parse GTFS-RT feed: %w", err)
	}

	routeByGtfsID := make(map[string]int, len(fs.Cfg.Routes))
	for _, ref := range fs.Cfg.Routes {
		routeByGtfsID[ref.GtfsRouteID] = ref.ID
	}

	positions := make(map[int][]geo.Coordinate)
	invalid := 0
	outOfBounds := 0
	for _, v := range feed.Vehicles {
		if v.Trip == nil {
			continue
		}
		routeID, tracked := routeByGtfsID[v.Trip.ID.RouteID]
		if !tracked {
			continue
		}
		if v.Position == nil || v.Position.Latitude == nil || v.Position.Longitude == nil {
			invalid++
			continue
		}
		lat := float64(*v.Position.Latitude)
		lon := float64(*v.Position.Longitude)
		if !geo.IsValidLatLon(lat, lon) {
			invalid++
			continue
		}
		if bbox, ok := fs.BoundingBoxes.Get(routeID); ok && !bbox.Contains(lat, lon) {
			outOfBounds++
		}
		positions[routeID] = append(positions[routeID], geo.Coordinate{Lat: lat, Lon: lon})
	}

	fs.PositionStore.SetAll(positions, time.Now().UTC())

	for routeID, pts := range positions {
		metrics.RouteVehiclePositions.WithLabelValues(strconv.Itoa(routeID)).Set(float64(len(pts)))
	}
	metrics.InvalidVehicleCoordinates.Set(float64(invalid))
	metrics.OutOfBoundsVehiclePositions.Set(float64(outOfBounds))

	return nil
}
