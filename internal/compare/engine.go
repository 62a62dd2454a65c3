package compare

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"wayfare.openmobility.org/internal/config"
	"wayfare.openmobility.org/internal/geo"
	"wayfare.openmobility.org/internal/metrics"
	"wayfare.openmobility.org/internal/models"
	"wayfare.openmobility.org/internal/report"
	"wayfare.openmobility.org/internal/rideshare"
	"wayfare.openmobility.org/internal/routing"
	"wayfare.openmobility.org/internal/transit"
	"wayfare.openmobility.org/internal/utils"
)

// ErrSuperseded is returned when a newer comparison request started before
// this one finished. The stale result is discarded, never applied.
var ErrSuperseded = errors.New("comparison superseded by a newer request")

// ErrNoComparison is returned by Rerank before any comparison has completed.
var ErrNoComparison = errors.New("no completed comparison to re-rank")

// Request is one trip comparison: a pickup/destination pair plus the user's
// filter and sort selection.
type Request struct {
	Pickup    geo.Coordinate
	Dest      geo.Coordinate
	Selection Selection
	SortBy    models.SortCriterion
	Direction models.SortDirection
}

// Result is the ranked comparison output handed to the presentation layer.
// The transit candidate, when present, carries its resolved itinerary for map
// display.
type Result struct {
	Candidates []models.RankedCandidate `json:"candidates"`
}

// Engine runs the comparison pipeline: annotate every catalog service with
// live data, resolve the transit candidate into a concrete itinerary, then
// filter and rank. The annotated canonical set of the last completed
// comparison is kept so sort/filter changes re-rank in memory without
// re-fetching anything.
type Engine struct {
	Logger    *slog.Logger
	Config    *config.Config
	Planner   routing.Planner
	Providers map[string]rideshare.QuoteProvider
	Routes    *transit.RouteStore
	Positions *transit.PositionStore
	Backoffs  *config.BackoffStore

	mu         sync.Mutex
	generation uint64
	cancelPrev context.CancelFunc
	lastSet    []models.ServiceCandidate
}

// NewEngine wires an Engine over the shared stores. The provider map is keyed
// by provider name, matching ServiceDefinition.RideshareProvider.
func NewEngine(logger *slog.Logger, cfg *config.Config, planner routing.Planner,
	providers map[string]rideshare.QuoteProvider,
	routes *transit.RouteStore, positions *transit.PositionStore) *Engine {
	return &Engine{
		Logger:    logger,
		Config:    cfg,
		Planner:   planner,
		Providers: providers,
		Routes:    routes,
		Positions: positions,
		Backoffs:  config.NewBackoffStore(),
	}
}

// Compare runs one full comparison. If a previous comparison is still in
// flight its context is canceled and its result discarded: the last request
// wins. Candidate failures are local; one bad upstream drops that candidate
// and never aborts the rest of the comparison.
func (e *Engine) Compare(ctx context.Context, req Request) (*Result, error) {
	if !req.Pickup.IsValid() || !req.Dest.IsValid() {
		return nil, fmt.Errorf("invalid pickup or destination coordinates")
	}

	start := time.Now()
	ctx, gen := e.begin(ctx)

	catalog := e.Config.GetCatalog()
	candidates := e.annotate(ctx, catalog, req.Pickup, req.Dest)

	if !e.commit(gen, candidates) {
		metrics.ComparisonsSuperseded.Inc()
		return nil, ErrSuperseded
	}

	ranked := Rank(Filter(candidates, req.Selection), req.SortBy, req.Direction, catalog.Weights)

	metrics.ComparisonDuration.Observe(time.Since(start).Seconds())
	metrics.CandidatesRanked.Set(float64(len(ranked)))
	e.Logger.Info("comparison complete",
		"candidates", len(candidates), "ranked", len(ranked),
		"sort_by", string(req.SortBy), "duration_ms", time.Since(start).Milliseconds())

	return &Result{Candidates: ranked}, nil
}

// Rerank re-filters and re-ranks the canonical candidate set of the last
// completed comparison. No upstream is contacted and no metric is re-derived;
// the annotated set is reused as-is.
func (e *Engine) Rerank(sel Selection, sortBy models.SortCriterion, direction models.SortDirection) (*Result, error) {
	e.mu.Lock()
	candidates := append([]models.ServiceCandidate(nil), e.lastSet...)
	done := e.lastSet != nil
	e.mu.Unlock()

	if !done {
		return nil, ErrNoComparison
	}

	weights := e.Config.GetCatalog().Weights
	ranked := Rank(Filter(candidates, sel), sortBy, direction, weights)
	metrics.CandidatesRanked.Set(float64(len(ranked)))
	return &Result{Candidates: ranked}, nil
}

// begin starts a new comparison generation, canceling any still-running
// predecessor.
func (e *Engine) begin(ctx context.Context) (context.Context, uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancelPrev != nil {
		e.cancelPrev()
	}
	ctx, cancel := context.WithCancel(ctx)
	e.cancelPrev = cancel
	e.generation++
	return ctx, e.generation
}

// commit installs the annotated set as the canonical one, unless a newer
// generation has started in the meantime.
func (e *Engine) commit(gen uint64, candidates []models.ServiceCandidate) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation {
		return false
	}
	e.lastSet = candidates
	return true
}

// annotate builds the fresh candidate set for this request. Candidates are
// annotated concurrently; there is no shared mutable state between them and
// the output preserves catalog order.
func (e *Engine) annotate(ctx context.Context, catalog config.Catalog, pickup, dest geo.Coordinate) []models.ServiceCandidate {
	results := make([]*models.ServiceCandidate, len(catalog.Services))

	var wg sync.WaitGroup
	for i, svc := range catalog.Services {
		wg.Add(1)
		go func(i int, svc models.ServiceDefinition) {
			defer wg.Done()
			results[i] = e.annotateOne(ctx, catalog, svc, pickup, dest)
		}(i, svc)
	}
	wg.Wait()

	candidates := make([]models.ServiceCandidate, 0, len(results))
	for _, c := range results {
		if c != nil {
			candidates = append(candidates, *c)
		}
	}
	return candidates
}

// annotateOne turns one catalog entry into a candidate, or nil when the
// candidate drops out of this comparison.
func (e *Engine) annotateOne(ctx context.Context, catalog config.Catalog, svc models.ServiceDefinition, pickup, dest geo.Coordinate) *models.ServiceCandidate {
	candidate := &models.ServiceCandidate{
		Name:           svc.Name,
		RideMethod:     svc.RideMethod,
		IsUserProposed: svc.UserProposed,
		UserRating:     svc.UserRating,
		Criteria:       svc.Criteria,
	}

	if svc.UserProposed {
		// Community-submitted services keep their author-supplied criteria
		// verbatim. The rating floor is an explicitly enabled policy, off by
		// default.
		if catalog.EnforceMinUserRating && svc.UserRating < catalog.MinUserRating {
			metrics.CandidatesDropped.WithLabelValues("low_rating").Inc()
			return nil
		}
		candidate.Criteria.CaloriesBurned = CaloriesBurned(candidate.Criteria.TimeMinutes, candidate.RideMethod)
		return candidate
	}

	if svc.RideshareProvider != "" {
		return e.annotateRideshare(ctx, candidate, svc.RideshareProvider, pickup, dest)
	}

	if svc.RideMethod == models.RideTransit {
		return e.annotateTransit(ctx, candidate, catalog, pickup, dest)
	}

	candidate.Criteria.CaloriesBurned = CaloriesBurned(candidate.Criteria.TimeMinutes, candidate.RideMethod)
	return candidate
}

// annotateRideshare folds a live quote into the candidate. A provider inside
// its backoff window is skipped without a network call; either way a failed
// quote drops the candidate from this comparison only.
func (e *Engine) annotateRideshare(ctx context.Context, candidate *models.ServiceCandidate, providerName string, pickup, dest geo.Coordinate) *models.ServiceCandidate {
	provider, ok := e.Providers[providerName]
	if !ok {
		e.Logger.Warn("no adapter configured for rideshare provider", "provider", providerName)
		metrics.CandidatesDropped.WithLabelValues("upstream_failure").Inc()
		return nil
	}

	if e.Backoffs.InBackoff(providerName, time.Now()) {
		e.Logger.Warn("skipping rideshare provider in backoff window", "provider", providerName)
		metrics.CandidatesDropped.WithLabelValues("upstream_failure").Inc()
		return nil
	}

	quote, err := provider.Quote(ctx, pickup, dest)
	if err != nil {
		// A quote abandoned because this comparison was superseded is not a
		// provider failure; recording it would put a healthy provider into a
		// cool-down window for the next request.
		if ctx.Err() != nil {
			return nil
		}
		e.Backoffs.UpdateBackoff(providerName)
		metrics.RideshareQuoteFailures.WithLabelValues(providerName).Inc()
		metrics.CandidatesDropped.WithLabelValues("upstream_failure").Inc()
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("provider", providerName),
			Level: sentry.LevelWarning,
		})
		e.Logger.Error("rideshare quote failed", "provider", providerName, "error", err)
		return nil
	}
	e.Backoffs.ResetBackoff(providerName)

	if !quote.VehiclesAvailable {
		metrics.CandidatesDropped.WithLabelValues("no_vehicles").Inc()
		return nil
	}

	candidate.Criteria = applyQuote(candidate.Criteria, quote.MinChargePerPerson,
		quote.ArriveInMinMinutes, quote.ArriveInMaxMinutes)
	candidate.Criteria.CaloriesBurned = CaloriesBurned(candidate.Criteria.TimeMinutes, candidate.RideMethod)
	return candidate
}

// annotateTransit resolves the transit candidate into a concrete itinerary:
// match the rider and destination to the best stop pair, then aggregate the
// walk/ride/walk legs through the routing adapter.
func (e *Engine) annotateTransit(ctx context.Context, candidate *models.ServiceCandidate, catalog config.Catalog, pickup, dest geo.Coordinate) *models.ServiceCandidate {
	routes := transit.Snapshot(catalog.Transit.RouteIDs(), e.Routes, e.Positions)

	match, err := transit.ResolveStopPair(pickup, dest, routes)
	if err != nil {
		metrics.CandidatesDropped.WithLabelValues("no_transit_option").Inc()
		e.Logger.Info("transit candidate dropped", "reason", err)
		return nil
	}

	legs := []routing.Leg{
		{From: pickup, To: match.Boarding, Mode: routing.ModeWalking},
		{From: match.Boarding, To: match.Alighting, Mode: routing.ModeTransit},
		{From: match.Alighting, To: dest, Mode: routing.ModeWalking},
	}
	itinerary, err := routing.BuildItinerary(ctx, e.Planner, legs)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		metrics.CandidatesDropped.WithLabelValues("upstream_failure").Inc()
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("route_id", fmt.Sprintf("%d", match.RouteID)),
			Level: sentry.LevelWarning,
		})
		e.Logger.Error("transit itinerary aggregation failed", "route_id", match.RouteID, "error", err)
		return nil
	}

	candidate.Itinerary = itinerary
	candidate.Criteria.TimeMinutes = int(math.Round(itinerary.TotalDurationMinutes))
	candidate.Criteria.CaloriesBurned = CaloriesBurned(candidate.Criteria.TimeMinutes, candidate.RideMethod)
	return candidate
}
