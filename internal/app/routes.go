package app

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"wayfare.openmobility.org/internal/middleware"
)

// Routes registers the HTTP endpoints and returns the final handler.
//
// Registered routes:
//   - GET /v1/healthcheck: readiness and version snapshot.
//   - GET /v1/compare: run a full trip comparison for a pickup/destination pair.
//   - GET /v1/rank: re-filter/re-sort the last comparison without refetching.
//   - GET /metrics: Prometheus exposition, served through a cached handler to
//     keep scrape overhead flat.
//
// The router is wrapped with Sentry error capture and the security headers
// middleware.
func (app *Application) Routes(ctx context.Context) http.Handler {
	router := httprouter.New()

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthcheckHandler)
	router.HandlerFunc(http.MethodGet, "/v1/compare", app.compareHandler)
	router.HandlerFunc(http.MethodGet, "/v1/rank", app.rankHandler)
	router.Handler(http.MethodGet, "/metrics", middleware.NewCachedPromHandler(ctx, prometheus.DefaultGatherer, 10*time.Second))

	handler := middleware.SentryMiddleware(router)
	return middleware.SecurityHeaders(handler)
}
