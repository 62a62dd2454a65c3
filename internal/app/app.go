package app

import (
	"log/slog"
	"net/http"

	"wayfare.openmobility.org/internal/compare"
	"wayfare.openmobility.org/internal/config"
	"wayfare.openmobility.org/internal/geo"
	"wayfare.openmobility.org/internal/rideshare"
	"wayfare.openmobility.org/internal/routing"
	"wayfare.openmobility.org/internal/transit"
)

// Application wires the comparison engine, the transit feed service, and the
// config service together and owns the HTTP surface. It is initialized once
// at startup and shared by all handlers.
type Application struct {
	ConfigService *config.ConfigService
	FeedService   *transit.FeedService
	Engine        *compare.Engine
	Logger        *slog.Logger
	Version       string
}

// New creates and wires all dependencies for the Application.
// Accepts config, logger, client, and version as arguments.
func New(cfg *config.Config, logger *slog.Logger, client *http.Client, version string) *Application {
	catalog := cfg.GetCatalog()

	routeStore := transit.NewRouteStore()
	positionStore := transit.NewPositionStore()
	boundingBoxStore := geo.NewBoundingBoxStore()

	providers := make(map[string]rideshare.QuoteProvider, len(catalog.Providers))
	for _, providerCfg := range catalog.Providers {
		providers[providerCfg.Name] = rideshare.NewHTTPProvider(providerCfg, client)
	}

	planner := routing.NewOSRMPlanner(catalog.Routing.BaseURL, client)

	configService := config.NewConfigService(logger, client, cfg)
	feedService := transit.NewFeedService(catalog.Transit, logger, client, routeStore, positionStore, boundingBoxStore)
	engine := compare.NewEngine(logger, cfg, planner, providers, routeStore, positionStore)

	return &Application{
		ConfigService: configService,
		FeedService:   feedService,
		Engine:        engine,
		Logger:        logger,
		Version:       version,
	}
}
