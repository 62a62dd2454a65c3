package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"wayfare.openmobility.org/internal/app"
	"wayfare.openmobility.org/internal/config"
	"wayfare.openmobility.org/internal/report"
)

const version = "1.0.0"

const (
	// vehiclePollInterval is how often the live GTFS-RT snapshot is refreshed.
	vehiclePollInterval = 30 * time.Second
	// bundleRefreshInterval is how often the static GTFS bundle is re-downloaded.
	bundleRefreshInterval = 24 * time.Hour
	// upstreamPingInterval is how often the transit data server is pinged.
	upstreamPingInterval = time.Minute
	// configMaxRetries bounds the backoff loop for config and bundle downloads.
	configMaxRetries = 3
)

func main() {
	var (
		port = flag.Int("port", 4000, "API server port")
		env  = flag.String("env", "development", "Environment (development|staging|production)")

		configFile = flag.String("config-file", "", "Path to a local JSON catalog file")
		configURL  = flag.String("config-url", "", "URL to a remote JSON catalog file")
	)

	flag.Parse()

	configAuthUser := os.Getenv("CONFIG_AUTH_USER")
	configAuthPass := os.Getenv("CONFIG_AUTH_PASS")

	if err := config.ValidateConfigFlags(configFile, configURL); err != nil {
		fmt.Println("Error:", err)
		flag.Usage()
		os.Exit(1)
	}

	report.SetupSentry()
	defer report.FlushSentry()
	report.ConfigureScope(*env, version)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := app.NewPooledClient()

	var (
		catalog config.Catalog
		err     error
	)
	if *configFile != "" {
		catalog, err = config.LoadCatalogFromFile(*configFile)
	} else {
		catalog, err = config.LoadCatalogFromURL(ctx, client, *configURL, configAuthUser, configAuthPass, configMaxRetries)
	}
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if len(catalog.Services) == 0 {
		fmt.Println("Error: No services found in catalog.")
		os.Exit(1)
	}

	cfg := config.NewConfig(*port, *env, catalog)
	application := app.New(cfg, logger, client, version)

	// Load the static stop data before serving; a failure is tolerated and
	// retried on the refresh schedule, the transit candidate just stays
	// unavailable until then.
	if err := application.FeedService.LoadStaticBundle(ctx, configMaxRetries); err != nil {
		logger.Error("Failed to load static GTFS bundle on startup", "error", err)
	}

	go application.FeedService.RefreshStaticBundle(ctx, bundleRefreshInterval, configMaxRetries)
	go application.FeedService.PollVehiclePositions(ctx, vehiclePollInterval)
	go pingUpstreamLoop(ctx, application)

	// If a remote URL is specified, refresh the catalog every minute.
	if *configURL != "" {
		go application.ConfigService.RefreshCatalog(ctx, *configURL, configAuthUser, configAuthPass, time.Minute, configMaxRetries)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      application.Routes(ctx),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env)
	err = srv.ListenAndServe()
	report.ReportError(err, sentry.LevelFatal)
	report.FlushSentry()
	logger.Error(err.Error())
	os.Exit(1)
}

func pingUpstreamLoop(ctx context.Context, application *app.Application) {
	ticker := time.NewTicker(upstreamPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			application.FeedService.PingUpstream(ctx)
		}
	}
}
