package config

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"wayfare.openmobility.org/internal/report"
	"wayfare.openmobility.org/internal/utils"
)

// ConfigService holds dependencies and provides config operations.
type ConfigService struct {
	Logger *slog.Logger
	Client *http.Client
	Config *Config
}

// NewConfigService creates a new ConfigService instance with the provided logger and HTTP client.
func NewConfigService(logger *slog.Logger, client *http.Client, config *Config) *ConfigService {
	return &ConfigService{
		Logger: logger,
		Client: client,
		Config: config,
	}
}

func (cs *ConfigService) RefreshCatalog(ctx context.Context, url, authUser, authPass string, interval time.Duration, maxRetries int) {
	refreshCatalog(ctx, cs.Client, url, authUser, authPass, cs.Config, cs.Logger, interval, maxRetries)
}

// exported helper functions

// Load catalog from file.
func LoadCatalogFromFile(filePath string) (Catalog, error) {
	catalog, err := loadCatalogFromFile(filePath)
	if err != nil {
		err := fmt.Errorf("failed to load config from file %s: %w", filePath, err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("file_path", filePath),
			Level: sentry.LevelError,
		})
		return Catalog{}, err
	}
	return catalog, nil
}

// Load catalog from URL.
func LoadCatalogFromURL(ctx context.Context, client *http.Client, url, authUser, authPass string, maxRetries int) (Catalog, error) {
	catalog, err := loadCatalogFromURL(ctx, client, url, authUser, authPass, maxRetries)
	if err != nil {
		err := fmt.Errorf("failed to load config from URL %s: %w", url, err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("config_url", url),
			Level: sentry.LevelError,
		})
		return Catalog{}, err
	}
	return catalog, nil
}
