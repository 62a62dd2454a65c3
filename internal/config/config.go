package config

import (
	"sync"

	"wayfare.openmobility.org/internal/models"
)

// Catalog is the service catalog plus the upstream endpoints the engine
// compares against. It is the unit of hot reload: the whole catalog is
// replaced atomically when the config source changes.
type Catalog struct {
	Services             []models.ServiceDefinition       `json:"services"`
	Weights              models.ScoreWeights              `json:"weights"`
	MinUserRating        float64                          `json:"min_user_rating"`
	EnforceMinUserRating bool                             `json:"enforce_min_user_rating"`
	Routing              models.RoutingConfig             `json:"routing"`
	Transit              models.TransitFeedConfig         `json:"transit"`
	Providers            []models.RideshareProviderConfig `json:"providers"`
}

// Config holds all the configuration settings for our application.
type Config struct {
	Port    int
	Env     string
	Mu      sync.RWMutex
	Catalog Catalog
}

// NewConfig creates a new instance of a Config struct.
func NewConfig(port int, env string, catalog Catalog) *Config {
	return &Config{
		Port:    port,
		Env:     env,
		Catalog: catalog,
	}
}

// UpdateCatalog safely replaces the service catalog.
func (cfg *Config) UpdateCatalog(newCatalog Catalog) {
	cfg.Mu.Lock()
	defer cfg.Mu.Unlock()
	cfg.Catalog = newCatalog
}

// GetCatalog safely returns a copy of the catalog to avoid concurrent
// modification issues. The services and providers slices are copied so
// callers can iterate while a refresh swaps the catalog underneath.
func (cfg *Config) GetCatalog() Catalog {
	cfg.Mu.RLock()
	defer cfg.Mu.RUnlock()

	catalog := cfg.Catalog
	catalog.Services = append([]models.ServiceDefinition(nil), cfg.Catalog.Services...)
	catalog.Providers = append([]models.RideshareProviderConfig(nil), cfg.Catalog.Providers...)
	catalog.Transit.Routes = append([]models.RouteRef(nil), cfg.Catalog.Transit.Routes...)
	return catalog
}
