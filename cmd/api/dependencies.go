package api

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/FACorreiaa/loci-route-engine/internal/domain/catalog"
	"github.com/FACorreiaa/loci-route-engine/internal/domain/route"
	"github.com/FACorreiaa/loci-route-engine/internal/places"
	"github.com/FACorreiaa/loci-route-engine/internal/routing"
	"github.com/FACorreiaa/loci-route-engine/pkg/config"
	"github.com/FACorreiaa/loci-route-engine/pkg/db"
	"github.com/FACorreiaa/loci-route-engine/pkg/observability"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	Registry *prometheus.Registry

	// Providers
	RoutingProvider routing.Provider
	PlacesProvider  places.Provider

	// Repositories
	CatalogRepo catalog.Repository

	// Services
	RouteService   route.Service
	CatalogService catalog.Service

	// Handlers
	RouteHandler   *route.Handler
	CatalogHandler *catalog.Handler

	// Metrics
	EngineMetrics *observability.EngineMetrics
	HTTPMetrics   *observability.HTTPMetrics
}

// InitDependencies initializes all application dependencies. The database
// and both external providers are optional: without them the engine still
// serves routes on straight-line estimates, while catalog endpoints answer
// 503.
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	deps.initProviders()

	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initDatabase connects to the catalog database and runs migrations. A
// missing database configuration is not an error.
func (d *Dependencies) initDatabase() error {
	if !d.Config.Database.Configured() {
		d.Logger.Warn("no database configured; catalog endpoints disabled")
		return nil
	}

	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.CatalogRepo = catalog.NewPostgresCatalogRepo(d.DB.Pool, d.Logger)

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

// initProviders wires the external routing and places providers. Each falls
// back independently: routing to straight-line estimates, places to the
// seeded catalog when a database is present.
func (d *Dependencies) initProviders() {
	if p := d.Config.Providers.Routing; p.Configured() {
		d.RoutingProvider = routing.NewClient(p.BaseURL, p.APIKey, p.Timeout)
		d.Logger.Info("routing provider configured", slog.String("url", p.BaseURL))
	} else {
		d.Logger.Warn("no routing provider configured; travel times will be straight-line estimates")
	}

	switch {
	case d.Config.Providers.Places.Configured():
		p := d.Config.Providers.Places
		d.PlacesProvider = places.NewClient(p.BaseURL, p.APIKey, p.Timeout)
		d.Logger.Info("places provider configured", slog.String("url", p.BaseURL))
	case d.CatalogRepo != nil:
		d.PlacesProvider = places.NewCatalogProvider(d.CatalogRepo, d.Logger)
		d.Logger.Info("places provider backed by seeded catalog")
	default:
		d.Logger.Warn("no places provider configured; coffee breaks will be skipped")
	}
}

// initServices initializes all service layer dependencies
func (d *Dependencies) initServices() error {
	d.EngineMetrics = observability.NewEngineMetrics(d.Registry)
	d.HTTPMetrics = observability.NewHTTPMetrics(d.Registry)

	matrix := route.NewMatrixBuilder(d.RoutingProvider, d.Config.Providers.MatrixCacheTTL, d.Logger)
	d.RouteService = route.NewServiceImpl(matrix, d.RoutingProvider, d.PlacesProvider, d.EngineMetrics, d.Logger)

	if d.CatalogRepo != nil {
		d.CatalogService = catalog.NewServiceImpl(d.CatalogRepo, d.Logger)
	}

	d.Logger.Info("services initialized")
	return nil
}

// initHandlers initializes all handler dependencies
func (d *Dependencies) initHandlers() {
	d.RouteHandler = route.NewHandler(d.RouteService, d.Logger)
	if d.CatalogService != nil {
		d.CatalogHandler = catalog.NewHandler(d.CatalogService, d.Logger)
	}
	d.Logger.Info("handlers initialized")
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
