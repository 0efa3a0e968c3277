package api

import (
	"net/http"

	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/loci-route-engine/pkg/middleware"
	"github.com/FACorreiaa/loci-route-engine/pkg/observability"
)

// SetupRouter configures all routes and returns the HTTP service
func SetupRouter(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	registerRouteEndpoints(mux, deps)
	registerCatalogEndpoints(mux, deps)
	registerUtilityRoutes(mux, deps)

	chain := []func(http.Handler) http.Handler{
		middleware.NewRequestID(),
	}
	if deps.Config.Server.RateLimitPerSecond > 0 && deps.Config.Server.RateLimitBurst > 0 {
		limiter := rate.NewLimiter(
			rate.Limit(float64(deps.Config.Server.RateLimitPerSecond)),
			deps.Config.Server.RateLimitBurst,
		)
		chain = append(chain, middleware.NewRateLimit(limiter))
	}
	chain = append(chain,
		middleware.NewRecovery(deps.Logger),
		middleware.NewLogging(deps.Logger),
		deps.HTTPMetrics.Middleware,
	)
	handler := middleware.Chain(mux, chain...)

	// Enable CORS for browser clients (local frontend)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept-Encoding",
			"Content-Type",
			middleware.RequestIDHeader,
		},
		ExposedHeaders: []string{
			middleware.RequestIDHeader,
		},
		AllowCredentials: true,
	})

	return corsHandler.Handler(handler)
}

// registerRouteEndpoints registers the route construction endpoints
func registerRouteEndpoints(mux *http.ServeMux, deps *Dependencies) {
	mux.HandleFunc("POST /v1/routes/optimize", deps.RouteHandler.OptimizeRoute)
	mux.HandleFunc("POST /v1/routes/geometry", deps.RouteHandler.RouteGeometry)
	deps.Logger.Info("registered route endpoints", "path", "/v1/routes")
}

// registerCatalogEndpoints registers catalog browsing, or a 503 explainer
// when no database is configured.
func registerCatalogEndpoints(mux *http.ServeMux, deps *Dependencies) {
	if deps.CatalogHandler == nil {
		unavailable := func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"catalog requires a configured database"}`))
		}
		mux.HandleFunc("GET /v1/catalog/pois", unavailable)
		mux.HandleFunc("GET /v1/catalog/pois/{id}", unavailable)
		deps.Logger.Warn("catalog endpoints registered as unavailable")
		return
	}

	mux.HandleFunc("GET /v1/catalog/pois", deps.CatalogHandler.GetNearbyPOIs)
	mux.HandleFunc("GET /v1/catalog/pois/{id}", deps.CatalogHandler.GetPOIByID)
	deps.Logger.Info("registered catalog endpoints", "path", "/v1/catalog/pois")
}

// registerUtilityRoutes registers health check, metrics, and other utility routes
func registerUtilityRoutes(mux *http.ServeMux, deps *Dependencies) {
	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if deps.DB != nil {
			if err := deps.DB.Health(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("database unhealthy"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	deps.Logger.Info("registered health check", "path", "/health")

	// Readiness check endpoint
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})
	deps.Logger.Info("registered readiness check", "path", "/ready")

	// Metrics endpoint (Prometheus)
	if deps.Config.Observability.MetricsEnabled {
		mux.Handle("/metrics", observability.MetricsHandler(deps.Registry))
		deps.Logger.Info("registered metrics endpoint", "path", "/metrics")
	}
}
