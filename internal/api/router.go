package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/projecthub/tracker-api/docs"
	"github.com/projecthub/tracker-api/internal/api/handler"
	"github.com/projecthub/tracker-api/internal/api/metrics"
	"github.com/projecthub/tracker-api/internal/api/middleware"
	"github.com/projecthub/tracker-api/internal/core/domain"
	"github.com/projecthub/tracker-api/internal/core/ports"
)

// Deps is everything the router needs. Mongo and Redis are optional and only
// feed the readiness probe; Limiter may be nil to disable rate limiting.
type Deps struct {
	Auth     ports.AuthService
	Clients  ports.ClientService
	Projects ports.ProjectService
	Limiter  middleware.Limiter
	Mongo    *mongo.Database
	Redis    *redis.Client
	Log      zerolog.Logger
	// Registry receives the HTTP request metrics. Nil uses the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORS())

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "tracker",
		Registerer: registerer,
	}))
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authn := middleware.Auth(d.Auth)
	limited := func(resource string) {
		metrics.RateLimitedTotal.WithLabelValues(resource).Inc()
	}

	api := e.Group("/api")

	// --- Auth ---
	authHandler := handler.NewAuthHandler(d.Auth)
	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Signup, middleware.RateLimit(d.Limiter, "signup", d.Log, limited))
	auth.POST("/login", authHandler.Login, middleware.RateLimit(d.Limiter, "login", d.Log, limited))
	auth.GET("/me", authHandler.Me, authn)

	// --- Clients ---
	clientHandler := handler.NewClientHandler(d.Clients)
	clients := api.Group("/clients", authn)
	clients.GET("", clientHandler.List)
	clients.GET("/:id", clientHandler.Get)
	clients.POST("", clientHandler.Create)
	clients.PUT("/:id", clientHandler.Update)
	clients.DELETE("/:id", clientHandler.Delete, middleware.RBAC(domain.RoleAdmin))
	clients.GET("/:id/projects", clientHandler.Projects)

	// --- Projects ---
	projectHandler := handler.NewProjectHandler(d.Projects)
	projects := api.Group("/projects", authn)
	projects.GET("", projectHandler.List)
	projects.GET("/:id", projectHandler.Get)
	projects.POST("", projectHandler.Create)
	projects.PUT("/:id", projectHandler.Update)
	projects.DELETE("/:id", projectHandler.Delete)
	projects.PATCH("/:id/status", projectHandler.UpdateStatus)
	projects.POST("/:id/team-members", projectHandler.AddTeamMember)
	projects.DELETE("/:id/team-members/:userId", projectHandler.RemoveTeamMember)

	// --- Health probes (no auth required) ---
	api.GET("/health", handler.NewHealthHandler().Liveness)
	api.GET("/health/ready", handler.NewReadinessHandler(d.Mongo, d.Redis).Readiness)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
