// Command api serves the project tracker HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/projecthub/tracker-api/internal/api"
	"github.com/projecthub/tracker-api/internal/core/ports"
	"github.com/projecthub/tracker-api/internal/core/service"
	"github.com/projecthub/tracker-api/internal/infrastructure/config"
	"github.com/projecthub/tracker-api/internal/infrastructure/db/memory"
	mongodb "github.com/projecthub/tracker-api/internal/infrastructure/db/mongo"
	redisdb "github.com/projecthub/tracker-api/internal/infrastructure/db/redis"
	"github.com/projecthub/tracker-api/pkg/logger"
)

// @title Project Tracker API
// @version 1.0
// @description Clients, projects and team members behind JWT auth.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "tracker-api",
	})

	repos, db, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store).Msg("open store")
	}
	defer closeStore()

	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("connect redis")
		}
		defer rdb.Close()
	} else {
		log.Warn().Msg("REDIS_ADDR not set, auth rate limiting disabled")
	}

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	e := api.NewRouter(api.Deps{
		Auth:     service.NewAuthService(repos.users, tokens, log),
		Clients:  service.NewClientService(repos.clients, repos.projects, repos.users, log),
		Projects: service.NewProjectService(repos.projects, repos.clients, repos.users, log),
		Limiter:  redisdb.NewRateLimiter(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window),
		Mongo:    db,
		Redis:    rdb,
		Log:      log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("store", cfg.Store).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}

type repositories struct {
	users    ports.UserRepository
	clients  ports.ClientRepository
	projects ports.ProjectRepository
}

// openStore returns the repositories for cfg.Store. db is nil for the memory store.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repositories, *mongo.Database, func(), error) {
	if cfg.Store == config.StoreMemory {
		log.Warn().Msg("using in-memory store, data is lost on exit")
		s := memory.NewStore()
		return repositories{users: s.Users(), clients: s.Clients(), projects: s.Projects()}, nil, func() {}, nil
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "tracker-api",
	})
	if err != nil {
		return repositories{}, nil, nil, err
	}
	closeFn := func() {
		if err := mongodb.Disconnect(client, 5*time.Second); err != nil {
			log.Error().Err(err).Msg("close mongo")
		}
	}

	users := mongodb.NewUserRepository(db)
	clients := mongodb.NewClientRepository(db)
	projects := mongodb.NewProjectRepository(db)
	for name, ensure := range map[string]func(context.Context) error{
		"users":    users.EnsureIndexes,
		"clients":  clients.EnsureIndexes,
		"projects": projects.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			closeFn()
			return repositories{}, nil, nil, err
		}
		log.Debug().Str("collection", name).Msg("indexes ensured")
	}

	return repositories{users: users, clients: clients, projects: projects}, db, closeFn, nil
}
