package container

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"

	"github.com/tonzxz12/Findr-sub000/internal/config"
	"github.com/tonzxz12/Findr-sub000/internal/database"
	"github.com/tonzxz12/Findr-sub000/internal/handlers"
	"github.com/tonzxz12/Findr-sub000/internal/logger"
	"github.com/tonzxz12/Findr-sub000/internal/middleware"
	"github.com/tonzxz12/Findr-sub000/internal/repositories"
	"github.com/tonzxz12/Findr-sub000/internal/security"
	"github.com/tonzxz12/Findr-sub000/internal/server"
	"github.com/tonzxz12/Findr-sub000/internal/services"
)

// Infrastructure provides configuration, logging, storage and metrics
var Infrastructure = fx.Options(
	fx.Provide(config.LoadConfig),
	fx.Provide(logger.NewLogger),

	fx.Provide(newConnection),
	fx.Provide(database.NewMigrator),
	fx.Provide(newRedisClient),
	fx.Provide(newRegistry),
	fx.Provide(func(reg *prometheus.Registry) prometheus.Registerer { return reg }),
	fx.Provide(func(reg *prometheus.Registry) prometheus.Gatherer { return reg }),
)

// Module provides dependency injection configuration for the API server
var Module = fx.Options(
	Infrastructure,

	// Repositories
	fx.Provide(repositories.NewUserRepository),
	fx.Provide(repositories.NewClientRepository),
	fx.Provide(repositories.NewProjectRepository),
	fx.Provide(repositories.NewAttachmentRepository),
	fx.Provide(repositories.NewInventoryRepository),
	fx.Provide(repositories.NewDashboardRepository),

	// Services
	fx.Provide(newCache),
	fx.Provide(services.NewDashboardMetrics),
	fx.Provide(services.NewDashboardService),
	fx.Provide(services.NewProjectService),
	fx.Provide(services.NewClientService),
	fx.Provide(services.NewInventoryService),
	fx.Provide(services.NewAuthenticationService),
	fx.Provide(services.NewAuthorizationService),
	fx.Provide(services.NewUserManagementService),

	// Middleware
	fx.Provide(middleware.NewAuthenticationMiddleware),
	fx.Provide(middleware.NewHTTPMetrics),
	fx.Provide(newSecurityMiddleware),

	// Handlers
	fx.Provide(newHealthHandler),
	fx.Provide(handlers.NewAuthHandler),
	fx.Provide(handlers.NewDashboardHandler),
	fx.Provide(handlers.NewProjectHandler),
	fx.Provide(handlers.NewInventoryHandler),
	fx.Provide(handlers.NewClientHandler),
	fx.Provide(handlers.NewUserHandler),

	// Server
	fx.Provide(newHandlers),
	fx.Provide(server.NewServer),

	fx.Invoke(migrate),
	fx.Invoke(startServer),
)

func newConnection(lc fx.Lifecycle, cfg *config.Config, log *logger.Logger) (*database.Connection, error) {
	conn, err := database.NewConnection(cfg, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return conn.Close() },
	})
	return conn, nil
}

func newRedisClient(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	client, err := database.NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return client.Close() },
	})
	return client, nil
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// newCache returns a nil interface when caching is off so the dashboard
// service sees no cache at all.
func newCache(cfg *config.Config, client *redis.Client) services.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}
	return services.NewCacheService(client)
}

func newSecurityMiddleware(lc fx.Lifecycle, cfg *config.Config) *security.SecurityMiddleware {
	m := security.NewSecurityMiddleware(cfg)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			m.Close()
			return nil
		},
	})
	return m
}

func newHealthHandler(cfg *config.Config, conn *database.Connection, client *redis.Client) *handlers.HealthHandler {
	checks := map[string]handlers.Pinger{"database": conn}
	if cfg.Cache.Enabled {
		checks["redis"] = services.NewCacheService(client)
	}
	return handlers.NewHealthHandler(checks)
}

type handlerParams struct {
	fx.In

	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Dashboard *handlers.DashboardHandler
	Projects  *handlers.ProjectHandler
	Inventory *handlers.InventoryHandler
	Clients   *handlers.ClientHandler
	Users     *handlers.UserHandler
}

func newHandlers(p handlerParams) server.Handlers {
	return server.Handlers{
		Health:    p.Health,
		Auth:      p.Auth,
		Dashboard: p.Dashboard,
		Projects:  p.Projects,
		Inventory: p.Inventory,
		Clients:   p.Clients,
		Users:     p.Users,
	}
}

func migrate(migrator *database.Migrator, log *logger.Logger) error {
	if err := migrator.Up(); err != nil {
		return err
	}
	log.Info("Database schema is up to date")
	return nil
}

func startServer(lc fx.Lifecycle, srv *server.Server, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := srv.Listen()
			if err != nil {
				return err
			}
			go func() {
				if err := srv.Serve(ln); err != nil {
					log.WithError(err).Error("HTTP server stopped unexpectedly")
				}
			}()
			return nil
		},
		OnStop: srv.Stop,
	})
}
