package http

import (
	"context"
	"fmt"
	"os"

	"bookingapp/internal/adapter/client/userservice"
	"bookingapp/internal/adapter/database/postgres"
	pgrepository "bookingapp/internal/adapter/database/postgres/repository"
	"bookingapp/internal/adapter/database/sqlite"
	"bookingapp/internal/adapter/database/sqlite/repository"
	"bookingapp/internal/adapter/http/handler"
	"bookingapp/internal/adapter/http/routes"
	"bookingapp/internal/core/port"
	"bookingapp/internal/core/service"
	"bookingapp/internal/core/telemetry"
	"bookingapp/pkg/config"
	"bookingapp/pkg/tracing"
)

// Container owns the store of one service and the handlers built on it.
type Container struct {
	PropertyRepo port.PropertyRepository
	UserRepo     port.UserRepository

	PropertyService port.PropertyService
	UserService     port.UserService

	Handlers routes.HandlersConfig

	close func()
}

type stores struct {
	properties port.PropertyRepository
	users      port.UserRepository
	ping       handler.DatabasePing
	close      func()
}

func openStores(ctx context.Context, cfg *config.AppConfig, probe port.Telemetry) (*stores, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg.Database.URL)

		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		return &stores{
			properties: pgrepository.NewPropertyRepository(db, probe),
			users:      pgrepository.NewUserRepository(db, probe),
			ping:       db.Ping,
			close:      db.Close,
		}, nil
	default:
		db, err := sqlite.NewDB(sqlite.Config{
			Path:        cfg.Database.Path,
			QueryLogger: config.NewQueryLogger(os.Stdout, cfg.SQLLogLevel),
		})

		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}

		return &stores{
			properties: repository.NewPropertyRepository(db, probe),
			users:      repository.NewUserRepository(db, probe),
			ping:       db.PingContext,
			close:      func() { db.Close() },
		}, nil
	}
}

func NewContainer(ctx context.Context, cfg *config.AppConfig, metrics *tracing.AppMetrics, logger *config.LokiLogger) (*Container, error) {
	probe := telemetry.NewOTELProbe(logger.Logger, metrics)

	s, err := openStores(ctx, cfg, probe)

	if err != nil {
		return nil, err
	}

	container := &Container{
		Handlers: routes.HandlersConfig{
			Service:       cfg.Service,
			HealthHandler: handler.NewHealthHandler(cfg.Service+"-service", s.ping),
		},
		close: s.close,
	}

	switch cfg.Service {
	case config.ServiceUser:
		container.UserRepo = s.users
		container.UserService = service.NewUserService(s.users, probe)
		container.Handlers.UserHandler = handler.NewUserHandler(container.UserService)
	default:
		users := userservice.NewClient(userservice.Config{
			BaseURL: cfg.UserService.URL,
			Timeout: cfg.UserService.Timeout,
		})

		container.PropertyRepo = s.properties
		container.PropertyService = service.NewPropertyService(s.properties, users, probe)
		container.Handlers.PropertyHandler = handler.NewPropertyHandler(container.PropertyService)
	}

	return container, nil
}

func (c *Container) Close() {
	if c.close != nil {
		c.close()
	}
}
