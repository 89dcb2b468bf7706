package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/database/mariadb"
	"github.com/kozaktomas/face-attendance/internal/database/postgres"
	"github.com/kozaktomas/face-attendance/internal/embedding"
	"github.com/kozaktomas/face-attendance/internal/logger"
)

// migrator is a connection pool that can apply the embedded migrations.
type migrator interface {
	Migrate(ctx context.Context) ([]string, error)
	Close() error
}

// openMigrator connects to the configured backend without migrating.
func openMigrator(cfg *config.DatabaseConfig) (migrator, error) {
	if cfg.URL == "" {
		return nil, errors.New("DATABASE_URL environment variable is required")
	}
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		return pool, nil
	case config.DriverMySQL:
		pool, err := mariadb.NewPool(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MariaDB: %w", err)
		}
		return pool, nil
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.Driver)
	}
}

// openStore connects to the configured backend and applies pending migrations.
func openStore(ctx context.Context, cfg *config.DatabaseConfig) (database.Store, error) {
	if cfg.URL == "" {
		return nil, errors.New("DATABASE_URL environment variable is required")
	}
	switch cfg.Driver {
	case config.DriverPostgres:
		store, err := postgres.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverMySQL:
		store, err := mariadb.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.Driver)
	}
}

// app holds everything a command needs to run the attendance pipeline.
type app struct {
	cfg     *config.Config
	store   database.Store
	service *attendance.Service
}

// newApp loads and validates configuration, opens the store and wires the service.
func newApp(ctx context.Context) (*app, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	store, err := openStore(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	service, err := attendance.NewService(cfg, store, embedding.NewClient(cfg.Embedding.URL), logger.Get())
	if err != nil {
		store.Close()
		return nil, err
	}

	return &app{cfg: cfg, store: store, service: service}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		log := logger.Get()
		log.Warn().Err(err).Msg("closing database")
	}
}
