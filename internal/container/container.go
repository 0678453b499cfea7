package container

import (
	"context"
	"fmt"
	"log"

	"bmidash/adapters/excel"
	"bmidash/adapters/remote"
	"bmidash/app"
	"bmidash/internal"
	"bmidash/internal/acquisition"
	"bmidash/internal/config"
	"bmidash/internal/dataset"
	"bmidash/internal/session"
	"bmidash/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	Storage ports.FileStorage
	Fetcher ports.DatasetFetcher

	// Dataset pipeline
	Acquirer *acquisition.Acquirer
	Loader   ports.DatasetLoader

	// Application services
	Dashboard *app.DashboardService
	Sessions  *session.Store
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Logging.Level))

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	c.Storage = dataset.NewLocalFileStorage(dataset.DefaultStorageConfig())
	c.Fetcher = remote.NewHTTPFetcher(remote.FetcherConfig{
		URL:      cfg.Dataset.URL,
		Timeout:  cfg.Dataset.FetchTimeout,
		MaxBytes: cfg.Dataset.MaxBytes,
	})

	c.Acquirer = acquisition.NewAcquirer(c.Fetcher, c.Storage, cfg.Dataset.LocalPath, logger)
	c.Loader = excel.NewDataReader(c.Storage, cfg.Dataset.LocalPath)

	c.Dashboard = app.NewDashboardService(c.Acquirer, c.Loader, logger)
	c.Sessions = session.NewStore()

	log.Printf("[Container] Dataset %s -> %s (timeout %s)", cfg.Dataset.URL, cfg.Dataset.LocalPath, cfg.Dataset.FetchTimeout)
	return c, nil
}

// Shutdown releases container resources
func (c *Container) Shutdown(ctx context.Context) error {
	log.Printf("[Container] Shutdown: %d sessions served", c.Sessions.Len())
	return nil
}
