package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"job-hunter/internal/config"
	"job-hunter/internal/database"
	"job-hunter/internal/database/migration"
	"job-hunter/internal/database/seeder"
	dbpostgres "job-hunter/internal/database/postgres"
	"job-hunter/internal/infrastructure/cache"
	"job-hunter/internal/infrastructure/collector"
	"job-hunter/internal/refresher"
	"job-hunter/internal/repository"
	"job-hunter/internal/usecase"
	"job-hunter/internal/ws"

	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// Container owns every long-lived dependency of the server. DB is nil when
// no database is configured; listings then live in memory.
type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB        database.DB
	Cache     *cache.Redis
	Listings  repository.ListingRepository
	Hub       *ws.Hub
	Collector collector.Client

	Dashboard    *usecase.Dashboard
	Ingest       *usecase.Ingest
	ListingQuery *usecase.ListingQuery
	Search       *usecase.Search
	Status       *usecase.Status
	Refresher    *refresher.Refresher
}

func NewContainer(cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Container{Config: cfg, Logger: logger}

	if cfg.Database.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		db, err := dbpostgres.Connect(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		c.DB = db
		c.Listings = repository.NewPostgresListingRepository(db, logger.Named("repository"))
	} else {
		logger.Warn("no database configured, listings kept in memory")
		c.Listings = repository.NewMemoryListingRepository()
	}

	c.Cache = cache.NewRedis(cfg.Redis, logger.Named("cache"))
	c.Hub = ws.NewHub(logger.Named("ws"))
	c.Collector = collector.NewClient(cfg.Collector.BaseURL, cfg.Collector.Timeout, logger.Named("collector"))

	c.wireUsecases()
	return c, nil
}

func (c *Container) wireUsecases() {
	cfg := c.Config
	logger := c.Logger.Named("usecase")

	var summaryCache usecase.SummaryCache
	if c.Cache.Available() {
		summaryCache = c.Cache
	}

	c.Dashboard = usecase.NewDashboardUsecase(c.Listings, summaryCache, cfg.Dashboard.TopThreshold, cfg.Redis.TTL, logger)
	c.Ingest = usecase.NewIngestUsecase(c.Listings, summaryCache, c.Hub, cfg.Dashboard.IngestMaxBatch, logger)
	c.ListingQuery = usecase.NewListingQueryUsecase(c.Listings, logger)
	c.Search = usecase.NewSearchUsecase(c.Collector, logger)

	var dbPinger, cachePinger usecase.Pinger
	if c.DB != nil {
		dbPinger = c.DB
	}
	if !cfg.Redis.Disabled {
		cachePinger = c.Cache
	}
	c.Status = usecase.NewStatusUsecase(c.Listings, dbPinger, cachePinger, c.Hub, logger)

	var searches refresher.SearchTrigger
	if c.Collector != nil {
		searches = c.Search
	}
	c.Refresher = refresher.New(refresher.Options{
		Schedule:       cfg.Refresher.Schedule,
		SearchSchedule: cfg.Refresher.SearchSchedule,
		SearchQueries:  cfg.Refresher.SearchQueries,
		SearchLocation: cfg.Refresher.SearchLocation,
		SearchWorkers:  cfg.Refresher.SearchWorkers,
		SearchRate:     cfg.Refresher.SearchRatePerSecond,
	}, c.Dashboard, searches, c.Hub, c.Cache, c.Logger.Named("refresher"))
}

// Migrate applies pending SQL migrations. It is a no-op without a database.
func (c *Container) Migrate(ctx context.Context) error {
	if c == nil || c.DB == nil {
		return nil
	}
	sqlDB := c.DB.SQLDB()
	if sqlDB == nil {
		return errors.New("migrate: database has no database/sql handle")
	}
	r := migration.Runner{Dir: c.Config.Database.MigrationsDir, Logger: c.Logger.Named("migration")}
	if err := r.Run(ctx, sqlDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Seed loads demo listings into an empty store when SEED_DEMO_LISTINGS is set.
func (c *Container) Seed(ctx context.Context) error {
	if c == nil || !c.Config.App.SeedDemoListings {
		return nil
	}
	if err := (seeder.Runner{Seeders: seeder.Defaults()}).Run(ctx, c.Listings); err != nil {
		return err
	}
	c.Logger.Info("demo listings seeded")
	return nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
