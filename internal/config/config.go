package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig `envPrefix:"DB_"`
	Redis     RedisConfig    `envPrefix:"REDIS_"`
	Dashboard DashboardConfig
	Collector CollectorConfig
	Refresher RefresherConfig
}

type AppConfig struct {
	AppName          string `env:"APP_NAME"`
	Environment      string `env:"APP_ENV"`
	HTTPPort         string `env:"HTTP_PORT"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	InternalToken    string `env:"INTERNAL_TOKEN"`
	SeedDemoListings bool   `env:"SEED_DEMO_LISTINGS" envDefault:"false"`
}

type DatabaseConfig struct {
	DBHost     string `env:"HOST"`
	DBPort     string `env:"PORT" envDefault:"5432"`
	DBName     string `env:"NAME"`
	DBUser     string `env:"USER"`
	DBPassword string `env:"PASSWORD"`
	DBSSLMode  string `env:"SSL_MODE" envDefault:"disable"`

	ConnectTimeout        time.Duration `env:"CONNECT_TIMEOUT" envDefault:"5s"`
	PoolMaxConns          int32         `env:"POOL_MAX_CONNS" envDefault:"10"`
	PoolMinConns          int32         `env:"POOL_MIN_CONNS"`
	PoolMaxConnLifetime   time.Duration `env:"POOL_MAX_CONN_LIFETIME"`
	PoolMaxConnIdleTime   time.Duration `env:"POOL_MAX_CONN_IDLE_TIME"`
	PoolHealthCheckPeriod time.Duration `env:"POOL_HEALTH_CHECK_PERIOD"`

	MigrationsDir string `env:"MIGRATIONS_DIR" envDefault:"migrations"`
}

// Enabled reports whether a database host was configured. Without one the
// server keeps listings in memory.
func (d DatabaseConfig) Enabled() bool {
	return strings.TrimSpace(d.DBHost) != ""
}

type RedisConfig struct {
	Host     string        `env:"HOST" envDefault:"localhost"`
	Port     string        `env:"PORT" envDefault:"6379"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	TTL      time.Duration `env:"TTL" envDefault:"600s"`
	Disabled bool          `env:"DISABLED" envDefault:"false"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", strings.TrimSpace(r.Host), strings.TrimSpace(r.Port))
}

type DashboardConfig struct {
	TopThreshold   float64 `env:"DASHBOARD_TOP_THRESHOLD" envDefault:"0.8"`
	IngestMaxBatch int     `env:"INGEST_MAX_BATCH" envDefault:"1000"`
}

type CollectorConfig struct {
	BaseURL string        `env:"COLLECTOR_BASE_URL"`
	Timeout time.Duration `env:"COLLECTOR_TIMEOUT" envDefault:"5s"`
}

type RefresherConfig struct {
	Schedule            string   `env:"REFRESH_SCHEDULE" envDefault:"@every 1m"`
	SearchSchedule      string   `env:"SEARCH_SCHEDULE" envDefault:"@every 6h"`
	SearchQueries       []string `env:"SEARCH_QUERIES" envSeparator:";"`
	SearchLocation      string   `env:"SEARCH_LOCATION"`
	SearchWorkers       int      `env:"SEARCH_WORKERS" envDefault:"2"`
	SearchRatePerSecond int      `env:"SEARCH_RATE_PER_SECOND" envDefault:"1"`
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidConfig      = errors.New("invalid configuration")
)

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	c.App.AppName = strings.TrimSpace(c.App.AppName)
	c.App.Environment = strings.TrimSpace(c.App.Environment)
	c.App.HTTPPort = strings.TrimSpace(c.App.HTTPPort)
	c.App.InternalToken = strings.TrimSpace(c.App.InternalToken)
	c.Collector.BaseURL = strings.TrimSpace(c.Collector.BaseURL)

	var missing []string
	if c.App.AppName == "" {
		missing = append(missing, "APP_NAME")
	}
	if c.App.Environment == "" {
		missing = append(missing, "APP_ENV")
	}
	if c.App.HTTPPort == "" {
		missing = append(missing, "HTTP_PORT")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	th := c.Dashboard.TopThreshold
	if math.IsNaN(th) || th < 0 || th > 1 {
		return fmt.Errorf("%w: DASHBOARD_TOP_THRESHOLD must be within [0, 1], got %v", errInvalidConfig, th)
	}
	if c.Dashboard.IngestMaxBatch <= 0 {
		return fmt.Errorf("%w: INGEST_MAX_BATCH must be positive, got %d", errInvalidConfig, c.Dashboard.IngestMaxBatch)
	}

	queries := make([]string, 0, len(c.Refresher.SearchQueries))
	for _, q := range c.Refresher.SearchQueries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		queries = append(queries, q)
	}
	c.Refresher.SearchQueries = queries
	if c.Refresher.SearchWorkers <= 0 {
		c.Refresher.SearchWorkers = 1
	}

	return nil
}

func (c Config) IsDevelopment() bool {
	switch strings.ToLower(c.App.Environment) {
	case "dev", "development", "local":
		return true
	}
	return false
}
