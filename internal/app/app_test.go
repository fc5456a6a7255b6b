package app

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"job-hunter/internal/config"
	"job-hunter/internal/repository"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		App: config.AppConfig{
			AppName:       "job-hunter",
			Environment:   "test",
			HTTPPort:      "0",
			InternalToken: "tok",
		},
		Redis:     config.RedisConfig{Disabled: true},
		Dashboard: config.DashboardConfig{TopThreshold: 0.8, IngestMaxBatch: 10},
		Refresher: config.RefresherConfig{Schedule: "@every 1h"},
	}
}

func TestListenAddr(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "8080", want: ":8080"},
		{in: " :9090 ", want: ":9090"},
		{in: "  ", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ListenAddr(tt.in)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestNewContainer_InMemory(t *testing.T) {
	c, err := NewContainer(testConfig(), nil)
	require.NoError(t, err)
	defer func() { assert.NoError(t, c.Close()) }()

	assert.Nil(t, c.DB)
	assert.Nil(t, c.Collector)
	assert.IsType(t, &repository.MemoryListingRepository{}, c.Listings)
	assert.False(t, c.Cache.Available())
	assert.NoError(t, c.Migrate(context.Background()))

	require.NoError(t, c.Seed(context.Background()))
	n, err := c.Listings.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "seeding is opt-in")

	c.Config.App.SeedDemoListings = true
	require.NoError(t, c.Seed(context.Background()))
	n, err = c.Listings.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestBootstrap_ServesRoutes(t *testing.T) {
	a, cleanup, err := Bootstrap(testConfig(), nil)
	require.NoError(t, err)
	defer func() { assert.NoError(t, cleanup()) }()

	require.NoError(t, a.Start(context.Background()))
	defer a.Stop()

	resp, err := a.Fiber.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	body := strings.NewReader(`{"listings":[{"id":"a","title":"Go","score":0.9}]}`)
	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/listings", body)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set("X-Internal-Token", "tok")
	resp, err = a.Fiber.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodPost, "/api/v1/searches", strings.NewReader(`{"query":"go"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err = a.Fiber.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	resp, err = a.Fiber.Test(httptest.NewRequest(fiber.MethodGet, "/dashboard", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
