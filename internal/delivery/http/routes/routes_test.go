package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"job-hunter/internal/dashboard"
	"job-hunter/internal/delivery/http/handler"
	"job-hunter/internal/delivery/http/middleware"
	v1 "job-hunter/internal/delivery/http/routes/v1"
	"job-hunter/internal/repository"
	"job-hunter/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "internal-secret"

type stubCollector struct {
	taskID string
}

func (s stubCollector) TriggerSearch(context.Context, string, string) (string, error) {
	return s.taskID, nil
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T, withCollector bool) *fiber.App {
	t.Helper()
	repo := repository.NewMemoryListingRepository()

	dash := usecase.NewDashboardUsecase(repo, nil, 0.8, 0, nil)
	ingest := usecase.NewIngestUsecase(repo, nil, nil, 5, nil)
	query := usecase.NewListingQueryUsecase(repo, nil)
	status := usecase.NewStatusUsecase(repo, nil, nil, nil, nil)
	search := usecase.NewSearchUsecase(nil, nil)
	if withCollector {
		search = usecase.NewSearchUsecase(stubCollector{taskID: "task-42"}, nil)
	}

	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())
	NewRegistry(nil, v1.Handlers{
		Dashboard:     handler.NewDashboardHandler(dash),
		Listings:      handler.NewListingHandler(query, ingest, nil),
		Search:        handler.NewSearchHandler(search),
		Status:        handler.NewPipelineStatusHandler(status, nil),
		InternalGuard: middleware.NewInternalTokenMiddleware(testToken).Middleware(),
	}).Register(app)
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body any, headers map[string]string) (*http.Response, envelope) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &env))
	} else {
		env.Data = raw
	}
	return resp, env
}

func ingest(t *testing.T, app *fiber.App, listings ...map[string]any) (*http.Response, envelope) {
	t.Helper()
	return do(t, app, fiber.MethodPost, "/api/v1/listings", map[string]any{"listings": listings}, map[string]string{middleware.HeaderInternalToken: testToken})
}

func TestHealth(t *testing.T) {
	resp, env := do(t, newTestApp(t, false), fiber.MethodGet, "/health", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", env.Message)
}

func TestDashboard_EmptyState(t *testing.T) {
	app := newTestApp(t, false)

	resp, env := do(t, app, fiber.MethodGet, "/api/v1/dashboard", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var view dashboard.View
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.True(t, view.Initializing)
	assert.Equal(t, dashboard.InitializingBanner, view.Banner)

	resp, env = do(t, app, fiber.MethodGet, "/dashboard", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")
	page := string(env.Data)
	assert.Contains(t, page, dashboard.LabelTotalJobs)
	assert.Contains(t, page, "0.0")
}

func TestSummary_Threshold(t *testing.T) {
	app := newTestApp(t, false)
	resp, _ := ingest(t, app,
		map[string]any{"id": "a", "title": "Go", "score": 0.9},
		map[string]any{"id": "b", "title": "Rust", "score": 0.85},
		map[string]any{"id": "c", "title": "PHP", "score": 0.5},
	)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, env := do(t, app, fiber.MethodGet, "/api/v1/dashboard/summary", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var sum map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &sum))
	assert.EqualValues(t, 3, sum["total_count"])
	assert.InDelta(t, 0.75, sum["average_score"], 1e-9)
	assert.EqualValues(t, 2, sum["top_offers_count"])
	assert.Equal(t, "mem-1", sum["snapshot_version"])

	resp, env = do(t, app, fiber.MethodGet, "/api/v1/dashboard/summary?threshold=0.4", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &sum))
	assert.EqualValues(t, 3, sum["top_offers_count"])

	for _, q := range []string{"abc", "1.5", "-0.2"} {
		resp, _ = do(t, app, fiber.MethodGet, "/api/v1/dashboard/summary?threshold="+q, nil, nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestIngest_Auth(t *testing.T) {
	app := newTestApp(t, false)
	body := map[string]any{"listings": []map[string]any{{"id": "a", "score": 0.5}}}

	resp, _ := do(t, app, fiber.MethodPost, "/api/v1/listings", body, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, app, fiber.MethodPost, "/api/v1/listings", body, map[string]string{middleware.HeaderInternalToken: "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestIngest_Outcomes(t *testing.T) {
	app := newTestApp(t, false)

	resp, env := ingest(t, app, map[string]any{"id": "bad", "score": 2})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	var res struct {
		Accepted int `json:"accepted"`
		Rejected []struct {
			Index int    `json:"index"`
			ID    string `json:"id"`
		} `json:"rejected"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Zero(t, res.Accepted)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, "bad", res.Rejected[0].ID)

	resp, env = ingest(t, app,
		map[string]any{"id": "ok", "score": 0.3},
		map[string]any{"id": "nan", "score": -1},
	)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, 1, res.Accepted)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 1, res.Rejected[0].Index)

	resp, _ = ingest(t, app)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = ingest(t, app, map[string]any{"id": "t", "score": 0.3, "discovered_at": "not-a-time"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListings_Paging(t *testing.T) {
	app := newTestApp(t, false)
	resp, _ := ingest(t, app,
		map[string]any{"id": "old", "score": 0.9, "discovered_at": "2024-01-01T00:00:00Z"},
		map[string]any{"id": "new", "score": 0.95, "discovered_at": "2024-02-01T00:00:00Z"},
	)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, env := do(t, app, fiber.MethodGet, "/api/v1/listings?limit=1", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var page struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "new", page.Items[0].ID)

	for _, q := range []string{"limit=-1", "limit=101", "offset=-3", "limit=x"} {
		resp, _ = do(t, app, fiber.MethodGet, "/api/v1/listings?"+q, nil, nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, q)
	}

	resp, env = do(t, app, fiber.MethodGet, "/api/v1/listings/top?threshold=0.92", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var top struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &top))
	require.Len(t, top.Items, 1)
	assert.Equal(t, "new", top.Items[0].ID)
}

func TestSearches(t *testing.T) {
	resp, _ := do(t, newTestApp(t, false), fiber.MethodPost, "/api/v1/searches", map[string]string{"query": "go"}, nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	app := newTestApp(t, true)
	resp, env := do(t, app, fiber.MethodPost, "/api/v1/searches", map[string]string{"query": "go", "location": "Madrid"}, nil)
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	assert.JSONEq(t, `{"task_id":"task-42"}`, string(env.Data))

	resp, _ = do(t, app, fiber.MethodPost, "/api/v1/searches", map[string]string{}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPipelineStatus(t *testing.T) {
	resp, env := do(t, newTestApp(t, false), fiber.MethodGet, "/api/v1/pipeline/status", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var st map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.Contains(t, st, "listings")
	assert.Contains(t, st, "components")
}
