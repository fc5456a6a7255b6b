package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const maxErrorBody = 4096

var ErrEmptyTaskID = errors.New("collector returned empty task id")

// Client asks the external job collector to run a search. Results arrive
// later through the listing ingest endpoint.
type Client interface {
	TriggerSearch(ctx context.Context, query string, location string) (taskID string, err error)
}

type httpClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

type triggerSearchRequest struct {
	Query    string `json:"query"`
	Location string `json:"location"`
}

type triggerSearchResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

// NewClient returns nil when baseURL is empty, which disables searches.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) Client {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *httpClient) TriggerSearch(ctx context.Context, query string, location string) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("nil collector client")
	}
	endpoint := c.baseURL + "/search"

	b, err := json.Marshal(triggerSearchRequest{Query: strings.TrimSpace(query), Location: strings.TrimSpace(location)})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("collector request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		body := strings.TrimSpace(string(rb))
		c.logger.Warn("collector trigger failed",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("body", body),
		)
		return "", fmt.Errorf("collector trigger failed: status=%d body=%s", resp.StatusCode, body)
	}

	var out triggerSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode collector response: %w", err)
	}
	taskID := strings.TrimSpace(out.TaskID)
	if taskID == "" {
		return "", ErrEmptyTaskID
	}
	return taskID, nil
}

var _ Client = (*httpClient)(nil)
