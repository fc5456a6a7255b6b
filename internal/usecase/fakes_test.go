package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"job-hunter/internal/domain/listing"
	"job-hunter/internal/repository"

	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

type fakeCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	gets    int
	sets    int
	deleted []string
	getErr  error
	setErr  error
	lastTTL time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return false, c.getErr
	}
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.lastTTL = ttl
	if c.setErr != nil {
		return c.setErr
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *fakeCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
			c.deleted = append(c.deleted, k)
		}
	}
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []any
}

func (p *fakePublisher) Publish(evt any) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return true
}

func (p *fakePublisher) Events() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]any(nil), p.events...)
}

type failingRepo struct {
	err error
}

func (r failingRepo) Upsert(context.Context, []listing.Listing) (int, error) { return 0, r.err }
func (r failingRepo) Snapshot(context.Context) (repository.Snapshot, error) {
	return repository.Snapshot{}, r.err
}
func (r failingRepo) List(context.Context, int, int) ([]listing.Listing, error) { return nil, r.err }
func (r failingRepo) Count(context.Context) (int, error)                        { return 0, r.err }
func (r failingRepo) LatestDiscoveredAt(context.Context) (time.Time, error) {
	return time.Time{}, r.err
}

func mustListing(t *testing.T, id string, score float64, at time.Time) listing.Listing {
	t.Helper()
	l, err := listing.New(listing.Input{ID: id, Title: "Go Developer", Company: "Acme", Location: "Madrid", Score: score, DiscoveredAt: at})
	require.NoError(t, err)
	return l
}

func seededRepo(t *testing.T, scores ...float64) *repository.MemoryListingRepository {
	t.Helper()
	repo := repository.NewMemoryListingRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	items := make([]listing.Listing, 0, len(scores))
	for i, s := range scores {
		items = append(items, mustListing(t, string(rune('a'+i)), s, base.Add(time.Duration(i)*time.Hour)))
	}
	if len(items) > 0 {
		_, err := repo.Upsert(context.Background(), items)
		require.NoError(t, err)
	}
	return repo
}
