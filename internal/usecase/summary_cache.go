package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"
)

const (
	summaryKeyPrefix = "dashboard:summary:"
	searchLockKey    = "dashboard:lock:search"
)

// SummaryCache is the subset of the Redis cache the dashboard needs. A nil
// SummaryCache disables caching.
type SummaryCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// SummaryCacheKey embeds the snapshot version, so an entry can never outlive
// the listing set it was computed from. The threshold is written in its
// shortest exact form; distinct thresholds never share a key.
func SummaryCacheKey(version string, threshold float64) string {
	return summaryKeyPrefix + strings.TrimSpace(version) + ":" + strconv.FormatFloat(threshold, 'g', -1, 64)
}

func SummaryCachePattern() string {
	return summaryKeyPrefix + "*"
}

// SearchLockKey serialises scheduled search cycles across instances.
func SearchLockKey() string {
	return searchLockKey
}

// EventPublisher pushes dashboard events to connected clients.
type EventPublisher interface {
	Publish(evt any) bool
}
