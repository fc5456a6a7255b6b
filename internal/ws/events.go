package ws

import (
	"encoding/json"
	"time"

	"job-hunter/internal/domain/metrics"

	"go.uber.org/zap"
)

const (
	EventSummaryRefreshed = "summary_refreshed"
	EventListingsUpdated  = "listings_updated"
)

type SummaryRefreshedEvent struct {
	Type            string  `json:"type"`
	TotalCount      int     `json:"total_count"`
	AverageScore    float64 `json:"average_score"`
	TopOffersCount  int     `json:"top_offers_count"`
	SnapshotVersion string  `json:"snapshot_version"`
	Timestamp       string  `json:"timestamp"`
}

type ListingsUpdatedEvent struct {
	Type      string `json:"type"`
	Accepted  int    `json:"accepted"`
	Timestamp string `json:"timestamp"`
}

func NewSummaryRefreshedEvent(s metrics.Summary, version string, at time.Time) SummaryRefreshedEvent {
	return SummaryRefreshedEvent{
		Type:            EventSummaryRefreshed,
		TotalCount:      s.TotalCount,
		AverageScore:    s.AverageScore,
		TopOffersCount:  s.TopOffersCount,
		SnapshotVersion: version,
		Timestamp:       at.UTC().Format(time.RFC3339),
	}
}

func NewListingsUpdatedEvent(accepted int, at time.Time) ListingsUpdatedEvent {
	return ListingsUpdatedEvent{
		Type:      EventListingsUpdated,
		Accepted:  accepted,
		Timestamp: at.UTC().Format(time.RFC3339),
	}
}

// Publish marshals evt and hands it to the hub. It reports whether the event
// was queued.
func (h *Hub) Publish(evt any) bool {
	if h == nil {
		return false
	}
	b, err := json.Marshal(evt)
	if err != nil {
		h.logger.Warn("ws event marshal failed", zap.Error(err))
		return false
	}
	return h.Broadcast(b)
}
