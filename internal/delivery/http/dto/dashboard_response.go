package dto

import (
	"time"

	"job-hunter/internal/usecase"
)

type DashboardSummaryResponse struct {
	TotalCount      int       `json:"total_count"`
	AverageScore    float64   `json:"average_score"`
	TopOffersCount  int       `json:"top_offers_count"`
	TopThreshold    float64   `json:"top_threshold"`
	SnapshotVersion string    `json:"snapshot_version"`
	GeneratedAt     time.Time `json:"generated_at"`
}

func NewDashboardSummaryResponse(s usecase.DashboardSummary) DashboardSummaryResponse {
	return DashboardSummaryResponse{
		TotalCount:      s.TotalCount,
		AverageScore:    s.AverageScore,
		TopOffersCount:  s.TopOffersCount,
		TopThreshold:    s.TopThreshold,
		SnapshotVersion: s.SnapshotVersion,
		GeneratedAt:     s.GeneratedAt.UTC(),
	}
}

type TopOffersResponse struct {
	Threshold       float64           `json:"threshold"`
	SnapshotVersion string            `json:"snapshot_version"`
	Items           []ListingResponse `json:"items"`
}

func NewTopOffersResponse(r usecase.TopOffersResult) TopOffersResponse {
	return TopOffersResponse{
		Threshold:       r.Threshold,
		SnapshotVersion: r.SnapshotVersion,
		Items:           NewListingResponses(r.Items),
	}
}
