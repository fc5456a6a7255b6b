package dto

import (
	"fmt"
	"strings"
	"time"

	"job-hunter/internal/domain/listing"
	"job-hunter/internal/usecase"
)

type IngestListingRequest struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Company      string  `json:"company"`
	Location     string  `json:"location"`
	Score        float64 `json:"score"`
	DiscoveredAt string  `json:"discovered_at"`
}

type IngestRequest struct {
	Listings []IngestListingRequest `json:"listings"`
}

// ToInputs parses timestamps as RFC 3339. An empty timestamp is left zero
// so the listing gets the ingestion time.
func (r IngestRequest) ToInputs() ([]listing.Input, error) {
	out := make([]listing.Input, 0, len(r.Listings))
	for i, it := range r.Listings {
		var at time.Time
		if s := strings.TrimSpace(it.DiscoveredAt); s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return nil, fmt.Errorf("listings[%d].discovered_at: %w", i, err)
			}
			at = t
		}
		out = append(out, listing.Input{
			ID:           it.ID,
			Title:        it.Title,
			Company:      it.Company,
			Location:     it.Location,
			Score:        it.Score,
			DiscoveredAt: at,
		})
	}
	return out, nil
}

type RejectedListingResponse struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

type IngestResponse struct {
	Received int                       `json:"received"`
	Accepted int                       `json:"accepted"`
	Rejected []RejectedListingResponse `json:"rejected"`
}

func NewIngestResponse(r usecase.IngestResult) IngestResponse {
	rejected := make([]RejectedListingResponse, 0, len(r.Rejected))
	for _, it := range r.Rejected {
		rejected = append(rejected, RejectedListingResponse{Index: it.Index, ID: it.ID, Reason: it.Reason})
	}
	return IngestResponse{Received: r.Received, Accepted: r.Accepted, Rejected: rejected}
}
