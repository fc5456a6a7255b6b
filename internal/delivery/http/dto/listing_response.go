package dto

import (
	"job-hunter/internal/domain/listing"
	"job-hunter/internal/usecase"
)

type ListingResponse struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Company      string  `json:"company"`
	Location     string  `json:"location"`
	Score        float64 `json:"score"`
	DiscoveredAt string  `json:"discovered_at"`
}

func NewListingResponses(items []listing.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(items))
	for _, l := range items {
		out = append(out, ListingResponse{
			ID:           l.ID(),
			Title:        l.Title(),
			Company:      l.Company(),
			Location:     l.Location(),
			Score:        l.Score(),
			DiscoveredAt: formatTime(l.DiscoveredAt()),
		})
	}
	return out
}

type ListingPageResponse struct {
	Items  []ListingResponse `json:"items"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

func NewListingPageResponse(p usecase.ListingPage) ListingPageResponse {
	return ListingPageResponse{
		Items:  NewListingResponses(p.Items),
		Total:  p.Total,
		Limit:  p.Limit,
		Offset: p.Offset,
	}
}
