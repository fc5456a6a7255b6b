package dto

import (
	"time"

	"job-hunter/internal/usecase"
)

type PipelineStatusResponseData struct {
	Listings   PipelineListingsStatus   `json:"listings"`
	Components PipelineComponentsStatus `json:"components"`
	ServerTime time.Time                `json:"server_time"`
}

type PipelineListingsStatus struct {
	Total              int    `json:"total"`
	LatestDiscoveredAt string `json:"latest_discovered_at,omitempty"`
}

type PipelineComponentsStatus struct {
	Database         string `json:"database"`
	Cache            string `json:"cache"`
	WebSocketClients int    `json:"websocket_clients"`
}

func NewPipelineStatusResponse(s usecase.PipelineStatus) PipelineStatusResponseData {
	latest := ""
	if s.LatestDiscoveredAt != nil {
		latest = formatTime(*s.LatestDiscoveredAt)
	}
	return PipelineStatusResponseData{
		Listings: PipelineListingsStatus{
			Total:              s.TotalListings,
			LatestDiscoveredAt: latest,
		},
		Components: PipelineComponentsStatus{
			Database:         s.Database,
			Cache:            s.Cache,
			WebSocketClients: s.WebSocketClients,
		},
		ServerTime: s.ServerTime.UTC(),
	}
}
