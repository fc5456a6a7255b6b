package v1

import (
	"job-hunter/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

// Handlers groups everything mounted under /api/v1. Nil handlers are skipped.
type Handlers struct {
	Dashboard     *handler.DashboardHandler
	Listings      *handler.ListingHandler
	Search        *handler.SearchHandler
	Status        *handler.PipelineStatusHandler
	InternalGuard fiber.Handler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Dashboard != nil {
		h.Dashboard.RegisterRoutes(r)
	}
	if h.Listings != nil {
		h.Listings.RegisterRoutes(r, h.InternalGuard)
	}
	if h.Search != nil {
		h.Search.RegisterRoutes(r)
	}
	if h.Status != nil {
		h.Status.RegisterRoutes(r)
	}
}
