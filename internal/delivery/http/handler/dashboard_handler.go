package handler

import (
	"bytes"

	"job-hunter/internal/dashboard"
	"job-hunter/internal/delivery/http/dto"
	"job-hunter/internal/delivery/http/middleware"
	"job-hunter/internal/pkg/response"
	"job-hunter/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type DashboardHandler struct {
	uc usecase.DashboardUsecase
}

func NewDashboardHandler(uc usecase.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// RegisterPage mounts the HTML page outside the API group.
func (h *DashboardHandler) RegisterPage(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/dashboard", h.Page)
}

func (h *DashboardHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/dashboard", h.View)
	r.Get("/dashboard/summary", h.Summary)
	r.Get("/listings/top", h.TopOffers)
}

func (h *DashboardHandler) Page(c fiber.Ctx) error {
	v, err := h.uc.GetView(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}

	var buf bytes.Buffer
	if err := dashboard.WriteHTML(&buf, v); err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

func (h *DashboardHandler) View(c fiber.Ctx) error {
	v, err := h.uc.GetView(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, v)
}

func (h *DashboardHandler) Summary(c fiber.Ctx) error {
	threshold, err := parseQueryFloat(c, "threshold")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	s, err := h.uc.GetSummary(c.Context(), threshold)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewDashboardSummaryResponse(s))
}

func (h *DashboardHandler) TopOffers(c fiber.Ctx) error {
	threshold, err := parseQueryFloat(c, "threshold")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.uc.TopOffers(c.Context(), threshold, limit)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewTopOffersResponse(res))
}
