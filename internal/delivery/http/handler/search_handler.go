package handler

import (
	"job-hunter/internal/delivery/http/dto"
	"job-hunter/internal/delivery/http/middleware"
	"job-hunter/internal/pkg/response"
	"job-hunter/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SearchHandler struct {
	uc usecase.SearchUsecase
}

func NewSearchHandler(uc usecase.SearchUsecase) *SearchHandler {
	return &SearchHandler{uc: uc}
}

func (h *SearchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/searches", h.Trigger)
}

func (h *SearchHandler) Trigger(c fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	taskID, err := h.uc.Trigger(c.Context(), req.Query, req.Location)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusAccepted, response.MessageAccepted, dto.SearchResponse{TaskID: taskID})
}
