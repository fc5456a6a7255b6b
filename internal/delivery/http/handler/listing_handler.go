package handler

import (
	"job-hunter/internal/delivery/http/dto"
	"job-hunter/internal/delivery/http/middleware"
	"job-hunter/internal/pkg/response"
	"job-hunter/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type ListingHandler struct {
	query  usecase.ListingQueryUsecase
	ingest usecase.IngestUsecase
	logger *zap.Logger
}

func NewListingHandler(query usecase.ListingQueryUsecase, ingest usecase.IngestUsecase, logger *zap.Logger) *ListingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingHandler{query: query, ingest: ingest, logger: logger}
}

// RegisterRoutes mounts ingest behind guard; a nil guard leaves ingest
// unmounted.
func (h *ListingHandler) RegisterRoutes(r fiber.Router, guard fiber.Handler) {
	if r == nil {
		return
	}
	r.Get("/listings", h.List)
	if guard != nil {
		r.Post("/listings", guard, h.Ingest)
	}
}

func (h *ListingHandler) List(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	page, err := h.query.List(c.Context(), limit, offset)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewListingPageResponse(page))
}

func (h *ListingHandler) Ingest(c fiber.Ctx) error {
	var req dto.IngestRequest
	if err := c.Bind().Body(&req); err != nil {
		h.logger.Warn("ingest bind failed", zap.Error(err))
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	inputs, err := req.ToInputs()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.ingest.Ingest(c.Context(), inputs)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := dto.NewIngestResponse(res)
	if res.Accepted == 0 {
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "No listing accepted", out, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
