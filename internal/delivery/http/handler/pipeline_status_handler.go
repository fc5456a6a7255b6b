package handler

import (
	"time"

	"job-hunter/internal/delivery/http/dto"
	"job-hunter/internal/pkg/response"
	"job-hunter/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type PipelineStatusHandler struct {
	uc  usecase.StatusUsecase
	log *zap.Logger
}

func NewPipelineStatusHandler(uc usecase.StatusUsecase, logger *zap.Logger) *PipelineStatusHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PipelineStatusHandler{uc: uc, log: logger}
}

func (h *PipelineStatusHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/pipeline/status", h.GetStatus)
}

func (h *PipelineStatusHandler) GetStatus(c fiber.Ctx) error {
	start := time.Now()

	data, err := h.uc.GetStatus(c.Context())
	if err != nil {
		h.log.Warn("pipeline status failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return mapUsecaseError(err)
	}

	h.log.Debug("pipeline status served", zap.Duration("duration", time.Since(start)))
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPipelineStatusResponse(data))
}
