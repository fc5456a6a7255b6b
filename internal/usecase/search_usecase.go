package usecase

import (
	"context"
	"strings"

	"job-hunter/internal/infrastructure/collector"

	"go.uber.org/zap"
)

type SearchUsecase interface {
	Trigger(ctx context.Context, query, location string) (string, error)
}

type Search struct {
	collector collector.Client
	logger    *zap.Logger
}

// NewSearchUsecase accepts a nil collector; Trigger then reports ErrUnavailable.
func NewSearchUsecase(c collector.Client, logger *zap.Logger) *Search {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Search{collector: c, logger: logger}
}

func (u *Search) Trigger(ctx context.Context, query, location string) (string, error) {
	if u == nil || u.collector == nil {
		return "", ErrUnavailable
	}
	query = strings.TrimSpace(query)
	location = strings.TrimSpace(location)
	if query == "" && location == "" {
		return "", ErrInvalidInput
	}

	taskID, err := u.collector.TriggerSearch(ctx, query, location)
	if err != nil {
		u.logger.Error("search trigger failed", zap.String("query", query), zap.String("location", location), zap.Error(err))
		return "", ErrUnavailable
	}

	u.logger.Info("search triggered", zap.String("task_id", taskID), zap.String("query", query), zap.String("location", location))
	return taskID, nil
}

var _ SearchUsecase = (*Search)(nil)
