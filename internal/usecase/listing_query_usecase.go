package usecase

import (
	"context"
	"errors"

	"job-hunter/internal/domain/listing"
	"job-hunter/internal/repository"

	"go.uber.org/zap"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type ListingPage struct {
	Items  []listing.Listing
	Total  int
	Limit  int
	Offset int
}

type ListingQueryUsecase interface {
	List(ctx context.Context, limit, offset int) (ListingPage, error)
}

type ListingQuery struct {
	repo   repository.ListingRepository
	logger *zap.Logger
}

func NewListingQueryUsecase(repo repository.ListingRepository, logger *zap.Logger) *ListingQuery {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingQuery{repo: repo, logger: logger}
}

func (u *ListingQuery) List(ctx context.Context, limit, offset int) (ListingPage, error) {
	if u == nil || u.repo == nil {
		return ListingPage{}, ErrInternal
	}
	if limit == 0 {
		limit = defaultListLimit
	}
	if limit < 0 || limit > maxListLimit {
		return ListingPage{}, ErrInvalidInput
	}
	if offset < 0 {
		return ListingPage{}, ErrInvalidInput
	}

	items, err := u.repo.List(ctx, limit, offset)
	if err != nil {
		return ListingPage{}, u.internal("list", err)
	}
	total, err := u.repo.Count(ctx)
	if err != nil {
		return ListingPage{}, u.internal("count", err)
	}

	return ListingPage{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (u *ListingQuery) internal(step string, err error) error {
	u.logger.Error("listing query failed", zap.String("step", step), zap.Error(err))
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return ErrInternal
}

var _ ListingQueryUsecase = (*ListingQuery)(nil)
