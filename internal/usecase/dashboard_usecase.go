package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"job-hunter/internal/dashboard"
	"job-hunter/internal/domain/listing"
	"job-hunter/internal/domain/metrics"
	"job-hunter/internal/repository"

	"go.uber.org/zap"
)

const (
	defaultTopLimit = 20
	maxTopLimit     = 100
)

// DashboardSummary is a metrics.Summary tagged with the snapshot it was
// computed from.
type DashboardSummary struct {
	metrics.Summary
	SnapshotVersion string
	GeneratedAt     time.Time
}

type TopOffersResult struct {
	Threshold       float64
	SnapshotVersion string
	Items           []listing.Listing
}

type DashboardUsecase interface {
	GetSummary(ctx context.Context, threshold *float64) (DashboardSummary, error)
	GetView(ctx context.Context) (dashboard.View, error)
	TopOffers(ctx context.Context, threshold *float64, limit int) (TopOffersResult, error)
}

type cachedSummary struct {
	TotalCount     int       `json:"total_count"`
	AverageScore   float64   `json:"average_score"`
	TopOffersCount int       `json:"top_offers_count"`
	TopThreshold   float64   `json:"top_threshold"`
	GeneratedAt    time.Time `json:"generated_at"`
}

type Dashboard struct {
	repo             repository.ListingRepository
	cache            SummaryCache
	defaultThreshold float64
	cacheTTL         time.Duration
	logger           *zap.Logger
}

func NewDashboardUsecase(repo repository.ListingRepository, cache SummaryCache, defaultThreshold float64, cacheTTL time.Duration, logger *zap.Logger) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics.ValidateThreshold(defaultThreshold) != nil {
		defaultThreshold = metrics.DefaultTopThreshold
	}
	return &Dashboard{
		repo:             repo,
		cache:            cache,
		defaultThreshold: defaultThreshold,
		cacheTTL:         cacheTTL,
		logger:           logger,
	}
}

func (u *Dashboard) resolveThreshold(threshold *float64) (float64, error) {
	th := u.defaultThreshold
	if threshold != nil {
		th = *threshold
	}
	if err := metrics.ValidateThreshold(th); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return th, nil
}

func (u *Dashboard) snapshot(ctx context.Context) (repository.Snapshot, error) {
	if u == nil || u.repo == nil {
		return repository.Snapshot{}, ErrInternal
	}
	snap, err := u.repo.Snapshot(ctx)
	if err != nil {
		u.logger.Error("dashboard snapshot failed", zap.Error(err))
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return repository.Snapshot{}, err
		}
		return repository.Snapshot{}, ErrInternal
	}
	return snap, nil
}

func (u *Dashboard) GetSummary(ctx context.Context, threshold *float64) (DashboardSummary, error) {
	if u == nil {
		return DashboardSummary{}, ErrInternal
	}
	th, err := u.resolveThreshold(threshold)
	if err != nil {
		return DashboardSummary{}, err
	}

	snap, err := u.snapshot(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}

	key := SummaryCacheKey(snap.Version, th)
	if u.cache != nil {
		var cached cachedSummary
		hit, err := u.cache.GetJSON(ctx, key, &cached)
		switch {
		case err != nil:
			u.logger.Warn("summary cache read failed", zap.String("key", key), zap.Error(err))
		case hit && cached.TopThreshold != th:
			u.logger.Warn("summary cache threshold mismatch",
				zap.String("key", key),
				zap.Float64("cached", cached.TopThreshold),
				zap.Float64("requested", th),
			)
		case hit:
			return DashboardSummary{
				Summary: metrics.Summary{
					TotalCount:     cached.TotalCount,
					AverageScore:   cached.AverageScore,
					TopOffersCount: cached.TopOffersCount,
					TopThreshold:   cached.TopThreshold,
				},
				SnapshotVersion: snap.Version,
				GeneratedAt:     cached.GeneratedAt,
			}, nil
		}
	}

	sum, err := metrics.Summarize(snap.Listings, th)
	if err != nil {
		return DashboardSummary{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	out := DashboardSummary{Summary: sum, SnapshotVersion: snap.Version, GeneratedAt: snap.TakenAt.UTC()}

	if u.cache != nil {
		entry := cachedSummary{
			TotalCount:     sum.TotalCount,
			AverageScore:   sum.AverageScore,
			TopOffersCount: sum.TopOffersCount,
			TopThreshold:   sum.TopThreshold,
			GeneratedAt:    out.GeneratedAt,
		}
		if err := u.cache.SetJSON(ctx, key, entry, u.cacheTTL); err != nil {
			u.logger.Warn("summary cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return out, nil
}

func (u *Dashboard) GetView(ctx context.Context) (dashboard.View, error) {
	sum, err := u.GetSummary(ctx, nil)
	if err != nil {
		return dashboard.View{}, err
	}
	return dashboard.Render(sum.Summary), nil
}

func (u *Dashboard) TopOffers(ctx context.Context, threshold *float64, limit int) (TopOffersResult, error) {
	if u == nil {
		return TopOffersResult{}, ErrInternal
	}
	if limit == 0 {
		limit = defaultTopLimit
	}
	if limit < 0 || limit > maxTopLimit {
		return TopOffersResult{}, ErrInvalidInput
	}
	th, err := u.resolveThreshold(threshold)
	if err != nil {
		return TopOffersResult{}, err
	}

	snap, err := u.snapshot(ctx)
	if err != nil {
		return TopOffersResult{}, err
	}

	items, err := metrics.TopOffers(snap.Listings, th, limit)
	if err != nil {
		return TopOffersResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return TopOffersResult{Threshold: th, SnapshotVersion: snap.Version, Items: items}, nil
}

var _ DashboardUsecase = (*Dashboard)(nil)
