package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"job-hunter/internal/domain/listing"
	"job-hunter/internal/repository"
	"job-hunter/internal/ws"

	"go.uber.org/zap"
)

const DefaultIngestMaxBatch = 1000

// RejectedListing reports why the item at Index was not stored.
type RejectedListing struct {
	Index  int
	ID     string
	Reason string
}

type IngestResult struct {
	Received int
	Accepted int
	Rejected []RejectedListing
}

type IngestUsecase interface {
	Ingest(ctx context.Context, inputs []listing.Input) (IngestResult, error)
}

type Ingest struct {
	repo      repository.ListingRepository
	cache     SummaryCache
	publisher EventPublisher
	maxBatch  int
	logger    *zap.Logger
	now       func() time.Time
}

func NewIngestUsecase(repo repository.ListingRepository, cache SummaryCache, publisher EventPublisher, maxBatch int, logger *zap.Logger) *Ingest {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxBatch <= 0 {
		maxBatch = DefaultIngestMaxBatch
	}
	return &Ingest{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		maxBatch:  maxBatch,
		logger:    logger,
		now:       time.Now,
	}
}

func (u *Ingest) Ingest(ctx context.Context, inputs []listing.Input) (IngestResult, error) {
	if u == nil || u.repo == nil {
		return IngestResult{}, ErrInternal
	}
	if len(inputs) == 0 {
		return IngestResult{}, fmt.Errorf("%w: empty batch", ErrInvalidInput)
	}
	if len(inputs) > u.maxBatch {
		return IngestResult{}, fmt.Errorf("%w: batch of %d exceeds %d", ErrInvalidInput, len(inputs), u.maxBatch)
	}

	res := IngestResult{Received: len(inputs), Rejected: make([]RejectedListing, 0)}
	// A repeated ID keeps its first position and its last payload, matching
	// what the store ends up holding.
	valid := make([]listing.Listing, 0, len(inputs))
	seen := make(map[string]int, len(inputs))
	for i, in := range inputs {
		l, err := listing.New(in)
		if err != nil {
			res.Rejected = append(res.Rejected, RejectedListing{Index: i, ID: in.ID, Reason: err.Error()})
			continue
		}
		if pos, ok := seen[l.ID()]; ok {
			valid[pos] = l
			continue
		}
		seen[l.ID()] = len(valid)
		valid = append(valid, l)
	}

	if len(valid) == 0 {
		u.logger.Info("ingest rejected batch", zap.Int("received", res.Received))
		return res, nil
	}

	if _, err := u.repo.Upsert(ctx, valid); err != nil {
		u.logger.Error("ingest upsert failed", zap.Int("listings", len(valid)), zap.Error(err))
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return IngestResult{}, err
		}
		return IngestResult{}, ErrInternal
	}
	res.Accepted = len(valid)

	if u.cache != nil {
		if err := u.cache.DeleteByPattern(ctx, SummaryCachePattern()); err != nil {
			u.logger.Warn("summary cache invalidation failed", zap.Error(err))
		}
	}
	if u.publisher != nil {
		u.publisher.Publish(ws.NewListingsUpdatedEvent(res.Accepted, u.now()))
	}

	u.logger.Info("ingest completed",
		zap.Int("received", res.Received),
		zap.Int("accepted", res.Accepted),
		zap.Int("rejected", len(res.Rejected)),
	)
	return res, nil
}

var _ IngestUsecase = (*Ingest)(nil)
