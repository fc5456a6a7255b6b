package usecase

import (
	"context"
	"time"

	"job-hunter/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	ComponentUp       = "up"
	ComponentDown     = "down"
	ComponentDisabled = "disabled"

	statusProbeTimeout = 2 * time.Second
)

// Pinger reports the health of a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

type ClientCounter interface {
	ClientCount() int
}

type PipelineStatus struct {
	TotalListings      int
	LatestDiscoveredAt *time.Time
	Database           string
	Cache              string
	WebSocketClients   int
	ServerTime         time.Time
}

type StatusUsecase interface {
	GetStatus(ctx context.Context) (PipelineStatus, error)
}

type Status struct {
	repo   repository.ListingRepository
	db     Pinger
	cache  Pinger
	hub    ClientCounter
	logger *zap.Logger
	now    func() time.Time
}

// NewStatusUsecase accepts nil db and cache pingers; those components are
// reported as disabled.
func NewStatusUsecase(repo repository.ListingRepository, db Pinger, cache Pinger, hub ClientCounter, logger *zap.Logger) *Status {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Status{repo: repo, db: db, cache: cache, hub: hub, logger: logger, now: time.Now}
}

// GetStatus never fails on a degraded component; failures show up in the
// component fields and the log. Only a failing listing count is an error.
func (u *Status) GetStatus(ctx context.Context) (PipelineStatus, error) {
	if u == nil || u.repo == nil {
		return PipelineStatus{}, ErrInternal
	}

	out := PipelineStatus{Database: ComponentDisabled, Cache: ComponentDisabled}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := u.repo.Count(gctx)
		if err != nil {
			u.logger.Error("status count failed", zap.Error(err))
			return err
		}
		out.TotalListings = n
		return nil
	})

	g.Go(func() error {
		latest, err := u.repo.LatestDiscoveredAt(gctx)
		if err != nil {
			u.logger.Warn("status latest discovery failed", zap.Error(err))
			return nil
		}
		if !latest.IsZero() {
			t := latest.UTC()
			out.LatestDiscoveredAt = &t
		}
		return nil
	})

	if u.db != nil {
		g.Go(func() error {
			out.Database = u.probe(gctx, "database", u.db)
			return nil
		})
	}
	if u.cache != nil {
		g.Go(func() error {
			out.Cache = u.probe(gctx, "cache", u.cache)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return PipelineStatus{}, ErrInternal
	}

	if u.hub != nil {
		out.WebSocketClients = u.hub.ClientCount()
	}
	out.ServerTime = u.now().UTC()
	return out, nil
}

func (u *Status) probe(ctx context.Context, name string, p Pinger) string {
	ctx, cancel := context.WithTimeout(ctx, statusProbeTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		u.logger.Warn("status probe failed", zap.String("component", name), zap.Error(err))
		return ComponentDown
	}
	return ComponentUp
}

var _ StatusUsecase = (*Status)(nil)
