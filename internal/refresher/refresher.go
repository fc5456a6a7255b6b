// Package refresher runs the periodic dashboard jobs: recomputing the summary
// for connected clients and asking the collector for fresh searches.
package refresher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"job-hunter/internal/usecase"
	"job-hunter/internal/worker"
	"job-hunter/internal/ws"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	DefaultSchedule       = "@every 1m"
	DefaultSearchSchedule = "@every 6h"

	searchLockTTL = 10 * time.Minute
)

type SummarySource interface {
	GetSummary(ctx context.Context, threshold *float64) (usecase.DashboardSummary, error)
}

type SearchTrigger interface {
	Trigger(ctx context.Context, query, location string) (string, error)
}

// Locker is satisfied by the Redis cache. When it is unavailable every
// instance runs its own search cycle.
type Locker interface {
	Available() bool
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

type Options struct {
	Schedule       string
	SearchSchedule string
	SearchQueries  []string
	SearchLocation string
	SearchWorkers  int
	SearchRate     int
}

type Refresher struct {
	opts      Options
	summaries SummarySource
	searches  SearchTrigger
	publisher usecase.EventPublisher
	locker    Locker
	logger    *zap.Logger
	now       func() time.Time

	cron   *cron.Cron
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	lastVersion string
}

// New accepts a nil searches trigger or an empty query list; the search
// schedule is then not registered.
func New(opts Options, summaries SummarySource, searches SearchTrigger, publisher usecase.EventPublisher, locker Locker, logger *zap.Logger) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(opts.Schedule) == "" {
		opts.Schedule = DefaultSchedule
	}
	if strings.TrimSpace(opts.SearchSchedule) == "" {
		opts.SearchSchedule = DefaultSearchSchedule
	}
	if opts.SearchWorkers <= 0 {
		opts.SearchWorkers = 1
	}
	opts.SearchQueries = cleanQueries(opts.SearchQueries)

	cl := newCronLogger(logger)
	return &Refresher{
		opts:      opts,
		summaries: summaries,
		searches:  searches,
		publisher: publisher,
		locker:    locker,
		logger:    logger,
		now:       time.Now,
		cron:      cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
	}
}

func cleanQueries(in []string) []string {
	out := make([]string, 0, len(in))
	for _, q := range in {
		q = strings.TrimSpace(q)
		if q != "" {
			out = append(out, q)
		}
	}
	return out
}

func (r *Refresher) searchEnabled() bool {
	return r.searches != nil && len(r.opts.SearchQueries) > 0
}

// Start registers the schedules and runs one refresh (and one search cycle
// when enabled) immediately without waiting for the first tick.
func (r *Refresher) Start(ctx context.Context) error {
	if r == nil || r.summaries == nil {
		return errors.New("refresher: nil summary source")
	}
	ctx, cancel := context.WithCancel(ctx)

	if _, err := r.cron.AddFunc(r.opts.Schedule, r.scheduled(ctx, r.refreshJob)); err != nil {
		cancel()
		return fmt.Errorf("cron.AddFunc refresh %q: %w", r.opts.Schedule, err)
	}
	if r.searchEnabled() {
		if _, err := r.cron.AddFunc(r.opts.SearchSchedule, r.scheduled(ctx, r.searchJob)); err != nil {
			cancel()
			return fmt.Errorf("cron.AddFunc search %q: %w", r.opts.SearchSchedule, err)
		}
	}

	r.cancel = cancel
	r.cron.Start()
	r.logger.Info("refresher started",
		zap.String("schedule", r.opts.Schedule),
		zap.Bool("search_enabled", r.searchEnabled()),
		zap.String("search_schedule", r.opts.SearchSchedule),
		zap.Int("search_queries", len(r.opts.SearchQueries)),
	)

	r.runNow(ctx, r.refreshJob)
	if r.searchEnabled() {
		r.runNow(ctx, r.searchJob)
	}
	return nil
}

// Stop halts the schedules and waits for running jobs to return.
func (r *Refresher) Stop() {
	if r == nil {
		return
	}
	stopped := r.cron.Stop()
	if r.cancel != nil {
		r.cancel()
	}
	<-stopped.Done()
	r.wg.Wait()
	r.logger.Info("refresher stopped")
}

// scheduled jobs are awaited by cron.Stop; runNow jobs by the wait group.
func (r *Refresher) scheduled(ctx context.Context, job func(context.Context)) func() {
	return func() {
		if ctx.Err() != nil {
			return
		}
		job(ctx)
	}
}

func (r *Refresher) runNow(ctx context.Context, job func(context.Context)) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		job(ctx)
	}()
}

func (r *Refresher) refreshJob(ctx context.Context) {
	if _, err := r.RefreshOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		r.logger.Warn("summary refresh failed", zap.Error(err))
	}
}

func (r *Refresher) searchJob(ctx context.Context) {
	r.SearchOnce(ctx)
}

// RefreshOnce recomputes the default summary and broadcasts it when the
// snapshot version moved since the last broadcast.
func (r *Refresher) RefreshOnce(ctx context.Context) (bool, error) {
	sum, err := r.summaries.GetSummary(ctx, nil)
	if err != nil {
		return false, err
	}

	r.mu.Lock()
	changed := sum.SnapshotVersion != r.lastVersion
	if changed {
		r.lastVersion = sum.SnapshotVersion
	}
	r.mu.Unlock()

	if !changed {
		return false, nil
	}
	if r.publisher != nil {
		r.publisher.Publish(ws.NewSummaryRefreshedEvent(sum.Summary, sum.SnapshotVersion, r.now()))
	}
	r.logger.Info("summary refreshed",
		zap.String("version", sum.SnapshotVersion),
		zap.Int("total_count", sum.TotalCount),
		zap.Int("top_offers_count", sum.TopOffersCount),
	)
	return true, nil
}

// SearchOnce triggers one collector search per configured query through a
// bounded, rate limited worker pool. It returns the number of searches the
// collector accepted.
func (r *Refresher) SearchOnce(ctx context.Context) int {
	if !r.searchEnabled() {
		return 0
	}
	if !r.acquireSearchLock(ctx) {
		r.logger.Info("search cycle skipped", zap.String("reason", "lock_held"))
		return 0
	}

	start := time.Now()
	pool := worker.NewPool(r.opts.SearchWorkers, len(r.opts.SearchQueries))
	pool.SetRateLimit(r.opts.SearchRate)
	results := pool.Run(ctx)

	for _, q := range r.opts.SearchQueries {
		query := q
		err := pool.Submit(ctx, worker.Job{Name: query, Run: func(ctx context.Context) error {
			taskID, err := r.searches.Trigger(ctx, query, r.opts.SearchLocation)
			if err != nil {
				return err
			}
			r.logger.Debug("scheduled search queued", zap.String("query", query), zap.String("task_id", taskID))
			return nil
		}})
		if err != nil {
			r.logger.Warn("search submit failed", zap.String("query", query), zap.Error(err))
			break
		}
	}
	pool.Close()

	ok, failed := 0, 0
	for res := range results {
		if res.Err != nil {
			failed++
			r.logger.Warn("scheduled search failed", zap.String("query", res.Name), zap.Duration("duration", res.Duration), zap.Error(res.Err))
			continue
		}
		ok++
	}

	r.logger.Info("search cycle complete",
		zap.Int("queries", len(r.opts.SearchQueries)),
		zap.Int("ok", ok),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(start)),
	)
	return ok
}

func (r *Refresher) acquireSearchLock(ctx context.Context) bool {
	if r.locker == nil || !r.locker.Available() {
		return true
	}
	ok, err := r.locker.SetIfNotExists(ctx, usecase.SearchLockKey(), r.now().UTC().Format(time.RFC3339), searchLockTTL)
	if err != nil {
		r.logger.Warn("search lock failed, running anyway", zap.Error(err))
		return true
	}
	return ok
}
