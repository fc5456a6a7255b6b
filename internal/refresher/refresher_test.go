package refresher

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"job-hunter/internal/domain/metrics"
	"job-hunter/internal/usecase"
	"job-hunter/internal/ws"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu      sync.Mutex
	version string
	err     error
	calls   int
}

func (f *fakeSource) set(version string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.version = version
}

func (f *fakeSource) GetSummary(context.Context, *float64) (usecase.DashboardSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return usecase.DashboardSummary{}, f.err
	}
	return usecase.DashboardSummary{
		Summary:         metrics.Summary{TotalCount: 2, AverageScore: 0.5, TopOffersCount: 1, TopThreshold: 0.8},
		SnapshotVersion: f.version,
	}, nil
}

type capturePublisher struct {
	mu     sync.Mutex
	events []any
}

func (p *capturePublisher) Publish(evt any) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return true
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type fakeTrigger struct {
	mu      sync.Mutex
	queries []string
	fail    map[string]bool
}

func (f *fakeTrigger) Trigger(_ context.Context, query, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.fail[query] {
		return "", errors.New("collector down")
	}
	return "task-" + query, nil
}

func (f *fakeTrigger) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.queries...)
	sort.Strings(out)
	return out
}

type fakeLocker struct {
	available bool
	acquired  bool
	key       string
}

func (l *fakeLocker) Available() bool { return l.available }

func (l *fakeLocker) SetIfNotExists(_ context.Context, key string, _ string, _ time.Duration) (bool, error) {
	l.key = key
	return l.acquired, nil
}

func TestRefreshOnce_BroadcastsOnVersionChange(t *testing.T) {
	src := &fakeSource{version: "mem-1"}
	pub := &capturePublisher{}
	r := New(Options{}, src, nil, pub, nil, nil)
	fixed := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }
	ctx := context.Background()

	changed, err := r.RefreshOnce(ctx)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = r.RefreshOnce(ctx)
	require.NoError(t, err)
	assert.False(t, changed)

	src.set("mem-2")
	changed, err = r.RefreshOnce(ctx)
	require.NoError(t, err)
	assert.True(t, changed)

	require.Equal(t, 2, pub.count())
	evt, ok := pub.events[1].(ws.SummaryRefreshedEvent)
	require.True(t, ok)
	assert.Equal(t, ws.EventSummaryRefreshed, evt.Type)
	assert.Equal(t, "mem-2", evt.SnapshotVersion)
	assert.Equal(t, 2, evt.TotalCount)
	assert.Equal(t, "2024-07-01T08:00:00Z", evt.Timestamp)
}

func TestRefreshOnce_Error(t *testing.T) {
	boom := errors.New("boom")
	pub := &capturePublisher{}
	r := New(Options{}, &fakeSource{err: boom}, nil, pub, nil, nil)

	_, err := r.RefreshOnce(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, pub.count())
}

func TestSearchOnce_RunsEveryQuery(t *testing.T) {
	trig := &fakeTrigger{fail: map[string]bool{"rust": true}}
	r := New(Options{
		SearchQueries: []string{" golang ", "", "rust", "python"},
		SearchWorkers: 2,
	}, &fakeSource{}, trig, nil, nil, nil)

	ok := r.SearchOnce(context.Background())
	assert.Equal(t, 2, ok)
	assert.Equal(t, []string{"golang", "python", "rust"}, trig.seen())
}

func TestSearchOnce_Disabled(t *testing.T) {
	r := New(Options{SearchQueries: []string{"go"}}, &fakeSource{}, nil, nil, nil, nil)
	assert.Zero(t, r.SearchOnce(context.Background()))

	trig := &fakeTrigger{}
	r = New(Options{}, &fakeSource{}, trig, nil, nil, nil)
	assert.Zero(t, r.SearchOnce(context.Background()))
	assert.Empty(t, trig.seen())
}

func TestSearchOnce_Lock(t *testing.T) {
	trig := &fakeTrigger{}
	held := &fakeLocker{available: true, acquired: false}
	r := New(Options{SearchQueries: []string{"go"}}, &fakeSource{}, trig, nil, held, nil)

	assert.Zero(t, r.SearchOnce(context.Background()))
	assert.Empty(t, trig.seen())
	assert.Equal(t, usecase.SearchLockKey(), held.key)

	down := &fakeLocker{available: false}
	r = New(Options{SearchQueries: []string{"go"}}, &fakeSource{}, trig, nil, down, nil)
	assert.Equal(t, 1, r.SearchOnce(context.Background()))
}

func TestStart_InvalidSchedule(t *testing.T) {
	r := New(Options{Schedule: "every now and then"}, &fakeSource{}, nil, nil, nil, nil)
	err := r.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh")
}

func TestStart_RunsImmediatelyAndStops(t *testing.T) {
	src := &fakeSource{version: "mem-7"}
	pub := &capturePublisher{}
	trig := &fakeTrigger{}
	r := New(Options{Schedule: "@every 1h", SearchQueries: []string{"go"}}, src, trig, pub, nil, nil)

	require.NoError(t, r.Start(context.Background()))
	require.Eventually(t, func() bool { return pub.count() == 1 && len(trig.seen()) == 1 }, 2*time.Second, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestStart_NilSource(t *testing.T) {
	r := New(Options{}, nil, nil, nil, nil, nil)
	assert.Error(t, r.Start(context.Background()))
}
