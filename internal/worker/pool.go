package worker

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrPoolClosed = errors.New("worker pool closed")

type Task func(ctx context.Context) error

type Job struct {
	Name string
	Run  Task
}

type Result struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Pool runs submitted jobs on a fixed set of goroutines, optionally spacing
// job starts with a shared ticker.
type Pool struct {
	workers int
	jobs    chan Job

	wg sync.WaitGroup

	// submitMu guards closed and the send side of jobs; mu guards the rate
	// limiter. Workers only ever take mu.
	submitMu sync.RWMutex
	closed   bool

	mu     sync.RWMutex
	rate   <-chan time.Time
	ticker *time.Ticker
}

func NewPool(workers, buffer int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, buffer),
	}
}

// SetRateLimit caps job starts across all workers. rps <= 0 removes the cap.
// The ticker keeps running until the workers exit so that a worker already
// waiting on it is never stranded.
func (p *Pool) SetRateLimit(rps int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if rps <= 0 {
		p.rate = nil
		return
	}
	interval := time.Second / time.Duration(rps)
	if p.ticker == nil {
		p.ticker = time.NewTicker(interval)
	} else {
		p.ticker.Reset(interval)
	}
	p.rate = p.ticker.C
}

func (p *Pool) stopTicker() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
	}
	p.rate = nil
}

// Submit blocks while the buffer is full.
func (p *Pool) Submit(ctx context.Context, j Job) error {
	if p == nil || j.Run == nil {
		return nil
	}
	p.submitMu.RLock()
	defer p.submitMu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- j:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.submitMu.Lock()
	if p.closed {
		p.submitMu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.submitMu.Unlock()
}

// Run starts the workers. The returned channel is closed once every worker
// has exited, either because Close drained the queue or ctx ended.
func (p *Pool) Run(ctx context.Context) <-chan Result {
	if p == nil {
		out := make(chan Result)
		close(out)
		return out
	}
	out := make(chan Result, p.workers*64)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.loop(ctx, out)
	}

	go func() {
		p.wg.Wait()
		p.stopTicker()
		close(out)
	}()

	return out
}

func (p *Pool) loop(ctx context.Context, out chan<- Result) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-p.jobs:
			if !ok {
				return
			}

			p.mu.RLock()
			rate := p.rate
			p.mu.RUnlock()
			if rate != nil {
				select {
				case <-ctx.Done():
					return
				case <-rate:
				}
			}

			start := time.Now()
			err := j.Run(ctx)
			select {
			case <-ctx.Done():
				return
			case out <- Result{Name: j.Name, Err: err, Duration: time.Since(start)}:
			}
		}
	}
}
