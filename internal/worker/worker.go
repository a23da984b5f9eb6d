// Package worker runs independent jobs on a bounded pool of goroutines.
package worker

import (
	"context"
	"runtime"
	"strconv"
	"sync"

	"github.com/okian/eventdash/pkg/logger"
	"github.com/okian/eventdash/pkg/metrics"
)

// Job is one unit of work. A job owns its result; the pool only schedules it.
type Job func(ctx context.Context)

// Pool runs batches of jobs on at most Size goroutines at a time.
type Pool struct {
	size   int
	name   string
	logger logger.Logger
}

// NewPool creates a pool of size workers. A size below 1 means one worker
// per CPU.
func NewPool(size int, opts ...Option) *Pool {
	if size < 1 {
		size = runtime.NumCPU()
	}
	p := &Pool{
		size:   size,
		name:   "worker-pool",
		logger: logger.Get().Named("worker-pool"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Size returns the maximum number of concurrent workers.
func (p *Pool) Size() int { return p.size }

// Run executes jobs and blocks until every started job has returned. Jobs
// not yet handed to a worker when ctx is done are skipped and ctx.Err() is
// returned.
func (p *Pool) Run(ctx context.Context, jobs []Job) error {
	if len(jobs) == 0 {
		return ctx.Err()
	}

	workers := min(p.size, len(jobs))
	jobCh := make(chan Job)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(id int) {
			defer wg.Done()
			p.work(ctx, "worker-"+strconv.Itoa(id), jobCh)
		}(i)
	}

dispatch:
	for _, job := range jobs {
		select {
		case <-ctx.Done():
			break dispatch
		case jobCh <- job:
		}
	}
	close(jobCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		p.logger.Warn(ctx, "pool run interrupted", logger.String("pool", p.name), logger.Error(err))
		return err
	}
	return nil
}

// work runs jobs from jobCh until it is closed.
func (p *Pool) work(ctx context.Context, name string, jobCh <-chan Job) {
	for job := range jobCh {
		metrics.UpdateWorkerBusy(p.name, 1)
		job(ctx)
		metrics.UpdateWorkerBusy(p.name, -1)
		metrics.RecordWorkerJob(p.name)
		p.logger.Debug(ctx, "job done", logger.String("pool", p.name), logger.String("worker", name))
	}
}
