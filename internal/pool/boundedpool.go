package pool

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// BoundedThreadPool bounds fan-out to a fixed worker count using a weighted
// semaphore, running each job inside an errgroup so a panicking job's
// recovered error doesn't take down the group. This is the library-backed
// "work-stealing" collaborator: the semaphore decides how many jobs run at
// once, not a manually scheduled work-stealing deque.
type BoundedThreadPool struct {
	sem   *semaphore.Weighted
	group *errgroup.Group
	ctx   context.Context
	mu    sync.Mutex
	done  bool
}

// NewBoundedThreadPool bounds concurrent jobs to workers. A workers value
// below 1 is treated as 1.
func NewBoundedThreadPool(workers int) (*BoundedThreadPool, error) {
	if workers < 1 {
		workers = 1
	}

	group, ctx := errgroup.WithContext(context.Background())
	return &BoundedThreadPool{
		sem:   semaphore.NewWeighted(int64(workers)),
		group: group,
		ctx:   ctx,
	}, nil
}

// Spawn blocks until a worker slot is free, then runs job in it. A job
// panic is recovered and swallowed, matching the other variants' guarantee
// that one bad job never shrinks the pool.
func (p *BoundedThreadPool) Spawn(job Job) {
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	if err := p.sem.Acquire(p.ctx, 1); err != nil {
		return
	}

	p.group.Go(func() error {
		defer p.sem.Release(1)
		defer func() { recover() }()
		job()
		return nil
	})
}

// Close stops accepting new jobs and waits for every already-spawned job to
// finish.
func (p *BoundedThreadPool) Close() error {
	p.mu.Lock()
	p.done = true
	p.mu.Unlock()

	return p.group.Wait()
}
