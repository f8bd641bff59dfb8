// Package workerpool provides a fixed-size pool of goroutines. It
// implements the Submit contract parallel stream evaluation expects, but
// has no dependency on the stream package and can schedule any work.
package workerpool

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrPoolSize is returned when the requested pool size is below one.
	ErrPoolSize = errors.New("pool size must be at least 1")
	// ErrPoolClosed is returned by Submit after Wait was called or after
	// the pool context was cancelled.
	ErrPoolClosed = errors.New("pool no longer accepts work")
)

// Pool runs submitted tasks on at most size goroutines. Submit blocks while
// every worker is busy. A Pool is live until Wait is called.
type Pool struct {
	grp    *errgroup.Group
	ctx    context.Context
	closed atomic.Bool
}

// New creates a pool running at most size tasks concurrently. Cancelling
// ctx closes the pool: queued tasks still run, new submissions fail.
func New(ctx context.Context, size int) (*Pool, error) {
	if size < 1 {
		return nil, errors.Wrapf(ErrPoolSize, "got %d", size)
	}

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(size)

	return &Pool{grp: grp, ctx: grpCtx}, nil
}

// Submit schedules task on the pool, blocking until a worker is available.
func (p *Pool) Submit(task func()) error {
	if task == nil {
		panic("workerpool: Submit requires a non-nil task")
	}
	if p.closed.Load() {
		return errors.WithStack(ErrPoolClosed)
	}
	if err := p.ctx.Err(); err != nil {
		return errors.Wrap(ErrPoolClosed, err.Error())
	}

	p.grp.Go(func() error {
		task()

		return nil
	})

	return nil
}

// Wait closes the pool and blocks until every submitted task finished.
func (p *Pool) Wait() error {
	p.closed.Store(true)

	return errors.Wrap(p.grp.Wait(), "pool wait")
}
