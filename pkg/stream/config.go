package stream

import "github.com/pkg/errors"

// Pool is the worker-pool collaborator used by parallel evaluation. Submit
// schedules one unit of work; it may block until a worker is available and
// returns an error when the pool no longer accepts work. The pool's
// lifetime is owned by the caller: the stream submits work during one
// terminal call and retains no reference afterwards.
type Pool interface {
	Submit(task func()) error
}

// ParallelConfig describes the concurrent execution strategy: the worker
// pool to borrow, how many contiguous elements each dispatched unit of work
// carries, and whether results must preserve source order.
type ParallelConfig struct {
	pool      Pool
	chunkSize int
	ordered   bool
}

// ParallelOption configures a ParallelConfig.
type ParallelOption func(cfg *ParallelConfig)

// WithChunkSize sets how many elements are batched per dispatched unit of
// work. Default is 1.
func WithChunkSize(n int) ParallelOption {
	return func(cfg *ParallelConfig) {
		cfg.chunkSize = n
	}
}

// WithOrdered requests that results preserve source order, trading latency
// for determinism. Default is unordered: results arrive as chunks complete.
func WithOrdered() ParallelOption {
	return func(cfg *ParallelConfig) {
		cfg.ordered = true
	}
}

// NewParallelConfig builds a configuration around the caller-owned pool.
func NewParallelConfig(pool Pool, opts ...ParallelOption) (*ParallelConfig, error) {
	if pool == nil {
		return nil, errors.WithStack(ErrNilPool)
	}

	cfg := &ParallelConfig{pool: pool, chunkSize: 1}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.chunkSize < 1 {
		return nil, errors.Wrapf(ErrChunkSize, "got %d", cfg.chunkSize)
	}

	return cfg, nil
}

// ChunkSize returns the configured chunk size.
func (cfg *ParallelConfig) ChunkSize() int {
	return cfg.chunkSize
}

// Ordered reports whether ordered result delivery was requested.
func (cfg *ParallelConfig) Ordered() bool {
	return cfg.ordered
}
