package stream

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-flow/internal/chain"
	"github.com/askiada/go-flow/pkg/future"
)

// erasedCollector is the untyped mirror of collector.Collector used by the
// evaluation core. Typed terminal operations erase their collector at the
// boundary.
type erasedCollector struct {
	supply     func() any
	accumulate func(acc, v any) any
	combine    func(left, right any) any
}

func sliceAnyCollector() erasedCollector {
	return erasedCollector{
		supply: func() any { return []any(nil) },
		accumulate: func(acc, v any) any {
			return append(acc.([]any), v)
		},
		combine: func(left, right any) any {
			return append(left.([]any), right.([]any)...)
		},
	}
}

// chunkResult is what one dispatched unit of work produces: the chunk's
// partial accumulation and whether downstream chunks are still wanted
// (stop-on-first support).
type chunkResult struct {
	acc  any
	cont bool
}

// collectAny runs the terminal operation. It flips the consumed marker,
// wires observers, picks the strategy and folds everything through coll.
func (s *Stream[T]) collectAny(ctx context.Context, terminal string, coll erasedCollector, stopOnFirst bool) (any, error) {
	if s.err != nil {
		return nil, s.err
	}
	if !s.consumed.CompareAndSwap(false, true) {
		return nil, errors.Wrap(ErrAlreadyConsumed, terminal)
	}

	start := time.Now()
	run, obs, err := s.runner(terminal)
	if err != nil {
		return nil, err
	}

	out, err := s.evaluate(ctx, coll, stopOnFirst, run)

	finishErr := obs.finish(time.Since(start))
	if err != nil {
		return nil, err
	}
	if finishErr != nil {
		return nil, finishErr
	}
	if obsErr := obs.firstError(); obsErr != nil {
		return nil, obsErr
	}

	return out, nil
}

func (s *Stream[T]) evaluate(ctx context.Context, coll erasedCollector, stopOnFirst bool, run func(any) chain.Outcome) (any, error) {
	src, stopSrc, err := s.src(ctx, s.cfg, s.ordered)
	if err != nil {
		return nil, err
	}
	// Released on every exit path, including op-chain failures that abandon
	// the source mid-pull.
	defer stopSrc()

	if s.cfg == nil {
		acc, _, err := runValues(ctx, src, run, coll, stopOnFirst)

		return acc, err
	}

	return runParallel(ctx, src, s.cfg, s.ordered, stopOnFirst, run, coll)
}

// runValues applies the operation chain to every value of next, in order,
// one value fully pipelined before the next starts. The second return
// reports whether processing should continue past this batch; it is false
// only when stopOnFirst captured a result.
func runValues(ctx context.Context, next pull, run func(any) chain.Outcome, coll erasedCollector, stopOnFirst bool) (any, bool, error) {
	acc := coll.supply()
	for {
		select {
		case <-ctx.Done():
			return nil, false, errors.Wrap(ctx.Err(), "stream evaluation")
		default:
		}

		v, ok, err := next()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return acc, true, nil
		}

		out := run(v)
		if out.Err != nil {
			return nil, false, out.Err
		}
		if !out.Next {
			// The element was excluded by a filter stage.
			continue
		}

		acc = coll.accumulate(acc, out.Value)
		if stopOnFirst {
			return acc, false, nil
		}
	}
}

// runParallel cuts the source into contiguous chunks of cfg.ChunkSize
// elements (the whole source is drawn up front, as chunk submission needs
// the full set of work units) and dispatches each chunk to the pool. Chunk
// results are merged in submission order when ordered, in completion order
// otherwise. The first failure cancels the evaluation context so that
// not-yet-started chunks exit early; chunks already computed are discarded.
func runParallel(
	ctx context.Context,
	src pull,
	cfg *ParallelConfig,
	ordered bool,
	stopOnFirst bool,
	run func(any) chain.Outcome,
	coll erasedCollector,
) (any, error) {
	dCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	chunks, err := drainChunks(src, cfg.ChunkSize())
	if err != nil {
		return nil, err
	}

	futs, completions, err := submitChunks(dCtx, cfg.pool, chunks, run, coll, stopOnFirst)
	if err != nil {
		return nil, err
	}

	acc := coll.supply()
	if ordered {
		for _, fut := range futs {
			res, err := fut.Await(dCtx)
			if err != nil {
				return nil, err
			}
			acc = coll.combine(acc, res.acc)
			if !res.cont {
				break
			}
		}

		return acc, nil
	}

	for received := 0; received < len(futs); received++ {
		fut := <-completions
		res, err := fut.Await(dCtx)
		if err != nil {
			return nil, err
		}
		acc = coll.combine(acc, res.acc)
		if !res.cont {
			break
		}
	}

	return acc, nil
}

func drainChunks(src pull, chunkSize int) ([][]any, error) {
	var chunks [][]any
	chunk := make([]any, 0, chunkSize)
	for {
		v, ok, err := src()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		chunk = append(chunk, v)
		if len(chunk) == chunkSize {
			chunks = append(chunks, chunk)
			chunk = make([]any, 0, chunkSize)
		}
	}
	if len(chunk) > 0 {
		chunks = append(chunks, chunk)
	}

	return chunks, nil
}

// submitChunks dispatches every chunk as one unit of work. The completions
// channel is buffered for all chunks so workers never block on delivery;
// tasks resolve their future before announcing completion.
func submitChunks(
	ctx context.Context,
	pool Pool,
	chunks [][]any,
	run func(any) chain.Outcome,
	coll erasedCollector,
	stopOnFirst bool,
) ([]*future.Future[chunkResult], chan *future.Future[chunkResult], error) {
	futs := make([]*future.Future[chunkResult], 0, len(chunks))
	completions := make(chan *future.Future[chunkResult], len(chunks))

	for _, chunk := range chunks {
		chunk := chunk
		fut := future.New[chunkResult]()
		futs = append(futs, fut)

		err := pool.Submit(func() {
			acc, cont, err := runValues(ctx, slicePull(chunk), run, coll, stopOnFirst)
			if err != nil {
				fut.Fail(err)
			} else {
				fut.Complete(chunkResult{acc: acc, cont: cont})
			}
			completions <- fut
		})
		if err != nil {
			fut.Fail(err)

			return nil, nil, errors.Wrap(err, "unable to submit chunk")
		}
	}

	return futs, completions, nil
}

func slicePull(values []any) pull {
	i := 0

	return func() (any, bool, error) {
		if i >= len(values) {
			return nil, false, nil
		}
		v := values[i]
		i++

		return v, true, nil
	}
}

// iterate evaluates the stream into a pull iterator of post-operation
// values, used when a derived stream consumes this one as its source. stop
// releases evaluation resources; it is safe to call more than once.
func (s *Stream[T]) iterate(ctx context.Context) (pull, func(), error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	if !s.consumed.CompareAndSwap(false, true) {
		return nil, nil, errors.WithStack(ErrAlreadyConsumed)
	}

	src, stopSrc, err := s.src(ctx, s.cfg, s.ordered)
	if err != nil {
		return nil, nil, err
	}

	if s.cfg == nil {
		next := func() (any, bool, error) {
			for {
				v, ok, err := src()
				if err != nil || !ok {
					return nil, false, err
				}
				out := s.ops.Run(v)
				if out.Err != nil {
					return nil, false, out.Err
				}
				if out.Next {
					return out.Value, true, nil
				}
			}
		}

		return next, stopSrc, nil
	}

	dCtx, cancel := context.WithCancel(ctx)
	stop := func() {
		stopSrc()
		cancel()
	}

	chunks, err := drainChunks(src, s.cfg.ChunkSize())
	if err != nil {
		stop()

		return nil, nil, err
	}
	futs, completions, err := submitChunks(dCtx, s.cfg.pool, chunks, s.ops.Run, sliceAnyCollector(), false)
	if err != nil {
		stop()

		return nil, nil, err
	}

	var (
		current []any
		idx     int
		served  int
	)
	next := func() (any, bool, error) {
		for {
			if idx < len(current) {
				v := current[idx]
				idx++

				return v, true, nil
			}
			if served == len(futs) {
				return nil, false, nil
			}

			var fut *future.Future[chunkResult]
			if s.ordered {
				fut = futs[served]
			} else {
				fut = <-completions
			}
			served++

			res, err := fut.Await(dCtx)
			if err != nil {
				stop()

				return nil, false, err
			}
			current, _ = res.acc.([]any)
			idx = 0
		}
	}

	return next, stop, nil
}

// observers bundles the options attached to a stream for one evaluation.
type observers struct {
	opts   []Option
	stages []*StageInfo

	mu  sync.Mutex
	err error
}

// runner prepares the stage layout with every observer and returns the
// chain runner to use for this evaluation: the plain chain when nothing
// observes, an instrumented one otherwise.
func (s *Stream[T]) runner(terminal string) (func(any) chain.Outcome, *observers, error) {
	obs := &observers{opts: s.opts}
	if len(s.opts) == 0 {
		return s.ops.Run, obs, nil
	}

	stages := append(append([]*StageInfo(nil), s.stages...), newStage(terminal, len(s.stages)))
	obs.stages = stages

	for _, opt := range s.opts {
		for i, stage := range stages {
			var parent *StageInfo
			if i > 0 {
				parent = stages[i-1]
			}
			if err := opt.PrepareStage(parent, stage); err != nil {
				return nil, nil, errors.Wrap(err, "unable to prepare stage")
			}
		}
	}

	run := func(v any) chain.Outcome {
		return s.ops.RunEach(v, func(idx int) func() {
			start := time.Now()

			return func() {
				obs.onStageOutput(stages[idx+1], time.Since(start))
			}
		})
	}

	return run, obs, nil
}

func (o *observers) onStageOutput(stage *StageInfo, elapsed time.Duration) {
	for _, opt := range o.opts {
		if err := opt.OnStageOutput(stage, elapsed); err != nil {
			o.mu.Lock()
			if o.err == nil {
				o.err = errors.Wrap(err, "stage output observer")
			}
			o.mu.Unlock()
		}
	}
}

func (o *observers) firstError() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.err
}

func (o *observers) finish(total time.Duration) error {
	for _, opt := range o.opts {
		if err := opt.Finish(total); err != nil {
			return errors.Wrap(err, "unable to finish stream option")
		}
	}

	return nil
}
