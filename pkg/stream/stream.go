package stream

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/askiada/go-flow/internal/chain"
)

// pull returns the next source value. ok is false once the source is
// exhausted.
type pull func() (v any, ok bool, err error)

// sourceFn opens the source for one evaluation. Derived streams re-plan
// their upstream with the strategy in force at terminal time, which is why
// the strategy travels with the call. stop releases evaluation resources
// held by the source; callers invoke it on every exit path and it is safe
// to call more than once.
type sourceFn func(ctx context.Context, cfg *ParallelConfig, ordered bool) (pull, func(), error)

// Stream is an immutable descriptor of a lazy sequence pipeline. See the
// package documentation for the evaluation model.
type Stream[T any] struct {
	src      sourceFn
	ops      chain.Chain
	stages   []*StageInfo
	cfg      *ParallelConfig
	ordered  bool
	opts     []Option
	consumed *atomic.Bool
	err      error
}

// Of returns a stream over the given elements.
func Of[T any](values ...T) *Stream[T] {
	return OfSlice(values)
}

// Empty returns a stream with no elements.
func Empty[T any]() *Stream[T] {
	return Of[T]()
}

// OfSlice returns a stream over the elements of s. The slice is not copied;
// it must not be mutated until the stream is consumed.
func OfSlice[T any](s []T) *Stream[T] {
	return newStream[T](func(context.Context, *ParallelConfig, bool) (pull, func(), error) {
		i := 0

		return func() (any, bool, error) {
			if i >= len(s) {
				return nil, false, nil
			}
			v := s[i]
			i++

			return v, true, nil
		}, func() {}, nil
	})
}

// OfSeq returns a stream pulling elements from next until it reports false.
func OfSeq[T any](next func() (T, bool)) *Stream[T] {
	if next == nil {
		panic("stream: OfSeq requires a non-nil next")
	}

	return newStream[T](func(context.Context, *ParallelConfig, bool) (pull, func(), error) {
		return func() (any, bool, error) {
			v, ok := next()
			if !ok {
				return nil, false, nil
			}

			return v, true, nil
		}, func() {}, nil
	})
}

func newStream[T any](src sourceFn) *Stream[T] {
	return &Stream[T]{
		src:      src,
		stages:   []*StageInfo{newStage("source", 0)},
		consumed: &atomic.Bool{},
	}
}

// derive returns a copy of s with one operation appended. The copy gets its
// own consumed marker so that s stays usable as a shared prefix.
func (s *Stream[T]) derive(name string, op chain.Handler) *Stream[T] {
	child := *s
	child.ops = s.ops.Append(op)
	child.stages = append(append([]*StageInfo(nil), s.stages...), newStage(name, len(s.stages)))
	child.consumed = &atomic.Bool{}
	child.err = s.chainErr()

	return &child
}

// retype rebuilds s as a stream of R. Only used by type-changing operations
// which already erased the new element type into the op chain.
func retype[T, R any](s *Stream[T]) *Stream[R] {
	return &Stream[R]{
		src:      s.src,
		ops:      s.ops,
		stages:   s.stages,
		cfg:      s.cfg,
		ordered:  s.ordered,
		opts:     s.opts,
		consumed: s.consumed,
		err:      s.err,
	}
}

func (s *Stream[T]) chainErr() error {
	if s.err != nil {
		return s.err
	}
	if s.consumed.Load() {
		return errors.WithStack(ErrAlreadyConsumed)
	}

	return nil
}

// WithOptions attaches evaluation observers (measure, drawer). Each option
// is initialised here; the stream reports their stage layout and timings
// during its terminal call.
func (s *Stream[T]) WithOptions(opts ...Option) (*Stream[T], error) {
	for _, opt := range opts {
		if err := opt.New(); err != nil {
			return nil, errors.Wrap(err, "unable to apply stream option")
		}
	}

	child := *s
	child.opts = append(append([]Option(nil), s.opts...), opts...)

	return &child, nil
}

// Map appends a transformation applied to every element.
func Map[T, R any](s *Stream[T], fn func(T) R) *Stream[R] {
	if fn == nil {
		panic("stream: Map requires a non-nil fn")
	}

	return retype[T, R](s.derive("map", func(v any) chain.Outcome {
		return chain.Outcome{Value: fn(v.(T)), Next: true}
	}))
}

// MapErr appends a transformation that may fail. A returned error aborts
// the terminal operation and surfaces unchanged.
func MapErr[T, R any](s *Stream[T], fn func(T) (R, error)) *Stream[R] {
	if fn == nil {
		panic("stream: MapErr requires a non-nil fn")
	}

	return retype[T, R](s.derive("map", func(v any) chain.Outcome {
		r, err := fn(v.(T))

		return chain.Outcome{Value: r, Next: err == nil, Err: err}
	}))
}

// Filter appends a predicate; elements that do not match are excluded
// before any later stage runs on them.
func (s *Stream[T]) Filter(pred func(T) bool) *Stream[T] {
	if pred == nil {
		panic("stream: Filter requires a non-nil predicate")
	}

	return s.derive("filter", func(v any) chain.Outcome {
		return chain.Outcome{Value: v, Next: pred(v.(T))}
	})
}

// Peek appends a side-effecting consumer that observes every element
// reaching this stage, without altering it.
func (s *Stream[T]) Peek(consumer func(T)) *Stream[T] {
	if consumer == nil {
		panic("stream: Peek requires a non-nil consumer")
	}

	return s.derive("peek", func(v any) chain.Outcome {
		consumer(v.(T))

		return chain.Outcome{Value: v, Next: true}
	})
}

// Parallel switches the stream to the concurrent execution strategy. It
// must be called before the terminal operation; on a consumed stream it
// fails with ErrAlreadyConsumed.
func (s *Stream[T]) Parallel(cfg *ParallelConfig) (*Stream[T], error) {
	if cfg == nil {
		return nil, errors.WithStack(ErrNilPool)
	}
	if err := s.chainErr(); err != nil {
		return nil, err
	}

	// The copy shares the consumed marker: a strategy change reconfigures
	// the same stream rather than deriving a reusable prefix.
	child := *s
	child.cfg = cfg
	child.ordered = s.ordered || cfg.ordered

	return &child, nil
}

// Sequential returns the stream with the sequential strategy restored.
func (s *Stream[T]) Sequential() *Stream[T] {
	if s.cfg == nil {
		return s
	}
	child := *s
	child.cfg = nil

	return &child
}

// IsParallel reports whether the concurrent strategy is in force.
func (s *Stream[T]) IsParallel() bool {
	return s.cfg != nil
}

// OrderedExecution sets whether results of a parallel evaluation must
// preserve source order.
func (s *Stream[T]) OrderedExecution(ordered bool) *Stream[T] {
	if s.ordered == ordered {
		return s
	}
	child := *s
	child.ordered = ordered

	return &child
}

// Unordered lets results of a parallel evaluation arrive in completion
// order.
func (s *Stream[T]) Unordered() *Stream[T] {
	return s.OrderedExecution(false)
}
