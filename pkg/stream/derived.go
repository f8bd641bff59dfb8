package stream

import (
	"context"
	"sort"
	"sync/atomic"
)

// snapshot returns a private copy of s, detached from its consumed marker
// and observers, that a derived stream can evaluate as its upstream without
// consuming the caller-visible instance. Observers only watch the outermost
// evaluation.
func (s *Stream[T]) snapshot() *Stream[T] {
	child := *s
	child.consumed = &atomic.Bool{}
	child.opts = nil

	return &child
}

// deriveSource builds a stream whose source lazily evaluates s with the
// strategy in force at terminal time, then reshapes the value flow through
// wrap. The new stream starts with an empty operation list.
func (s *Stream[T]) deriveSource(name string, wrap func(next pull, stop func()) pull) *Stream[T] {
	parent := s.snapshot()
	child := newStream[T](func(ctx context.Context, cfg *ParallelConfig, ordered bool) (pull, func(), error) {
		up := parent.snapshot()
		up.cfg = cfg
		up.ordered = ordered

		next, stop, err := up.iterate(ctx)
		if err != nil {
			return nil, nil, err
		}

		return wrap(next, stop), stop, nil
	})
	child.stages[0].Name = name
	child.cfg = s.cfg
	child.ordered = s.ordered
	child.opts = s.opts
	child.err = s.chainErr()

	return child
}

// Limit truncates the stream to at most n elements. A non-positive n yields
// an empty stream.
func (s *Stream[T]) Limit(n int) *Stream[T] {
	return s.deriveSource("limit", func(next pull, stop func()) pull {
		count := 0

		return func() (any, bool, error) {
			if count >= n {
				stop()

				return nil, false, nil
			}
			v, ok, err := next()
			if err != nil || !ok {
				stop()

				return nil, false, err
			}
			count++

			return v, true, nil
		}
	})
}

// Skip discards the first n elements.
func (s *Stream[T]) Skip(n int) *Stream[T] {
	return s.deriveSource("skip", func(next pull, stop func()) pull {
		skipped := 0

		return func() (any, bool, error) {
			for {
				v, ok, err := next()
				if err != nil || !ok {
					stop()

					return nil, false, err
				}
				if skipped < n {
					skipped++

					continue
				}

				return v, true, nil
			}
		}
	})
}

// TakeWhile keeps elements until the first one that does not match pred.
func (s *Stream[T]) TakeWhile(pred func(T) bool) *Stream[T] {
	if pred == nil {
		panic("stream: TakeWhile requires a non-nil predicate")
	}

	return s.deriveSource("takeWhile", func(next pull, stop func()) pull {
		done := false

		return func() (any, bool, error) {
			if done {
				return nil, false, nil
			}
			v, ok, err := next()
			if err != nil || !ok {
				stop()

				return nil, false, err
			}
			if !pred(v.(T)) {
				done = true
				stop()

				return nil, false, nil
			}

			return v, true, nil
		}
	})
}

// DropWhile discards elements until the first one that does not match pred,
// then keeps everything.
func (s *Stream[T]) DropWhile(pred func(T) bool) *Stream[T] {
	if pred == nil {
		panic("stream: DropWhile requires a non-nil predicate")
	}

	return s.deriveSource("dropWhile", func(next pull, stop func()) pull {
		dropping := true

		return func() (any, bool, error) {
			for {
				v, ok, err := next()
				if err != nil || !ok {
					stop()

					return nil, false, err
				}
				if dropping && pred(v.(T)) {
					continue
				}
				dropping = false

				return v, true, nil
			}
		}
	})
}

// Sorted reorders the stream with cmp (negative when a sorts before b). The
// upstream is fully materialised; the resulting stream is ordered.
func (s *Stream[T]) Sorted(cmp func(a, b T) int) *Stream[T] {
	if cmp == nil {
		panic("stream: Sorted requires a non-nil comparator")
	}

	child := s.deriveSource("sorted", func(next pull, stop func()) pull {
		var (
			values []any
			loaded bool
			idx    int
			err    error
		)

		return func() (any, bool, error) {
			if !loaded {
				loaded = true
				values, err = drain(next)
				stop()
				if err != nil {
					return nil, false, err
				}
				sort.SliceStable(values, func(i, j int) bool {
					return cmp(values[i].(T), values[j].(T)) < 0
				})
			}
			if idx >= len(values) {
				return nil, false, nil
			}
			v := values[idx]
			idx++

			return v, true, nil
		}
	})

	return child.OrderedExecution(true)
}

// Distinct removes duplicate elements, keeping first occurrences.
func Distinct[T comparable](s *Stream[T]) *Stream[T] {
	return s.deriveSource("distinct", func(next pull, stop func()) pull {
		seen := make(map[T]struct{})

		return func() (any, bool, error) {
			for {
				v, ok, err := next()
				if err != nil || !ok {
					stop()

					return nil, false, err
				}
				tv := v.(T)
				if _, dup := seen[tv]; dup {
					continue
				}
				seen[tv] = struct{}{}

				return v, true, nil
			}
		}
	})
}

// FlatMap replaces every element with the elements of the stream fn returns
// for it, preserving per-element order. Each inner stream is evaluated with
// its own strategy; a nil inner stream contributes nothing.
func FlatMap[T, R any](s *Stream[T], fn func(T) *Stream[R]) *Stream[R] {
	if fn == nil {
		panic("stream: FlatMap requires a non-nil fn")
	}

	parent := s.snapshot()
	child := newStream[R](func(ctx context.Context, cfg *ParallelConfig, ordered bool) (pull, func(), error) {
		up := parent.snapshot()
		up.cfg = cfg
		up.ordered = ordered

		next, stop, err := up.iterate(ctx)
		if err != nil {
			return nil, nil, err
		}

		var (
			buf []any
			idx int
		)

		return func() (any, bool, error) {
			for {
				if idx < len(buf) {
					v := buf[idx]
					idx++

					return v, true, nil
				}

				v, ok, err := next()
				if err != nil || !ok {
					stop()

					return nil, false, err
				}
				inner := fn(v.(T))
				if inner == nil {
					continue
				}
				innerNext, innerStop, err := inner.iterate(ctx)
				if err != nil {
					stop()

					return nil, false, err
				}
				buf, err = drain(innerNext)
				innerStop()
				if err != nil {
					stop()

					return nil, false, err
				}
				idx = 0
			}
		}, stop, nil
	})
	child.stages[0].Name = "flatMap"
	child.cfg = s.cfg
	child.ordered = s.ordered
	child.opts = s.opts
	child.err = s.chainErr()

	return child
}

func drain(next pull) ([]any, error) {
	var values []any
	for {
		v, ok, err := next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return values, nil
		}
		values = append(values, v)
	}
}
