package stream

import (
	"context"

	"github.com/askiada/go-flow/internal/chain"
	"github.com/askiada/go-flow/pkg/collector"
	"github.com/askiada/go-flow/pkg/optional"
)

func eraseCollector[T, R any](c collector.Collector[T, R]) erasedCollector {
	return erasedCollector{
		supply: func() any { return c.Supplier() },
		accumulate: func(acc, v any) any {
			return c.Accumulator(acc.(R), v.(T))
		},
		combine: func(left, right any) any {
			return c.Combiner(left.(R), right.(R))
		},
	}
}

// Collect is terminal: it evaluates the stream and reduces every element
// through c.
func Collect[T, R any](ctx context.Context, s *Stream[T], c collector.Collector[T, R]) (R, error) {
	out, err := s.collectAny(ctx, "collect", eraseCollector(c), false)
	if err != nil {
		var zero R

		return zero, err
	}

	return out.(R), nil
}

// ToSlice is terminal: it evaluates the stream into a slice.
func (s *Stream[T]) ToSlice(ctx context.Context) ([]T, error) {
	out, err := s.collectAny(ctx, "toSlice", eraseCollector(collector.Slice[T]()), false)
	if err != nil {
		return nil, err
	}

	return out.([]T), nil
}

// ToMap is terminal: it evaluates the stream into a map keyed by keyFn. A
// later element wins on key collision; under unordered parallel evaluation
// the winner is therefore nondeterministic.
func ToMap[T any, K comparable, V any](ctx context.Context, s *Stream[T], keyFn func(T) K, valFn func(T) V) (map[K]V, error) {
	out, err := s.collectAny(ctx, "toMap", eraseCollector(collector.ToMap(keyFn, valFn)), false)
	if err != nil {
		return nil, err
	}

	return out.(map[K]V), nil
}

// Count is terminal: it evaluates the stream and counts its elements.
func (s *Stream[T]) Count(ctx context.Context) (int64, error) {
	out, err := s.collectAny(ctx, "count", eraseCollector(collector.Counting[T]()), false)
	if err != nil {
		return 0, err
	}

	return out.(int64), nil
}

// Reduce is terminal: it folds every element onto identity with
// accumulator. Chunk results of a parallel evaluation are merged with the
// same accumulator, so it should be associative.
func (s *Stream[T]) Reduce(ctx context.Context, identity T, accumulator func(T, T) T) (T, error) {
	if accumulator == nil {
		panic("stream: Reduce requires a non-nil accumulator")
	}
	out, err := s.collectAny(ctx, "reduce", eraseCollector(collector.Reducing(identity, accumulator)), false)
	if err != nil {
		var zero T

		return zero, err
	}

	return out.(T), nil
}

// consume marks an internally derived child and the receiver as one stream
// for the single-use rule: terminals that evaluate through a derivation must
// still flip the receiver's consumed marker.
func (s *Stream[T]) consume(child *Stream[T]) *Stream[T] {
	child.consumed = s.consumed

	return child
}

// ForEach is terminal: it evaluates the stream and runs consumer on every
// element, discarding results.
func (s *Stream[T]) ForEach(ctx context.Context, consumer func(T)) error {
	if consumer == nil {
		panic("stream: ForEach requires a non-nil consumer")
	}
	_, err := s.consume(s.Peek(consumer)).collectAny(ctx, "forEach", eraseCollector(collector.Discard[T]()), false)

	return err
}

// FindAny is terminal: it evaluates the stream until any one element made
// it through the operation list, stopping the evaluation as soon as
// possible. Under unordered parallel evaluation any chunk may win.
func (s *Stream[T]) FindAny(ctx context.Context) (optional.Optional[T], error) {
	out, err := s.collectAny(ctx, "findAny", sliceAnyCollector(), true)
	if err != nil {
		return optional.Empty[T](), err
	}
	values, _ := out.([]any)
	if len(values) == 0 {
		return optional.Empty[T](), nil
	}

	return optional.Of(values[0].(T)), nil
}

// FindFirst is terminal: like FindAny but the element is the first one in
// source order.
func (s *Stream[T]) FindFirst(ctx context.Context) (optional.Optional[T], error) {
	return s.OrderedExecution(true).FindAny(ctx)
}

// AllMatch is terminal: it reports whether every element matches pred.
func (s *Stream[T]) AllMatch(ctx context.Context, pred func(T) bool) (bool, error) {
	if pred == nil {
		panic("stream: AllMatch requires a non-nil predicate")
	}
	matches := s.consume(s.derive("map", func(v any) chain.Outcome {
		return chain.Outcome{Value: pred(v.(T)), Next: true}
	}))

	and := erasedCollector{
		supply: func() any { return true },
		accumulate: func(acc, v any) any {
			return acc.(bool) && v.(bool)
		},
		combine: func(left, right any) any {
			return left.(bool) && right.(bool)
		},
	}

	out, err := matches.collectAny(ctx, "allMatch", and, false)
	if err != nil {
		return false, err
	}

	return out.(bool), nil
}

// AnyMatch is terminal: it reports whether at least one element matches
// pred, stopping the evaluation as soon as one does.
func (s *Stream[T]) AnyMatch(ctx context.Context, pred func(T) bool) (bool, error) {
	found, err := s.consume(s.Filter(pred)).FindAny(ctx)
	if err != nil {
		return false, err
	}

	return found.IsPresent(), nil
}

// Min is terminal: the smallest element according to cmp, empty for an
// empty stream.
func (s *Stream[T]) Min(ctx context.Context, cmp func(a, b T) int) (optional.Optional[T], error) {
	return s.consume(s.Sorted(cmp)).FindFirst(ctx)
}

// Max is terminal: the largest element according to cmp.
func (s *Stream[T]) Max(ctx context.Context, cmp func(a, b T) int) (optional.Optional[T], error) {
	if cmp == nil {
		panic("stream: Max requires a non-nil comparator")
	}

	return s.Min(ctx, func(a, b T) int { return -cmp(a, b) })
}
