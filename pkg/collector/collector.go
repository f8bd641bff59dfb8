// Package collector provides the mutable-reduction abstraction consumed by
// stream terminal operations: a supplier of a fresh accumulation, an
// accumulator folding one element in, and a combiner merging two partial
// accumulations (used when chunks are reduced concurrently).
package collector

// Collector reduces a finite sequence of T values into an aggregate R.
type Collector[T, R any] struct {
	Supplier    func() R
	Accumulator func(acc R, v T) R
	Combiner    func(left, right R) R
}

// Of builds a collector from its three parts.
func Of[T, R any](supplier func() R, accumulator func(R, T) R, combiner func(R, R) R) Collector[T, R] {
	if supplier == nil || accumulator == nil || combiner == nil {
		panic("collector: Of requires non-nil supplier, accumulator and combiner")
	}

	return Collector[T, R]{Supplier: supplier, Accumulator: accumulator, Combiner: combiner}
}

// Slice collects elements into a slice, preserving accumulation order.
func Slice[T any]() Collector[T, []T] {
	return Of(
		func() []T { return nil },
		func(acc []T, v T) []T { return append(acc, v) },
		func(left, right []T) []T { return append(left, right...) },
	)
}

// ToMap collects elements into a map keyed by keyFn with values from valFn.
// A later element wins on key collision.
func ToMap[T any, K comparable, V any](keyFn func(T) K, valFn func(T) V) Collector[T, map[K]V] {
	if keyFn == nil || valFn == nil {
		panic("collector: ToMap requires non-nil key and value functions")
	}

	return Of(
		func() map[K]V { return make(map[K]V) },
		func(acc map[K]V, v T) map[K]V {
			acc[keyFn(v)] = valFn(v)

			return acc
		},
		func(left, right map[K]V) map[K]V {
			for k, v := range right {
				left[k] = v
			}

			return left
		},
	)
}

// Counting counts elements.
func Counting[T any]() Collector[T, int64] {
	return Of(
		func() int64 { return 0 },
		func(acc int64, _ T) int64 { return acc + 1 },
		func(left, right int64) int64 { return left + right },
	)
}

// Discard drops every element. Used by side-effect-only terminals.
func Discard[T any]() Collector[T, struct{}] {
	return Of(
		func() struct{} { return struct{}{} },
		func(struct{}, T) struct{} { return struct{}{} },
		func(struct{}, struct{}) struct{} { return struct{}{} },
	)
}

// Reducing folds elements onto identity with accumulator; chunks are merged
// with the same accumulator.
func Reducing[T any](identity T, accumulator func(T, T) T) Collector[T, T] {
	if accumulator == nil {
		panic("collector: Reducing requires a non-nil accumulator")
	}

	return Of(
		func() T { return identity },
		accumulator,
		accumulator,
	)
}
