package future

import "context"

// Value is a resolved-or-pending value. It is decided at construction time:
// Of builds a resolved value, Err a failed one and OfFuture a pending one.
// The zero Value is resolved to the zero value of T.
type Value[T any] struct {
	pending *Future[T]
	val     T
	err     error
}

// Of returns a resolved value.
func Of[T any](v T) Value[T] {
	return Value[T]{val: v}
}

// Err returns a failed value. Its error surfaces when the value is awaited.
func Err[T any](err error) Value[T] {
	return Value[T]{err: err}
}

// OfFuture returns a pending value backed by f.
func OfFuture[T any](f *Future[T]) Value[T] {
	if f == nil {
		panic("future: OfFuture requires a non-nil future")
	}

	return Value[T]{pending: f}
}

// IsPending reports whether the value still needs to be awaited. Pure
// classification; the underlying future is not consumed or scheduled.
func (v Value[T]) IsPending() bool {
	return v.pending != nil && !v.pending.IsResolved()
}

// Resolved returns the value when it is immediately available and carries no
// failure.
func (v Value[T]) Resolved() (T, bool) {
	if v.pending != nil || v.err != nil {
		var zero T

		return zero, false
	}

	return v.val, true
}

// Await returns the value, blocking on the backing future when pending. A
// failure carried by the value is reported here and not earlier.
func (v Value[T]) Await(ctx context.Context) (T, error) {
	if v.pending != nil {
		return v.pending.Await(ctx)
	}
	if v.err != nil {
		var zero T

		return zero, v.err
	}

	return v.val, nil
}

// Adapt lifts fn, written for resolved values, to a function accepting a
// resolved or pending value.
//
// On a resolved input fn runs synchronously and no pending machinery is
// introduced: Adapt(fn)(Of(v)) carries exactly fn(v). On a pending input the
// result is a new pending value resolving to fn's result once the input
// resolves. Failures (input or fn) are carried and surface when the result
// is awaited. Adapting fn then g composes the same way as adapting their
// composition.
func Adapt[T, R any](fn func(T) (R, error)) func(Value[T]) Value[R] {
	if fn == nil {
		panic("future: Adapt requires a non-nil fn")
	}

	return func(in Value[T]) Value[R] {
		if in.pending != nil {
			return OfFuture(Then(in.pending, fn))
		}
		if in.err != nil {
			return Err[R](in.err)
		}
		r, err := fn(in.val)
		if err != nil {
			return Err[R](err)
		}

		return Of(r)
	}
}
