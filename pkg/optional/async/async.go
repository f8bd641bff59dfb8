package async

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/askiada/go-flow/pkg/future"
	"github.com/askiada/go-flow/pkg/optional"
)

// Optional describes a value that may be absent and whose production may
// still be pending. The zero Optional is empty. See the package
// documentation for the evaluation model.
type Optional[T any] struct {
	state *state[T]
}

type state[T any] struct {
	eval   func(ctx context.Context) (optional.Optional[T], error)
	once   sync.Once
	cached optional.Optional[T]
	err    error
}

func (s *state[T]) force(ctx context.Context) (optional.Optional[T], error) {
	s.once.Do(func() {
		s.cached, s.err = s.eval(ctx)
	})

	return s.cached, s.err
}

func fromEval[T any](eval func(ctx context.Context) (optional.Optional[T], error)) Optional[T] {
	return Optional[T]{state: &state[T]{eval: eval}}
}

// force resolves the chain. The zero Optional has no state and resolves to
// empty.
func (o Optional[T]) force(ctx context.Context) (optional.Optional[T], error) {
	if o.state == nil {
		return optional.Empty[T](), nil
	}

	return o.state.force(ctx)
}

// Of returns an async optional describing the resolved value v.
func Of[T any](v T) Optional[T] {
	return FromOptional(optional.Of(v))
}

// Empty returns an empty async optional.
func Empty[T any]() Optional[T] {
	return FromOptional(optional.Empty[T]())
}

// FromOptional lifts a synchronous optional. The conversion is loss-free:
// Sync returns the same optional back.
func FromOptional[T any](o optional.Optional[T]) Optional[T] {
	return fromEval(func(context.Context) (optional.Optional[T], error) {
		return o, nil
	})
}

// FromPtr returns an async optional describing *p, empty when p is nil.
func FromPtr[T any](p *T) Optional[T] {
	return FromOptional(optional.OfNullable(p))
}

// OfFuture returns an async optional whose value is pending in f. A failed
// future surfaces its error at the terminal call.
func OfFuture[T any](f *future.Future[T]) Optional[T] {
	if f == nil {
		panic("async: OfFuture requires a non-nil future")
	}

	return fromEval(func(ctx context.Context) (optional.Optional[T], error) {
		v, err := f.Await(ctx)
		if err != nil {
			return optional.Empty[T](), err
		}

		return optional.Of(v), nil
	})
}

// FromFuturePtr returns an async optional pending in f; the optional is
// empty when the future resolves to nil.
func FromFuturePtr[T any](f *future.Future[*T]) Optional[T] {
	if f == nil {
		panic("async: FromFuturePtr requires a non-nil future")
	}

	return fromEval(func(ctx context.Context) (optional.Optional[T], error) {
		p, err := f.Await(ctx)
		if err != nil {
			return optional.Empty[T](), err
		}

		return optional.OfNullable(p), nil
	})
}

// OfValue returns an async optional backed by a resolved-or-pending value.
func OfValue[T any](v future.Value[T]) Optional[T] {
	return fromEval(func(ctx context.Context) (optional.Optional[T], error) {
		res, err := v.Await(ctx)
		if err != nil {
			return optional.Empty[T](), err
		}

		return optional.Of(res), nil
	})
}

// Map stacks fn onto the chain. fn runs at terminal time, on the resolved
// value, only when the chain is non-empty. A fn error aborts the terminal
// call with that error.
func Map[T, R any](o Optional[T], fn func(T) (R, error)) Optional[R] {
	if fn == nil {
		panic("async: Map requires a non-nil fn")
	}

	return fromEval(func(ctx context.Context) (optional.Optional[R], error) {
		cur, err := o.force(ctx)
		if err != nil || cur.IsEmpty() {
			return optional.Empty[R](), err
		}
		v, _ := cur.Get()
		r, err := fn(v)
		if err != nil {
			return optional.Empty[R](), err
		}

		return optional.Of(r), nil
	})
}

// MapFuture stacks a pending transformation: fn returns a future whose
// resolution becomes the new value. The future is only created and awaited
// at terminal time.
func MapFuture[T, R any](o Optional[T], fn func(T) *future.Future[R]) Optional[R] {
	if fn == nil {
		panic("async: MapFuture requires a non-nil fn")
	}

	return fromEval(func(ctx context.Context) (optional.Optional[R], error) {
		cur, err := o.force(ctx)
		if err != nil || cur.IsEmpty() {
			return optional.Empty[R](), err
		}
		v, _ := cur.Get()
		f := fn(v)
		if f == nil {
			return optional.Empty[R](), errors.New("async: MapFuture fn returned a nil future")
		}
		r, err := f.Await(ctx)
		if err != nil {
			return optional.Empty[R](), err
		}

		return optional.Of(r), nil
	})
}

// FlatMap stacks an optional-bearing fn without double wrapping.
func FlatMap[T, R any](o Optional[T], fn func(T) Optional[R]) Optional[R] {
	if fn == nil {
		panic("async: FlatMap requires a non-nil fn")
	}

	return fromEval(func(ctx context.Context) (optional.Optional[R], error) {
		cur, err := o.force(ctx)
		if err != nil || cur.IsEmpty() {
			return optional.Empty[R](), err
		}
		v, _ := cur.Get()

		return fn(v).force(ctx)
	})
}

// Filter stacks a predicate. The value is resolved before the predicate is
// tested; a non-matching value yields an empty result.
func (o Optional[T]) Filter(pred func(T) bool) Optional[T] {
	if pred == nil {
		panic("async: Filter requires a non-nil predicate")
	}

	return fromEval(func(ctx context.Context) (optional.Optional[T], error) {
		cur, err := o.force(ctx)
		if err != nil {
			return optional.Empty[T](), err
		}

		return cur.Filter(pred), nil
	})
}

// Peek stacks a side-effecting consumer that runs at resolution time on
// present values only.
func (o Optional[T]) Peek(consumer func(T)) Optional[T] {
	if consumer == nil {
		panic("async: Peek requires a non-nil consumer")
	}

	return fromEval(func(ctx context.Context) (optional.Optional[T], error) {
		cur, err := o.force(ctx)
		if err != nil {
			return optional.Empty[T](), err
		}

		return cur.Peek(consumer), nil
	})
}

// Or returns the chain itself when it resolves to a present value, otherwise
// the supplier's chain.
func (o Optional[T]) Or(supplier func() Optional[T]) Optional[T] {
	if supplier == nil {
		panic("async: Or requires a non-nil supplier")
	}

	return fromEval(func(ctx context.Context) (optional.Optional[T], error) {
		cur, err := o.force(ctx)
		if err != nil || cur.IsPresent() {
			return cur, err
		}

		return supplier().force(ctx)
	})
}

// Get is terminal: it resolves the chain and returns the value, or
// optional.ErrNoValue when the chain is empty.
func (o Optional[T]) Get(ctx context.Context) (T, error) {
	cur, err := o.force(ctx)
	if err != nil {
		var zero T

		return zero, err
	}

	return cur.Get()
}

// OrElse is terminal: it resolves the chain and returns the value, or other
// when the chain is empty.
func (o Optional[T]) OrElse(ctx context.Context, other T) (T, error) {
	cur, err := o.force(ctx)
	if err != nil {
		var zero T

		return zero, err
	}

	return cur.OrElse(other), nil
}

// OrElseGet is terminal: like OrElse with a lazily invoked supplier.
func (o Optional[T]) OrElseGet(ctx context.Context, supplier func() T) (T, error) {
	if supplier == nil {
		panic("async: OrElseGet requires a non-nil supplier")
	}
	cur, err := o.force(ctx)
	if err != nil {
		var zero T

		return zero, err
	}

	return cur.OrElseGet(supplier), nil
}

// IsPresent is terminal: it resolves the chain and reports presence.
func (o Optional[T]) IsPresent(ctx context.Context) (bool, error) {
	cur, err := o.force(ctx)
	if err != nil {
		return false, err
	}

	return cur.IsPresent(), nil
}

// IsEmpty is terminal: it resolves the chain and reports absence.
func (o Optional[T]) IsEmpty(ctx context.Context) (bool, error) {
	present, err := o.IsPresent(ctx)

	return !present, err
}

// IfPresent is terminal: it resolves the chain and runs consumer on the
// value when present.
func (o Optional[T]) IfPresent(ctx context.Context, consumer func(T)) error {
	if consumer == nil {
		panic("async: IfPresent requires a non-nil consumer")
	}
	cur, err := o.force(ctx)
	if err != nil {
		return err
	}
	cur.IfPresent(consumer)

	return nil
}

// IfPresentOrElse is terminal: consumer on a present value, action otherwise.
func (o Optional[T]) IfPresentOrElse(ctx context.Context, consumer func(T), action func()) error {
	if consumer == nil || action == nil {
		panic("async: IfPresentOrElse requires non-nil arguments")
	}
	cur, err := o.force(ctx)
	if err != nil {
		return err
	}
	cur.IfPresentOrElse(consumer, action)

	return nil
}

// Sync is terminal: it resolves the chain into a synchronous optional.
// Round-tripping a resolved optional through FromOptional and Sync returns
// an equal optional.
func (o Optional[T]) Sync(ctx context.Context) (optional.Optional[T], error) {
	return o.force(ctx)
}
