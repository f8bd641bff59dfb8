package optional

import (
	"github.com/pkg/errors"
)

// ErrNoValue is returned by Get when no value is present.
var ErrNoValue = errors.New("no value present")

// Optional describes a value that may be absent. The zero Optional is empty.
type Optional[T any] struct {
	value   T
	present bool
}

// Of returns an optional describing v. Presence is decided by the type
// system: there is no way to pass "no value" here, use OfNullable or Empty
// for tolerant construction.
func Of[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

// OfNullable returns an optional describing *p, or an empty optional when p
// is nil.
func OfNullable[T any](p *T) Optional[T] {
	if p == nil {
		return Empty[T]()
	}

	return Of(*p)
}

// Empty returns an empty optional.
func Empty[T any]() Optional[T] {
	return Optional[T]{}
}

// IsPresent reports whether a value is present.
func (o Optional[T]) IsPresent() bool {
	return o.present
}

// IsEmpty reports whether no value is present.
func (o Optional[T]) IsEmpty() bool {
	return !o.present
}

// Get returns the value, or ErrNoValue when empty.
func (o Optional[T]) Get() (T, error) {
	if !o.present {
		var zero T

		return zero, errors.WithStack(ErrNoValue)
	}

	return o.value, nil
}

// MustGet returns the value and panics with ErrNoValue when empty.
func (o Optional[T]) MustGet() T {
	if !o.present {
		panic(ErrNoValue)
	}

	return o.value
}

// OrElse returns the value when present, otherwise other.
func (o Optional[T]) OrElse(other T) T {
	if o.present {
		return o.value
	}

	return other
}

// OrElseGet returns the value when present, otherwise the supplier's result.
// The supplier only runs when the optional is empty.
func (o Optional[T]) OrElseGet(supplier func() T) T {
	if supplier == nil {
		panic("optional: OrElseGet requires a non-nil supplier")
	}
	if o.present {
		return o.value
	}

	return supplier()
}

// OrElseErr returns the value when present, otherwise the supplied error.
func (o Optional[T]) OrElseErr(errSupplier func() error) (T, error) {
	if errSupplier == nil {
		panic("optional: OrElseErr requires a non-nil supplier")
	}
	if o.present {
		return o.value, nil
	}
	var zero T

	return zero, errSupplier()
}

// Or returns the optional itself when present, otherwise the supplier's
// optional.
func (o Optional[T]) Or(supplier func() Optional[T]) Optional[T] {
	if supplier == nil {
		panic("optional: Or requires a non-nil supplier")
	}
	if o.present {
		return o
	}

	return supplier()
}

// Filter returns the optional itself when present and the value matches
// pred, otherwise an empty optional.
func (o Optional[T]) Filter(pred func(T) bool) Optional[T] {
	if pred == nil {
		panic("optional: Filter requires a non-nil predicate")
	}
	if !o.present || pred(o.value) {
		return o
	}

	return Empty[T]()
}

// Peek runs consumer on the value when present and returns the optional
// unchanged.
func (o Optional[T]) Peek(consumer func(T)) Optional[T] {
	o.IfPresent(consumer)

	return o
}

// IfPresent runs consumer on the value when present.
func (o Optional[T]) IfPresent(consumer func(T)) {
	if consumer == nil {
		panic("optional: IfPresent requires a non-nil consumer")
	}
	if o.present {
		consumer(o.value)
	}
}

// IfEmpty runs action when no value is present.
func (o Optional[T]) IfEmpty(action func()) {
	if action == nil {
		panic("optional: IfEmpty requires a non-nil action")
	}
	if !o.present {
		action()
	}
}

// IfPresentOrElse runs consumer on the value when present, otherwise action.
func (o Optional[T]) IfPresentOrElse(consumer func(T), action func()) {
	if consumer == nil || action == nil {
		panic("optional: IfPresentOrElse requires non-nil arguments")
	}
	if o.present {
		consumer(o.value)

		return
	}
	action()
}

// Ptr returns a pointer to a copy of the value, or nil when empty.
func (o Optional[T]) Ptr() *T {
	if !o.present {
		return nil
	}
	v := o.value

	return &v
}

// Map applies fn to the value when present and describes the result.
func Map[T, R any](o Optional[T], fn func(T) R) Optional[R] {
	if fn == nil {
		panic("optional: Map requires a non-nil fn")
	}
	if o.IsEmpty() {
		return Empty[R]()
	}

	return Of(fn(o.value))
}

// MapPtr applies fn to the value when present; a nil result maps to an empty
// optional.
func MapPtr[T, R any](o Optional[T], fn func(T) *R) Optional[R] {
	if fn == nil {
		panic("optional: MapPtr requires a non-nil fn")
	}
	if o.IsEmpty() {
		return Empty[R]()
	}

	return OfNullable(fn(o.value))
}

// FlatMap applies an optional-bearing fn to the value when present, without
// wrapping the result in another optional.
func FlatMap[T, R any](o Optional[T], fn func(T) Optional[R]) Optional[R] {
	if fn == nil {
		panic("optional: FlatMap requires a non-nil fn")
	}
	if o.IsEmpty() {
		return Empty[R]()
	}

	return fn(o.value)
}
