package future

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Future is a value that becomes available exactly once. The zero value is
// not usable; create futures with New, Completed, Failed or Go.
type Future[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	resolved  bool
	val       T
	err       error
	callbacks []func(T, error)
}

// New returns an unresolved future. The creator resolves it later with
// Complete or Fail.
func New[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Completed returns a future already resolved to v.
func Completed[T any](v T) *Future[T] {
	f := New[T]()
	f.Complete(v)

	return f
}

// Failed returns a future already resolved with err.
func Failed[T any](err error) *Future[T] {
	f := New[T]()
	f.Fail(err)

	return f
}

// Go runs fn in a new goroutine and returns a future resolved with its
// result. This is the only place the package spawns a goroutine.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := New[T]()
	go func() {
		v, err := fn()
		if err != nil {
			f.Fail(err)

			return
		}
		f.Complete(v)
	}()

	return f
}

// Complete resolves the future to v. It reports whether this call resolved
// the future; a future resolves at most once and later calls do nothing.
func (f *Future[T]) Complete(v T) bool {
	return f.resolve(v, nil)
}

// Fail resolves the future with err. Panics if err is nil: a nil failure
// would be indistinguishable from a successful zero value.
func (f *Future[T]) Fail(err error) bool {
	if err == nil {
		panic("future: Fail requires a non-nil error")
	}
	var zero T

	return f.resolve(zero, errors.WithStack(err))
}

func (f *Future[T]) resolve(v T, err error) bool {
	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()

		return false
	}
	f.resolved = true
	f.val = v
	f.err = err
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	// Continuations run on the resolving goroutine, outside the lock.
	for _, cb := range callbacks {
		cb(v, err)
	}

	return true
}

// Await blocks until the future resolves or ctx is cancelled. Once resolved,
// every Await returns the same result.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T

		return zero, errors.Wrap(ctx.Err(), "await")
	}
}

// Done returns a channel closed when the future resolves.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// IsResolved reports whether the future has resolved.
func (f *Future[T]) IsResolved() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// TryResult returns the result without blocking. ok is false while the
// future is still pending.
func (f *Future[T]) TryResult() (v T, err error, ok bool) {
	select {
	case <-f.done:
		return f.val, f.err, true
	default:
		return v, err, false
	}
}

// onResolve registers cb to run when the future resolves. If it already has,
// cb runs inline before onResolve returns.
func (f *Future[T]) onResolve(cb func(T, error)) {
	f.mu.Lock()
	if !f.resolved {
		f.callbacks = append(f.callbacks, cb)
		f.mu.Unlock()

		return
	}
	v, err := f.val, f.err
	f.mu.Unlock()

	cb(v, err)
}

// Then returns a future resolving to fn applied to f's result. No goroutine
// is started: fn runs inline when (or where) f resolves. A failure of f is
// carried into the derived future untouched and fn never runs.
func Then[T, R any](f *Future[T], fn func(T) (R, error)) *Future[R] {
	if f == nil {
		panic("future: Then requires a non-nil future")
	}
	if fn == nil {
		panic("future: Then requires a non-nil fn")
	}

	out := New[R]()
	f.onResolve(func(v T, err error) {
		if err != nil {
			out.Fail(err)

			return
		}
		r, err := fn(v)
		if err != nil {
			out.Fail(err)

			return
		}
		out.Complete(r)
	})

	return out
}
