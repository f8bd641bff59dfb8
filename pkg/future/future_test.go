package future_test

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-flow/pkg/future"
)

func TestCompletedAwait(t *testing.T) {
	t.Parallel()
	f := future.Completed(42)
	assert.True(t, f.IsResolved())

	got, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestFailedAwait(t *testing.T) {
	t.Parallel()
	f := future.Failed[int](assert.AnError)

	_, err := f.Await(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestFailNilPanics(t *testing.T) {
	t.Parallel()
	f := future.New[int]()
	assert.Panics(t, func() { f.Fail(nil) })
}

func TestResolveOnce(t *testing.T) {
	t.Parallel()
	f := future.New[int]()
	assert.True(t, f.Complete(1))
	assert.False(t, f.Complete(2))
	assert.False(t, f.Fail(assert.AnError))

	got, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestAwaitBlocksUntilComplete(t *testing.T) {
	t.Parallel()
	f := future.New[string]()
	_, _, ok := f.TryResult()
	assert.False(t, ok)

	go func() {
		time.Sleep(10 * time.Millisecond)
		f.Complete("done")
	}()

	got, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", got)
}

func TestAwaitCancelled(t *testing.T) {
	t.Parallel()
	f := future.New[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Await(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, f.IsResolved())
}

func TestAwaitConcurrent(t *testing.T) {
	t.Parallel()
	f := future.New[int]()

	var wg sync.WaitGroup
	results := make([]int, 10)
	for i := 0; i < 10; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := f.Await(context.Background())
			assert.NoError(t, err)
			results[i] = got
		}()
	}

	f.Complete(7)
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, 7, got)
	}
}

func TestGo(t *testing.T) {
	t.Parallel()
	f := future.Go(func() (int, error) {
		return 21 * 2, nil
	})

	got, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestThen(t *testing.T) {
	t.Parallel()
	tcs := map[string]struct {
		resolveFirst bool
	}{
		"chained before resolution": {resolveFirst: false},
		"chained after resolution":  {resolveFirst: true},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			f := future.New[int]()
			if tc.resolveFirst {
				f.Complete(12)
			}

			derived := future.Then(f, func(v int) (string, error) {
				return strconv.Itoa(v * 2), nil
			})

			if !tc.resolveFirst {
				f.Complete(12)
			}

			got, err := derived.Await(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "24", got)
		})
	}
}

func TestThenNilArgumentsPanic(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		future.Then[int, int](nil, func(v int) (int, error) { return v, nil })
	})
	assert.Panics(t, func() {
		future.Then[int, int](future.Completed(1), nil)
	})
}

func TestThenCarriesFailure(t *testing.T) {
	t.Parallel()
	f := future.Failed[int](assert.AnError)
	derived := future.Then(f, func(v int) (int, error) {
		t.Fatal("fn must not run on a failed future")

		return 0, nil
	})

	_, err := derived.Await(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestValueResolved(t *testing.T) {
	t.Parallel()
	v := future.Of(10)
	assert.False(t, v.IsPending())

	got, ok := v.Resolved()
	assert.True(t, ok)
	assert.Equal(t, 10, got)

	got, err := v.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, got)
}

func TestValueErrSurfacesAtAwait(t *testing.T) {
	t.Parallel()
	v := future.Err[int](assert.AnError)
	assert.False(t, v.IsPending())

	_, ok := v.Resolved()
	assert.False(t, ok)

	_, err := v.Await(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestValuePending(t *testing.T) {
	t.Parallel()
	f := future.New[int]()
	v := future.OfFuture(f)
	assert.True(t, v.IsPending())

	_, ok := v.Resolved()
	assert.False(t, ok)

	f.Complete(5)
	got, err := v.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, got)
}

func TestAdaptResolvedRunsSynchronously(t *testing.T) {
	t.Parallel()
	calls := 0
	double := future.Adapt(func(v int) (int, error) {
		calls++

		return v * 2, nil
	})

	out := double(future.Of(3))
	assert.Equal(t, 1, calls)

	got, ok := out.Resolved()
	assert.True(t, ok)
	assert.Equal(t, 6, got)
}

func TestAdaptPending(t *testing.T) {
	t.Parallel()
	double := future.Adapt(func(v int) (int, error) {
		return v * 2, nil
	})

	f := future.New[int]()
	out := double(future.OfFuture(f))
	assert.True(t, out.IsPending())

	f.Complete(4)
	got, err := out.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, got)
}

func TestAdaptComposes(t *testing.T) {
	t.Parallel()
	double := future.Adapt(func(v int) (int, error) { return v * 2, nil })
	str := future.Adapt(func(v int) (string, error) { return strconv.Itoa(v), nil })

	for name, in := range map[string]future.Value[int]{
		"resolved": future.Of(5),
		"pending":  future.OfFuture(future.Completed(5)),
	} {
		in := in
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := str(double(in)).Await(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "10", got)
		})
	}
}

func TestAdaptCarriesFailure(t *testing.T) {
	t.Parallel()
	double := future.Adapt(func(v int) (int, error) {
		t.Fatal("fn must not run on a failed value")

		return 0, nil
	})

	out := double(future.Err[int](assert.AnError))
	_, err := out.Await(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}
