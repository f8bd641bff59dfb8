package async_test

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-flow/pkg/future"
	"github.com/askiada/go-flow/pkg/optional"
	"github.com/askiada/go-flow/pkg/optional/async"
)

func TestGet(t *testing.T) {
	t.Parallel()
	got, err := async.Of(42).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestGetEmpty(t *testing.T) {
	t.Parallel()
	_, err := async.Empty[int]().Get(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, optional.ErrNoValue)
}

func TestZeroValueIsEmpty(t *testing.T) {
	t.Parallel()
	var o async.Optional[int]

	empty, err := o.IsEmpty(context.Background())
	require.NoError(t, err)
	assert.True(t, empty)

	_, err = o.Get(context.Background())
	assert.ErrorIs(t, err, optional.ErrNoValue)

	got, err := async.Map(o, func(v int) (int, error) {
		t.Fatal("fn must not run on an empty chain")

		return 0, nil
	}).OrElse(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, got)

	sync, err := o.Sync(context.Background())
	require.NoError(t, err)
	assert.True(t, sync.IsEmpty())
}

func TestMapIsLazy(t *testing.T) {
	t.Parallel()
	calls := 0
	o := async.Map(async.Of(10), func(v int) (int, error) {
		calls++

		return v * 2, nil
	})
	assert.Equal(t, 0, calls)

	got, err := o.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, got)
	assert.Equal(t, 1, calls)
}

func TestTerminalResolvesExactlyOnce(t *testing.T) {
	t.Parallel()
	calls := 0
	o := async.Map(async.Of(1), func(v int) (int, error) {
		calls++

		return v + 1, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := o.Get(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, 2, got)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, calls)
}

func TestMapSkipsOnEmpty(t *testing.T) {
	t.Parallel()
	o := async.Map(async.Empty[int](), func(v int) (int, error) {
		t.Fatal("fn must not run on an empty chain")

		return 0, nil
	})

	empty, err := o.IsEmpty(context.Background())
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestMapError(t *testing.T) {
	t.Parallel()
	o := async.Map(async.Of(1), func(int) (int, error) {
		return 0, assert.AnError
	})

	_, err := o.Get(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestMapFuture(t *testing.T) {
	t.Parallel()
	o := async.MapFuture(async.Of(6), func(v int) *future.Future[string] {
		return future.Go(func() (string, error) {
			return strconv.Itoa(v * 7), nil
		})
	})

	got, err := o.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "42", got)
}

func TestFlatMap(t *testing.T) {
	t.Parallel()
	toOpt := func(v int) async.Optional[string] {
		if v < 0 {
			return async.Empty[string]()
		}

		return async.Of(strconv.Itoa(v))
	}

	got, err := async.FlatMap(async.Of(3), toOpt).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3", got)

	empty, err := async.FlatMap(async.Of(-3), toOpt).IsEmpty(context.Background())
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestFilter(t *testing.T) {
	t.Parallel()
	even := func(v int) bool { return v%2 == 0 }

	present, err := async.Of(4).Filter(even).IsPresent(context.Background())
	require.NoError(t, err)
	assert.True(t, present)

	present, err = async.Of(5).Filter(even).IsPresent(context.Background())
	require.NoError(t, err)
	assert.False(t, present)
}

func TestPeek(t *testing.T) {
	t.Parallel()
	var seen []int
	o := async.Of(9).Peek(func(v int) { seen = append(seen, v) })
	assert.Empty(t, seen)

	_, err := o.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{9}, seen)
}

func TestOr(t *testing.T) {
	t.Parallel()
	supplied := false
	got, err := async.Of(1).Or(func() async.Optional[int] {
		supplied = true

		return async.Of(2)
	}).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	assert.False(t, supplied)

	got, err = async.Empty[int]().Or(func() async.Optional[int] {
		return async.Of(2)
	}).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestOrElse(t *testing.T) {
	t.Parallel()
	got, err := async.Empty[int]().OrElse(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, 99, got)
}

func TestOfFuture(t *testing.T) {
	t.Parallel()
	f := future.New[int]()
	o := async.OfFuture(f)

	f.Complete(13)
	got, err := o.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 13, got)
}

func TestOfFutureFailureSurfacesAtTerminal(t *testing.T) {
	t.Parallel()
	o := async.Map(async.OfFuture(future.Failed[int](assert.AnError)), func(v int) (int, error) {
		t.Fatal("fn must not run after a failed resolution")

		return 0, nil
	})

	_, err := o.Get(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestFromFuturePtr(t *testing.T) {
	t.Parallel()
	v := 5
	got, err := async.FromFuturePtr(future.Completed(&v)).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, got)

	empty, err := async.FromFuturePtr(future.Completed[*int](nil)).IsEmpty(context.Background())
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestFromPtr(t *testing.T) {
	t.Parallel()
	v := 3
	present, err := async.FromPtr(&v).IsPresent(context.Background())
	require.NoError(t, err)
	assert.True(t, present)

	present, err = async.FromPtr[int](nil).IsPresent(context.Background())
	require.NoError(t, err)
	assert.False(t, present)
}

func TestOfValue(t *testing.T) {
	t.Parallel()
	tcs := map[string]struct {
		value future.Value[int]
		want  int
	}{
		"resolved": {value: future.Of(1), want: 1},
		"pending":  {value: future.OfFuture(future.Completed(2)), want: 2},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := async.OfValue(tc.value).Get(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSyncRoundTrip(t *testing.T) {
	t.Parallel()
	in := optional.Of("hello")
	out, err := async.FromOptional(in).Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestIfPresentOrElse(t *testing.T) {
	t.Parallel()
	var got string
	err := async.Of("v").IfPresentOrElse(context.Background(),
		func(v string) { got = v },
		func() { got = "empty" },
	)
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	err = async.Empty[string]().IfPresentOrElse(context.Background(),
		func(v string) { got = v },
		func() { got = "empty" },
	)
	require.NoError(t, err)
	assert.Equal(t, "empty", got)
}

func TestContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := async.OfFuture(future.New[int]()).Get(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
