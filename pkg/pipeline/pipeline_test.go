package pipeline_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/askiada/go-flow/pkg/pipeline"
)

func TestSimpleSingleHandler(t *testing.T) {
	t.Parallel()
	p := pipeline.Of(func(i int) int { return i * i })
	assert.Equal(t, 100, p.Execute(10))
}

func TestSimpleComposition(t *testing.T) {
	t.Parallel()
	p := pipeline.AddHandler(
		pipeline.Of(func(i int) int { return i * i }),
		strconv.Itoa,
	)

	assert.Equal(t, "100", p.Execute(10))
}

func TestSimpleHandlerOrder(t *testing.T) {
	t.Parallel()
	var order []string
	p := pipeline.AddHandler(
		pipeline.Of(func(i int) int {
			order = append(order, "first")

			return i + 1
		}),
		func(i int) int {
			order = append(order, "second")

			return i * 10
		},
	)

	assert.Equal(t, 20, p.Execute(1))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestSimpleAddHandlerDoesNotMutate(t *testing.T) {
	t.Parallel()
	base := pipeline.Of(func(i int) int { return i + 1 })
	longer := pipeline.AddHandler(base, func(i int) int { return i * 2 })

	assert.Equal(t, 2, base.Execute(1))
	assert.Equal(t, 4, longer.Execute(1))
}

func TestSimpleNilHandlerPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { pipeline.Of[int, int](nil) })
	assert.Panics(t, func() {
		pipeline.AddHandler[int, int, int](pipeline.Of(func(i int) int { return i }), nil)
	})
}

func TestStepFullCompletion(t *testing.T) {
	t.Parallel()
	p := pipeline.AddStep(
		pipeline.StepOf(func(i int) pipeline.StepResult[int] {
			return pipeline.Continue(i * i)
		}),
		func(i int) pipeline.StepResult[string] {
			return pipeline.StepResult[string]{Value: strconv.Itoa(i), GoNext: i < 150}
		},
	)

	res := p.Execute(10)
	assert.Equal(t, "100", res.Value)
	assert.True(t, res.GoNext)

	res = p.Execute(15)
	assert.Equal(t, "225", res.Value)
	assert.False(t, res.GoNext)
}

func TestStepShortCircuit(t *testing.T) {
	t.Parallel()
	calls := 0
	p := pipeline.AddStep(
		pipeline.StepOf(func(i int) pipeline.StepResult[int] {
			if i < 0 {
				return pipeline.Halt(i)
			}

			return pipeline.Continue(i)
		}),
		func(i int) pipeline.StepResult[int] {
			calls++

			return pipeline.Continue(i * 2)
		},
	)

	res := p.Execute(-4)
	assert.False(t, res.GoNext)
	assert.Equal(t, -4, res.Value)
	assert.Equal(t, 0, calls)

	res = p.Execute(4)
	assert.True(t, res.GoNext)
	assert.Equal(t, 8, res.Value)
	assert.Equal(t, 1, calls)
}

func TestStepShortCircuitDifferentType(t *testing.T) {
	t.Parallel()
	p := pipeline.AddStep(
		pipeline.StepOf(func(i int) pipeline.StepResult[int] {
			return pipeline.Halt(i)
		}),
		func(i int) pipeline.StepResult[string] {
			return pipeline.Continue(strconv.Itoa(i))
		},
	)

	// The halting step carries an int, unassignable to the string output.
	res := p.Execute(3)
	assert.False(t, res.GoNext)
	assert.Equal(t, "", res.Value)
}

func TestStepAddStepDoesNotMutate(t *testing.T) {
	t.Parallel()
	base := pipeline.StepOf(func(i int) pipeline.StepResult[int] {
		return pipeline.Continue(i + 1)
	})
	longer := pipeline.AddStep(base, func(i int) pipeline.StepResult[int] {
		return pipeline.Continue(i * 2)
	})

	assert.Equal(t, 2, base.Execute(1).Value)
	assert.Equal(t, 4, longer.Execute(1).Value)
}

func TestStepNilHandlerPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { pipeline.StepOf[int, int](nil) })
}

func TestContinueHalt(t *testing.T) {
	t.Parallel()
	assert.True(t, pipeline.Continue(1).GoNext)
	assert.False(t, pipeline.Halt(1).GoNext)
}
