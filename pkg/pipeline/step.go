package pipeline

import "github.com/askiada/go-flow/internal/chain"

// StepResult is the outcome of one step: the produced value and whether the
// next step must run.
type StepResult[T any] struct {
	Value  T
	GoNext bool
}

// Continue returns a StepResult carrying v that lets the pipeline proceed.
func Continue[T any](v T) StepResult[T] {
	return StepResult[T]{Value: v, GoNext: true}
}

// Halt returns a StepResult carrying v that stops the pipeline at this step.
func Halt[T any](v T) StepResult[T] {
	return StepResult[T]{Value: v, GoNext: false}
}

// Step is a pipeline whose handlers can stop the execution. It consumes an
// IN value; its last step produces an OUT value.
//
// Execute applies the handlers in order, feeding each handler's value to the
// next one. The first StepResult with GoNext=false is returned as-is and the
// remaining handlers never run. When every handler ran, the last handler's
// result is returned; with every handler continuing, its GoNext is
// necessarily true, which is how a caller tells "fully completed" from
// "stopped early".
type Step[IN, OUT any] struct {
	steps chain.Chain
}

// StepOf returns a Step pipeline initialised with handler as its first step.
func StepOf[IN, OUT any](handler func(IN) StepResult[OUT]) Step[IN, OUT] {
	if handler == nil {
		panic("pipeline: StepOf requires a non-nil handler")
	}

	return Step[IN, OUT]{steps: chain.Chain{}.Append(erase(handler))}
}

// AddStep returns a new pipeline with handler appended as its last step:
// input stays IN, output becomes N.
func AddStep[IN, OUT, N any](p Step[IN, OUT], handler func(OUT) StepResult[N]) Step[IN, N] {
	if handler == nil {
		panic("pipeline: AddStep requires a non-nil handler")
	}

	return Step[IN, N]{steps: p.steps.Append(erase(handler))}
}

// Execute runs the pipeline on value and returns the last executed step's
// result. The number of handler invocations never exceeds the number of
// registered handlers, and is equal unless a step halted the pipeline.
//
// When a step halts the pipeline before the output type is reached, the
// carried value is surfaced only if it is assignable to OUT; otherwise the
// result holds the zero OUT alongside GoNext=false.
func (p Step[IN, OUT]) Execute(value IN) StepResult[OUT] {
	out := p.steps.Run(value)
	res := StepResult[OUT]{GoNext: out.Next}
	if v, ok := out.Value.(OUT); ok {
		res.Value = v
	}

	return res
}

func erase[I, O any](handler func(I) StepResult[O]) chain.Handler {
	return func(v any) chain.Outcome {
		res := handler(v.(I))

		return chain.Outcome{Value: res.Value, Next: res.GoNext}
	}
}
