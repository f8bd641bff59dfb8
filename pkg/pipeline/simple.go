package pipeline

// Simple is a pipeline with one plain operation per step. It consumes an IN
// value and produces an OUT value; any handler failure (panic) propagates to
// the Execute caller immediately, there is no partial result.
type Simple[IN, OUT any] struct {
	run func(IN) OUT
}

// Of returns a Simple pipeline initialised with handler as its only step.
func Of[IN, OUT any](handler func(IN) OUT) Simple[IN, OUT] {
	if handler == nil {
		panic("pipeline: Of requires a non-nil handler")
	}

	return Simple[IN, OUT]{run: handler}
}

// AddHandler returns a new pipeline with handler appended: input stays IN,
// output becomes R.
func AddHandler[IN, OUT, R any](p Simple[IN, OUT], handler func(OUT) R) Simple[IN, R] {
	if handler == nil {
		panic("pipeline: AddHandler requires a non-nil handler")
	}
	prev := p.run

	return Of(func(in IN) R {
		return handler(prev(in))
	})
}

// Execute folds value through every handler in order and returns the final
// output.
func (p Simple[IN, OUT]) Execute(value IN) OUT {
	return p.run(value)
}
