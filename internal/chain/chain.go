// Package chain holds the type-erased handler list shared by the pipeline
// and stream packages. Generic entry points in those packages keep the
// public API typed; the chain itself works on plain values so that a single
// pipeline can change its element type between steps.
package chain

// Outcome is the result of running one handler: the value to feed to the
// next handler, whether the next handler should run at all, and an optional
// failure that aborts the chain.
type Outcome struct {
	Value any
	Next  bool
	Err   error
}

// Handler transforms a value and decides whether the chain continues.
type Handler func(v any) Outcome

// Chain is an ordered, immutable list of handlers. Append copies, so a chain
// can safely be used as a shared prefix for several longer chains.
type Chain struct {
	handlers []Handler
}

// Append returns a new chain with h added after the current handlers.
func (c Chain) Append(h Handler) Chain {
	handlers := make([]Handler, 0, len(c.handlers)+1)
	handlers = append(handlers, c.handlers...)
	handlers = append(handlers, h)

	return Chain{handlers: handlers}
}

// Len returns the number of handlers.
func (c Chain) Len() int {
	return len(c.handlers)
}

// Run feeds v through every handler in order. It stops at the first handler
// whose outcome has Next=false or a non-nil Err and returns that outcome
// unchanged. When every handler ran, the returned outcome is the last
// handler's one.
//
// An empty chain returns Outcome{Value: v, Next: true}.
func (c Chain) Run(v any) Outcome {
	out := Outcome{Value: v, Next: true}
	for _, h := range c.handlers {
		out = h(out.Value)
		if !out.Next || out.Err != nil {
			break
		}
	}

	return out
}

// RunEach behaves like Run but brackets each handler with observe: the
// callback receives the handler index and returns the function to invoke
// once that handler finished. Used by instrumented stream evaluation.
func (c Chain) RunEach(v any, observe func(idx int) func()) Outcome {
	out := Outcome{Value: v, Next: true}
	for i, h := range c.handlers {
		done := observe(i)
		out = h(out.Value)
		done()
		if !out.Next || out.Err != nil {
			break
		}
	}

	return out
}
