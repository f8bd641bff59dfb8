// Package stream provides a lazy, single-use sequence pipeline with
// sequential or pooled-concurrent evaluation.
//
// A stream is an immutable recipe: a source plus an ordered list of
// element-wise operations. Chaining calls (Map, Filter, Peek, ...) return a
// new descriptor and never evaluate anything; the copy-on-write operation
// list makes a partially built stream safe to reuse as a prefix for several
// longer chains. A terminal operation (Collect, ToSlice, Count, Reduce, ...)
// evaluates the stream exactly once; a second terminal call on the same
// instance fails with ErrAlreadyConsumed.
//
// Sequential evaluation pulls one element at a time from the source and runs
// it through the whole operation list before the next element starts. After
// Parallel, the source is cut into contiguous chunks dispatched to a
// caller-owned worker pool; results come back in submission order when
// ordered execution was requested, in completion order otherwise. The first
// failure aborts the terminal operation, abandons outstanding chunks
// best-effort and discards every partial result.
//
// The worker pool is an external collaborator: the stream borrows it during
// one terminal call and never manages its lifetime.
package stream
