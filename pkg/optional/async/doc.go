// Package async provides the optional variant that also accepts pending
// values and pending transformations.
//
// An async optional is a lazy chain description: intermediate operations
// (Map, MapFuture, Filter, Peek, ...) only stack continuations and never
// force resolution. The first terminal call (Get, OrElse, IfPresent, Sync,
// ...) evaluates the chain exactly once; the outcome is cached, so later
// terminal calls observe the same result without re-running mappers.
// Failures raised while resolving a pending value, or returned by a mapper,
// surface at that terminal call and never earlier.
package async
