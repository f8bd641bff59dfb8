// Package optional provides an immutable container for a value that may be
// absent, with a chainable transformation API.
//
// An empty optional short-circuits every transformation: mappers, predicates
// and consumers are never invoked on it. Transformations return new
// instances; an Optional never mutates in place, so a partially built chain
// can be reused as a prefix for several longer chains.
//
// Type-changing operations (Map, FlatMap) are free functions because Go
// methods cannot introduce type parameters.
package optional
