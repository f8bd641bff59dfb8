// Package future provides resolve-once pending values and the adapter that
// lets a function written for resolved values accept pending ones.
//
// A Future is completed exactly once; later completions are no-ops. Awaiting
// an already resolved future returns the cached result immediately, so a
// future can safely be awaited by several consumers in turn. Continuations
// registered through Then run inline when the future resolves: the package
// never starts a goroutine on its own, except in Go which exists precisely
// for that purpose.
//
// A Value is the explicit resolved-or-pending sum type. Components decide at
// construction time whether a value is pending; nothing is discovered later
// by reflection.
package future
