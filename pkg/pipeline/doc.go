// Package pipeline provides small, immutable value pipelines built with a
// fluent builder.
//
// A Simple pipeline folds an input through an ordered list of plain
// value-to-value handlers. A Step pipeline runs handlers that return a
// StepResult and stops at the first handler asking not to continue; the
// remaining handlers are skipped, not executed.
//
// Pipelines are immutable once built: Of and AddHandler return new
// pipelines, and Execute is stateless and repeatable. Because Go methods
// cannot introduce type parameters, handlers that change the value type are
// appended with the package-level AddHandler and AddStep functions.
package pipeline
