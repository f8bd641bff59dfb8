package stream

import (
	"time"

	"github.com/google/uuid"
)

// StageInfo describes one stage of a stream for observers: the source, each
// chained operation and the terminal operation. Stage names repeat freely
// ("map", "filter"), the ID is unique.
type StageInfo struct {
	ID    string
	Name  string
	Index int
}

func newStage(name string, index int) *StageInfo {
	return &StageInfo{
		ID:    uuid.NewString(),
		Name:  name,
		Index: index,
	}
}

// Option observes one terminal evaluation of a stream. Implementations in
// the measure and drawer sub-packages record per-stage timings and render
// the stage graph.
type Option interface {
	// New initialises the option. Called when the option is attached.
	New() error
	// PrepareStage runs once per stage before evaluation starts, in
	// source-to-terminal order. parent is nil for the source stage.
	PrepareStage(parent, stage *StageInfo) error
	// OnStageOutput runs every time a stage produced a value, with the
	// time that stage spent computing it. Called from worker goroutines
	// during parallel evaluation; implementations must be safe for
	// concurrent use.
	OnStageOutput(stage *StageInfo, elapsed time.Duration) error
	// Finish runs after the terminal operation completed, successfully
	// or not, with the total evaluation duration.
	Finish(total time.Duration) error
}
