package drawer

import (
	"time"

	"github.com/askiada/go-flow/pkg/stream/measure"
)

// Drawer is an interface that defines the methods for drawing a stream.
type Drawer interface {
	// AddStage adds a stage to the stream drawer. Stages are keyed by
	// their unique ID, name is the display label.
	AddStage(stageID, name string) error
	// AddLink adds a link between a parent stage and its child.
	AddLink(parentID, childID string) error
	// Draw creates a file with the stream graph.
	Draw() error
	// SetTotalTime sets the total evaluation time on the stage.
	SetTotalTime(stageID string, total time.Duration) error
	// AddMeasure adds a measure to the stream drawer.
	AddMeasure(measure measure.Measure) error
}
