package measure

import (
	"time"

	"github.com/askiada/go-flow/pkg/stream"
)

type streamMeasure struct {
	Measure
}

func (sm *streamMeasure) New() error {
	return nil
}

func (sm *streamMeasure) PrepareStage(parent, stage *stream.StageInfo) error {
	sm.AddMetric(stage.ID, stage.Name)

	return nil
}

func (sm *streamMeasure) OnStageOutput(stage *stream.StageInfo, elapsed time.Duration) error {
	mt := sm.GetMetric(stage.ID)
	if mt == nil {
		return nil
	}
	mt.AddDuration(elapsed)

	return nil
}

func (sm *streamMeasure) Finish(total time.Duration) error {
	for _, mt := range sm.AllMetrics() {
		mt.SetTotalDuration(total)
	}

	return nil
}

// StreamMeasure attaches measure as a stream option recording per stage
// computation time.
func StreamMeasure(measure Measure) stream.Option {
	return &streamMeasure{measure}
}
