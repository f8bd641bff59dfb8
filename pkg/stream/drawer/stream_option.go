package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-flow/pkg/stream"
	"github.com/askiada/go-flow/pkg/stream/measure"
)

type streamDrawer struct {
	Drawer
	m    measure.Measure
	last *stream.StageInfo
}

func (sd *streamDrawer) New() error {
	return nil
}

func (sd *streamDrawer) PrepareStage(parent, stage *stream.StageInfo) error {
	err := sd.AddStage(stage.ID, stage.Name)
	if err != nil {
		return err
	}

	if parent != nil {
		err = sd.AddLink(parent.ID, stage.ID)
		if err != nil {
			return err
		}
	}

	sd.last = stage

	return nil
}

func (sd *streamDrawer) OnStageOutput(stage *stream.StageInfo, elapsed time.Duration) error {
	return nil
}

func (sd *streamDrawer) Finish(total time.Duration) error {
	if sd.last != nil {
		err := sd.SetTotalTime(sd.last.ID, total)
		if err != nil {
			return errors.Wrap(err, "unable to set total time")
		}
	}

	if sd.m != nil {
		err := sd.AddMeasure(sd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err := sd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw stream")
	}

	return nil
}

// StreamDrawer attaches drawer as a stream option rendering the stage graph
// after the terminal operation. measure may be nil; when set the stages are
// coloured by their average computation time.
func StreamDrawer(drawer Drawer, measure measure.Measure) stream.Option {
	return &streamDrawer{drawer, measure, nil}
}
