package measure

import "time"

// Measure collects one Metric per stream stage. Stages are keyed by their
// unique ID because stage names repeat freely.
type Measure interface {
	AddMetric(stageID, name string) Metric
	GetMetric(stageID string) Metric
	AllMetrics() map[string]Metric
}

// Metric accumulates the observed computation time of one stage.
type Metric interface {
	StageName() string
	AddDuration(elapsed time.Duration)
	AVGDuration() time.Duration
	Count() int64
	SetTotalDuration(total time.Duration)
	GetTotalDuration() time.Duration
}
