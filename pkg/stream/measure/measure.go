package measure

import (
	"sync"
)

type DefaultMeasure struct {
	mu     sync.Mutex
	Stages map[string]Metric
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		Stages: make(map[string]Metric),
	}
}

func (m *DefaultMeasure) AddMetric(stageID, name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()
	mt := &DefaultMetric{
		mu:   &sync.Mutex{},
		name: name,
	}
	m.Stages[stageID] = mt

	return mt
}

func (m *DefaultMeasure) GetMetric(stageID string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.Stages[stageID]
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]Metric, len(m.Stages))
	for id, mt := range m.Stages {
		out[id] = mt
	}

	return out
}

var _ Measure = (*DefaultMeasure)(nil)
