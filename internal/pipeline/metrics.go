package pipeline

import (
	"sync"
	"time"
)

const (
	StageDetect   = "detect"
	StageSelect   = "select"
	StageValidate = "validate"

	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

type StageMetrics struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Status    string
}

type MetricsCollector struct {
	metrics map[string]*StageMetrics
	mu      sync.RWMutex
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics: make(map[string]*StageMetrics),
	}
}

func (mc *MetricsCollector) StartStage(stage string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.metrics[stage] = &StageMetrics{
		StartTime: time.Now(),
		Status:    StatusRunning,
	}
}

// EndStage closes a started stage and returns its duration. Unknown stages
// report zero.
func (mc *MetricsCollector) EndStage(stage string, status string) time.Duration {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	m, exists := mc.metrics[stage]
	if !exists {
		return 0
	}
	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Status = status
	return m.Duration
}

// Stage returns a copy of the metrics recorded for stage.
func (mc *MetricsCollector) Stage(stage string) (StageMetrics, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	m, exists := mc.metrics[stage]
	if !exists {
		return StageMetrics{}, false
	}
	return *m, true
}
