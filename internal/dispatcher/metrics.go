package dispatcher

import (
	"sort"
	"sync"
	"time"

	"github.com/dshills/loom/internal/dispatcher/handler"
)

// Metrics collects dispatch statistics.
type Metrics struct {
	mu sync.RWMutex

	commands map[string]*CommandMetrics

	totalDispatches uint64
	totalNoOps      uint64
	totalErrors     uint64
	totalPanics     uint64
	totalDuration   time.Duration
}

// CommandMetrics holds metrics for one action name.
type CommandMetrics struct {
	Name          string
	DispatchCount uint64
	NoOpCount     uint64
	ErrorCount    uint64
	PanicCount    uint64
	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	LastStatus    handler.ResultStatus
	LastDispatch  time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		commands: make(map[string]*CommandMetrics),
	}
}

// RecordDispatch records a completed dispatch.
func (m *Metrics) RecordDispatch(name string, duration time.Duration, status handler.ResultStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalDispatches++
	m.totalDuration += duration

	cm := m.command(name)
	if cm.DispatchCount == 0 || duration < cm.MinDuration {
		cm.MinDuration = duration
	}
	cm.DispatchCount++
	cm.TotalDuration += duration
	cm.MaxDuration = max(cm.MaxDuration, duration)
	cm.LastStatus = status
	cm.LastDispatch = time.Now()

	switch status {
	case handler.StatusNoOp:
		m.totalNoOps++
		cm.NoOpCount++
	case handler.StatusError:
		m.totalErrors++
		cm.ErrorCount++
	}
}

// RecordPanic records a recovered handler panic. The dispatch itself is
// recorded separately as an error.
func (m *Metrics) RecordPanic(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalPanics++
	m.command(name).PanicCount++
}

func (m *Metrics) command(name string) *CommandMetrics {
	cm := m.commands[name]
	if cm == nil {
		cm = &CommandMetrics{Name: name}
		m.commands[name] = cm
	}
	return cm
}

// TotalDispatches returns the total number of dispatches.
func (m *Metrics) TotalDispatches() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalDispatches
}

// TotalErrors returns the total number of error results.
func (m *Metrics) TotalErrors() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalErrors
}

// TotalPanics returns the total number of panics recovered.
func (m *Metrics) TotalPanics() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalPanics
}

// Command returns a copy of the metrics for one action, or nil.
func (m *Metrics) Command(name string) *CommandMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cm := m.commands[name]
	if cm == nil {
		return nil
	}
	c := *cm
	return &c
}

// Top returns the n most dispatched actions.
func (m *Metrics) Top(n int) []CommandMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]CommandMetrics, 0, len(m.commands))
	for _, cm := range m.commands {
		out = append(out, *cm)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DispatchCount != out[j].DispatchCount {
			return out[i].DispatchCount > out[j].DispatchCount
		}
		return out[i].Name < out[j].Name
	})
	return out[:min(n, len(out))]
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.commands = make(map[string]*CommandMetrics)
	m.totalDispatches = 0
	m.totalNoOps = 0
	m.totalErrors = 0
	m.totalPanics = 0
	m.totalDuration = 0
}

// MetricsSnapshot is a point-in-time copy of the totals.
type MetricsSnapshot struct {
	TotalDispatches uint64
	TotalNoOps      uint64
	TotalErrors     uint64
	TotalPanics     uint64
	TotalDuration   time.Duration
	AverageDuration time.Duration
	CommandCount    int
	Timestamp       time.Time
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := MetricsSnapshot{
		TotalDispatches: m.totalDispatches,
		TotalNoOps:      m.totalNoOps,
		TotalErrors:     m.totalErrors,
		TotalPanics:     m.totalPanics,
		TotalDuration:   m.totalDuration,
		CommandCount:    len(m.commands),
		Timestamp:       time.Now(),
	}
	if m.totalDispatches > 0 {
		s.AverageDuration = m.totalDuration / time.Duration(m.totalDispatches)
	}
	return s
}

// AverageDuration returns the average dispatch duration for the action.
func (cm CommandMetrics) AverageDuration() time.Duration {
	if cm.DispatchCount == 0 {
		return 0
	}
	return cm.TotalDuration / time.Duration(cm.DispatchCount)
}
