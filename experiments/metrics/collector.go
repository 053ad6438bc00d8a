package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Budget       time.Duration
	Duration     time.Duration
	Iterations   int
	FullPlayouts int
	Nodes        int
	Depth        int
	Overrun      time.Duration
	Fallback     bool
}

type MoveMetric struct {
	Step     int
	Tick     int
	Move     string
	Searched bool // False when a fast path decided without searching
	SearchMetric
}

type GameMetric struct {
	Seed      uint64
	Layout    string
	Score     int
	Level     int
	Lives     int
	Ticks     int
	Decisions int
	Cleared   int // Levels cleared
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

type Collector interface {
	Start(budget time.Duration)
	AddIteration()
	AddFullPlayout()
	SetTree(nodes, depth int)
	SetOverrun(overrun time.Duration)
	SetFallback(value bool)
	Complete() SearchMetric
}

type collector struct {
	budget       time.Duration
	startTime    time.Time
	iterations   atomic.Int32
	fullPlayouts atomic.Int32
	nodes        atomic.Int32
	depth        atomic.Int32
	overrun      atomic.Int64
	fallback     atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

// Start resets the counters for a new search.
func (m *collector) Start(budget time.Duration) {
	m.startTime = time.Now()
	m.budget = budget
	m.iterations.Store(0)
	m.fullPlayouts.Store(0)
	m.nodes.Store(0)
	m.depth.Store(0)
	m.overrun.Store(0)
	m.fallback.Store(false)
}

func (m *collector) AddIteration() {
	m.iterations.Add(1)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) SetTree(nodes, depth int) {
	m.nodes.Store(int32(nodes))
	m.depth.Store(int32(depth))
}

func (m *collector) SetOverrun(overrun time.Duration) {
	m.overrun.Store(int64(overrun))
}

func (m *collector) SetFallback(value bool) {
	m.fallback.Store(value)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Budget:       m.budget,
		Duration:     time.Since(m.startTime),
		Iterations:   int(m.iterations.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
		Nodes:        int(m.nodes.Load()),
		Depth:        int(m.depth.Load()),
		Overrun:      time.Duration(m.overrun.Load()),
		Fallback:     m.fallback.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(budget time.Duration)       {}
func (m *dummyCollector) AddIteration()                    {}
func (m *dummyCollector) AddFullPlayout()                  {}
func (m *dummyCollector) SetTree(nodes, depth int)         {}
func (m *dummyCollector) SetOverrun(overrun time.Duration) {}
func (m *dummyCollector) SetFallback(value bool)           {}
func (m *dummyCollector) Complete() SearchMetric           { return SearchMetric{} }
