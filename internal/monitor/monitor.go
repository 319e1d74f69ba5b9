// Package monitor ties the counter, the period sampler and the graph
// together into the single-threaded counting loop.
package monitor

import (
	"fmt"
	"time"

	"github.com/verte-zerg/tuicount/internal/counter"
	"github.com/verte-zerg/tuicount/internal/graph"
	"github.com/verte-zerg/tuicount/internal/history"
	"github.com/verte-zerg/tuicount/internal/model"
)

// DefaultPeriod is the sampling period used when none is configured.
const DefaultPeriod = 10 * time.Second

// Monitor owns the counting state. It is not safe for concurrent use; the
// loop that drives it applies input, then Tick, then renders.
type Monitor struct {
	counter  *counter.Counter
	sampler  *history.Sampler
	viewport graph.Viewport
	opts     graph.Options
	graph    graph.Graph

	period     time.Duration
	startedAt  time.Time
	lastSample time.Time
	issued     int
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithViewport overrides the plotting viewport.
func WithViewport(vp graph.Viewport) Option {
	return func(m *Monitor) {
		m.viewport = vp
	}
}

// WithClampY enables y clamping on graph rebuilds.
func WithClampY(clamp bool) Option {
	return func(m *Monitor) {
		m.opts.ClampY = clamp
	}
}

// New starts a monitor at zero with its sampling clock reset to now.
func New(period time.Duration, now time.Time, options ...Option) (*Monitor, error) {
	if period <= 0 {
		return nil, fmt.Errorf("sampling period must be > 0, got %v", period)
	}
	c := counter.New()
	m := &Monitor{
		counter:    c,
		sampler:    history.New(c.Value()),
		viewport:   graph.DefaultViewport(),
		period:     period,
		startedAt:  now,
		lastSample: now,
	}
	for _, opt := range options {
		opt(m)
	}
	m.rebuild()
	return m, nil
}

// Increment counts one arrival. The issued count only grows when the
// counter actually advanced, so it never exceeds the counter value.
func (m *Monitor) Increment() bool {
	if !m.counter.Increment() {
		return false
	}
	m.issued++
	return true
}

// Decrement undoes one arrival when the issued count is positive. It
// reports whether the counter moved.
func (m *Monitor) Decrement() (bool, error) {
	if m.issued <= 0 {
		return false, nil
	}
	if err := m.counter.Decrement(); err != nil {
		return false, err
	}
	m.issued--
	return true, nil
}

// Tick samples the counter and rebuilds the graph once a full period has
// elapsed since the previous sample. It reports whether it sampled.
func (m *Monitor) Tick(now time.Time) bool {
	if now.Sub(m.lastSample) < m.period {
		return false
	}
	m.Sample()
	m.lastSample = now
	return true
}

// Sample records the delta since the previous sample and rebuilds the
// graph, regardless of the clock.
func (m *Monitor) Sample() int {
	delta := m.sampler.Sample(m.counter.Value())
	m.rebuild()
	return delta
}

func (m *Monitor) rebuild() {
	m.graph = graph.Rebuild(m.sampler.History(), m.viewport, m.opts)
}

// Value returns the counter value.
func (m *Monitor) Value() int { return m.counter.Value() }

// Digits returns the counter digits, thousands first.
func (m *Monitor) Digits() [counter.Width]int { return m.counter.Digits() }

// Issued returns the caller-side count guarding Decrement.
func (m *Monitor) Issued() int { return m.issued }

// History returns the delta history including the leading zero.
func (m *Monitor) History() []int { return m.sampler.History() }

// Samples returns the number of completed periods.
func (m *Monitor) Samples() int { return m.sampler.Len() - 1 }

// LastDelta returns the most recent delta.
func (m *Monitor) LastDelta() int { return m.sampler.Last() }

// Graph returns the graph built at the last sample.
func (m *Monitor) Graph() graph.Graph { return m.graph }

// Viewport returns the plotting viewport.
func (m *Monitor) Viewport() graph.Viewport { return m.viewport }

// Period returns the sampling period.
func (m *Monitor) Period() time.Duration { return m.period }

// StartedAt returns when the monitor was created.
func (m *Monitor) StartedAt() time.Time { return m.startedAt }

// NextSample returns how long until the next sample is due.
func (m *Monitor) NextSample(now time.Time) time.Duration {
	left := m.period - now.Sub(m.lastSample)
	if left < 0 {
		return 0
	}
	return left
}

// Session snapshots the run for persistence.
func (m *Monitor) Session(end time.Time) model.Session {
	deltas := m.sampler.History()
	return model.Session{
		StartedAt: m.startedAt,
		EndedAt:   end,
		Period:    m.period,
		Deltas:    deltas,
		Total:     history.Sum(deltas),
		Final:     m.counter.Value(),
	}
}
