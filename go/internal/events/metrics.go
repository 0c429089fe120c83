package events

import (
	"context"
	"sync"
	"time"
)

// MetricsCollector records the outcome of every publish.
type MetricsCollector interface {
	RecordPublished(typ Type, success bool, duration time.Duration)
}

// NoOpMetrics discards everything.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordPublished(Type, bool, time.Duration) {}

// MetricSink wraps a Sink with metrics collection.
type MetricSink struct {
	sink    Sink
	metrics MetricsCollector
}

func NewMetricSink(sink Sink, metrics MetricsCollector) *MetricSink {
	if metrics == nil {
		metrics = NoOpMetrics{}
	}
	return &MetricSink{sink: sink, metrics: metrics}
}

func (s *MetricSink) Publish(ctx context.Context, ev Event) error {
	start := time.Now()
	err := s.sink.Publish(ctx, ev)
	s.metrics.RecordPublished(ev.Type, err == nil, time.Since(start))
	return err
}

// Counters is an in-memory MetricsCollector.
type Counters struct {
	mu        sync.Mutex
	published map[Type]uint64
	failed    map[Type]uint64
	slowest   time.Duration
}

func NewCounters() *Counters {
	return &Counters{
		published: make(map[Type]uint64),
		failed:    make(map[Type]uint64),
	}
}

func (c *Counters) RecordPublished(typ Type, success bool, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if success {
		c.published[typ]++
	} else {
		c.failed[typ]++
	}
	if duration > c.slowest {
		c.slowest = duration
	}
}

// CounterSnapshot is a point-in-time copy of Counters.
type CounterSnapshot struct {
	Published map[Type]uint64 `json:"published"`
	Failed    map[Type]uint64 `json:"failed,omitempty"`
	SlowestMS int64           `json:"slowest_ms"`
}

func (c *Counters) Snapshot() CounterSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := CounterSnapshot{
		Published: make(map[Type]uint64, len(c.published)),
		Failed:    make(map[Type]uint64, len(c.failed)),
		SlowestMS: c.slowest.Milliseconds(),
	}
	for k, v := range c.published {
		s.Published[k] = v
	}
	for k, v := range c.failed {
		s.Failed[k] = v
	}
	return s
}
