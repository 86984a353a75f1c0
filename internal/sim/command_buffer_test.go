package sim

import "testing"

type recordingMetrics struct {
	counters map[string]uint64
	gauges   map[string]uint64
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		counters: make(map[string]uint64),
		gauges:   make(map[string]uint64),
	}
}

func (m *recordingMetrics) Add(key string, delta uint64)   { m.counters[key] += delta }
func (m *recordingMetrics) Store(key string, value uint64) { m.gauges[key] = value }

func TestCommandBufferWraparound(t *testing.T) {
	buffer := NewCommandBuffer(3, nil)
	cmds := []Command{
		{ActorID: "a"},
		{ActorID: "b"},
		{ActorID: "c"},
	}
	for _, cmd := range cmds {
		if !buffer.Push(cmd) {
			t.Fatalf("expected push to succeed for %+v", cmd)
		}
	}
	if buffer.Push(Command{ActorID: "overflow"}) {
		t.Fatalf("expected push to fail when buffer full")
	}
	drained := buffer.Drain()
	if len(drained) != len(cmds) {
		t.Fatalf("expected %d commands, got %d", len(cmds), len(drained))
	}
	for i, cmd := range drained {
		if cmd.ActorID != cmds[i].ActorID {
			t.Fatalf("expected drain order %v, got %v", cmds[i].ActorID, cmd.ActorID)
		}
	}
	// Push again to ensure the indices wrap correctly.
	for _, cmd := range []Command{{ActorID: "d"}, {ActorID: "e"}} {
		if !buffer.Push(cmd) {
			t.Fatalf("expected push to succeed after drain for %+v", cmd)
		}
	}
	wrapped := buffer.Drain()
	if len(wrapped) != 2 {
		t.Fatalf("expected 2 commands after wraparound, got %d", len(wrapped))
	}
	if wrapped[0].ActorID != "d" || wrapped[1].ActorID != "e" {
		t.Fatalf("unexpected order after wraparound: %+v", wrapped)
	}
}

func TestCommandBufferOverflowMetric(t *testing.T) {
	metrics := newRecordingMetrics()
	buffer := NewCommandBuffer(1, metrics)
	if !buffer.Push(Command{ActorID: "one"}) {
		t.Fatalf("expected initial push to succeed")
	}
	if buffer.Push(Command{ActorID: "two"}) {
		t.Fatalf("expected push to fail when capacity exceeded")
	}
	if metrics.counters[commandBufferOverflowMetricKey] != 1 {
		t.Fatalf("overflow counter = %d, want 1", metrics.counters[commandBufferOverflowMetricKey])
	}
	if metrics.gauges[commandBufferOccupancyMetricKey] != 1 {
		t.Fatalf("occupancy gauge = %d, want 1", metrics.gauges[commandBufferOccupancyMetricKey])
	}
	drained := buffer.Drain()
	if len(drained) != 1 || drained[0].ActorID != "one" {
		t.Fatalf("unexpected drained commands: %+v", drained)
	}
	if metrics.gauges[commandBufferOccupancyMetricKey] != 0 {
		t.Fatalf("occupancy gauge after drain = %d, want 0", metrics.gauges[commandBufferOccupancyMetricKey])
	}
}

func TestCommandBufferMinimumCapacity(t *testing.T) {
	buffer := NewCommandBuffer(0, nil)
	if buffer.Capacity() != 1 {
		t.Fatalf("Capacity = %d, want 1", buffer.Capacity())
	}
}
