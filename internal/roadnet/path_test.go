package roadnet

import (
	"math"
	"testing"
)

func TestPathIDRoundTrip(t *testing.T) {
	id := PathID("a", "b")
	if id != "a_to_b" {
		t.Fatalf("PathID = %q", id)
	}
	src, dst, ok := SplitPathID(id)
	if !ok || src != "a" || dst != "b" {
		t.Fatalf("SplitPathID(%q) = %q %q %v", id, src, dst, ok)
	}
	reversed, ok := ReversePathID(id)
	if !ok || reversed != "b_to_a" {
		t.Fatalf("ReversePathID(%q) = %q %v", id, reversed, ok)
	}
}

func TestSplitPathIDRejectsMalformed(t *testing.T) {
	for _, id := range []string{"", "a", "a_to_", "_to_b", "ab"} {
		if _, _, ok := SplitPathID(id); ok {
			t.Errorf("SplitPathID(%q) accepted a malformed id", id)
		}
	}
}

func TestSampleEndpointsAreExact(t *testing.T) {
	path := &RoadPath{
		ID:     "a_to_b",
		From:   "a",
		To:     "b",
		Points: []Vec3{{X: 1, Z: 2}, {X: 4, Z: 2}, {X: 4, Z: 6}},
		Length: 7,
	}
	if got := path.Sample(0); got != path.Points[0] {
		t.Fatalf("Sample(0) = %+v, want first point", got)
	}
	if got := path.Sample(1); got != path.Points[2] {
		t.Fatalf("Sample(1) = %+v, want last point", got)
	}
	if got := path.Sample(-0.5); got != path.Points[0] {
		t.Fatalf("Sample(-0.5) = %+v, want clamped start", got)
	}
	if got := path.Sample(1.5); got != path.Points[2] {
		t.Fatalf("Sample(1.5) = %+v, want clamped end", got)
	}
}

func TestSampleInteriorInterpolates(t *testing.T) {
	path := NewPath(
		&RoadNode{ID: "a", Position: Vec3{}},
		&RoadNode{ID: "b", Position: Vec3{X: 10}},
	)
	got := path.Sample(0.25)
	if math.Abs(got.X-2.5) > 1e-9 || got.Y != 0 || got.Z != 0 {
		t.Fatalf("Sample(0.25) = %+v, want x=2.5", got)
	}
}

func TestNewPathLength(t *testing.T) {
	path := NewPath(
		&RoadNode{ID: "a", Position: Vec3{}},
		&RoadNode{ID: "b", Position: Vec3{X: 3, Z: 4}},
	)
	if math.Abs(path.Length-5) > 1e-9 {
		t.Fatalf("Length = %f, want 5", path.Length)
	}
	if path.ID != "a_to_b" || path.From != "a" || path.To != "b" {
		t.Fatalf("unexpected path identity: %+v", path)
	}
}

func TestTangents(t *testing.T) {
	path := &RoadPath{
		Points: []Vec3{{}, {X: 1}, {X: 1, Z: 1}},
	}
	if got := path.StartTangent(); got != (Vec3{X: 1}) {
		t.Fatalf("StartTangent = %+v", got)
	}
	if got := path.EndTangent(); got != (Vec3{Z: 1}) {
		t.Fatalf("EndTangent = %+v", got)
	}
}
