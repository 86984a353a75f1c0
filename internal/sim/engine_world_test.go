package sim

import (
	"testing"

	"crosstown-courier/server/internal/roadnet"
	"crosstown-courier/server/internal/world"
)

func testNodes() []roadnet.RoadNode {
	return []roadnet.RoadNode{
		{ID: "center", Neighbors: &[4]roadnet.NodeID{"n", "", "s", ""}},
		{ID: "n", Position: roadnet.Vec3{Z: 10}, Neighbors: &[4]roadnet.NodeID{"", "", "center", ""}},
		{ID: "s", Position: roadnet.Vec3{Z: -10}, Neighbors: &[4]roadnet.NodeID{"center", "", "", ""}},
	}
}

func newTestEngine(t *testing.T) (EngineCore, *world.World) {
	t.Helper()
	w := world.New(world.Config{VehicleCount: 1}, world.Deps{})
	engine := NewWorldEngine(w, Deps{})
	if engine == nil {
		t.Fatalf("NewWorldEngine returned nil")
	}
	return engine, w
}

func TestWorldEngineAppliesCommands(t *testing.T) {
	engine, w := newTestEngine(t)

	err := engine.Apply([]Command{
		{Type: CommandLoadMap, Map: &MapCommand{Nodes: testNodes()}},
		{Type: CommandCycleIntersection, Intersection: &IntersectionCommand{NodeID: "center"}},
		{Type: CommandSetRushHour, RushHour: &RushHourCommand{Enabled: true}},
		{Type: CommandHireVehicle},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if w.Network().NodeCount() != 3 {
		t.Fatalf("NodeCount = %d, want 3", w.Network().NodeCount())
	}
	if got := w.IntersectionMode("center"); got != roadnet.ModeTurnLeft {
		t.Fatalf("mode = %s, want turn_left", got)
	}
	if !w.RushHour() {
		t.Fatalf("rush hour not enabled")
	}
	if len(w.Vehicles()) != 2 {
		t.Fatalf("fleet size = %d, want 2 after hire", len(w.Vehicles()))
	}
}

func TestWorldEngineIgnoresMalformedCommands(t *testing.T) {
	engine, w := newTestEngine(t)

	err := engine.Apply([]Command{
		{Type: CommandCycleIntersection},           // missing payload
		{Type: CommandSetRushHour},                 // missing payload
		{Type: CommandType("Teleport")},            // unknown type
		{Type: CommandCycleIntersection, Intersection: &IntersectionCommand{NodeID: "ghost"}},
		{Type: CommandHireVehicle}, // fails without a network
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(w.Vehicles()) != 1 {
		t.Fatalf("fleet size = %d, want unchanged", len(w.Vehicles()))
	}
}

func TestWorldEngineSnapshot(t *testing.T) {
	engine, w := newTestEngine(t)
	if err := engine.Apply([]Command{{Type: CommandLoadMap, Map: &MapCommand{Nodes: testNodes()}}}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	engine.Step(LoopTickContext{Tick: 3, Delta: 0.1})
	snap := engine.Snapshot()

	if snap.Tick != 3 {
		t.Fatalf("Tick = %d, want 3", snap.Tick)
	}
	if snap.NodeCount != 3 || snap.PathCount != 4 {
		t.Fatalf("counts = %d nodes %d paths, want 3/4", snap.NodeCount, snap.PathCount)
	}
	if len(snap.Vehicles) != 1 {
		t.Fatalf("vehicles = %d, want 1", len(snap.Vehicles))
	}
	if snap.Vehicles[0].PathID == "" {
		t.Fatalf("vehicle snapshot missing path id")
	}
	if len(snap.Intersections) != 1 || snap.Intersections[0].NodeID != "center" {
		t.Fatalf("intersections = %+v", snap.Intersections)
	}
	if w.Tick() != 3 {
		t.Fatalf("world tick = %d", w.Tick())
	}
}
