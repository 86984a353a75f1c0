package world

import (
	"math"
	"testing"

	"crosstown-courier/server/internal/roadnet"
)

func TestAdvanceVehicleAccruesProgressAndWear(t *testing.T) {
	w := newTestWorld(t, Config{VehicleCount: 1, VehicleSpeed: 2}, lineNodes())
	v := firstVehicle(t, w)
	if v.Path.ID != "a_to_b" {
		t.Fatalf("vehicle placed on %s, want a_to_b", v.Path.ID)
	}

	w.advanceVehicle(v, 1)
	if math.Abs(v.Progress-0.2) > 1e-9 {
		t.Fatalf("Progress = %f, want 0.2", v.Progress)
	}
	if math.Abs(v.DistanceDriven-2) > 1e-9 {
		t.Fatalf("DistanceDriven = %f, want 2", v.DistanceDriven)
	}
}

func TestAdvanceVehicleSwapsPathAtBoundary(t *testing.T) {
	w := newTestWorld(t, Config{VehicleCount: 1, VehicleSpeed: 2}, lineNodes())
	v := firstVehicle(t, w)
	v.Progress = 0.95

	w.advanceVehicle(v, 1)
	if v.Path.ID != "b_to_a" {
		t.Fatalf("Path = %s, want b_to_a", v.Path.ID)
	}
	if v.Progress != 0 {
		t.Fatalf("Progress = %f, want 0 on the new path", v.Progress)
	}
	if v.Nav.PreviousNodeID != "a" {
		t.Fatalf("PreviousNodeID = %s, want a", v.Nav.PreviousNodeID)
	}
}

func TestAdvanceVehicleSkipsStoppedAndBroken(t *testing.T) {
	w := newTestWorld(t, Config{VehicleCount: 1}, lineNodes())
	v := firstVehicle(t, w)

	for _, status := range []VehicleStatus{VehicleStopped, VehicleBroken} {
		v.Status = status
		v.Progress = 0.5
		w.advanceVehicle(v, 1)
		if v.Progress != 0.5 {
			t.Fatalf("status %s: vehicle moved", status)
		}
	}
}

func TestRedLightHoldsVehicleAtBoundary(t *testing.T) {
	nodes := lineNodes()
	nodes[1].Tags = append(nodes[1].Tags, roadnet.TagRedLight)
	nodes[1].Light = &roadnet.LightTimings{GreenMillis: 1000, RedMillis: 1000}

	w := newTestWorld(t, Config{VehicleCount: 1, VehicleSpeed: 2}, nodes)
	v := firstVehicle(t, w)
	v.Progress = 0.99

	w.elapsedMillis = 1500 // red phase
	w.advanceVehicle(v, 1)
	if v.Path.ID != "a_to_b" || v.Progress != 1 {
		t.Fatalf("vehicle ran the red light: path=%s progress=%f", v.Path.ID, v.Progress)
	}

	w.elapsedMillis = 500 // green phase
	w.advanceVehicle(v, 0.01)
	if v.Path.ID != "b_to_a" {
		t.Fatalf("vehicle did not proceed on green: path=%s", v.Path.ID)
	}
}

func TestReversalBacksDownAndReroutes(t *testing.T) {
	w := newTestWorld(t, Config{VehicleCount: 1, VehicleSpeed: 2}, lineNodes())
	v := firstVehicle(t, w)
	v.Progress = 0.3
	v.StartReversing(2000)

	w.advanceVehicle(v, 1)
	if math.Abs(v.Progress-0.1) > 1e-9 {
		t.Fatalf("Progress = %f, want 0.1", v.Progress)
	}
	if !v.Reversing {
		t.Fatalf("reversal ended early")
	}

	w.advanceVehicle(v, 1)
	if v.Reversing {
		t.Fatalf("reversal did not end at the source node")
	}
	// Arriving back at a as if the finished path had been b_to_a.
	if v.Path.ID != "a_to_b" || v.Progress != 0 {
		t.Fatalf("vehicle did not reroute from the source: path=%s progress=%f", v.Path.ID, v.Progress)
	}
	if v.Nav.PreviousNodeID != "b" {
		t.Fatalf("PreviousNodeID = %s, want b", v.Nav.PreviousNodeID)
	}
}

func TestWearTripsServiceState(t *testing.T) {
	w := newTestWorld(t, Config{VehicleCount: 1, VehicleSpeed: 2, WearDistance: 3}, lineNodes())
	v := firstVehicle(t, w)

	w.advanceVehicle(v, 1) // 2 units driven
	if v.Status == VehicleNeedsService {
		t.Fatalf("service tripped below the threshold")
	}
	w.advanceVehicle(v, 1) // 4 units total
	if v.Status != VehicleNeedsService {
		t.Fatalf("Status = %s, want needs_service", v.Status)
	}
}

func TestServiceNodeClearsWearAndDebitsFee(t *testing.T) {
	nodes := lineNodes()
	nodes[1].Tags = append(nodes[1].Tags, roadnet.TagService)

	w := newTestWorld(t, Config{VehicleCount: 1, VehicleSpeed: 2, WearDistance: 5}, nodes)
	v := firstVehicle(t, w)
	v.Progress = 0.9
	v.WearDistance = 4.5 // crossing the boundary trips the threshold

	w.advanceVehicle(v, 1)
	if v.Status != VehicleIdle {
		t.Fatalf("Status = %s, want idle after service", v.Status)
	}
	if v.WearDistance != 0 {
		t.Fatalf("WearDistance = %f, want 0 after service", v.WearDistance)
	}
	if v.Money != -75 {
		t.Fatalf("Money = %d, want -75 after the service fee", v.Money)
	}
}
