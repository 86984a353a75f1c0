package roadnet

import "testing"

func fourWay() *RoadNode {
	return &RoadNode{
		ID:        "center",
		Neighbors: &[4]NodeID{"n", "e", "s", "w"},
	}
}

func TestNextHopFourWayModes(t *testing.T) {
	node := fourWay()
	cases := []struct {
		name     string
		incoming Dir
		mode     Mode
		wantNext NodeID
		wantOut  Dir
	}{
		// Entering from the south slot, heading is north.
		{"pass through goes straight", South, ModePassThrough, "n", North},
		{"turn right exits east", South, ModeTurnRight, "e", East},
		{"turn left exits west", South, ModeTurnLeft, "w", West},
		{"pass through from east", East, ModePassThrough, "w", West},
		{"turn left from north", North, ModeTurnLeft, "e", East},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hop, ok := NextHop(node, tc.incoming, tc.mode, nil)
			if !ok {
				t.Fatalf("expected a hop")
			}
			if hop.Next != tc.wantNext || hop.Outgoing != tc.wantOut {
				t.Fatalf("hop = %+v, want next=%s out=%v", hop, tc.wantNext, tc.wantOut)
			}
		})
	}
}

func TestNextHopCornerFollowsRemainingSlot(t *testing.T) {
	node := &RoadNode{
		ID:        "corner",
		Neighbors: &[4]NodeID{"up", "right", "", ""},
	}
	// Entering via the north slot leaves exactly one other exit.
	hop, ok := NextHop(node, North, ModePassThrough, nil)
	if !ok {
		t.Fatalf("expected a hop")
	}
	if hop.Next != "right" || hop.Outgoing != East {
		t.Fatalf("hop = %+v, want the east slot", hop)
	}
	// Mode never changes a corner's only option.
	for _, mode := range []Mode{ModeTurnLeft, ModeTurnRight} {
		hop, ok := NextHop(node, North, mode, nil)
		if !ok || hop.Outgoing != East {
			t.Fatalf("mode %s: hop = %+v ok=%v", mode, hop, ok)
		}
	}
}

func TestNextHopDeadEndUTurns(t *testing.T) {
	node := &RoadNode{
		ID:        "end",
		Neighbors: &[4]NodeID{"", "", "back", ""},
	}
	hop, ok := NextHop(node, South, ModePassThrough, nil)
	if !ok {
		t.Fatalf("expected a U-turn hop")
	}
	if hop.Next != "back" || hop.Outgoing != South {
		t.Fatalf("hop = %+v, want back out the south slot", hop)
	}
}

func TestNextHopNeverExitsViaEntrance(t *testing.T) {
	node := fourWay()
	for incoming := North; incoming <= West; incoming++ {
		for _, mode := range []Mode{ModePassThrough, ModeTurnLeft, ModeTurnRight} {
			hop, ok := NextHop(node, incoming, mode, nil)
			if !ok {
				t.Fatalf("incoming=%v mode=%s: expected a hop", incoming, mode)
			}
			if hop.Outgoing == incoming {
				t.Fatalf("incoming=%v mode=%s: exited via the entrance", incoming, mode)
			}
		}
	}
}

func TestNextHopRejectsBadInput(t *testing.T) {
	if _, ok := NextHop(nil, North, ModePassThrough, nil); ok {
		t.Fatalf("nil node must not route")
	}
	if _, ok := NextHop(&RoadNode{ID: "bare"}, North, ModePassThrough, nil); ok {
		t.Fatalf("node without slot data must not route")
	}
	if _, ok := NextHop(fourWay(), DirNone, ModePassThrough, nil); ok {
		t.Fatalf("invalid entrance must not route")
	}
	empty := &RoadNode{ID: "vacant", Neighbors: &[4]NodeID{}}
	if _, ok := NextHop(empty, North, ModePassThrough, nil); ok {
		t.Fatalf("all-vacant slots must not route")
	}
}

func TestCycleModeOrder(t *testing.T) {
	mode := ModePassThrough
	want := []Mode{ModeTurnLeft, ModeTurnRight, ModePassThrough}
	for _, expected := range want {
		mode = CycleMode(mode)
		if mode != expected {
			t.Fatalf("CycleMode = %s, want %s", mode, expected)
		}
	}
}
