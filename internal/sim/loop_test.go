package sim

import (
	"testing"
	"time"
)

// fakeCore records the command batches and ticks the loop feeds it.
type fakeCore struct {
	deps    Deps
	applied [][]Command
	steps   []LoopTickContext
}

func (c *fakeCore) Deps() Deps { return c.deps }

func (c *fakeCore) Apply(cmds []Command) error {
	c.applied = append(c.applied, cmds)
	return nil
}

func (c *fakeCore) Step(ctx LoopTickContext) {
	c.steps = append(c.steps, ctx)
}

func (c *fakeCore) Snapshot() Snapshot {
	return Snapshot{Tick: uint64(len(c.steps))}
}

func newTestLoop(cfg LoopConfig, hooks LoopHooks) (*Loop, *fakeCore) {
	core := &fakeCore{}
	return NewLoop(core, cfg, hooks), core
}

func TestLoopAdvanceAppliesStagedCommands(t *testing.T) {
	loop, core := newTestLoop(LoopConfig{CommandCapacity: 8}, LoopHooks{})

	for _, actor := range []string{"op-1", "op-2"} {
		if ok, reason := loop.Enqueue(Command{ActorID: actor, Type: CommandHireVehicle}); !ok {
			t.Fatalf("enqueue rejected: %s", reason)
		}
	}
	if loop.Pending() != 2 {
		t.Fatalf("Pending = %d, want 2", loop.Pending())
	}

	result := loop.Advance(LoopTickContext{Tick: 5, Now: time.Now(), Delta: 0.05})

	if loop.Pending() != 0 {
		t.Fatalf("Pending = %d after advance, want 0", loop.Pending())
	}
	if len(core.applied) != 1 || len(core.applied[0]) != 2 {
		t.Fatalf("applied batches = %+v, want one batch of 2", core.applied)
	}
	if len(core.steps) != 1 || core.steps[0].Tick != 5 || core.steps[0].Delta != 0.05 {
		t.Fatalf("steps = %+v", core.steps)
	}
	if result.Tick != 5 || len(result.Commands) != 2 {
		t.Fatalf("result = %+v", result)
	}
}

func TestLoopEnqueuePerActorThrottle(t *testing.T) {
	loop, _ := newTestLoop(LoopConfig{CommandCapacity: 8, PerActorLimit: 2}, LoopHooks{})

	for i := 0; i < 2; i++ {
		if ok, _ := loop.Enqueue(Command{ActorID: "op-1"}); !ok {
			t.Fatalf("enqueue %d rejected below the limit", i)
		}
	}
	ok, reason := loop.Enqueue(Command{ActorID: "op-1"})
	if ok || reason != CommandRejectQueueLimit {
		t.Fatalf("expected queue_limit rejection, got ok=%v reason=%s", ok, reason)
	}

	// Other actors are unaffected.
	if ok, _ := loop.Enqueue(Command{ActorID: "op-2"}); !ok {
		t.Fatalf("other actor throttled")
	}

	// Draining resets the per-actor counters.
	loop.DrainCommands()
	if ok, _ := loop.Enqueue(Command{ActorID: "op-1"}); !ok {
		t.Fatalf("throttle not reset after drain")
	}
}

func TestLoopEnqueueQueueFull(t *testing.T) {
	var dropped []string
	loop, _ := newTestLoop(LoopConfig{CommandCapacity: 1}, LoopHooks{
		OnCommandDrop: func(reason string, cmd Command) {
			dropped = append(dropped, reason)
		},
	})

	if ok, _ := loop.Enqueue(Command{ActorID: "op-1"}); !ok {
		t.Fatalf("first enqueue rejected")
	}
	ok, reason := loop.Enqueue(Command{ActorID: "op-2"})
	if ok || reason != CommandRejectQueueFull {
		t.Fatalf("expected queue_full rejection, got ok=%v reason=%s", ok, reason)
	}
	if len(dropped) != 1 || dropped[0] != CommandRejectQueueFull {
		t.Fatalf("drop hook = %v", dropped)
	}
}

func TestLoopQueueWarning(t *testing.T) {
	var warned []int
	loop, _ := newTestLoop(LoopConfig{CommandCapacity: 8, WarningStep: 2}, LoopHooks{
		OnQueueWarning: func(length int) { warned = append(warned, length) },
	})

	for i := 0; i < 4; i++ {
		loop.Enqueue(Command{ActorID: "op-1"})
	}
	if len(warned) != 2 || warned[0] != 2 || warned[1] != 4 {
		t.Fatalf("warnings = %v, want [2 4]", warned)
	}
}

func TestNilLoopIsInert(t *testing.T) {
	var loop *Loop
	if ok, reason := loop.Enqueue(Command{}); ok || reason != CommandRejectQueueFull {
		t.Fatalf("nil loop accepted a command")
	}
	if loop.Pending() != 0 {
		t.Fatalf("nil loop reported pending commands")
	}
	loop.Advance(LoopTickContext{})
}
