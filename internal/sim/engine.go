package sim

import "time"

// LoopTickContext describes one scheduled simulation step.
type LoopTickContext struct {
	Tick  uint64
	Now   time.Time
	Delta float64
}

// EngineCore is the simulation kernel driven by the loop.
type EngineCore interface {
	Deps() Deps
	Apply([]Command) error
	Step(LoopTickContext)
	Snapshot() Snapshot
}

// Engine defines the surface area exposed to non-simulation callers.
type Engine interface {
	Apply([]Command) error
	Snapshot() Snapshot
	Enqueue(Command) (bool, string)
	Pending() int
}
