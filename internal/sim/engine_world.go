package sim

import (
	"crosstown-courier/server/internal/roadnet"
	"crosstown-courier/server/internal/world"
)

// worldEngine adapts a world.World to the EngineCore interface.
type worldEngine struct {
	world *world.World
	deps  Deps
}

// NewWorldEngine wraps a world instance for the simulation loop.
func NewWorldEngine(w *world.World, deps Deps) EngineCore {
	if w == nil {
		return nil
	}
	return &worldEngine{world: w, deps: deps}
}

func (e *worldEngine) Deps() Deps {
	if e == nil {
		return Deps{}
	}
	return e.deps
}

// Apply consumes staged commands before the movement passes run.
func (e *worldEngine) Apply(cmds []Command) error {
	if e == nil {
		return nil
	}
	for _, cmd := range cmds {
		switch cmd.Type {
		case CommandCycleIntersection:
			if cmd.Intersection == nil {
				continue
			}
			if _, ok := e.world.CycleIntersection(roadnet.NodeID(cmd.Intersection.NodeID)); !ok {
				e.logf("ignoring mode cycle for unknown intersection %s", cmd.Intersection.NodeID)
			}
		case CommandLoadMap:
			if cmd.Map == nil {
				continue
			}
			e.world.RebuildNetwork(cmd.Map.Nodes)
		case CommandHireVehicle:
			if _, ok := e.world.HireVehicle(); !ok {
				e.logf("hire rejected: no road network installed")
			}
		case CommandSetRushHour:
			if cmd.RushHour == nil {
				continue
			}
			e.world.SetRushHour(cmd.RushHour.Enabled)
		default:
			e.logf("ignoring unknown command type %q", cmd.Type)
		}
	}
	return nil
}

func (e *worldEngine) Step(ctx LoopTickContext) {
	if e == nil {
		return
	}
	e.world.Step(ctx.Tick, ctx.Delta)
}

func (e *worldEngine) Snapshot() Snapshot {
	if e == nil {
		return Snapshot{}
	}

	network := e.world.Network()

	vehicles := e.world.Vehicles()
	wireVehicles := make([]Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		pos := v.Position()
		wire := Vehicle{
			ID:             v.ID,
			Status:         string(v.Status),
			Progress:       v.Progress,
			X:              pos.X,
			Y:              pos.Y,
			Z:              pos.Z,
			Carrying:       v.Carrying,
			DeliveryID:     v.DeliveryID,
			Money:          v.Money,
			Reversing:      v.Reversing,
			Completed:      v.Completed,
			DistanceDriven: v.DistanceDriven,
		}
		if v.Path != nil {
			wire.PathID = v.Path.ID
		}
		wireVehicles = append(wireVehicles, wire)
	}

	deliveries := e.world.Deliveries()
	wireDeliveries := make([]Delivery, 0, len(deliveries))
	for _, event := range deliveries {
		wireDeliveries = append(wireDeliveries, Delivery{
			ID:        event.ID,
			Pickup:    string(event.PickupNodeID),
			Dropoff:   string(event.DropoffNodeID),
			Status:    string(event.Status),
			Payout:    event.Payout,
			Tier:      event.Tier,
			Color:     event.Color,
			SpawnedAt: event.SpawnedAtMillis,
		})
	}

	intersections := e.world.Intersections()
	wireIntersections := make([]Intersection, 0, len(intersections))
	for _, state := range intersections {
		wireIntersections = append(wireIntersections, Intersection{
			NodeID: string(state.NodeID),
			Mode:   string(state.Mode),
		})
	}

	return Snapshot{
		Tick:          e.world.Tick(),
		Vehicles:      wireVehicles,
		Deliveries:    wireDeliveries,
		Intersections: wireIntersections,
		RushHour:      e.world.RushHour(),
		NodeCount:     network.NodeCount(),
		PathCount:     network.PathCount(),
	}
}

func (e *worldEngine) logf(format string, args ...any) {
	if e == nil || e.deps.Logger == nil {
		return
	}
	e.deps.Logger.Printf(format, args...)
}
