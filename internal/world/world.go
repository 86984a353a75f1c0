package world

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"crosstown-courier/server/internal/roadnet"
	"crosstown-courier/server/logging"
	"crosstown-courier/server/logging/dispatch"
	"crosstown-courier/server/logging/traffic"
)

// Deps bundles runtime dependencies required to construct a World instance.
type Deps struct {
	Publisher logging.Publisher
	RNG       RNGFactory
	Clock     logging.Clock
}

// RebuildObserver is notified after the road network has been atomically
// replaced. Observers subscribe explicitly; there is no ambient event bus.
type RebuildObserver interface {
	NetworkRebuilt(network *roadnet.Network)
}

// RebuildObserverFunc adapts functions into the RebuildObserver interface.
type RebuildObserverFunc func(network *roadnet.Network)

func (f RebuildObserverFunc) NetworkRebuilt(network *roadnet.Network) {
	if f == nil {
		return
	}
	f(network)
}

// World owns the road network, the vehicle fleet, the delivery book, and the
// intersection modes. Exactly one goroutine (the simulation loop) mutates it.
type World struct {
	config Config
	seed   string

	publisher  logging.Publisher
	rngFactory RNGFactory
	clock      logging.Clock

	// Labeled RNG streams: consuming one never shifts another's sequence.
	routerRNG *rand.Rand
	spawnRNG  *rand.Rand
	tierRNG   *rand.Rand
	colorRNG  *rand.Rand

	network       *roadnet.Network
	intersections map[roadnet.NodeID]*IntersectionState

	vehicles     map[string]*Vehicle
	vehicleOrder []string
	nextVehicle  int

	deliveries    map[string]*DeliveryEvent
	deliveryOrder []string
	spawnTimer    float64

	observers []RebuildObserver

	tick          uint64
	elapsedMillis int64
}

// New constructs a world with normalized configuration and a seeded RNG
// hierarchy. The network starts empty; call RebuildNetwork to install one.
func New(cfg Config, deps Deps) *World {
	normalized := cfg.normalized()

	factory := deps.RNG
	if factory == nil {
		factory = NewDeterministicRNG
	}

	publisher := deps.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}

	clock := deps.Clock
	if clock == nil {
		clock = logging.SystemClock{}
	}

	w := &World{
		config:        normalized,
		seed:          normalized.Seed,
		publisher:     publisher,
		rngFactory:    factory,
		clock:         clock,
		network:       roadnet.BuildNetwork(nil, publisher),
		intersections: make(map[roadnet.NodeID]*IntersectionState),
		vehicles:      make(map[string]*Vehicle),
		deliveries:    make(map[string]*DeliveryEvent),
		spawnTimer:    normalized.SpawnInterval(),
	}
	w.routerRNG = w.SubsystemRNG("router")
	w.spawnRNG = w.SubsystemRNG("spawner")
	w.tierRNG = w.SubsystemRNG("tier")
	w.colorRNG = w.SubsystemRNG("color")
	return w
}

// Config returns the normalized configuration captured at construction time.
func (w *World) Config() Config {
	if w == nil {
		return Config{}
	}
	return w.config
}

// Seed reports the deterministic seed applied to the world RNG hierarchy.
func (w *World) Seed() string {
	if w == nil {
		return ""
	}
	return w.seed
}

// SubsystemRNG returns a deterministic RNG derived from the world seed.
func (w *World) SubsystemRNG(label string) *rand.Rand {
	if w == nil {
		return NewDeterministicRNG(DefaultSeed, label)
	}
	factory := w.rngFactory
	if factory == nil {
		factory = NewDeterministicRNG
	}
	return factory(w.seed, label)
}

// Network returns the active road network snapshot.
func (w *World) Network() *roadnet.Network {
	if w == nil {
		return nil
	}
	return w.network
}

// Tick reports the last simulated tick number.
func (w *World) Tick() uint64 {
	if w == nil {
		return 0
	}
	return w.tick
}

// AddRebuildObserver registers for network replacement notifications.
func (w *World) AddRebuildObserver(observer RebuildObserver) {
	if w == nil || observer == nil {
		return
	}
	w.observers = append(w.observers, observer)
}

// RebuildNetwork regenerates the path set from a fresh node list and installs
// it atomically: the previous network stays valid until the swap. Derived
// state (intersection modes, vehicle placement, delivery book) is recreated
// wholesale, and observers are notified.
func (w *World) RebuildNetwork(nodes []roadnet.RoadNode) {
	if w == nil {
		return
	}

	network := roadnet.BuildNetwork(nodes, w.publisher)
	w.network = network
	w.intersections = rebuildIntersections(network)

	w.deliveries = make(map[string]*DeliveryEvent)
	w.deliveryOrder = w.deliveryOrder[:0]
	w.spawnTimer = w.config.SpawnInterval()

	w.placeFleet()

	traffic.NetworkRebuilt(context.Background(), w.publisher, w.tick, traffic.NetworkRebuiltPayload{
		Nodes:         network.NodeCount(),
		Paths:         network.PathCount(),
		Intersections: len(w.intersections),
		SkippedEdges:  network.SkippedEdges(),
	})

	for _, observer := range w.observers {
		observer.NetworkRebuilt(network)
	}
}

// placeFleet repositions every vehicle onto the new path set, topping the
// fleet up to the configured count.
func (w *World) placeFleet() {
	paths := w.network.Paths()

	for len(w.vehicleOrder) < w.config.VehicleCount {
		w.addVehicle()
	}

	if len(paths) == 0 {
		for _, id := range w.vehicleOrder {
			v := w.vehicles[id]
			v.Path = nil
			v.Progress = 0
			v.Status = VehicleStopped
		}
		return
	}

	for i, id := range w.vehicleOrder {
		v := w.vehicles[id]
		path := paths[i%len(paths)]
		v.Path = path
		v.Progress = 0
		v.Reversing = false
		v.CooldownMillis = 0
		v.Nav = NavContext{PreviousNodeID: path.From, IncomingDir: roadnet.DirNone}
		if v.Status != VehicleNeedsService && v.Status != VehicleBroken {
			if v.Carrying {
				v.Status = VehicleDrivingToDropoff
			} else {
				v.Status = VehicleIdle
			}
		}
	}
}

func (w *World) addVehicle() *Vehicle {
	w.nextVehicle++
	id := fmt.Sprintf("taxi-%d", w.nextVehicle)
	v := &Vehicle{
		ID:     id,
		Status: VehicleIdle,
		Speed:  w.config.VehicleSpeed,
		Nav:    NavContext{IncomingDir: roadnet.DirNone},
	}
	w.vehicles[id] = v
	w.vehicleOrder = append(w.vehicleOrder, id)
	return v
}

// HireVehicle adds one vehicle to the fleet, debiting the hire cost from its
// own ledger (a fresh vehicle starts in debt). Fails without a network.
func (w *World) HireVehicle() (Vehicle, bool) {
	if w == nil {
		return Vehicle{}, false
	}
	paths := w.network.Paths()
	if len(paths) == 0 {
		return Vehicle{}, false
	}
	v := w.addVehicle()
	v.Money = -int64(w.config.HireCost)
	v.Path = paths[(len(w.vehicleOrder)-1)%len(paths)]
	v.Nav = NavContext{PreviousNodeID: v.Path.From, IncomingDir: roadnet.DirNone}
	dispatch.VehicleHired(context.Background(), w.publisher, w.tick, v.ID, int64(w.config.HireCost))
	return v.snapshot(), true
}

// SetRushHour toggles the shortened spawn countdown.
func (w *World) SetRushHour(enabled bool) {
	if w == nil {
		return
	}
	w.config.RushHour = enabled
	if w.spawnTimer > w.config.SpawnInterval() {
		w.spawnTimer = w.config.SpawnInterval()
	}
}

// RushHour reports whether the shortened spawn countdown is active.
func (w *World) RushHour() bool {
	return w != nil && w.config.RushHour
}

// Step advances the simulation by dt seconds. Passes run in a fixed order:
// movement, collision detection, delivery lifecycle.
func (w *World) Step(tick uint64, dt float64) {
	if w == nil || dt <= 0 {
		return
	}
	w.tick = tick
	deltaMillis := int64(dt * 1000)
	w.elapsedMillis += deltaMillis

	for _, id := range w.vehicleOrder {
		w.advanceVehicle(w.vehicles[id], dt)
	}

	w.detectCollisions(deltaMillis)

	w.processPickups()
	w.processDropoffs()
	w.advanceSpawner(dt)
}

// Vehicles returns a stable-ordered copy of the fleet.
func (w *World) Vehicles() []Vehicle {
	if w == nil {
		return nil
	}
	out := make([]Vehicle, 0, len(w.vehicleOrder))
	for _, id := range w.vehicleOrder {
		out = append(out, w.vehicles[id].snapshot())
	}
	return out
}

// Vehicle looks a single vehicle up by id.
func (w *World) Vehicle(id string) (Vehicle, bool) {
	if w == nil {
		return Vehicle{}, false
	}
	v, ok := w.vehicles[id]
	if !ok {
		return Vehicle{}, false
	}
	return v.snapshot(), true
}

// Deliveries returns the active delivery book in spawn order.
func (w *World) Deliveries() []DeliveryEvent {
	if w == nil {
		return nil
	}
	out := make([]DeliveryEvent, 0, len(w.deliveryOrder))
	for _, id := range w.deliveryOrder {
		if event, ok := w.deliveries[id]; ok {
			out = append(out, *event)
		}
	}
	return out
}

// lightIsRed evaluates a red-light node's phase against elapsed time.
func (w *World) lightIsRed(node *roadnet.RoadNode) bool {
	if w == nil || node == nil || !node.HasTag(roadnet.TagRedLight) {
		return false
	}
	green, red := int64(5000), int64(3000)
	if node.Light != nil {
		if node.Light.GreenMillis > 0 {
			green = node.Light.GreenMillis
		}
		if node.Light.RedMillis > 0 {
			red = node.Light.RedMillis
		}
	}
	cycle := green + red
	if cycle <= 0 {
		return false
	}
	return w.elapsedMillis%cycle >= green
}

// sortedNodeIDs is a helper for deterministic iteration in spawn logic.
func sortedNodeIDs(nodes []*roadnet.RoadNode) []roadnet.NodeID {
	ids := make([]roadnet.NodeID, 0, len(nodes))
	for _, node := range nodes {
		ids = append(ids, node.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
