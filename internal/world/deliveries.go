package world

import (
	"context"
	"math"

	"github.com/google/uuid"

	"crosstown-courier/server/internal/roadnet"
	"crosstown-courier/server/logging/dispatch"
)

// DeliveryStatus tracks a delivery event through its lifecycle.
type DeliveryStatus string

const (
	DeliveryWaitingPickup DeliveryStatus = "waiting_pickup"
	DeliveryInTransit     DeliveryStatus = "in_transit"
	DeliveryCompleted     DeliveryStatus = "completed"
)

// deliveryPalette supplies display colors; active events get distinct colors
// until the palette is exhausted.
var deliveryPalette = []string{
	"#f94144", "#f3722c", "#f8961e", "#f9c74f",
	"#90be6d", "#43aa8b", "#577590", "#9b5de5",
}

// tierWeights maps a distance bucket to the weighted odds of each size tier.
// Short trips bias toward tier 1, long trips toward tier 4.
var tierWeights = [4][4]int{
	{6, 2, 1, 1},
	{2, 5, 2, 1},
	{1, 2, 5, 2},
	{1, 1, 2, 6},
}

// DeliveryEvent is one booked package run. Pickup and dropoff nodes always
// differ, and no two active events share a node in either role.
type DeliveryEvent struct {
	ID            string
	PickupNodeID  roadnet.NodeID
	DropoffNodeID roadnet.NodeID
	Status        DeliveryStatus
	Payout        int64
	Tier          int
	Color         string

	SpawnedAtMillis   int64
	PickedUpAtMillis  int64
	DeliveredAtMillis int64
}

// computePayout derives the payout from trip distance and the zone
// multipliers of both endpoints.
func computePayout(base int, rate, distance, pickupMul, dropoffMul float64) int64 {
	avg := (pickupMul + dropoffMul) / 2
	return int64(math.Floor((float64(base) + distance*rate) * avg))
}

// advanceSpawner counts the spawn timer down and books a delivery when it
// fires. A cycle that cannot book (too few free pickup nodes, or the book is
// full) is skipped; the next cycle retries.
func (w *World) advanceSpawner(dt float64) {
	if w == nil {
		return
	}
	w.spawnTimer -= dt
	if w.spawnTimer > 0 {
		return
	}
	w.spawnTimer = w.config.SpawnInterval()

	if len(w.deliveries) >= w.config.MaxActiveDeliveries {
		return
	}
	w.spawnDelivery()
}

func (w *World) spawnDelivery() {
	ctx := context.Background()

	reserved := w.reservedNodes()

	pickupFree := w.freeNodes(roadnet.TagPickup, reserved)
	if len(pickupFree) < 2 {
		dispatch.SpawnSkipped(ctx, w.publisher, w.tick, len(pickupFree))
		return
	}

	pickupID := pickupFree[w.spawnRNG.Intn(len(pickupFree))]

	dropoffFree := w.freeNodes(roadnet.TagDropoff, reserved)
	dropoffCandidates := make([]roadnet.NodeID, 0, len(dropoffFree))
	for _, id := range dropoffFree {
		if id != pickupID {
			dropoffCandidates = append(dropoffCandidates, id)
		}
	}
	if len(dropoffCandidates) == 0 {
		// No dedicated dropoff markers free; reuse the pickup-capable pool.
		for _, id := range pickupFree {
			if id != pickupID {
				dropoffCandidates = append(dropoffCandidates, id)
			}
		}
	}
	if len(dropoffCandidates) == 0 {
		dispatch.SpawnSkipped(ctx, w.publisher, w.tick, len(pickupFree))
		return
	}
	dropoffID := dropoffCandidates[w.spawnRNG.Intn(len(dropoffCandidates))]

	pickup, ok := w.network.Node(pickupID)
	if !ok {
		return
	}
	dropoff, ok := w.network.Node(dropoffID)
	if !ok {
		return
	}

	distance := roadnet.Dist(pickup.Position, dropoff.Position)
	payout := computePayout(w.config.BasePayout, w.config.PayoutRate, distance,
		pickup.ZoneMultiplier(), dropoff.ZoneMultiplier())

	event := &DeliveryEvent{
		ID:              uuid.NewString(),
		PickupNodeID:    pickupID,
		DropoffNodeID:   dropoffID,
		Status:          DeliveryWaitingPickup,
		Payout:          payout,
		Tier:            w.rollTier(distance),
		Color:           w.pickColor(),
		SpawnedAtMillis: w.clock.Now().UnixMilli(),
	}

	w.deliveries[event.ID] = event
	w.deliveryOrder = append(w.deliveryOrder, event.ID)

	dispatch.DeliverySpawned(ctx, w.publisher, w.tick, event.ID, dispatch.DeliveryPayload{
		Pickup:  string(pickupID),
		Dropoff: string(dropoffID),
		Payout:  payout,
		Tier:    event.Tier,
	})
}

// reservedNodes collects every node booked by an active delivery, in either
// role.
func (w *World) reservedNodes() map[roadnet.NodeID]struct{} {
	reserved := make(map[roadnet.NodeID]struct{}, len(w.deliveries)*2)
	for _, event := range w.deliveries {
		reserved[event.PickupNodeID] = struct{}{}
		reserved[event.DropoffNodeID] = struct{}{}
	}
	return reserved
}

// freeNodes lists unreserved nodes carrying the tag, sorted for determinism.
func (w *World) freeNodes(tag roadnet.Tag, reserved map[roadnet.NodeID]struct{}) []roadnet.NodeID {
	free := make([]roadnet.NodeID, 0)
	for _, id := range sortedNodeIDs(w.network.NodesWithTag(tag)) {
		if _, booked := reserved[id]; !booked {
			free = append(free, id)
		}
	}
	return free
}

// rollTier draws a size tier (1-4) weighted by trip distance.
func (w *World) rollTier(distance float64) int {
	bucket := int(distance / w.config.TierDistanceBucket)
	if bucket > 3 {
		bucket = 3
	}
	if bucket < 0 {
		bucket = 0
	}
	weights := tierWeights[bucket]
	total := 0
	for _, weight := range weights {
		total += weight
	}
	roll := w.tierRNG.Intn(total)
	for tier, weight := range weights {
		roll -= weight
		if roll < 0 {
			return tier + 1
		}
	}
	return 4
}

// pickColor returns a palette color unused by active events when possible.
func (w *World) pickColor() string {
	used := make(map[string]struct{}, len(w.deliveries))
	for _, event := range w.deliveries {
		used[event.Color] = struct{}{}
	}
	for _, color := range deliveryPalette {
		if _, taken := used[color]; !taken {
			return color
		}
	}
	return deliveryPalette[w.colorRNG.Intn(len(deliveryPalette))]
}

// processPickups claims waiting deliveries for vehicles passing their pickup
// nodes. A carrying vehicle ignores every other pickup.
func (w *World) processPickups() {
	ctx := context.Background()

	waiting := 0
	for _, event := range w.deliveries {
		if event.Status == DeliveryWaitingPickup {
			waiting++
		}
	}

	for _, vid := range w.vehicleOrder {
		v := w.vehicles[vid]
		if v.Path == nil || v.Status == VehicleBroken {
			continue
		}
		if v.Carrying {
			continue
		}

		if waiting == 0 {
			if v.Status == VehicleDrivingToPickup {
				v.Status = VehicleIdle
			}
			continue
		}
		if v.Status == VehicleIdle {
			v.Status = VehicleDrivingToPickup
		}

		pos := v.Position()
		for _, did := range w.deliveryOrder {
			event := w.deliveries[did]
			if event == nil || event.Status != DeliveryWaitingPickup {
				continue
			}
			node, ok := w.network.Node(event.PickupNodeID)
			if !ok {
				continue
			}
			if roadnet.Dist(pos, node.Position) > w.config.PickupRadius {
				continue
			}
			if !v.ClaimDelivery(event.ID) {
				continue
			}
			event.Status = DeliveryInTransit
			event.PickedUpAtMillis = w.clock.Now().UnixMilli()
			waiting--
			dispatch.DeliveryClaimed(ctx, w.publisher, w.tick, event.ID, v.ID)
			break
		}
	}
}

// processDropoffs completes claimed deliveries for carrying vehicles that
// reach their dropoff nodes.
func (w *World) processDropoffs() {
	ctx := context.Background()

	for _, vid := range w.vehicleOrder {
		v := w.vehicles[vid]
		if v.Path == nil || !v.Carrying {
			continue
		}
		event, ok := w.deliveries[v.DeliveryID]
		if !ok {
			// The claimed event vanished with a rebuild; release the claim.
			v.Carrying = false
			v.DeliveryID = ""
			if v.Status == VehicleDrivingToDropoff {
				v.Status = VehicleIdle
			}
			continue
		}
		node, ok := w.network.Node(event.DropoffNodeID)
		if !ok {
			continue
		}
		if roadnet.Dist(v.Position(), node.Position) > w.config.DropoffRadius {
			continue
		}

		event.Status = DeliveryCompleted
		event.DeliveredAtMillis = w.clock.Now().UnixMilli()
		v.CompleteDelivery(event.Payout)
		w.removeDelivery(event.ID)
		dispatch.DeliveryCompleted(ctx, w.publisher, w.tick, event.ID, v.ID, event.Payout)
	}
}

func (w *World) removeDelivery(id string) {
	delete(w.deliveries, id)
	for i, existing := range w.deliveryOrder {
		if existing == id {
			w.deliveryOrder = append(w.deliveryOrder[:i], w.deliveryOrder[i+1:]...)
			break
		}
	}
}
