package dispatch

import (
	"context"

	"crosstown-courier/server/logging"
)

const (
	// EventDeliverySpawned is emitted when the spawner books a new delivery.
	EventDeliverySpawned logging.EventType = "dispatch.delivery_spawned"
	// EventDeliveryClaimed is emitted when a vehicle picks a package up.
	EventDeliveryClaimed logging.EventType = "dispatch.delivery_claimed"
	// EventDeliveryCompleted is emitted when a package reaches its dropoff.
	EventDeliveryCompleted logging.EventType = "dispatch.delivery_completed"
	// EventSpawnSkipped is emitted when a spawn cycle finds too few free pickup nodes.
	EventSpawnSkipped logging.EventType = "dispatch.spawn_skipped"
	// EventVehicleHired is emitted when a new vehicle joins the fleet.
	EventVehicleHired logging.EventType = "dispatch.vehicle_hired"
	// EventVehicleServiced is emitted when a service node clears a vehicle's wear.
	EventVehicleServiced logging.EventType = "dispatch.vehicle_serviced"
)

// DeliveryPayload mirrors the booked delivery for the log stream.
type DeliveryPayload struct {
	Pickup  string `json:"pickup"`
	Dropoff string `json:"dropoff"`
	Payout  int64  `json:"payout"`
	Tier    int    `json:"tier"`
}

// DeliverySpawned publishes an info event for a newly booked delivery.
func DeliverySpawned(ctx context.Context, pub logging.Publisher, tick uint64, deliveryID string, payload DeliveryPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDeliverySpawned,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: deliveryID, Kind: logging.EntityKindDelivery},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryDispatch,
		Payload:  payload,
	})
}

// DeliveryClaimed publishes an info event for a pickup.
func DeliveryClaimed(ctx context.Context, pub logging.Publisher, tick uint64, deliveryID, vehicleID string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDeliveryClaimed,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: vehicleID, Kind: logging.EntityKindVehicle},
		Targets:  []logging.EntityRef{{ID: deliveryID, Kind: logging.EntityKindDelivery}},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryDispatch,
	})
}

// DeliveryCompleted publishes an info event for a completed dropoff.
func DeliveryCompleted(ctx context.Context, pub logging.Publisher, tick uint64, deliveryID, vehicleID string, payout int64) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDeliveryCompleted,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: vehicleID, Kind: logging.EntityKindVehicle},
		Targets:  []logging.EntityRef{{ID: deliveryID, Kind: logging.EntityKindDelivery}},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryDispatch,
		Payload:  map[string]int64{"payout": payout},
	})
}

// SpawnSkipped publishes a warning that a spawn cycle could not book a delivery.
func SpawnSkipped(ctx context.Context, pub logging.Publisher, tick uint64, freePickupNodes int) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventSpawnSkipped,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryDispatch,
		Payload:  map[string]int{"freePickupNodes": freePickupNodes},
	})
}

// VehicleHired publishes an info event for a fleet addition.
func VehicleHired(ctx context.Context, pub logging.Publisher, tick uint64, vehicleID string, cost int64) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventVehicleHired,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: vehicleID, Kind: logging.EntityKindVehicle},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryDispatch,
		Payload:  map[string]int64{"cost": cost},
	})
}

// VehicleServiced publishes an info event for a service stop.
func VehicleServiced(ctx context.Context, pub logging.Publisher, tick uint64, vehicleID, node string, fee int64) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventVehicleServiced,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: vehicleID, Kind: logging.EntityKindVehicle},
		Targets:  []logging.EntityRef{{ID: node, Kind: logging.EntityKindNode}},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryDispatch,
		Payload:  map[string]int64{"fee": fee},
	})
}
