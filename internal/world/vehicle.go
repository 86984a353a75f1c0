package world

import (
	"crosstown-courier/server/internal/roadnet"
)

// VehicleStatus is the discrete operating state of a vehicle.
type VehicleStatus string

const (
	VehicleIdle             VehicleStatus = "idle"
	VehicleDrivingToPickup  VehicleStatus = "driving_to_pickup"
	VehicleDrivingToDropoff VehicleStatus = "driving_to_dropoff"
	VehicleStopped          VehicleStatus = "stopped"
	VehicleNeedsService     VehicleStatus = "needs_service"
	VehicleBroken           VehicleStatus = "broken"
)

// NavContext is the routing memory a vehicle carries between intersections.
// IncomingDir is only meaningful while the vehicle's path leads into an
// intersection-eligible node; PreviousNodeID recovers direction after a
// reversal.
type NavContext struct {
	IntersectionID roadnet.NodeID
	IncomingDir    roadnet.Dir
	PreviousNodeID roadnet.NodeID
}

// Vehicle is one courier unit. It is mutated only by the per-tick passes and
// by its own update methods, never concurrently.
type Vehicle struct {
	ID     string
	Status VehicleStatus

	Path     *roadnet.RoadPath
	Progress float64 // normalized t, always clamped to [0,1]
	Speed    float64

	Nav NavContext

	Carrying   bool
	DeliveryID string

	// Money is signed; service fees and hires can push it negative.
	Money int64

	Reversing      bool
	CooldownMillis int64

	DistanceDriven float64
	WearDistance   float64
	Completed      int
}

// Position samples the vehicle's current location on its path.
func (v *Vehicle) Position() roadnet.Vec3 {
	if v == nil || v.Path == nil {
		return roadnet.Vec3{}
	}
	return v.Path.Sample(v.Progress)
}

// Driving reports whether the vehicle participates in the movement pass.
func (v *Vehicle) Driving() bool {
	if v == nil || v.Path == nil {
		return false
	}
	switch v.Status {
	case VehicleStopped, VehicleBroken:
		return false
	default:
		return true
	}
}

// ClaimDelivery marks the vehicle as carrying the given delivery. It refuses
// a second claim while one is held.
func (v *Vehicle) ClaimDelivery(deliveryID string) bool {
	if v == nil || v.Carrying || deliveryID == "" {
		return false
	}
	v.Carrying = true
	v.DeliveryID = deliveryID
	v.Status = VehicleDrivingToDropoff
	return true
}

// CompleteDelivery credits the payout and clears the carrying state,
// returning the delivery id that was held.
func (v *Vehicle) CompleteDelivery(payout int64) string {
	if v == nil || !v.Carrying {
		return ""
	}
	id := v.DeliveryID
	v.Money += payout
	v.Carrying = false
	v.DeliveryID = ""
	v.Completed++
	if v.Status == VehicleDrivingToDropoff {
		v.Status = VehicleIdle
	}
	return id
}

// StartReversing flips the vehicle into reverse and arms the cooldown.
func (v *Vehicle) StartReversing(cooldownMillis int64) {
	if v == nil {
		return
	}
	v.Reversing = true
	v.CooldownMillis = cooldownMillis
}

// TickCooldown decrements the collision cooldown, flooring at zero.
func (v *Vehicle) TickCooldown(deltaMillis int64) {
	if v == nil || v.CooldownMillis <= 0 {
		return
	}
	v.CooldownMillis -= deltaMillis
	if v.CooldownMillis < 0 {
		v.CooldownMillis = 0
	}
}

// OnCooldown reports whether the collision cooldown is still running.
func (v *Vehicle) OnCooldown() bool {
	return v != nil && v.CooldownMillis > 0
}

// accrueWear tracks driven distance and trips the service state past the
// threshold.
func (v *Vehicle) accrueWear(distance, threshold float64) {
	if v == nil || distance <= 0 {
		return
	}
	v.DistanceDriven += distance
	v.WearDistance += distance
	if threshold > 0 && v.WearDistance >= threshold && v.Status != VehicleBroken {
		v.Status = VehicleNeedsService
	}
}

// service clears accumulated wear and debits the fee.
func (v *Vehicle) service(fee int64) {
	if v == nil {
		return
	}
	v.WearDistance = 0
	v.Money -= fee
	if v.Status == VehicleNeedsService {
		if v.Carrying {
			v.Status = VehicleDrivingToDropoff
		} else {
			v.Status = VehicleIdle
		}
	}
}

// snapshot copies the vehicle for read-only consumers.
func (v *Vehicle) snapshot() Vehicle {
	if v == nil {
		return Vehicle{}
	}
	return *v
}
