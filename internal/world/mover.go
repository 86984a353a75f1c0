package world

import (
	"context"

	"crosstown-courier/server/internal/roadnet"
	"crosstown-courier/server/logging/dispatch"
)

// advanceVehicle moves one vehicle along its path for dt seconds, handling
// path-boundary routing and reversal. Routing failures leave the vehicle
// holding position at the boundary; the next tick retries.
func (w *World) advanceVehicle(v *Vehicle, dt float64) {
	if w == nil || v == nil || !v.Driving() {
		return
	}
	path := v.Path
	if path.Length <= 0 {
		return
	}

	if v.Reversing {
		w.reverseVehicle(v, dt)
		return
	}

	step := (dt * v.Speed) / path.Length
	before := v.Progress
	v.Progress += step
	if v.Progress < 1 {
		v.accrueWear((v.Progress-before)*path.Length, w.config.WearDistance)
		return
	}

	v.Progress = 1
	v.accrueWear((1-before)*path.Length, w.config.WearDistance)

	dest, ok := w.network.Node(path.To)
	if ok && w.lightIsRed(dest) {
		// Hold at the stop line until the phase turns green.
		return
	}
	if ok && dest.HasTag(roadnet.TagService) && v.Status == VehicleNeedsService {
		v.service(int64(w.config.ServiceFee))
		dispatch.VehicleServiced(context.Background(), w.publisher, w.tick, v.ID, string(dest.ID), int64(w.config.ServiceFee))
	}

	v.Nav.PreviousNodeID = path.From
	next := w.nextPath(v, path.ID)
	if next == nil {
		return
	}
	v.Path = next
	v.Progress = 0
}

// reverseVehicle backs the vehicle down its path. Once it reaches the source
// end, the reversed path id re-derives the incoming direction as if the
// vehicle had arrived at the source node, and routing continues from there.
func (w *World) reverseVehicle(v *Vehicle, dt float64) {
	path := v.Path
	step := (dt * v.Speed) / path.Length
	before := v.Progress
	v.Progress -= step
	if v.Progress > 0 {
		v.accrueWear((before-v.Progress)*path.Length, w.config.WearDistance)
		return
	}

	v.Progress = 0
	v.accrueWear(before*path.Length, w.config.WearDistance)
	v.Reversing = false

	reversedID, ok := roadnet.ReversePathID(path.ID)
	if !ok {
		return
	}
	v.Nav.PreviousNodeID = path.To
	next := w.nextPath(v, reversedID)
	if next == nil {
		return
	}
	v.Path = next
	v.Progress = 0
}
