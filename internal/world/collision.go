package world

import (
	"context"

	"crosstown-courier/server/internal/roadnet"
	"crosstown-courier/server/logging/traffic"
)

// detectCollisions runs the pairwise proximity pass. Cooldowns tick down
// first; vehicles on cooldown or already reversing are excluded from new
// triggers, which prevents immediate re-triggering once a reversal completes.
func (w *World) detectCollisions(deltaMillis int64) {
	if w == nil {
		return
	}

	for _, id := range w.vehicleOrder {
		w.vehicles[id].TickCooldown(deltaMillis)
	}

	threshold := w.config.CollisionRadius
	ctx := context.Background()

	for i := 0; i < len(w.vehicleOrder); i++ {
		first := w.vehicles[w.vehicleOrder[i]]
		if first.Path == nil || first.OnCooldown() || first.Reversing {
			continue
		}
		for j := i + 1; j < len(w.vehicleOrder); j++ {
			second := w.vehicles[w.vehicleOrder[j]]
			if second.Path == nil || second.OnCooldown() || second.Reversing {
				continue
			}
			distance := roadnet.Dist(first.Position(), second.Position())
			if distance >= threshold {
				continue
			}
			first.StartReversing(w.config.CollisionCooldownMillis)
			second.StartReversing(w.config.CollisionCooldownMillis)
			traffic.Collision(ctx, w.publisher, w.tick, first.ID, second.ID, traffic.CollisionPayload{
				Distance:  distance,
				Threshold: threshold,
			})
			break
		}
	}
}
