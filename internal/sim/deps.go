package sim

import (
	"crosstown-courier/server/internal/telemetry"
	"crosstown-courier/server/logging"
)

// Deps carries shared infrastructure dependencies required by the simulation
// engine.
type Deps struct {
	Logger    telemetry.Logger
	Metrics   telemetry.Metrics
	Clock     logging.Clock
	Publisher logging.Publisher
}
