package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	servernet "crosstown-courier/server/internal/net"
	"crosstown-courier/server/internal/roadnet"
	"crosstown-courier/server/internal/sim"
	"crosstown-courier/server/internal/telemetry"
	"crosstown-courier/server/internal/world"
	"crosstown-courier/server/logging"
	"crosstown-courier/server/logging/simulation"
	loggingSinks "crosstown-courier/server/logging/sinks"
)

// Config collects the knobs the entrypoint exposes. Zero values fall back to
// the defaults used in local development.
type Config struct {
	Addr     string
	MapPath  string
	Seed     string
	TickRate int
	Logger   telemetry.Logger
}

// Run wires the logging router, world, simulation loop, and network hub, then
// serves until the HTTP listener fails or ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	telemetryLogger := cfg.Logger
	if telemetryLogger == nil {
		telemetryLogger = telemetry.WrapLogger(log.Default())
	}

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.Seed == "" {
		cfg.Seed = world.DefaultSeed
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 15
	}
	if raw := os.Getenv("TICK_RATE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.TickRate = value
		} else {
			telemetryLogger.Printf("invalid TICK_RATE=%q: %v", raw, err)
		}
	}
	if seed := os.Getenv("COURIER_SEED"); seed != "" {
		cfg.Seed = seed
	}

	logConfig := logging.DefaultConfig()
	namedSinks := []logging.NamedSink{
		{Name: "console", Sink: loggingSinks.NewConsoleSink(os.Stdout, logConfig.Console)},
	}
	if path := os.Getenv("LOG_JSON_PATH"); path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			telemetryLogger.Printf("failed to open json log file %s: %v", path, err)
		} else {
			namedSinks = append(namedSinks, logging.NamedSink{
				Name: "json",
				Sink: loggingSinks.NewJSON(file, logConfig.JSON.FlushInterval),
			})
		}
	}

	router, err := logging.NewRouter(logging.SystemClock{}, logConfig, namedSinks)
	if err != nil {
		return fmt.Errorf("failed to construct logging router: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			telemetryLogger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	worldConfig := world.DefaultConfig()
	worldConfig.Seed = cfg.Seed
	if raw := os.Getenv("SPAWN_INTERVAL_SECONDS"); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil && value > 0 {
			worldConfig.SpawnIntervalSeconds = value
		} else {
			telemetryLogger.Printf("invalid SPAWN_INTERVAL_SECONDS=%q: %v", raw, err)
		}
	}
	w := world.New(worldConfig, world.Deps{
		Publisher: router,
		Clock:     logging.SystemClock{},
	})

	if cfg.MapPath != "" {
		nodes, err := loadMapNodes(cfg.MapPath)
		if err != nil {
			return err
		}
		w.RebuildNetwork(nodes)
		telemetryLogger.Printf("loaded map %s: %d nodes %d paths",
			cfg.MapPath, w.Network().NodeCount(), w.Network().PathCount())
	}

	metrics := &logging.Metrics{}
	engine := sim.NewWorldEngine(w, sim.Deps{
		Logger:    telemetryLogger,
		Metrics:   telemetry.WrapMetrics(metrics),
		Clock:     logging.SystemClock{},
		Publisher: router,
	})

	var hub *servernet.Hub
	var overrunStreak uint64
	loop := sim.NewLoop(engine, sim.LoopConfig{
		TickRate:        cfg.TickRate,
		CatchupMaxTicks: 4,
		CommandCapacity: 256,
		PerActorLimit:   16,
		WarningStep:     64,
	}, sim.LoopHooks{
		AfterStep: func(result sim.LoopStepResult) {
			overrunStreak = trackTickBudget(router, result, overrunStreak)
			hub.AfterStep(result)
		},
	})
	hub = servernet.NewHub(loop, telemetryLogger, cfg.TickRate)

	stop := make(chan struct{})
	go loop.Run(stop)
	defer close(stop)

	srv := &http.Server{Addr: cfg.Addr, Handler: servernet.NewMux(hub)}
	telemetryLogger.Printf("server listening on %s", srv.Addr)

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// trackTickBudget reports ticks that ran past their budget, keeping a streak
// count so sustained overload is visible in the event stream.
func trackTickBudget(pub logging.Publisher, result sim.LoopStepResult, streak uint64) uint64 {
	if result.Budget <= 0 || result.Duration <= result.Budget {
		return 0
	}
	streak++
	simulation.TickBudgetOverrun(context.Background(), pub, result.Tick, simulation.TickBudgetOverrunPayload{
		DurationMillis: result.Duration.Milliseconds(),
		BudgetMillis:   result.Budget.Milliseconds(),
		Ratio:          float64(result.Duration) / float64(result.Budget),
		Streak:         streak,
	}, nil)
	return streak
}

func loadMapNodes(path string) ([]roadnet.RoadNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map %s: %w", path, err)
	}
	doc, err := roadnet.ParseMapDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parse map %s: %w", path, err)
	}
	return doc.RoadNodes(), nil
}
