package main

import (
	"context"
	"flag"
	"log"

	"crosstown-courier/server/internal/app"
)

func main() {
	var cfg app.Config
	flag.StringVar(&cfg.Addr, "addr", ":8080", "listen address")
	flag.StringVar(&cfg.MapPath, "map", "config/maps/downtown.json", "road map document to load at startup")
	flag.StringVar(&cfg.Seed, "seed", "", "deterministic simulation seed")
	flag.IntVar(&cfg.TickRate, "tick-rate", 15, "simulation ticks per second")
	flag.Parse()

	if err := app.Run(context.Background(), cfg); err != nil {
		log.Fatalf("%v", err)
	}
}
