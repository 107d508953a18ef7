package main

import (
	"errors"
	"flag"
	"log"

	"github.com/relabs-tech/imu_world/internal/app"
	"github.com/relabs-tech/imu_world/internal/config"
	"github.com/relabs-tech/imu_world/internal/node"
)

func main() {
	configPath := flag.String("config", "imu_world.yaml", "path to the YAML configuration file")
	nodeMin := flag.Int("node-min", 0, "only process nodes with a numeric id >= this value")
	nodeMax := flag.Int("node-max", 0, "only process nodes with a numeric id <= this value")
	flag.Parse()

	log.Println("starting imu-world mean heading batch")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	sel := node.All
	if *nodeMin != 0 || *nodeMax != 0 {
		sel = node.NumberRange(*nodeMin, *nodeMax)
		log.Printf("processing restricted to node%d-node%d", *nodeMin, *nodeMax)
	}

	if err := app.RunBatch(cfg, sel); err != nil {
		if errors.Is(err, app.ErrNoResults) {
			log.Fatalf("nothing to report: %v", err)
		}
		log.Fatalf("fatal: %v", err)
	}
}
