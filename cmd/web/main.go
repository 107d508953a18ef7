package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/imu_world/internal/app"
	"github.com/relabs-tech/imu_world/internal/config"
)

func main() {
	configPath := flag.String("config", "imu_world.yaml", "path to the YAML configuration file")
	flag.Parse()

	log.Println("starting imu-world web viewer (MQTT subscriber)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()
	if cfg.MQTTBroker == "" {
		log.Fatalf("mqtt_broker must be configured for the web viewer")
	}

	if err := app.RunWeb(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
