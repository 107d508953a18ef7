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

	log.Println("starting imu-world console (MQTT subscriber)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()
	if cfg.MQTTBroker == "" {
		log.Fatalf("mqtt_broker must be configured for the console")
	}

	if err := app.RunConsole(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
