package app

import (
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/imu_world/internal/config"
	"github.com/relabs-tech/imu_world/internal/result"
)

// PublishResults pushes every node result to its own topic and the
// full summary to the retained summary topic, so late subscribers
// (web viewer, console) still see the last batch.
func PublishResults(cfg *config.Config, summary *result.Summary) error {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDBatch)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to %s: %w", cfg.MQTTBroker, token.Error())
	}
	defer client.Disconnect(250)
	log.Printf("connected to MQTT broker at %s", cfg.MQTTBroker)

	for i := range summary.Results {
		r := &summary.Results[i]
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal result %s: %w", r.Label, err)
		}
		topic := cfg.TopicHeading + "/" + r.Label.String()
		if token := client.Publish(topic, 0, false, payload); token.Wait() && token.Error() != nil {
			return fmt.Errorf("publish %s: %w", topic, token.Error())
		}
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if token := client.Publish(cfg.TopicSummary, 0, true, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish %s: %w", cfg.TopicSummary, token.Error())
	}

	log.Printf("published %d results and summary to %s", len(summary.Results), cfg.TopicSummary)
	return nil
}
