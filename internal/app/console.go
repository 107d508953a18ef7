package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/imu_world/internal/config"
	"github.com/relabs-tech/imu_world/internal/result"
)

// RunConsole subscribes to the heading topics and prints every result
// as it arrives. Useful to watch batch runs from another machine on
// the same broker.
func RunConsole(cfg *config.Config) error {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	// Subscribe to per-node results
	headingTopic := cfg.TopicHeading + "/+"
	headingToken := client.Subscribe(headingTopic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var r result.NodeResult
		if err := json.Unmarshal(msg.Payload(), &r); err != nil {
			log.Printf("console: result unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[HEAD] %-12s samples=%3d  ext: roll=%8.3f pitch=%8.3f yaw=%8.3f  int: roll=%8.3f pitch=%8.3f yaw=%8.3f  err=%.6f/%.6f\n",
			r.Label, r.SamplesUsed,
			r.Extrinsic.Roll, r.Extrinsic.Pitch, r.Extrinsic.Yaw,
			r.Intrinsic.Roll, r.Intrinsic.Pitch, r.Intrinsic.Yaw,
			r.ExtrinsicError, r.IntrinsicError,
		)
		if r.Extrinsic.GimbalLock || r.Intrinsic.GimbalLock {
			fmt.Printf("[HEAD] %-12s gimbal lock flagged\n", r.Label)
		}
	})
	headingToken.Wait()
	if headingToken.Error() != nil {
		return headingToken.Error()
	}
	log.Printf("console: subscribed to %s", headingTopic)

	// Subscribe to batch summaries
	summaryToken := client.Subscribe(cfg.TopicSummary, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s result.Summary
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: summary unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[BATCH] %s  window=%d  results=%d skipped=%d\n",
			s.GeneratedAt.Format("2006-01-02 15:04:05"), s.SampleWindow, len(s.Results), len(s.Skipped),
		)
		for _, sk := range s.Skipped {
			fmt.Printf("[BATCH] skipped %s: %s\n", sk.Label, sk.Reason)
		}
	})
	summaryToken.Wait()
	if summaryToken.Error() != nil {
		return summaryToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicSummary)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
