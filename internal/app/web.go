package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/imu_world/internal/config"
	"github.com/relabs-tech/imu_world/internal/result"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// RunWeb serves the latest batch summary to browsers: a JSON API, a
// websocket that pushes every new summary as it arrives over MQTT, and
// the static viewer page from ./web.
func RunWeb(cfg *config.Config) error {
	var (
		mu          sync.RWMutex
		lastSummary *result.Summary

		clientsMu sync.Mutex
		clients   = make(map[*websocket.Conn]bool)
	)

	broadcast := func(payload []byte) {
		clientsMu.Lock()
		defer clientsMu.Unlock()
		for conn := range clients {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Printf("web: websocket write error, dropping client: %v", err)
				conn.Close()
				delete(clients, conn)
			}
		}
	}

	// 1) Connect to the MQTT broker and follow the retained summary.
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicSummary, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s result.Summary
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("web: summary unmarshal error: %v", err)
			return
		}
		mu.Lock()
		lastSummary = &s
		mu.Unlock()
		broadcast(msg.Payload())
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to %s", cfg.TopicSummary)

	// 2) JSON API endpoint: latest summary.
	http.HandleFunc("/api/results", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if lastSummary == nil {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lastSummary); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// 3) Websocket: current summary on connect, then pushed updates.
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("web: websocket upgrade error: %v", err)
			return
		}

		mu.RLock()
		if lastSummary != nil {
			if err := conn.WriteJSON(lastSummary); err != nil {
				log.Printf("web: websocket initial write error: %v", err)
			}
		}
		mu.RUnlock()

		clientsMu.Lock()
		clients[conn] = true
		clientsMu.Unlock()

		// Drain reads so pings/closes are processed; unregister on error.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					clientsMu.Lock()
					delete(clients, conn)
					clientsMu.Unlock()
					conn.Close()
					return
				}
			}
		}()
	})

	// 4) Static files from ./web as the root.
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
