package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration values.
type Config struct {
	// Input
	InputDir    string `yaml:"input_dir"`
	FilePattern string `yaml:"file_pattern"` // defaults to node*.csv

	// Estimation
	SampleWindow int `yaml:"sample_window"` // leading samples averaged per node, default 100
	Workers      int `yaml:"workers"`       // parallel node pipelines, default 1 (sequential)

	// Plot output
	PlotDir     string `yaml:"plot_dir"`
	PlotPNG     bool   `yaml:"plot_png"`
	PlotHTML    bool   `yaml:"plot_html"`
	GroupPlots  bool   `yaml:"group_plots"`   // one extra plot per node_id group
	PlotNodeMin int    `yaml:"plot_node_min"` // combined plot node range
	PlotNodeMax int    `yaml:"plot_node_max"`

	// MQTT (optional; empty broker disables publishing)
	MQTTBroker          string `yaml:"mqtt_broker"`
	MQTTClientIDBatch   string `yaml:"mqtt_client_id_batch"`
	MQTTClientIDWeb     string `yaml:"mqtt_client_id_web"`
	MQTTClientIDConsole string `yaml:"mqtt_client_id_console"`
	TopicHeading        string `yaml:"topic_heading"` // per-node results, suffixed with the label
	TopicSummary        string `yaml:"topic_summary"` // retained full batch summary

	// Web viewer
	WebServerPort int `yaml:"web_server_port"`
}

// Package-level unexported variables for singleton access:
// InitGlobal() sets the configuration once, Get() reads it under a
// read lock so every goroutine sees a consistent value.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the YAML configuration file and returns a Config struct
// with defaults applied.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.FilePattern == "" {
		c.FilePattern = "node*.csv"
	}
	if c.SampleWindow == 0 {
		c.SampleWindow = 100
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
	if c.PlotDir == "" {
		c.PlotDir = "."
	}
	if c.PlotNodeMin == 0 && c.PlotNodeMax == 0 {
		c.PlotNodeMin = 3
		c.PlotNodeMax = 12
	}
	if c.TopicHeading == "" {
		c.TopicHeading = "imu/heading"
	}
	if c.TopicSummary == "" {
		c.TopicSummary = "imu/heading/summary"
	}
	if c.MQTTClientIDBatch == "" {
		c.MQTTClientIDBatch = "imu-world-batch"
	}
	if c.MQTTClientIDWeb == "" {
		c.MQTTClientIDWeb = "imu-world-web"
	}
	if c.MQTTClientIDConsole == "" {
		c.MQTTClientIDConsole = "imu-world-console"
	}
	if c.WebServerPort == 0 {
		c.WebServerPort = 8080
	}
}

// validate checks that all required fields are set and consistent.
func (c *Config) validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("input_dir is required")
	}
	if c.SampleWindow < 1 {
		return fmt.Errorf("sample_window must be >= 1, got %d", c.SampleWindow)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if c.PlotNodeMin > c.PlotNodeMax {
		return fmt.Errorf("plot_node_min %d exceeds plot_node_max %d", c.PlotNodeMin, c.PlotNodeMax)
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once so repeated calls are harmless.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance. InitGlobal must be
// called first, or this returns nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
