package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "imu_world.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("defaults applied", func(t *testing.T) {
		t.Parallel()
		cfg, err := Load(writeConfig(t, "input_dir: /data/nodes\n"))
		require.NoError(t, err)

		assert.Equal(t, "/data/nodes", cfg.InputDir)
		assert.Equal(t, "node*.csv", cfg.FilePattern)
		assert.Equal(t, 100, cfg.SampleWindow)
		assert.Equal(t, 1, cfg.Workers)
		assert.Equal(t, 3, cfg.PlotNodeMin)
		assert.Equal(t, 12, cfg.PlotNodeMax)
		assert.Equal(t, "imu/heading", cfg.TopicHeading)
		assert.Equal(t, "imu/heading/summary", cfg.TopicSummary)
		assert.Equal(t, 8080, cfg.WebServerPort)
	})

	t.Run("explicit values win", func(t *testing.T) {
		t.Parallel()
		cfg, err := Load(writeConfig(t, `
input_dir: /data/nodes
sample_window: 50
workers: 4
plot_node_min: 1
plot_node_max: 20
mqtt_broker: tcp://localhost:1883
plot_png: true
`))
		require.NoError(t, err)
		assert.Equal(t, 50, cfg.SampleWindow)
		assert.Equal(t, 4, cfg.Workers)
		assert.Equal(t, 1, cfg.PlotNodeMin)
		assert.Equal(t, 20, cfg.PlotNodeMax)
		assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
		assert.True(t, cfg.PlotPNG)
	})

	t.Run("input_dir required", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeConfig(t, "workers: 2\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "input_dir")
	})

	t.Run("negative window rejected", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeConfig(t, "input_dir: /data\nsample_window: -5\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sample_window")
	})

	t.Run("inverted plot range rejected", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeConfig(t, "input_dir: /data\nplot_node_min: 9\nplot_node_max: 4\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "plot_node_min")
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeConfig(t, "input_dir: [unclosed\n"))
		assert.Error(t, err)
	})
}
