package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), *cfg)
	})

	t.Run("empty path falls back to defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), *cfg)
	})

	t.Run("yaml file overrides defaults partially", func(t *testing.T) {
		path := writeConfigFile(t, "config.yaml", `
telemetry:
  log_level: debug
  log_output: both
  log_file: /var/log/warden/agent.log
grpc:
  masters:
    - master-a:50051
    - master-b:50051
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.Telemetry.LogLevel)
		assert.Equal(t, "both", cfg.Telemetry.LogOutput)
		assert.Equal(t, "/var/log/warden/agent.log", cfg.Telemetry.LogFile)
		assert.Equal(t, []string{"master-a:50051", "master-b:50051"}, cfg.GRPC.Masters)
		// Untouched keys keep their defaults.
		assert.Equal(t, "json", cfg.Telemetry.LogFormat)
		assert.Equal(t, 100, cfg.Telemetry.LogRotation.MaxSizeMB)
		assert.Equal(t, "./plugins", cfg.Basic.PluginDir)
	})

	t.Run("json file", func(t *testing.T) {
		path := writeConfigFile(t, "config.json", `{
  "telemetry": {
    "log_format": "plain",
    "log_rotation": {"max_size_mb": 5, "max_files": 3, "compress": false}
  }
}`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "plain", cfg.Telemetry.LogFormat)
		assert.Equal(t, 5, cfg.Telemetry.LogRotation.MaxSizeMB)
		assert.Equal(t, 3, cfg.Telemetry.LogRotation.MaxFiles)
		assert.False(t, cfg.Telemetry.LogRotation.Compress)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeConfigFile(t, "config.toml", `x = 1`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "extension")
	})

	t.Run("malformed file", func(t *testing.T) {
		path := writeConfigFile(t, "config.yaml", "telemetry: [not: a: map")
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("file failing validation", func(t *testing.T) {
		path := writeConfigFile(t, "config.yaml", `
telemetry:
  log_output: file
  log_file: ""
`)
		_, err := Load(path)
		require.Error(t, err)
	})
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Run("env beats file", func(t *testing.T) {
		path := writeConfigFile(t, "config.yaml", `
telemetry:
  log_level: debug
`)
		t.Setenv("WARDEN_TELEMETRY_LOG_LEVEL", "error")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.Telemetry.LogLevel)
	})

	t.Run("typed overrides", func(t *testing.T) {
		t.Setenv("WARDEN_TELEMETRY_LOG_ROTATION_MAX_SIZE_MB", "25")
		t.Setenv("WARDEN_TELEMETRY_LOG_ROTATION_COMPRESS", "false")
		t.Setenv("WARDEN_GRPC_MASTERS", "m1:50051, m2:50051")
		t.Setenv("WARDEN_TLS_ENABLE", "true")
		t.Setenv("WARDEN_TLS_CERT_FILE", "agent.crt")
		t.Setenv("WARDEN_TLS_KEY_FILE", "agent.key")

		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, 25, cfg.Telemetry.LogRotation.MaxSizeMB)
		assert.False(t, cfg.Telemetry.LogRotation.Compress)
		assert.Equal(t, []string{"m1:50051", "m2:50051"}, cfg.GRPC.Masters)
		assert.True(t, cfg.TLS.Enable)
	})

	t.Run("unparseable numeric override is ignored", func(t *testing.T) {
		t.Setenv("WARDEN_TELEMETRY_METRICS_PORT", "not-a-port")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default().Telemetry.MetricsPort, cfg.Telemetry.MetricsPort)
	})

	t.Run("override failing validation is fatal", func(t *testing.T) {
		t.Setenv("WARDEN_TELEMETRY_LOG_OUTPUT", "syslog")

		_, err := Load("")
		require.Error(t, err)
	})
}

func TestLoad_ConfigPathEnv(t *testing.T) {
	t.Run("WARDEN_CONFIG_PATH wins when it exists", func(t *testing.T) {
		cliPath := writeConfigFile(t, "cli.yaml", "telemetry:\n  log_level: debug\n")
		envPath := writeConfigFile(t, "env.yaml", "telemetry:\n  log_level: trace\n")
		t.Setenv("WARDEN_CONFIG_PATH", envPath)

		cfg, err := Load(cliPath)
		require.NoError(t, err)
		assert.Equal(t, "trace", cfg.Telemetry.LogLevel)
	})

	t.Run("nonexistent WARDEN_CONFIG_PATH is ignored", func(t *testing.T) {
		cliPath := writeConfigFile(t, "cli.yaml", "telemetry:\n  log_level: debug\n")
		t.Setenv("WARDEN_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

		cfg, err := Load(cliPath)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Telemetry.LogLevel)
	})
}
