package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envPrefix is the prefix for all environment overrides, e.g.
// WARDEN_TELEMETRY_LOG_LEVEL.
const envPrefix = "WARDEN_"

// envConfigPath names the environment variable that overrides the config
// file path passed on the command line. It is ignored when the file it
// points at does not exist.
const envConfigPath = "WARDEN_CONFIG_PATH"

// Load builds the effective configuration: defaults, then the config file
// at path (when present), then environment overrides, then validation.
// A missing file is not an error; the defaults simply stand.
func Load(path string) (*Config, error) {
	cfg := Default()

	if envPath := os.Getenv(envConfigPath); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			path = envPath
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := loadFile(&cfg, path); err != nil {
				return nil, err
			}
		}
	}

	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadFile merges the file at path into cfg. The parser is chosen by file
// extension; keys absent from the file keep their current values.
func loadFile(cfg *Config, path string) error {
	parser, err := parserFor(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %q: %w", path, err)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return fmt.Errorf("parse config file %q: %w", path, err)
	}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("decode config file %q: %w", path, err)
	}
	return nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return kyaml.Parser(), nil
	case ".json":
		return kjson.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config file extension %q", filepath.Ext(path))
	}
}

// applyEnvOverrides layers WARDEN_* environment variables over cfg.
// Overrides are explicit per field; unparseable numeric or boolean values
// are ignored rather than treated as fatal.
func applyEnvOverrides(cfg *Config) {
	// Basic
	setString(&cfg.Basic.PluginDir, "BASIC_PLUGIN_DIR")
	setString(&cfg.Basic.SQLitePath, "BASIC_SQLITE_PATH")
	setInt(&cfg.Basic.MaxMemoryMB, "BASIC_MAX_MEMORY_MB")
	setInt(&cfg.Basic.MaxCPUPercent, "BASIC_MAX_CPU_PERCENT")
	setInt(&cfg.Basic.MaxFileHandles, "BASIC_MAX_FILE_HANDLES")

	// GRPC
	if val := os.Getenv(envPrefix + "GRPC_MASTERS"); val != "" {
		var masters []string
		for _, m := range strings.Split(val, ",") {
			if m = strings.TrimSpace(m); m != "" {
				masters = append(masters, m)
			}
		}
		if len(masters) > 0 {
			cfg.GRPC.Masters = masters
		}
	}
	setInt(&cfg.GRPC.ConnectTimeoutSecs, "GRPC_CONNECT_TIMEOUT_SECS")
	setInt(&cfg.GRPC.MaxReceiveMessageMB, "GRPC_MAX_RECEIVE_MESSAGE_MB")
	setInt(&cfg.GRPC.MaxSendMessageMB, "GRPC_MAX_SEND_MESSAGE_MB")
	setInt(&cfg.GRPC.Keepalive.TimeSecs, "GRPC_KEEPALIVE_TIME_SECS")
	setInt(&cfg.GRPC.Keepalive.TimeoutSecs, "GRPC_KEEPALIVE_TIMEOUT_SECS")
	setBool(&cfg.GRPC.Keepalive.PermitWithoutCalls, "GRPC_KEEPALIVE_PERMIT_WITHOUT_CALLS")
	setInt(&cfg.GRPC.Reconnect.MaxAttempts, "GRPC_RECONNECT_MAX_ATTEMPTS")
	setInt(&cfg.GRPC.Reconnect.InitialBackoffSecs, "GRPC_RECONNECT_INITIAL_BACKOFF_SECS")
	setInt(&cfg.GRPC.Reconnect.MaxBackoffSecs, "GRPC_RECONNECT_MAX_BACKOFF_SECS")

	// TLS
	setBool(&cfg.TLS.Enable, "TLS_ENABLE")
	setString(&cfg.TLS.CAFile, "TLS_CA_FILE")
	setString(&cfg.TLS.CertFile, "TLS_CERT_FILE")
	setString(&cfg.TLS.KeyFile, "TLS_KEY_FILE")
	setString(&cfg.TLS.ServerNameOverride, "TLS_SERVER_NAME_OVERRIDE")

	// Telemetry
	setString(&cfg.Telemetry.LogLevel, "TELEMETRY_LOG_LEVEL")
	setString(&cfg.Telemetry.LogFormat, "TELEMETRY_LOG_FORMAT")
	setString(&cfg.Telemetry.LogOutput, "TELEMETRY_LOG_OUTPUT")
	setString(&cfg.Telemetry.LogFile, "TELEMETRY_LOG_FILE")
	setInt(&cfg.Telemetry.LogRotation.MaxSizeMB, "TELEMETRY_LOG_ROTATION_MAX_SIZE_MB")
	setInt(&cfg.Telemetry.LogRotation.MaxFiles, "TELEMETRY_LOG_ROTATION_MAX_FILES")
	setBool(&cfg.Telemetry.LogRotation.Compress, "TELEMETRY_LOG_ROTATION_COMPRESS")
	setInt(&cfg.Telemetry.MetricsPort, "TELEMETRY_METRICS_PORT")
	setString(&cfg.Telemetry.MetricsPath, "TELEMETRY_METRICS_PATH")
}

func setString(dst *string, key string) {
	if val := os.Getenv(envPrefix + key); val != "" {
		*dst = val
	}
}

func setInt(dst *int, key string) {
	if val := os.Getenv(envPrefix + key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func setBool(dst *bool, key string) {
	if val := os.Getenv(envPrefix + key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}
