package config

// Config is the root configuration for the warden agent.
type Config struct {
	Basic     BasicConfig     `koanf:"basic" validate:"required"`
	GRPC      GRPCConfig      `koanf:"grpc" validate:"required"`
	TLS       TLSConfig       `koanf:"tls"`
	Telemetry TelemetryConfig `koanf:"telemetry" validate:"required"`
}

// BasicConfig holds process-level settings and resource ceilings.
type BasicConfig struct {
	PluginDir      string `koanf:"plugin_dir" validate:"required"`
	SQLitePath     string `koanf:"sqlite_path" validate:"required"`
	MaxMemoryMB    int    `koanf:"max_memory_mb" validate:"gt=0"`
	MaxCPUPercent  int    `koanf:"max_cpu_percent" validate:"gt=0,lte=100"`
	MaxFileHandles int    `koanf:"max_file_handles" validate:"gt=0"`
}

// GRPCConfig configures the connection to the master endpoints.
type GRPCConfig struct {
	Masters             []string        `koanf:"masters" validate:"min=1,dive,required"`
	ConnectTimeoutSecs  int             `koanf:"connect_timeout_secs" validate:"gt=0"`
	MaxReceiveMessageMB int             `koanf:"max_receive_message_mb" validate:"gt=0"`
	MaxSendMessageMB    int             `koanf:"max_send_message_mb" validate:"gt=0"`
	Keepalive           KeepaliveConfig `koanf:"keepalive"`
	Reconnect           ReconnectConfig `koanf:"reconnect"`
}

// KeepaliveConfig controls transport keepalive probing.
type KeepaliveConfig struct {
	TimeSecs           int  `koanf:"time_secs" validate:"gt=0"`
	TimeoutSecs        int  `koanf:"timeout_secs" validate:"gt=0"`
	PermitWithoutCalls bool `koanf:"permit_without_calls"`
}

// ReconnectConfig controls the reconnect backoff schedule.
type ReconnectConfig struct {
	MaxAttempts        int     `koanf:"max_attempts" validate:"gte=0"`
	InitialBackoffSecs int     `koanf:"initial_backoff_secs" validate:"gt=0"`
	MaxBackoffSecs     int     `koanf:"max_backoff_secs" validate:"gt=0"`
	BackoffMultiplier  float64 `koanf:"backoff_multiplier" validate:"gt=0"`
}

// TLSConfig configures mutual TLS towards the masters. All paths may be
// empty when Enable is false.
type TLSConfig struct {
	Enable             bool   `koanf:"enable"`
	CAFile             string `koanf:"ca_file"`
	CertFile           string `koanf:"cert_file"`
	KeyFile            string `koanf:"key_file"`
	ServerNameOverride string `koanf:"server_name_override"`
}

// TelemetryConfig configures logging and the metrics endpoint.
//
// LogFormat and LogLevel govern the formatting and filtering layers; the
// sink underneath transports opaque, already-formatted lines and never
// inspects them.
type TelemetryConfig struct {
	LogLevel    string         `koanf:"log_level" validate:"required,oneof=error warn info debug trace"`
	LogFormat   string         `koanf:"log_format" validate:"required,oneof=json plain"`
	LogOutput   string         `koanf:"log_output" validate:"required,oneof=stdout file both"`
	LogFile     string         `koanf:"log_file"`
	LogRotation RotationConfig `koanf:"log_rotation"`

	MetricsPort int    `koanf:"metrics_port" validate:"gte=0,lte=65535"`
	MetricsPath string `koanf:"metrics_path"`
}

// RotationConfig bounds the size and number of log files on disk.
// MaxFiles counts the active file, so MaxFiles-1 rotated generations are
// retained.
type RotationConfig struct {
	MaxSizeMB int  `koanf:"max_size_mb" validate:"gt=0"`
	MaxFiles  int  `koanf:"max_files" validate:"gt=0"`
	Compress  bool `koanf:"compress"`
}

// FileEnabled reports whether the configured output includes the log file.
func (t *TelemetryConfig) FileEnabled() bool {
	return t.LogOutput == "file" || t.LogOutput == "both"
}

// ConsoleEnabled reports whether the configured output includes stdout.
func (t *TelemetryConfig) ConsoleEnabled() bool {
	return t.LogOutput == "stdout" || t.LogOutput == "both"
}

// Default returns the built-in configuration. File and environment values
// are layered on top of it by Load.
func Default() Config {
	return Config{
		Basic: BasicConfig{
			PluginDir:      "./plugins",
			SQLitePath:     "./data/db.sqlite",
			MaxMemoryMB:    32,
			MaxCPUPercent:  3,
			MaxFileHandles: 32,
		},
		GRPC: GRPCConfig{
			Masters:             []string{"127.0.0.1:50051"},
			ConnectTimeoutSecs:  5,
			MaxReceiveMessageMB: 16,
			MaxSendMessageMB:    16,
			Keepalive: KeepaliveConfig{
				TimeSecs:           30,
				TimeoutSecs:        5,
				PermitWithoutCalls: true,
			},
			Reconnect: ReconnectConfig{
				MaxAttempts:        5,
				InitialBackoffSecs: 1,
				MaxBackoffSecs:     20,
				BackoffMultiplier:  2.0,
			},
		},
		TLS: TLSConfig{},
		Telemetry: TelemetryConfig{
			LogLevel:  "info",
			LogFormat: "json",
			LogOutput: "stdout",
			LogFile:   "./log/agent.log",
			LogRotation: RotationConfig{
				MaxSizeMB: 100,
				MaxFiles:  7,
				Compress:  true,
			},
			MetricsPort: 9090,
			MetricsPath: "/metrics",
		},
	}
}
