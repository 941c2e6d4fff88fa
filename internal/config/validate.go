package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// Validate checks structural constraints (tags) plus the cross-field rules
// the tags cannot express. It is called by Load and again by callers that
// mutate a Config by hand.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	if cfg.Telemetry.FileEnabled() && strings.TrimSpace(cfg.Telemetry.LogFile) == "" {
		return errors.New("config validation: telemetry.log_file is required when log_output is file or both")
	}
	if cfg.TLS.Enable {
		if cfg.TLS.CertFile == "" || cfg.TLS.KeyFile == "" {
			return errors.New("config validation: tls.cert_file and tls.key_file are required when tls.enable is true")
		}
	}
	if cfg.GRPC.Reconnect.MaxBackoffSecs < cfg.GRPC.Reconnect.InitialBackoffSecs {
		return errors.New("config validation: grpc.reconnect.max_backoff_secs must be >= initial_backoff_secs")
	}

	return nil
}
