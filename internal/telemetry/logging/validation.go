package logging

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/wardenhq/warden/internal/config"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// validateConfig re-checks the telemetry section on its own. The service is
// normally handed an already-validated config, but a miswired logger fails
// invisibly, so this is the one startup path that is strict (a second line
// of defense behind config.Validate).
func validateConfig(cfg *config.TelemetryConfig) error {
	if cfg == nil {
		return errors.New(errMsgNilConfig)
	}

	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%s: %w", errMsgConfigInvalid, err)
	}

	if cfg.FileEnabled() && strings.TrimSpace(cfg.LogFile) == emptyString {
		return fmt.Errorf("%s: log_file is required when log_output is %q", errMsgConfigInvalid, cfg.LogOutput)
	}

	return nil
}
